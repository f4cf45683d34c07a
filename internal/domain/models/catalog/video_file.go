package catalog

// VideoFile is the flat record emitted by the traversal for every leaf file,
// tagged with the identity of its immediate parent folder.
type VideoFile struct {
	ID           int64  `json:"id,omitempty" db:"id"`
	RunID        string `json:"run_id,omitempty" db:"run_id"`
	FileName     string `json:"file_name" db:"file_name"`
	FilePath     string `json:"file_path" db:"file_path"`
	ItemID       string `json:"item_id" db:"item_id"`
	DriveID      string `json:"drive_id" db:"drive_id"`
	FolderID     string `json:"folder_id" db:"folder_id"`
	FolderName   string `json:"folder_name" db:"folder_name"`
	FolderPath   string `json:"folder_path,omitempty" db:"folder_path"`
	SiblingCount int    `json:"sibling_count" db:"file_count"`
}

// FolderRef identifies the folder a listing belongs to.
type FolderRef struct {
	ID   string
	Name string
	Path string
}
