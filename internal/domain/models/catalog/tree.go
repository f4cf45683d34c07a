package catalog

import "time"

// TreeNode is one item of a remote drive listing, file or folder.
// ChildCount is only meaningful when IsFolder is true.
type TreeNode struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	WebURL           string    `json:"web_url"`
	Size             int64     `json:"size"`
	CreatedAt        time.Time `json:"created_at"`
	ModifiedAt       time.Time `json:"modified_at"`
	DownloadURL      *string   `json:"download_url,omitempty"`
	IsFolder         bool      `json:"is_folder"`
	ChildCount       int       `json:"child_count"`
	ParentFolderID   string    `json:"parent_folder_id,omitempty"`
	ParentFolderName string    `json:"parent_folder_name,omitempty"`
}

// Expandable reports whether the node is a folder with at least one child.
// Empty folders are neither expanded nor emitted as files.
func (n TreeNode) Expandable() bool {
	return n.IsFolder && n.ChildCount != 0
}

// IsFile reports whether the node is a genuine leaf file.
func (n TreeNode) IsFile() bool {
	return !n.IsFolder
}
