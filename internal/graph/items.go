package graph

import (
	"time"

	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
)

// itemPage is one page of a driveItem collection
type itemPage struct {
	Value    []driveItem `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

// driveItem is the subset of the Graph driveItem resource the catalog reads
type driveItem struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	WebURL               string           `json:"webUrl"`
	Size                 int64            `json:"size"`
	CreatedDateTime      string           `json:"createdDateTime"`
	LastModifiedDateTime string           `json:"lastModifiedDateTime"`
	DownloadURL          string           `json:"@microsoft.graph.downloadUrl"`
	Folder               *folderFacet     `json:"folder"`
	ParentReference      *itemReference   `json:"parentReference"`
	RemoteItem           *remoteItemFacet `json:"remoteItem"`
}

type folderFacet struct {
	ChildCount int `json:"childCount"`
}

type itemReference struct {
	DriveID string `json:"driveId"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Path    string `json:"path"`
}

// remoteItemFacet appears on items shared from another drive (e.g. in /recent)
type remoteItemFacet struct {
	WebURL          string         `json:"webUrl"`
	Size            int64          `json:"size"`
	Folder          *folderFacet   `json:"folder"`
	ParentReference *itemReference `json:"parentReference"`
}

func toNodes(items []driveItem) []models.TreeNode {
	nodes := make([]models.TreeNode, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, item.toNode())
	}
	return nodes
}

func (it driveItem) toNode() models.TreeNode {
	node := models.TreeNode{
		ID:         it.ID,
		Name:       it.Name,
		WebURL:     it.WebURL,
		Size:       it.Size,
		CreatedAt:  parseTime(it.CreatedDateTime),
		ModifiedAt: parseTime(it.LastModifiedDateTime),
	}

	folder, parent := it.Folder, it.ParentReference
	if it.RemoteItem != nil {
		if folder == nil {
			folder = it.RemoteItem.Folder
		}
		if parent == nil {
			parent = it.RemoteItem.ParentReference
		}
		if node.WebURL == "" {
			node.WebURL = it.RemoteItem.WebURL
		}
		if node.Size == 0 {
			node.Size = it.RemoteItem.Size
		}
	}

	if it.DownloadURL != "" {
		u := it.DownloadURL
		node.DownloadURL = &u
	}
	if folder != nil {
		node.IsFolder = true
		node.ChildCount = folder.ChildCount
	}
	if parent != nil {
		node.ParentFolderID = parent.ID
		node.ParentFolderName = parent.Name
	}
	return node
}

// parseTime returns the zero time for absent or malformed timestamps
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
