package catalog

import (
	"context"
	"log/slog"

	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"
)

// Traverser flattens a remote folder tree into file records.
//
// Folders are expanded from an explicit worklist with at most `concurrency`
// listings in flight. Listings are kept per folder and flattened afterwards in
// listing order, depth-first, so the output does not depend on which listing
// returns first. Each folder is listed exactly once per call. The tree is
// assumed to be finite and acyclic.
type Traverser struct {
	client      catalogSvc.TreeClient
	concurrency int
	logger      *slog.Logger
}

// NewTraverser creates a traverser; concurrency below 1 means sequential.
func NewTraverser(client catalogSvc.TreeClient, concurrency int, logger *slog.Logger) *Traverser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Traverser{
		client:      client,
		concurrency: concurrency,
		logger:      logger,
	}
}

// folderListing holds the children of one expanded folder.
// subfolders maps a child position to the listing expanding that child.
type folderListing struct {
	folder     models.FolderRef
	children   []models.TreeNode
	subfolders map[int]int
}

type listingResult struct {
	listing  int
	children []models.TreeNode
	err      error
}

// Traverse lists rootItemID and every non-empty folder below it and returns one
// record per leaf file. A file is tagged with the folder whose listing contained
// it. Any listing failure aborts the whole traversal.
func (t *Traverser) Traverse(ctx context.Context, driveID, rootItemID string) ([]models.VideoFile, error) {
	listings, err := t.expand(ctx, driveID, rootItemID)
	if err != nil {
		return nil, err
	}

	files := flatten(driveID, listings)

	t.logger.Info("tree traversed",
		"drive_id", driveID,
		"root_item_id", rootItemID,
		"folder_count", len(listings),
		"file_count", len(files),
	)

	return files, nil
}

// expand runs the worklist until every non-empty folder has been listed.
// listings[0] is always the root.
func (t *Traverser) expand(ctx context.Context, driveID, rootItemID string) ([]*folderListing, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listings := []*folderListing{{folder: models.FolderRef{ID: rootItemID}}}
	pending := []int{0}
	results := make(chan listingResult)
	inFlight := 0
	var firstErr error

	for len(pending) > 0 || inFlight > 0 {
		for firstErr == nil && len(pending) > 0 && inFlight < t.concurrency {
			if err := ctx.Err(); err != nil {
				firstErr = err
				break
			}
			idx := pending[0]
			pending = pending[1:]
			inFlight++
			go t.list(ctx, driveID, idx, listings[idx].folder.ID, results)
		}
		if inFlight == 0 {
			break
		}

		res := <-results
		inFlight--
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		if firstErr != nil {
			continue
		}

		listing := listings[res.listing]
		listing.children = res.children
		if listing.folder.Name == "" {
			listing.folder.Name = parentName(res.children)
		}

		for pos, child := range res.children {
			if !child.Expandable() {
				continue
			}
			if listing.subfolders == nil {
				listing.subfolders = make(map[int]int)
			}
			listings = append(listings, &folderListing{
				folder: models.FolderRef{ID: child.ID, Name: child.Name, Path: child.WebURL},
			})
			listing.subfolders[pos] = len(listings) - 1
			pending = append(pending, len(listings)-1)
		}

		t.logger.Debug("folder expanded",
			"drive_id", driveID,
			"folder_id", listing.folder.ID,
			"child_count", len(res.children),
			"subfolder_count", len(listing.subfolders),
		)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return listings, nil
}

func (t *Traverser) list(ctx context.Context, driveID string, listing int, itemID string, results chan<- listingResult) {
	children, err := t.client.ListChildren(ctx, driveID, itemID)
	results <- listingResult{listing: listing, children: children, err: err}
}

// flatten walks the listings depth-first with an explicit stack.
func flatten(driveID string, listings []*folderListing) []models.VideoFile {
	type frame struct {
		listing int
		next    int
	}

	files := make([]models.VideoFile, 0)
	stack := []frame{{listing: 0}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		listing := listings[top.listing]
		if top.next >= len(listing.children) {
			stack = stack[:len(stack)-1]
			continue
		}

		pos := top.next
		top.next++
		child := listing.children[pos]

		if sub, ok := listing.subfolders[pos]; ok {
			stack = append(stack, frame{listing: sub})
			continue
		}
		if !child.IsFile() {
			// empty folder
			continue
		}

		files = append(files, models.VideoFile{
			FileName:     child.Name,
			FilePath:     child.WebURL,
			ItemID:       child.ID,
			DriveID:      driveID,
			FolderID:     listing.folder.ID,
			FolderName:   listing.folder.Name,
			FolderPath:   listing.folder.Path,
			SiblingCount: len(listing.children),
		})
	}

	return files
}

// parentName recovers a folder's name from the parent reference its children carry.
func parentName(children []models.TreeNode) string {
	for _, child := range children {
		if child.ParentFolderName != "" {
			return child.ParentFolderName
		}
	}
	return ""
}
