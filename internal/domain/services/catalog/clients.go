package catalog

import (
	"context"
	"encoding/json"

	"github.com/FTI-LMS/LMS/internal/domain/models/catalog"
)

// TreeClient lists the immediate children of a remote drive item.
// Children are returned in the order the store lists them.
// Failures are reported as *domain.RemoteFetchError.
type TreeClient interface {
	ListChildren(ctx context.Context, driveID, itemID string) ([]catalog.TreeNode, error)
}

// EnrichmentClient classifies one file.
// Failures are reported as *domain.EnrichmentError.
type EnrichmentClient interface {
	Enrich(ctx context.Context, fileName, driveID, itemID string) (catalog.EnrichedMetadata, error)
}

// DriveClient is the per-token view of the remote drive used by the proxy endpoints.
type DriveClient interface {
	TreeClient

	// Me returns the raw profile of the signed-in user
	Me(ctx context.Context) (json.RawMessage, error)

	// RootChildren lists the root of the signed-in user's drive
	RootChildren(ctx context.Context) ([]catalog.TreeNode, error)

	// Recent lists recently used files, at most limit entries
	Recent(ctx context.Context, limit int) ([]catalog.TreeNode, error)
}

// ClientFactory binds remote clients to the caller's access token.
type ClientFactory interface {
	Drive(accessToken string) DriveClient
	Enrichment(accessToken string) EnrichmentClient
}
