package clients

import (
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"
	"github.com/FTI-LMS/LMS/internal/enrichment"
	"github.com/FTI-LMS/LMS/internal/graph"
)

// Factory binds the Graph and classification clients to a caller's token
type Factory struct {
	graph  *graph.Client
	enrich *enrichment.Client
}

// NewFactory creates a client factory over shared, concurrency-safe clients
func NewFactory(graphClient *graph.Client, enrichClient *enrichment.Client) *Factory {
	return &Factory{
		graph:  graphClient,
		enrich: enrichClient,
	}
}

// Drive implements catalog.ClientFactory
func (f *Factory) Drive(accessToken string) catalogSvc.DriveClient {
	return f.graph.Session(accessToken)
}

// Enrichment implements catalog.ClientFactory
func (f *Factory) Enrichment(accessToken string) catalogSvc.EnrichmentClient {
	return f.enrich.WithToken(accessToken)
}
