package catalog

import (
	catalogRepo "github.com/FTI-LMS/LMS/internal/domain/repositories/catalog"
	"github.com/FTI-LMS/LMS/internal/repository/postgres"
)

// NewStore wires every catalog repository against one pool
func NewStore(config *postgres.RepositoryConfig) catalogRepo.Store {
	return catalogRepo.Store{
		VideoFiles:      NewVideoFileRepository(config),
		Masters:         NewTrainingMasterRepository(config),
		Details:         NewTrainingDetailRepository(config),
		CategoryDetails: NewCategoryDetailsRepository(config),
	}
}
