package catalog

import (
	"github.com/FTI-LMS/LMS/internal/config"
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func validateBuildRequest(req *catalogSvc.BuildCatalogRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AccessToken, validation.Required),
		validation.Field(&req.DriveID, validation.Required, validation.Length(1, config.MaxRemoteIDLength)),
		validation.Field(&req.ItemID, validation.Required, validation.Length(1, config.MaxRemoteIDLength)),
	)
}

func validateRebuildRequest(req *catalogSvc.RebuildCatalogRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AccessToken, validation.Required),
	)
}

func validateListChildrenRequest(req *catalogSvc.ListChildrenRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.AccessToken, validation.Required),
		validation.Field(&req.DriveID, validation.Required, validation.Length(1, config.MaxRemoteIDLength)),
		validation.Field(&req.ItemID, validation.Required, validation.Length(1, config.MaxRemoteIDLength)),
	)
}

func validateRecentLimit(limit int) error {
	return validation.Validate(limit, validation.Min(1), validation.Max(config.MaxRecentLimit))
}

func validateTrainingID(id string) error {
	return validation.Validate(id, validation.Required, validation.Length(1, config.MaxRemoteIDLength))
}
