package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/FTI-LMS/LMS/internal/config"
	"github.com/FTI-LMS/LMS/internal/domain"
	models "github.com/FTI-LMS/LMS/internal/domain/models/catalog"
	catalogSvc "github.com/FTI-LMS/LMS/internal/domain/services/catalog"
)

// driveService implements the DriveService interface
type driveService struct {
	clients catalogSvc.ClientFactory
	logger  *slog.Logger
}

// NewDriveService creates a new drive proxy service
func NewDriveService(clients catalogSvc.ClientFactory, logger *slog.Logger) catalogSvc.DriveService {
	return &driveService{
		clients: clients,
		logger:  logger,
	}
}

// UserInfo returns the raw profile of the token's owner
func (s *driveService) UserInfo(ctx context.Context, accessToken string) (json.RawMessage, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: access token is required", domain.ErrUnauthorized)
	}
	return s.clients.Drive(accessToken).Me(ctx)
}

// ListRootFiles lists the root of the user's drive
func (s *driveService) ListRootFiles(ctx context.Context, accessToken string) ([]models.TreeNode, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: access token is required", domain.ErrUnauthorized)
	}
	return s.clients.Drive(accessToken).RootChildren(ctx)
}

// ListRecentFiles lists recently used files; a zero limit means the default page
func (s *driveService) ListRecentFiles(ctx context.Context, accessToken string, limit int) ([]models.TreeNode, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: access token is required", domain.ErrUnauthorized)
	}
	if limit == 0 {
		limit = config.DefaultRecentLimit
	}
	if err := validateRecentLimit(limit); err != nil {
		return nil, fmt.Errorf("%w: limit: %v", domain.ErrValidation, err)
	}
	return s.clients.Drive(accessToken).Recent(ctx, limit)
}

// ListChildren lists one level below an item without traversing or persisting
func (s *driveService) ListChildren(ctx context.Context, req *catalogSvc.ListChildrenRequest) ([]models.TreeNode, error) {
	if err := validateListChildrenRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	children, err := s.clients.Drive(req.AccessToken).ListChildren(ctx, req.DriveID, req.ItemID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("children listed",
		"drive_id", req.DriveID,
		"item_id", req.ItemID,
		"count", len(children),
	)
	return children, nil
}
