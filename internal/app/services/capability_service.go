package services

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/helpers"
)

// CapabilityService manages the capability catalog
type CapabilityService interface {
	ListCapabilities(ctx context.Context) ([]models.Capability, error)
	CreateCapability(ctx context.Context, actor models.Actor, req *dto.CreateCapabilityRequest) (*models.Capability, error)
	DeleteCapability(ctx context.Context, actor models.Actor, id string) error
	SyncFromIconDirectory(ctx context.Context, actor models.Actor) (*dto.CapabilitySyncResult, error)
}

type capabilityServiceImpl struct {
	caps       CapabilityStore
	icons      fs.FS
	iconPrefix string
	logger     zerolog.Logger
}

// NewCapabilityService creates a new CapabilityService. icons is the icon
// directory; iconPrefix is the public path the icons are served under.
func NewCapabilityService(caps CapabilityStore, icons fs.FS, iconPrefix string, logger zerolog.Logger) CapabilityService {
	return &capabilityServiceImpl{
		caps:       caps,
		icons:      icons,
		iconPrefix: strings.TrimSuffix(iconPrefix, "/"),
		logger:     logger,
	}
}

// ListCapabilities returns the whole catalog ordered by name
func (s *capabilityServiceImpl) ListCapabilities(ctx context.Context) ([]models.Capability, error) {
	caps, err := s.caps.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list capabilities")
		return nil, err
	}
	return caps, nil
}

// CreateCapability adds a capability by hand
func (s *capabilityServiceImpl) CreateCapability(ctx context.Context, actor models.Actor, req *dto.CreateCapabilityRequest) (*models.Capability, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can manage capabilities")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewBadRequestError("name must not be empty")
	}

	c := &models.Capability{Name: name, Icon: strings.TrimSpace(req.Icon)}
	if err := s.caps.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCapability removes a capability and its assignments
func (s *capabilityServiceImpl) DeleteCapability(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("Only admins can manage capabilities")
	}
	return s.caps.Delete(ctx, id)
}

// SyncFromIconDirectory makes the catalog match the icon directory: one
// capability per image file, named after the file. Unknown names are added,
// changed icons are updated, and matching rows are left untouched.
func (s *capabilityServiceImpl) SyncFromIconDirectory(ctx context.Context, actor models.Actor) (*dto.CapabilitySyncResult, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can sync capabilities")
	}

	entries, err := fs.ReadDir(s.icons, ".")
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read capability icon directory")
		return nil, apperrors.NewUpstreamError("Failed to read icon directory", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && helpers.IsIconFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	result := &dto.CapabilitySyncResult{}
	seen := make(map[string]bool, len(files))
	for _, file := range files {
		name := helpers.DisplayNameFromFilename(file)
		// first file in name order wins when two files map to one name
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		result.Total++
		icon := path.Join(s.iconPrefix, file)

		existing, err := s.caps.FindByName(ctx, name)
		switch {
		case apperrors.Is(err, apperrors.ErrResourceNotFound):
			if err := s.caps.Create(ctx, &models.Capability{Name: name, Icon: icon}); err != nil {
				s.logger.Error().Err(err).Str("name", name).Msg("Failed to add capability from icon")
				return nil, err
			}
			result.Added++
		case err != nil:
			s.logger.Error().Err(err).Str("name", name).Msg("Failed to look up capability")
			return nil, err
		case existing.Icon != icon:
			if err := s.caps.UpdateIcon(ctx, existing.ID, icon); err != nil {
				s.logger.Error().Err(err).Str("name", name).Msg("Failed to update capability icon")
				return nil, err
			}
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	s.logger.Info().
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("unchanged", result.Unchanged).
		Msg("Capability icon sync complete")
	return result, nil
}
