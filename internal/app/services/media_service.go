package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/objectstore"
)

// Upload is a file received by the API for server-side storage
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaService manages session photos and recordings
type MediaService interface {
	SignUpload(ctx context.Context, actor models.Actor, sessionID string, req *dto.SignUploadRequest) (*dto.SignUploadResponse, error)
	RegisterMedia(ctx context.Context, actor models.Actor, sessionID string, req *dto.RegisterMediaRequest) (*models.Media, error)
	UploadMedia(ctx context.Context, actor models.Actor, sessionID string, kind models.MediaKind, caption string, upload Upload) (*models.Media, error)
	ListMedia(ctx context.Context, sessionID string, kind models.MediaKind) ([]models.Media, error)
	DeleteMedia(ctx context.Context, actor models.Actor, kind models.MediaKind, id string) error
}

type mediaServiceImpl struct {
	media     MediaStore
	sessions  SessionStore
	store     objectstore.Store
	signedTTL time.Duration
	logger    zerolog.Logger
}

// NewMediaService creates a new MediaService. signedTTL is the lifetime of
// presigned upload URLs as configured on the store.
func NewMediaService(media MediaStore, sessions SessionStore, store objectstore.Store, signedTTL time.Duration, logger zerolog.Logger) MediaService {
	return &mediaServiceImpl{
		media:     media,
		sessions:  sessions,
		store:     store,
		signedTTL: signedTTL,
		logger:    logger,
	}
}

func checkKind(kind models.MediaKind) error {
	if !kind.Valid() {
		return apperrors.NewBadRequestError("kind must be photo or recording")
	}
	return nil
}

// SignUpload issues a presigned PUT URL for a direct client upload
func (s *mediaServiceImpl) SignUpload(ctx context.Context, actor models.Actor, sessionID string, req *dto.SignUploadRequest) (*dto.SignUploadResponse, error) {
	if err := checkKind(req.Kind); err != nil {
		return nil, err
	}
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	key := objectstore.SessionMediaKey(sessionID, string(req.Kind), req.FileName)
	url, err := s.store.SignUpload(ctx, key, req.ContentType)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to sign upload")
		return nil, err
	}

	s.logger.Debug().Str("key", key).Str("userID", actor.UserID).Msg("Upload URL issued")
	return &dto.SignUploadResponse{
		UploadURL:   url,
		StoragePath: key,
		ExpiresIn:   int64(s.signedTTL.Seconds()),
	}, nil
}

// RegisterMedia records an object the client uploaded with a signed URL
func (s *mediaServiceImpl) RegisterMedia(ctx context.Context, actor models.Actor, sessionID string, req *dto.RegisterMediaRequest) (*models.Media, error) {
	if err := checkKind(req.Kind); err != nil {
		return nil, err
	}
	if !objectstore.BelongsToSession(req.StoragePath, sessionID, string(req.Kind)) {
		return nil, apperrors.NewBadRequestError("storagePath was not issued for this session and kind")
	}

	m := &models.Media{
		SessionID:   sessionID,
		Kind:        req.Kind,
		UserID:      actor.UserID,
		StoragePath: req.StoragePath,
		Caption:     strings.TrimSpace(req.Caption),
		ContentType: req.ContentType,
	}
	if err := s.media.Create(ctx, m); err != nil {
		return nil, err
	}
	m.URL = s.store.PublicURL(m.StoragePath)
	return m, nil
}

// UploadMedia stores the file itself, then records it. A failed insert
// removes the stored object again.
func (s *mediaServiceImpl) UploadMedia(ctx context.Context, actor models.Actor, sessionID string, kind models.MediaKind, caption string, upload Upload) (*models.Media, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := objectstore.SessionMediaKey(sessionID, string(kind), upload.FileName)
	if err := s.store.Put(ctx, key, upload.Body, upload.Size, contentType, false); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to store media object")
		return nil, err
	}

	m := &models.Media{
		SessionID:   sessionID,
		Kind:        kind,
		UserID:      actor.UserID,
		StoragePath: key,
		Caption:     strings.TrimSpace(caption),
		ContentType: contentType,
	}
	if err := s.media.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to record media, removing object")
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error().Err(delErr).Str("key", key).Msg("Failed to remove orphaned media object")
		}
		return nil, err
	}

	m.URL = s.store.PublicURL(key)
	s.logger.Info().Str("mediaID", m.ID).Str("sessionID", sessionID).Str("kind", string(kind)).Msg("Media uploaded")
	return m, nil
}

// ListMedia returns a session's media of one kind with public URLs
func (s *mediaServiceImpl) ListMedia(ctx context.Context, sessionID string, kind models.MediaKind) ([]models.Media, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	items, err := s.media.List(ctx, sessionID, kind)
	if err != nil {
		s.logger.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to list media")
		return nil, err
	}
	for i := range items {
		items[i].URL = s.store.PublicURL(items[i].StoragePath)
	}
	return items, nil
}

// DeleteMedia removes the stored object, then its row. Owner or admin only.
func (s *mediaServiceImpl) DeleteMedia(ctx context.Context, actor models.Actor, kind models.MediaKind, id string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	m, err := s.media.GetByID(ctx, kind, id)
	if err != nil {
		return err
	}
	if !actor.CanActFor(m.UserID) {
		return apperrors.NewForbiddenError("Only the uploader or an admin can delete media")
	}

	if err := s.store.Delete(ctx, m.StoragePath); err != nil {
		s.logger.Error().Err(err).Str("key", m.StoragePath).Msg("Failed to delete media object")
		return err
	}
	if err := s.media.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("mediaID", id).Msg("Failed to delete media row")
		return err
	}
	return nil
}
