package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/helpers"
	"github.com/yigit/bandhub/internal/pkg/validation"
)

// SessionService manages rehearsal sessions and their set-lists
type SessionService interface {
	CreateSession(ctx context.Context, actor models.Actor, req *dto.CreateSessionRequest) (*models.Session, error)
	ListSessions(ctx context.Context, from *time.Time) ([]models.Session, error)
	GetSession(ctx context.Context, id string) (*dto.SessionDetailResponse, error)
	DeleteSession(ctx context.Context, actor models.Actor, id string) error
	AddSongToSession(ctx context.Context, actor models.Actor, sessionID, songID string) (*models.SetListEntry, error)
	RemoveSongFromSession(ctx context.Context, actor models.Actor, sessionID, songID string) error
	ReorderSetList(ctx context.Context, actor models.Actor, sessionID string, songIDs []string) ([]models.SetListEntry, error)
}

type sessionServiceImpl struct {
	sessions    SessionStore
	setList     SetListStore
	commitments CommitmentStore
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions SessionStore, setList SetListStore, commitments CommitmentStore, logger zerolog.Logger) SessionService {
	return &sessionServiceImpl{
		sessions:    sessions,
		setList:     setList,
		commitments: commitments,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateSession schedules a rehearsal; times are HH:MM and end after start
func (s *sessionServiceImpl) CreateSession(ctx context.Context, actor models.Actor, req *dto.CreateSessionRequest) (*models.Session, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can schedule sessions")
	}

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewBadRequestError("date must be YYYY-MM-DD")
	}
	if !validation.IsClock(req.StartTime) || !validation.IsClock(req.EndTime) {
		return nil, apperrors.NewBadRequestError("startTime and endTime must be HH:MM")
	}
	start, _ := helpers.ClockMinutes(req.StartTime)
	end, _ := helpers.ClockMinutes(req.EndTime)
	if end <= start {
		return nil, apperrors.NewBadRequestError("endTime must be after startTime")
	}

	createdBy := actor.UserID
	session := &models.Session{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Title:     strings.TrimSpace(req.Title),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedBy: &createdBy,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error().Err(err).Msg("Failed to create session")
		return nil, err
	}

	s.logger.Info().Str("sessionID", session.ID).Str("date", req.Date).Msg("Session scheduled")
	return session, nil
}

// ListSessions returns sessions from the given day on, today by default
func (s *sessionServiceImpl) ListSessions(ctx context.Context, from *time.Time) ([]models.Session, error) {
	start := helpers.StartOfDay(s.now())
	if from != nil {
		start = helpers.StartOfDay(*from)
	}
	sessions, err := s.sessions.ListFrom(ctx, start)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list sessions")
		return nil, err
	}
	return sessions, nil
}

// GetSession returns a session with its ordered set-list and roster
func (s *sessionServiceImpl) GetSession(ctx context.Context, id string) (*dto.SessionDetailResponse, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	setList, err := s.setList.List(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("sessionID", id).Msg("Failed to load set-list")
		return nil, err
	}
	roster, err := s.commitments.Roster(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("sessionID", id).Msg("Failed to load roster")
		return nil, err
	}
	return &dto.SessionDetailResponse{Session: *session, SetList: setList, Roster: roster}, nil
}

// DeleteSession removes a session with everything it owns
func (s *sessionServiceImpl) DeleteSession(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("Only admins can delete sessions")
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("sessionID", id).Str("by", actor.UserID).Msg("Session deleted")
	return nil
}

// AddSongToSession appends a song to the set-list
func (s *sessionServiceImpl) AddSongToSession(ctx context.Context, actor models.Actor, sessionID, songID string) (*models.SetListEntry, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can edit set-lists")
	}
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.setList.Append(ctx, sessionID, songID)
}

// RemoveSongFromSession takes a song off the set-list
func (s *sessionServiceImpl) RemoveSongFromSession(ctx context.Context, actor models.Actor, sessionID, songID string) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("Only admins can edit set-lists")
	}
	return s.setList.Remove(ctx, sessionID, songID)
}

// ReorderSetList rewrites the play order. songIDs must name exactly the songs
// currently on the set-list.
func (s *sessionServiceImpl) ReorderSetList(ctx context.Context, actor models.Actor, sessionID string, songIDs []string) ([]models.SetListEntry, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can edit set-lists")
	}

	current, err := s.setList.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sameSongs(current, songIDs) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("songIds must list the %d songs on the set-list exactly once", len(current)))
	}

	if err := s.setList.Reorder(ctx, sessionID, songIDs); err != nil {
		s.logger.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to reorder set-list")
		return nil, err
	}
	return s.setList.List(ctx, sessionID)
}

func sameSongs(entries []models.SetListEntry, songIDs []string) bool {
	if len(entries) != len(songIDs) {
		return false
	}
	have := make([]string, len(entries))
	for i, e := range entries {
		have[i] = e.SongID
	}
	want := append([]string(nil), songIDs...)
	sort.Strings(have)
	sort.Strings(want)
	for i := range have {
		if have[i] != want[i] {
			return false
		}
	}
	return true
}
