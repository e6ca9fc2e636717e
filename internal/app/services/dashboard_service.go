package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/helpers"
	"golang.org/x/sync/errgroup"
)

// DashboardService builds the admin overview
type DashboardService interface {
	Stats(ctx context.Context, actor models.Actor) (*dto.DashboardStats, error)
}

type dashboardServiceImpl struct {
	users    UserStore
	sessions SessionStore
	songs    SongStore
	feedback FeedbackStore
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(users UserStore, sessions SessionStore, songs SongStore, feedback FeedbackStore, logger zerolog.Logger) DashboardService {
	return &dashboardServiceImpl{
		users:    users,
		sessions: sessions,
		songs:    songs,
		feedback: feedback,
		logger:   logger,
		now:      time.Now,
	}
}

// Stats counts the four overview figures concurrently. Any failed count fails
// the whole call.
func (s *dashboardServiceImpl) Stats(ctx context.Context, actor models.Actor) (*dto.DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can view the dashboard")
	}

	var stats dto.DashboardStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.PendingUsers, err = s.users.CountByStatus(ctx, models.UserStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.UpcomingSessions, err = s.sessions.CountFrom(ctx, helpers.StartOfDay(s.now()))
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveSongs, err = s.songs.CountByStatus(ctx, models.SongStatusActive)
		return err
	})
	g.Go(func() (err error) {
		stats.OpenFeedback, err = s.feedback.CountOpen(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to build dashboard")
		return nil, err
	}
	return &stats, nil
}
