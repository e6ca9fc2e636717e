package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/email"
	"github.com/yigit/bandhub/internal/pkg/helpers"
	"github.com/yigit/bandhub/internal/pkg/sms"
)

// Invite outcomes
const (
	InviteSent    = "sent"
	InviteSkipped = "skipped"
	InviteFailed  = "failed"
)

// NotificationService sends session invites and reminders
type NotificationService interface {
	SendInvites(ctx context.Context, actor models.Actor, sessionID string, req *dto.SendInvitesRequest) ([]dto.InviteResult, error)
	SendSMSReminder(ctx context.Context, actor models.Actor, sessionID, message string) (*dto.SMSReport, error)
}

// NotificationConfig holds dispatcher settings
type NotificationConfig struct {
	// PublicURL is the app address invite links point at
	PublicURL string
	// CountryCode is prefixed to ten-digit national phone numbers
	CountryCode string
}

type notificationServiceImpl struct {
	sessions    SessionStore
	users       UserStore
	commitments CommitmentStore
	mailer      email.Sender
	texter      sms.Sender
	config      NotificationConfig
	logger      zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	sessions SessionStore,
	users UserStore,
	commitments CommitmentStore,
	mailer email.Sender,
	texter sms.Sender,
	config NotificationConfig,
	logger zerolog.Logger,
) NotificationService {
	if config.CountryCode == "" {
		config.CountryCode = "1"
	}
	return &notificationServiceImpl{
		sessions:    sessions,
		users:       users,
		commitments: commitments,
		mailer:      mailer,
		texter:      texter,
		config:      config,
		logger:      logger,
	}
}

// SendInvites emails one invite per listed user. Addresses always come from
// the user directory; candidates only supply display names. Every recipient
// gets an outcome and a failed send never stops the batch.
func (s *notificationServiceImpl) SendInvites(ctx context.Context, actor models.Actor, sessionID string, req *dto.SendInvitesRequest) ([]dto.InviteResult, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can send invites")
	}

	ids := req.UserIDs
	if len(ids) == 0 {
		for _, c := range req.Candidates {
			if c.UserID != "" {
				ids = append(ids, c.UserID)
			}
		}
	}
	if len(ids) == 0 {
		return nil, apperrors.NewBadRequestError("userIds must not be empty")
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sender, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to resolve invite recipients")
		return nil, err
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	names := make(map[string]string, len(req.Candidates))
	for _, c := range req.Candidates {
		if name := strings.TrimSpace(c.Name); name != "" {
			names[c.UserID] = name
		}
	}

	link := strings.TrimSuffix(s.config.PublicURL, "/") + "/sessions/" + session.ID
	when := helpers.FormatSessionWhen(session.Date, session.StartTime, session.EndTime)

	results := make([]dto.InviteResult, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		user, ok := byID[id]
		if !ok {
			results = append(results, dto.InviteResult{UserID: id, Status: InviteSkipped, Error: "user not found"})
			continue
		}
		if strings.TrimSpace(user.Email) == "" {
			results = append(results, dto.InviteResult{UserID: id, Status: InviteSkipped, Error: "no email address"})
			continue
		}

		name := user.Name
		if override, ok := names[id]; ok {
			name = override
		}

		subject, html, err := email.RenderSessionInvite(email.InviteData{
			RecipientName: name,
			SenderName:    sender.Name,
			Title:         session.Title,
			When:          when,
			Note:          req.Message,
			Link:          link,
		})
		if err == nil {
			err = s.mailer.Send(ctx, email.Message{To: []string{user.Email}, Subject: subject, HTML: html})
		}
		if err != nil {
			s.logger.Error().Err(err).Str("userID", id).Str("sessionID", sessionID).Msg("Failed to send invite")
			results = append(results, dto.InviteResult{UserID: id, Email: user.Email, Status: InviteFailed, Error: "delivery failed"})
			continue
		}
		results = append(results, dto.InviteResult{UserID: id, Email: user.Email, Status: InviteSent})
	}

	s.logger.Info().Str("sessionID", sessionID).Int("recipients", len(results)).Msg("Session invites processed")
	return results, nil
}

// SendSMSReminder texts every committed member with a usable phone number.
// Sends run concurrently and are tallied independently.
func (s *notificationServiceImpl) SendSMSReminder(ctx context.Context, actor models.Actor, sessionID, message string) (*dto.SMSReport, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("Only admins can send reminders")
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	roster, err := s.commitments.Roster(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to load roster")
		return nil, err
	}

	report := &dto.SMSReport{}
	var phones []string
	seen := make(map[string]bool, len(roster))
	for _, entry := range roster {
		phone, ok := helpers.NormalizePhone(helpers.StringValue(entry.UserPhone), s.config.CountryCode)
		if !ok {
			report.Skipped++
			continue
		}
		if seen[phone] {
			continue
		}
		seen[phone] = true
		phones = append(phones, phone)
	}
	report.Recipients = len(phones)

	body := strings.TrimSpace(message)
	if body == "" {
		body = defaultReminder(session)
	}

	var sent, failed int64
	var wg sync.WaitGroup
	for _, phone := range phones {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			if err := s.texter.Send(ctx, to, body); err != nil {
				s.logger.Error().Err(err).Str("to", to).Str("sessionID", sessionID).Msg("Failed to send SMS reminder")
				atomic.AddInt64(&failed, 1)
				return
			}
			atomic.AddInt64(&sent, 1)
		}(phone)
	}
	wg.Wait()

	report.Sent = sent
	report.Failed = failed
	s.logger.Info().
		Str("sessionID", sessionID).
		Int("recipients", report.Recipients).
		Int64("sent", sent).
		Int64("failed", failed).
		Msg("SMS reminders processed")
	return report, nil
}

func defaultReminder(session *models.Session) string {
	title := session.Title
	if title == "" {
		title = "Rehearsal"
	}
	return fmt.Sprintf("%s reminder: %s, %s–%s. See you there!",
		title, session.Date.Format("Monday, January 2"), session.StartTime, session.EndTime)
}
