package services

import (
	"context"
	"time"

	"github.com/yigit/bandhub/internal/app/models"
)

// UserStore is the user directory as seen by services
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	List(ctx context.Context, status *models.UserStatus) ([]models.User, error)
	SetStatus(ctx context.Context, id string, status models.UserStatus) error
	UpdateProfile(ctx context.Context, id, name string, phone *string) error
	UpdateLastSignIn(ctx context.Context, id string, at time.Time) error
	CountByStatus(ctx context.Context, status models.UserStatus) (int64, error)
}

// TokenStore keeps refresh tokens
type TokenStore interface {
	CreateToken(ctx context.Context, token, userID string, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (string, time.Time, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID string) error
}

// CapabilityStore is the capability catalog
type CapabilityStore interface {
	List(ctx context.Context) ([]models.Capability, error)
	FindByName(ctx context.Context, name string) (*models.Capability, error)
	Create(ctx context.Context, c *models.Capability) error
	UpdateIcon(ctx context.Context, id, icon string) error
	Delete(ctx context.Context, id string) error
}

// UserCapabilityStore assigns capabilities to users
type UserCapabilityStore interface {
	ListForUser(ctx context.Context, userID string) ([]models.Capability, error)
	Replace(ctx context.Context, userID string, capabilityIDs []string) error
}

// SessionStore holds rehearsal sessions
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListFrom(ctx context.Context, from time.Time) ([]models.Session, error)
	CountFrom(ctx context.Context, from time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

// SetListStore holds the ordered songs of sessions
type SetListStore interface {
	List(ctx context.Context, sessionID string) ([]models.SetListEntry, error)
	Append(ctx context.Context, sessionID, songID string) (*models.SetListEntry, error)
	Remove(ctx context.Context, sessionID, songID string) error
	Reorder(ctx context.Context, sessionID string, songIDs []string) error
}

// CommitmentStore is the commitment ledger
type CommitmentStore interface {
	Create(ctx context.Context, c *models.Commitment) error
	AddCapabilities(ctx context.Context, commitmentID string, capabilityIDs []string) error
	DeleteByID(ctx context.Context, id string) error
	Delete(ctx context.Context, sessionID, userID string) error
	Find(ctx context.Context, sessionID, userID string) (*models.Commitment, error)
	Roster(ctx context.Context, sessionID string) ([]models.RosterEntry, error)
}

// SongStore is the song library
type SongStore interface {
	Create(ctx context.Context, s *models.Song) error
	GetByID(ctx context.Context, id, viewerID string) (*models.Song, error)
	List(ctx context.Context, status *models.SongStatus, viewerID string) ([]models.Song, error)
	Update(ctx context.Context, s *models.Song) error
	SetStatus(ctx context.Context, id string, status models.SongStatus) error
	CountByStatus(ctx context.Context, status models.SongStatus) (int64, error)
	ReplaceCapabilities(ctx context.Context, songID string, capabilityIDs []string) error
}

// ChatStore holds chat messages
type ChatStore interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	GetByID(ctx context.Context, id string) (*models.ChatMessage, error)
	List(ctx context.Context, sessionID *string, before *time.Time, limit int) ([]models.ChatMessage, error)
	CountGlobalAfter(ctx context.Context, threshold time.Time) (int64, error)
}

// ReactionStore is the reaction toggle ledger plus its aggregate view
type ReactionStore interface {
	ToggleStore[models.ReactionKey]
	Summaries(ctx context.Context, messageIDs []string) ([]models.ReactionSummary, error)
}

// ReadReceiptStore keeps one receipt per user and scope
type ReadReceiptStore interface {
	Find(ctx context.Context, userID string, sessionID *string) (*models.ReadReceipt, error)
	Advance(ctx context.Context, id string, at time.Time) error
	Insert(ctx context.Context, rr *models.ReadReceipt) error
}

// FeedbackStore holds feedback items and replies
type FeedbackStore interface {
	Create(ctx context.Context, f *models.Feedback) error
	GetByID(ctx context.Context, id, viewerID string) (*models.Feedback, error)
	List(ctx context.Context, status *models.FeedbackStatus, viewerID string) ([]models.Feedback, error)
	SetStatus(ctx context.Context, id string, status models.FeedbackStatus) error
	CountOpen(ctx context.Context) (int64, error)
	CreateReply(ctx context.Context, reply *models.FeedbackReply) error
	Replies(ctx context.Context, feedbackIDs []string) ([]models.FeedbackReply, error)
}

// FeedbackVoteStore holds at most one vote per user and feedback item
type FeedbackVoteStore interface {
	Upsert(ctx context.Context, feedbackID, userID string, vote models.VoteType) error
	Delete(ctx context.Context, feedbackID, userID string) error
}

// MediaStore holds session media metadata
type MediaStore interface {
	Create(ctx context.Context, m *models.Media) error
	GetByID(ctx context.Context, kind models.MediaKind, id string) (*models.Media, error)
	List(ctx context.Context, sessionID string, kind models.MediaKind) ([]models.Media, error)
	Delete(ctx context.Context, id string) error
}

// BackupStore dumps and restores whole tables
type BackupStore interface {
	Dump(ctx context.Context, table string) (*models.TableDump, error)
	Restore(ctx context.Context, spec models.TableSpec, header []string, rows [][]string) (written, orphans int, err error)
}
