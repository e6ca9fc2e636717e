package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	TokenRepository          *TokenRepository
	CapabilityRepository     *CapabilityRepository
	UserCapabilityRepository *UserCapabilityRepository
	SessionRepository        *SessionRepository
	SetListRepository        *SetListRepository
	CommitmentRepository     *CommitmentRepository
	SongRepository           *SongRepository
	SongVoteRepository       *SongVoteRepository
	ChatRepository           *ChatRepository
	ReactionRepository       *ReactionRepository
	ReadReceiptRepository    *ReadReceiptRepository
	FeedbackRepository       *FeedbackRepository
	FeedbackVoteRepository   *FeedbackVoteRepository
	MediaRepository          *MediaRepository
	BackupRepository         *BackupRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		TokenRepository:          NewTokenRepository(db),
		CapabilityRepository:     NewCapabilityRepository(db),
		UserCapabilityRepository: NewUserCapabilityRepository(db),
		SessionRepository:        NewSessionRepository(db),
		SetListRepository:        NewSetListRepository(db),
		CommitmentRepository:     NewCommitmentRepository(db),
		SongRepository:           NewSongRepository(db),
		SongVoteRepository:       NewSongVoteRepository(db),
		ChatRepository:           NewChatRepository(db),
		ReactionRepository:       NewReactionRepository(db),
		ReadReceiptRepository:    NewReadReceiptRepository(db),
		FeedbackRepository:       NewFeedbackRepository(db),
		FeedbackVoteRepository:   NewFeedbackVoteRepository(db),
		MediaRepository:          NewMediaRepository(db),
		BackupRepository:         NewBackupRepository(db),
	}
}

// psql is the statement builder every repository shares
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// scopeFilter matches rows of a chat scope. A nil session id is the global feed.
func scopeFilter(sessionID *string) squirrel.Sqlizer {
	if sessionID == nil {
		return squirrel.Eq{"session_id": nil}
	}
	return squirrel.Eq{"session_id": *sessionID}
}
