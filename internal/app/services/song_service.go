package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/completion"
)

const (
	defaultSuggestionCount = 5
	maxSuggestionCount     = 20
)

const suggestionSystemPrompt = `You help a rehearsal band pick songs. Answer with a JSON array only, no prose. ` +
	`Each element is an object {"title": string, "artist": string, "key": string, "tempo": number, "link": string}. ` +
	`Use an empty string or 0 when a field is unknown.`

// SongService manages the song library
type SongService interface {
	CreateSong(ctx context.Context, actor models.Actor, req *dto.CreateSongRequest) (*models.Song, error)
	ListSongs(ctx context.Context, actor models.Actor, status *models.SongStatus) ([]models.Song, error)
	GetSong(ctx context.Context, actor models.Actor, id string) (*models.Song, error)
	UpdateSong(ctx context.Context, actor models.Actor, id string, req *dto.UpdateSongRequest) (*models.Song, error)
	SetSongStatus(ctx context.Context, actor models.Actor, id string, status models.SongStatus) error
	SetSongCapabilities(ctx context.Context, actor models.Actor, id string, capabilityIDs []string) error
	ToggleSongVote(ctx context.Context, actor models.Actor, songID string) (models.ToggleResult, error)
	SuggestSongs(ctx context.Context, req *dto.SuggestSongsRequest) ([]dto.SongSuggestion, error)
}

type songServiceImpl struct {
	songs      SongStore
	votes      ToggleStore[models.SongVoteKey]
	completion completion.Client
	logger     zerolog.Logger
}

// NewSongService creates a new SongService
func NewSongService(songs SongStore, votes ToggleStore[models.SongVoteKey], completion completion.Client, logger zerolog.Logger) SongService {
	return &songServiceImpl{songs: songs, votes: votes, completion: completion, logger: logger}
}

// CreateSong adds a song. Only admins may place it straight into the active
// library; everybody else proposes.
func (s *songServiceImpl) CreateSong(ctx context.Context, actor models.Actor, req *dto.CreateSongRequest) (*models.Song, error) {
	status := models.SongStatusProposed
	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, apperrors.NewBadRequestError("status must be active, archived or proposed")
		}
		if req.Status != models.SongStatusProposed && !actor.IsAdmin() {
			return nil, apperrors.NewForbiddenError("Only admins can add songs outside the proposal queue")
		}
		status = req.Status
	}

	createdBy := actor.UserID
	song := &models.Song{
		Title:     strings.TrimSpace(req.Title),
		Artist:    strings.TrimSpace(req.Artist),
		Key:       strings.TrimSpace(req.Key),
		Tempo:     req.Tempo,
		Status:    status,
		Link:      strings.TrimSpace(req.Link),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedBy: &createdBy,
	}
	if song.Title == "" || song.Artist == "" {
		return nil, apperrors.NewBadRequestError("title and artist must not be empty")
	}

	if err := s.songs.Create(ctx, song); err != nil {
		s.logger.Error().Err(err).Str("title", song.Title).Msg("Failed to create song")
		return nil, err
	}

	song.CapabilityIDs = []string{}
	if len(req.CapabilityIDs) > 0 {
		if err := s.songs.ReplaceCapabilities(ctx, song.ID, req.CapabilityIDs); err != nil {
			s.logger.Error().Err(err).Str("songID", song.ID).Msg("Failed to set song capabilities")
			return nil, err
		}
		song.CapabilityIDs = req.CapabilityIDs
	}

	s.logger.Info().Str("songID", song.ID).Str("status", string(status)).Msg("Song created")
	return song, nil
}

// ListSongs returns the library with vote tallies from the actor's point of view
func (s *songServiceImpl) ListSongs(ctx context.Context, actor models.Actor, status *models.SongStatus) ([]models.Song, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewBadRequestError("status must be active, archived or proposed")
	}
	songs, err := s.songs.List(ctx, status, actor.UserID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list songs")
		return nil, err
	}
	return songs, nil
}

// GetSong returns one song
func (s *songServiceImpl) GetSong(ctx context.Context, actor models.Actor, id string) (*models.Song, error) {
	return s.songs.GetByID(ctx, id, actor.UserID)
}

// UpdateSong edits the fields present in req
func (s *songServiceImpl) UpdateSong(ctx context.Context, actor models.Actor, id string, req *dto.UpdateSongRequest) (*models.Song, error) {
	song, err := s.songs.GetByID(ctx, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (song.CreatedBy == nil || *song.CreatedBy != actor.UserID) {
		return nil, apperrors.NewForbiddenError("Only admins or the song's creator can edit it")
	}

	if req.Title != nil {
		song.Title = strings.TrimSpace(*req.Title)
	}
	if req.Artist != nil {
		song.Artist = strings.TrimSpace(*req.Artist)
	}
	if req.Key != nil {
		song.Key = strings.TrimSpace(*req.Key)
	}
	if req.Tempo != nil {
		song.Tempo = req.Tempo
	}
	if req.Link != nil {
		song.Link = strings.TrimSpace(*req.Link)
	}
	if req.Notes != nil {
		song.Notes = strings.TrimSpace(*req.Notes)
	}
	if song.Title == "" || song.Artist == "" {
		return nil, apperrors.NewBadRequestError("title and artist must not be empty")
	}

	if err := s.songs.Update(ctx, song); err != nil {
		s.logger.Error().Err(err).Str("songID", id).Msg("Failed to update song")
		return nil, err
	}
	return song, nil
}

// SetSongStatus moves a song between active, archived and proposed
func (s *songServiceImpl) SetSongStatus(ctx context.Context, actor models.Actor, id string, status models.SongStatus) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("Only admins can change song status")
	}
	if !status.Valid() {
		return apperrors.NewBadRequestError("status must be active, archived or proposed")
	}
	return s.songs.SetStatus(ctx, id, status)
}

// SetSongCapabilities replaces the capabilities a song needs
func (s *songServiceImpl) SetSongCapabilities(ctx context.Context, actor models.Actor, id string, capabilityIDs []string) error {
	song, err := s.songs.GetByID(ctx, id, actor.UserID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && (song.CreatedBy == nil || *song.CreatedBy != actor.UserID) {
		return apperrors.NewForbiddenError("Only admins or the song's creator can edit it")
	}
	return s.songs.ReplaceCapabilities(ctx, id, capabilityIDs)
}

// ToggleSongVote adds the actor's vote, or removes it when present
func (s *songServiceImpl) ToggleSongVote(ctx context.Context, actor models.Actor, songID string) (models.ToggleResult, error) {
	if _, err := s.songs.GetByID(ctx, songID, actor.UserID); err != nil {
		return "", err
	}
	result, err := toggle(ctx, s.votes, models.SongVoteKey{SongID: songID, UserID: actor.UserID})
	if err != nil {
		s.logger.Error().Err(err).Str("songID", songID).Msg("Failed to toggle song vote")
		return "", err
	}
	return result, nil
}

// SuggestSongs asks the completion provider for song ideas
func (s *songServiceImpl) SuggestSongs(ctx context.Context, req *dto.SuggestSongsRequest) ([]dto.SongSuggestion, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperrors.NewBadRequestError("prompt must not be empty")
	}
	count := req.Count
	if count <= 0 {
		count = defaultSuggestionCount
	}
	if count > maxSuggestionCount {
		count = maxSuggestionCount
	}

	raw, err := s.completion.Complete(ctx, suggestionSystemPrompt,
		fmt.Sprintf("Suggest %d songs. %s", count, prompt))
	if err != nil {
		s.logger.Error().Err(err).Msg("Song suggestion request failed")
		return nil, err
	}

	suggestions, err := parseSuggestions(raw)
	if err != nil {
		s.logger.Error().Err(err).Str("response", raw).Msg("Song suggestion response is not a JSON array")
		return nil, apperrors.NewUnparseableError("Suggestion service returned an unexpected response", err)
	}
	if len(suggestions) > count {
		suggestions = suggestions[:count]
	}
	return suggestions, nil
}

func parseSuggestions(raw string) ([]dto.SongSuggestion, error) {
	var suggestions []dto.SongSuggestion
	if err := json.Unmarshal([]byte(completion.StripCodeFences(raw)), &suggestions); err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []dto.SongSuggestion{}
	}
	return suggestions, nil
}
