package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

type memorySongs struct {
	songs map[string]*models.Song
	caps  map[string][]string
}

func (m *memorySongs) Create(_ context.Context, s *models.Song) error {
	s.ID = "song-" + s.Title
	cp := *s
	m.songs[s.ID] = &cp
	return nil
}

func (m *memorySongs) GetByID(_ context.Context, id, _ string) (*models.Song, error) {
	s, ok := m.songs[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("song not found")
	}
	cp := *s
	return &cp, nil
}

func (m *memorySongs) List(_ context.Context, status *models.SongStatus, _ string) ([]models.Song, error) {
	var out []models.Song
	for _, s := range m.songs {
		if status == nil || s.Status == *status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memorySongs) Update(_ context.Context, s *models.Song) error {
	cp := *s
	m.songs[s.ID] = &cp
	return nil
}

func (m *memorySongs) SetStatus(_ context.Context, id string, status models.SongStatus) error {
	m.songs[id].Status = status
	return nil
}

func (m *memorySongs) CountByStatus(context.Context, models.SongStatus) (int64, error) {
	return int64(len(m.songs)), nil
}

func (m *memorySongs) ReplaceCapabilities(_ context.Context, id string, ids []string) error {
	m.caps[id] = ids
	return nil
}

func newSongFixture(completion *fakeCompletion) (SongService, *memorySongs) {
	songs := &memorySongs{songs: map[string]*models.Song{}, caps: map[string][]string{}}
	return NewSongService(songs, newFakeToggle[models.SongVoteKey](), completion, testLogger), songs
}

func TestSuggestSongsParsesFencedJSON(t *testing.T) {
	completion := &fakeCompletion{response: "```json\n[{\"title\":\"Superstition\",\"artist\":\"Stevie Wonder\",\"key\":\"Ebm\",\"tempo\":100,\"link\":\"\"}]\n```"}
	svc, _ := newSongFixture(completion)

	got, err := svc.SuggestSongs(context.Background(), &dto.SuggestSongsRequest{Prompt: "funk"})
	if err != nil {
		t.Fatalf("SuggestSongs: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Superstition" || got[0].Tempo != 100 {
		t.Errorf("suggestions = %+v", got)
	}
	if !strings.Contains(completion.prompt, "Suggest 5 songs") {
		t.Errorf("default count missing from prompt %q", completion.prompt)
	}
}

func TestSuggestSongsErrors(t *testing.T) {
	tests := []struct {
		name       string
		completion *fakeCompletion
		target     error
	}{
		{"prose answer", &fakeCompletion{response: "Sure! Here are some songs."}, apperrors.ErrUnparseable},
		{"object instead of array", &fakeCompletion{response: `{"title":"x"}`}, apperrors.ErrUnparseable},
		{"quota", &fakeCompletion{err: apperrors.NewQuotaExceededError("quota", errBoom)}, apperrors.ErrQuotaExceeded},
		{"provider down", &fakeCompletion{err: apperrors.NewUpstreamError("down", errBoom)}, apperrors.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newSongFixture(tt.completion)
			_, err := svc.SuggestSongs(context.Background(), &dto.SuggestSongsRequest{Prompt: "jazz", Count: 3})
			if !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestCreateSongStatusRules(t *testing.T) {
	svc, _ := newSongFixture(&fakeCompletion{})
	ctx := context.Background()

	proposed, err := svc.CreateSong(ctx, member, &dto.CreateSongRequest{Title: "Hey Jude", Artist: "The Beatles"})
	if err != nil || proposed.Status != models.SongStatusProposed {
		t.Fatalf("member default = (%+v, %v)", proposed, err)
	}
	if _, err := svc.CreateSong(ctx, member, &dto.CreateSongRequest{Title: "Jolene", Artist: "Dolly Parton", Status: models.SongStatusActive}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("member active: err = %v", err)
	}
	active, err := svc.CreateSong(ctx, admin, &dto.CreateSongRequest{Title: "Jolene", Artist: "Dolly Parton", Status: models.SongStatusActive, CapabilityIDs: []string{"cap-guitar"}})
	if err != nil || active.Status != models.SongStatusActive || len(active.CapabilityIDs) != 1 {
		t.Errorf("admin active = (%+v, %v)", active, err)
	}
}

func TestUpdateSongOwnership(t *testing.T) {
	svc, songs := newSongFixture(&fakeCompletion{})
	ctx := context.Background()

	song, _ := svc.CreateSong(ctx, member, &dto.CreateSongRequest{Title: "Creep", Artist: "Radiohead"})
	other := models.Actor{UserID: "u2", Role: models.RoleUser}
	key := "G"

	if _, err := svc.UpdateSong(ctx, other, song.ID, &dto.UpdateSongRequest{Key: &key}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other user: err = %v", err)
	}
	if _, err := svc.UpdateSong(ctx, member, song.ID, &dto.UpdateSongRequest{Key: &key}); err != nil {
		t.Fatalf("creator update: %v", err)
	}
	if songs.songs[song.ID].Key != "G" {
		t.Error("key not stored")
	}

	first, _ := svc.ToggleSongVote(ctx, other, song.ID)
	second, _ := svc.ToggleSongVote(ctx, other, song.ID)
	if first != models.ToggleAdded || second != models.ToggleRemoved {
		t.Errorf("vote toggles = %q, %q", first, second)
	}
}
