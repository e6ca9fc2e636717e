package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

func TestCreateSessionValidation(t *testing.T) {
	svc := NewSessionService(newFakeSessions(), &fakeSetList{}, newFakeCommitments(), testLogger)
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  models.Actor
		req    dto.CreateSessionRequest
		target error
	}{
		{"member", member, dto.CreateSessionRequest{Date: "2025-06-02", StartTime: "18:30", EndTime: "21:00"}, apperrors.ErrPermissionDenied},
		{"bad date", admin, dto.CreateSessionRequest{Date: "02/06/2025", StartTime: "18:30", EndTime: "21:00"}, apperrors.ErrBadRequest},
		{"bad clock", admin, dto.CreateSessionRequest{Date: "2025-06-02", StartTime: "6pm", EndTime: "21:00"}, apperrors.ErrBadRequest},
		{"end before start", admin, dto.CreateSessionRequest{Date: "2025-06-02", StartTime: "21:00", EndTime: "18:30"}, apperrors.ErrBadRequest},
		{"zero length", admin, dto.CreateSessionRequest{Date: "2025-06-02", StartTime: "18:30", EndTime: "18:30"}, apperrors.ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateSession(ctx, tt.actor, &tt.req); !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}

	s, err := svc.CreateSession(ctx, admin, &dto.CreateSessionRequest{Date: "2025-06-02", StartTime: "18:30", EndTime: "21:00", Title: " Summer set "})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if s.Title != "Summer set" || s.CreatedBy == nil || *s.CreatedBy != admin.UserID {
		t.Errorf("session = %+v", s)
	}
}

func TestListSessionsDefaultsToToday(t *testing.T) {
	sessions := newFakeSessions(
		models.Session{ID: "past", Date: time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)},
		models.Session{ID: "today", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		models.Session{ID: "next", Date: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)},
	)
	svc := NewSessionService(sessions, &fakeSetList{}, newFakeCommitments(), testLogger).(*sessionServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 20, 15, 0, 0, time.UTC) }

	got, err := svc.ListSessions(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(got) != 2 || got[0].ID != "today" || got[1].ID != "next" {
		t.Errorf("sessions = %+v", got)
	}
}

func TestReorderSetListMustMatchCurrentSongs(t *testing.T) {
	setList := &fakeSetList{bySession: map[string][]string{"s-1": {"a", "b", "c"}}}
	svc := NewSessionService(oneSession(), setList, newFakeCommitments(), testLogger)
	ctx := context.Background()

	for _, ids := range [][]string{{"a", "b"}, {"a", "b", "d"}, {"a", "a", "b"}} {
		if _, err := svc.ReorderSetList(ctx, admin, "s-1", ids); !errors.Is(err, apperrors.ErrBadRequest) {
			t.Errorf("ReorderSetList(%v): err = %v", ids, err)
		}
	}

	entries, err := svc.ReorderSetList(ctx, admin, "s-1", []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("ReorderSetList: %v", err)
	}
	for i, want := range []string{"c", "a", "b"} {
		if entries[i].SongID != want || entries[i].Position != i+1 {
			t.Errorf("entry %d = %+v", i, entries[i])
		}
	}
}

func TestAddSongToSessionConflict(t *testing.T) {
	svc := NewSessionService(oneSession(), &fakeSetList{}, newFakeCommitments(), testLogger)
	ctx := context.Background()

	if _, err := svc.AddSongToSession(ctx, admin, "s-1", "song-1"); err != nil {
		t.Fatalf("AddSongToSession: %v", err)
	}
	if _, err := svc.AddSongToSession(ctx, admin, "s-1", "song-1"); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("duplicate: err = %v", err)
	}
	if _, err := svc.AddSongToSession(ctx, admin, "s-404", "song-1"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("missing session: err = %v", err)
	}
}
