package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
	"github.com/yigit/bandhub/internal/pkg/email"
	"github.com/yigit/bandhub/internal/pkg/websocket"
)

var (
	testLogger = zerolog.Nop()
	admin      = models.Actor{UserID: "admin-1", Role: models.RoleAdmin, Status: models.UserStatusApproved}
	member     = models.Actor{UserID: "u1", Role: models.RoleUser, Status: models.UserStatusApproved}
	errBoom    = errors.New("boom")
)

// users

type fakeUsers struct {
	byID map[string]*models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for i := range users {
		u := users[i]
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) List(_ context.Context, status *models.UserStatus) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if status == nil || u.Status == *status {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) SetStatus(_ context.Context, id string, status models.UserStatus) error {
	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id, name string, phone *string) error {
	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Name, u.Phone = name, phone
	return nil
}

func (f *fakeUsers) UpdateLastSignIn(_ context.Context, id string, at time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.LastSignInAt = &at
	return nil
}

func (f *fakeUsers) CountByStatus(_ context.Context, status models.UserStatus) (int64, error) {
	var n int64
	for _, u := range f.byID {
		if u.Status == status {
			n++
		}
	}
	return n, nil
}

// capabilities

type fakeCaps struct {
	rows   []models.Capability
	writes int
}

func (f *fakeCaps) List(context.Context) ([]models.Capability, error) {
	return append([]models.Capability(nil), f.rows...), nil
}

func (f *fakeCaps) FindByName(_ context.Context, name string) (*models.Capability, error) {
	for _, c := range f.rows {
		if strings.EqualFold(c.Name, name) {
			cp := c
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("capability not found")
}

func (f *fakeCaps) Create(_ context.Context, c *models.Capability) error {
	if _, err := f.FindByName(context.Background(), c.Name); err == nil {
		return apperrors.NewConflictError("capability exists")
	}
	c.ID = fmt.Sprintf("cap-%d", len(f.rows)+1)
	f.rows = append(f.rows, *c)
	f.writes++
	return nil
}

func (f *fakeCaps) UpdateIcon(_ context.Context, id, icon string) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Icon = icon
			f.writes++
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("capability not found")
}

func (f *fakeCaps) Delete(_ context.Context, id string) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("capability not found")
}

type fakeUserCaps struct {
	byUser  map[string][]string
	failFor string
}

func (f *fakeUserCaps) ListForUser(_ context.Context, userID string) ([]models.Capability, error) {
	var out []models.Capability
	for _, id := range f.byUser[userID] {
		out = append(out, models.Capability{ID: id})
	}
	return out, nil
}

func (f *fakeUserCaps) Replace(_ context.Context, userID string, ids []string) error {
	if userID == f.failFor {
		return errBoom
	}
	if f.byUser == nil {
		f.byUser = map[string][]string{}
	}
	f.byUser[userID] = append([]string(nil), ids...)
	return nil
}

// sessions and commitments

type fakeSessions struct {
	byID map[string]*models.Session
}

func newFakeSessions(sessions ...models.Session) *fakeSessions {
	f := &fakeSessions{byID: map[string]*models.Session{}}
	for i := range sessions {
		s := sessions[i]
		f.byID[s.ID] = &s
	}
	return f
}

func (f *fakeSessions) Create(_ context.Context, s *models.Session) error {
	s.ID = fmt.Sprintf("s-%d", len(f.byID)+1)
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSessions) GetByID(_ context.Context, id string) (*models.Session, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("session not found")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) ListFrom(_ context.Context, from time.Time) ([]models.Session, error) {
	var out []models.Session
	for _, s := range f.byID {
		if !s.Date.Before(from) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeSessions) CountFrom(ctx context.Context, from time.Time) (int64, error) {
	out, _ := f.ListFrom(ctx, from)
	return int64(len(out)), nil
}

func (f *fakeSessions) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.NewResourceNotFoundError("session not found")
	}
	delete(f.byID, id)
	return nil
}

type fakeSetList struct {
	bySession map[string][]string
}

func (f *fakeSetList) List(_ context.Context, sessionID string) ([]models.SetListEntry, error) {
	out := []models.SetListEntry{}
	for i, id := range f.bySession[sessionID] {
		out = append(out, models.SetListEntry{ID: sessionID + "/" + id, SongID: id, Position: i + 1})
	}
	return out, nil
}

func (f *fakeSetList) Append(_ context.Context, sessionID, songID string) (*models.SetListEntry, error) {
	if f.bySession == nil {
		f.bySession = map[string][]string{}
	}
	for _, id := range f.bySession[sessionID] {
		if id == songID {
			return nil, apperrors.NewConflictError("song already on set-list")
		}
	}
	f.bySession[sessionID] = append(f.bySession[sessionID], songID)
	return &models.SetListEntry{SongID: songID, Position: len(f.bySession[sessionID])}, nil
}

func (f *fakeSetList) Remove(_ context.Context, sessionID, songID string) error {
	ids := f.bySession[sessionID]
	for i, id := range ids {
		if id == songID {
			f.bySession[sessionID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("song not on set-list")
}

func (f *fakeSetList) Reorder(_ context.Context, sessionID string, songIDs []string) error {
	f.bySession[sessionID] = append([]string(nil), songIDs...)
	return nil
}

type fakeCommitments struct {
	rows       map[string]*models.Commitment
	caps       map[string][]string
	roster     []models.RosterEntry
	failCaps   bool
	seq        int
	deletedIDs []string
}

func newFakeCommitments() *fakeCommitments {
	return &fakeCommitments{rows: map[string]*models.Commitment{}, caps: map[string][]string{}}
}

func (f *fakeCommitments) Create(_ context.Context, c *models.Commitment) error {
	for _, row := range f.rows {
		if row.SessionID == c.SessionID && row.UserID == c.UserID {
			return apperrors.NewConflictError("already committed")
		}
	}
	f.seq++
	c.ID = fmt.Sprintf("c-%d", f.seq)
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCommitments) AddCapabilities(_ context.Context, id string, ids []string) error {
	if f.failCaps {
		return errBoom
	}
	f.caps[id] = append(f.caps[id], ids...)
	return nil
}

func (f *fakeCommitments) DeleteByID(_ context.Context, id string) error {
	delete(f.rows, id)
	delete(f.caps, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeCommitments) Delete(_ context.Context, sessionID, userID string) error {
	for id, row := range f.rows {
		if row.SessionID == sessionID && row.UserID == userID {
			delete(f.rows, id)
			delete(f.caps, id)
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("commitment not found")
}

func (f *fakeCommitments) Find(_ context.Context, sessionID, userID string) (*models.Commitment, error) {
	for _, row := range f.rows {
		if row.SessionID == sessionID && row.UserID == userID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("commitment not found")
}

func (f *fakeCommitments) Roster(context.Context, string) ([]models.RosterEntry, error) {
	return f.roster, nil
}

// toggle ledgers

type fakeToggle[K comparable] struct {
	rows map[K]bool
}

func newFakeToggle[K comparable]() *fakeToggle[K] {
	return &fakeToggle[K]{rows: map[K]bool{}}
}

func (f *fakeToggle[K]) Exists(_ context.Context, key K) (bool, error) { return f.rows[key], nil }

func (f *fakeToggle[K]) Insert(_ context.Context, key K) error {
	if f.rows[key] {
		return apperrors.NewConflictError("duplicate")
	}
	f.rows[key] = true
	return nil
}

func (f *fakeToggle[K]) Delete(_ context.Context, key K) error {
	delete(f.rows, key)
	return nil
}

type fakeReactions struct {
	*fakeToggle[models.ReactionKey]
}

func (f fakeReactions) Summaries(_ context.Context, messageIDs []string) ([]models.ReactionSummary, error) {
	wanted := map[string]bool{}
	for _, id := range messageIDs {
		wanted[id] = true
	}
	var out []models.ReactionSummary
	for key := range f.rows {
		if wanted[key.MessageID] {
			out = append(out, models.ReactionSummary{MessageID: key.MessageID, Emoji: key.Emoji, Count: 1, UserIDs: []string{key.UserID}})
		}
	}
	return out, nil
}

// chat

type fakeChat struct {
	messages []models.ChatMessage
}

func (f *fakeChat) Create(_ context.Context, m *models.ChatMessage) error {
	m.ID = fmt.Sprintf("m-%d", len(f.messages)+1)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeChat) GetByID(_ context.Context, id string) (*models.ChatMessage, error) {
	for _, m := range f.messages {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("message not found")
}

func (f *fakeChat) List(_ context.Context, sessionID *string, before *time.Time, limit int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		m := f.messages[i]
		if (sessionID == nil) != (m.SessionID == nil) {
			continue
		}
		if sessionID != nil && *sessionID != *m.SessionID {
			continue
		}
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeChat) CountGlobalAfter(_ context.Context, threshold time.Time) (int64, error) {
	var n int64
	for _, m := range f.messages {
		if m.SessionID == nil && m.CreatedAt.After(threshold) {
			n++
		}
	}
	return n, nil
}

type fakeReceipts struct {
	rows []*models.ReadReceipt
	// conflictOnce makes the first Insert lose a race against a concurrent writer
	conflictOnce bool
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeReceipts) Find(_ context.Context, userID string, sessionID *string) (*models.ReadReceipt, error) {
	for _, rr := range f.rows {
		if rr.UserID == userID && sameScope(rr.SessionID, sessionID) {
			cp := *rr
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReceipts) Advance(_ context.Context, id string, at time.Time) error {
	for _, rr := range f.rows {
		if rr.ID == id {
			if at.After(rr.LastReadAt) {
				rr.LastReadAt = at
			}
			return nil
		}
	}
	return apperrors.NewResourceNotFoundError("receipt not found")
}

func (f *fakeReceipts) Insert(_ context.Context, rr *models.ReadReceipt) error {
	if f.conflictOnce {
		f.conflictOnce = false
		f.rows = append(f.rows, &models.ReadReceipt{ID: "rr-race", UserID: rr.UserID, SessionID: rr.SessionID, LastReadAt: rr.LastReadAt.Add(-time.Minute)})
		return apperrors.NewConflictError("receipt exists")
	}
	rr.ID = fmt.Sprintf("rr-%d", len(f.rows)+1)
	cp := *rr
	f.rows = append(f.rows, &cp)
	return nil
}

type recordingBroadcaster struct {
	messages []*websocket.Message
}

func (b *recordingBroadcaster) Broadcast(m *websocket.Message) {
	b.messages = append(b.messages, m)
}

// feedback

type voteKey struct{ feedbackID, userID string }

type fakeFeedbackVotes struct {
	rows map[voteKey]models.VoteType
}

func (f *fakeFeedbackVotes) Upsert(_ context.Context, feedbackID, userID string, vote models.VoteType) error {
	f.rows[voteKey{feedbackID, userID}] = vote
	return nil
}

func (f *fakeFeedbackVotes) Delete(_ context.Context, feedbackID, userID string) error {
	delete(f.rows, voteKey{feedbackID, userID})
	return nil
}

type fakeFeedback struct {
	items   map[string]*models.Feedback
	replies []models.FeedbackReply
	votes   *fakeFeedbackVotes
}

func newFakeFeedback(votes *fakeFeedbackVotes, items ...models.Feedback) *fakeFeedback {
	f := &fakeFeedback{items: map[string]*models.Feedback{}, votes: votes}
	for i := range items {
		item := items[i]
		f.items[item.ID] = &item
	}
	return f
}

func (f *fakeFeedback) Create(_ context.Context, item *models.Feedback) error {
	item.ID = fmt.Sprintf("f-%d", len(f.items)+1)
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeFeedback) view(item models.Feedback, viewerID string) models.Feedback {
	item.UpVotes, item.DownVotes, item.MyVote = 0, 0, nil
	for key, vote := range f.votes.rows {
		if key.feedbackID != item.ID {
			continue
		}
		if vote == models.VoteUp {
			item.UpVotes++
		} else {
			item.DownVotes++
		}
		if key.userID == viewerID {
			v := vote
			item.MyVote = &v
		}
	}
	item.Replies = []models.FeedbackReply{}
	return item
}

func (f *fakeFeedback) GetByID(_ context.Context, id, viewerID string) (*models.Feedback, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("feedback not found")
	}
	v := f.view(*item, viewerID)
	return &v, nil
}

func (f *fakeFeedback) List(_ context.Context, status *models.FeedbackStatus, viewerID string) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, item := range f.items {
		if status == nil || item.Status == *status {
			out = append(out, f.view(*item, viewerID))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFeedback) SetStatus(_ context.Context, id string, status models.FeedbackStatus) error {
	item, ok := f.items[id]
	if !ok {
		return apperrors.NewResourceNotFoundError("feedback not found")
	}
	item.Status = status
	return nil
}

func (f *fakeFeedback) CountOpen(context.Context) (int64, error) {
	var n int64
	for _, item := range f.items {
		if item.Status == models.FeedbackStatusPending || item.Status == models.FeedbackStatusInProgress {
			n++
		}
	}
	return n, nil
}

func (f *fakeFeedback) CreateReply(_ context.Context, reply *models.FeedbackReply) error {
	reply.ID = fmt.Sprintf("r-%d", len(f.replies)+1)
	f.replies = append(f.replies, *reply)
	return nil
}

func (f *fakeFeedback) Replies(_ context.Context, ids []string) ([]models.FeedbackReply, error) {
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	var out []models.FeedbackReply
	for _, r := range f.replies {
		if wanted[r.FeedbackID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// providers

type fakeCompletion struct {
	response string
	err      error
	prompt   string
}

func (f *fakeCompletion) Complete(_ context.Context, _, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

type fakeSMS struct {
	mu     sync.Mutex
	failTo map[string]bool
	sent   []string
}

func (f *fakeSMS) Send(_ context.Context, to, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[to] {
		return errBoom
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeMailer struct {
	failTo map[string]bool
	sent   []email.Message
}

func (f *fakeMailer) Send(_ context.Context, msg email.Message) error {
	for _, to := range msg.To {
		if f.failTo[to] {
			return errBoom
		}
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeObjects struct {
	objects map[string]string
}

func (f *fakeObjects) Put(_ context.Context, key string, body io.Reader, _ int64, _ string, overwrite bool) error {
	if _, ok := f.objects[key]; ok && !overwrite {
		return apperrors.NewConflictError("object exists")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = string(data)
	return nil
}

func (f *fakeObjects) SignUpload(_ context.Context, key, _ string) (string, error) {
	return "https://storage.test/" + key + "?signed=1", nil
}

func (f *fakeObjects) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type fakeMedia struct {
	rows    map[string]*models.Media
	failAdd bool
}

func (f *fakeMedia) Create(_ context.Context, m *models.Media) error {
	if f.failAdd {
		return errBoom
	}
	m.ID = fmt.Sprintf("media-%d", len(f.rows)+1)
	cp := *m
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMedia) GetByID(_ context.Context, kind models.MediaKind, id string) (*models.Media, error) {
	m, ok := f.rows[id]
	if !ok || m.Kind != kind {
		return nil, apperrors.NewResourceNotFoundError("media not found")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMedia) List(_ context.Context, sessionID string, kind models.MediaKind) ([]models.Media, error) {
	var out []models.Media
	for _, m := range f.rows {
		if m.SessionID == sessionID && m.Kind == kind {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMedia) Delete(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}
