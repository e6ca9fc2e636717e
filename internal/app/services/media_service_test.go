package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

func newMediaFixture() (MediaService, *fakeMedia, *fakeObjects) {
	media := &fakeMedia{rows: map[string]*models.Media{}}
	objects := &fakeObjects{objects: map[string]string{}}
	return NewMediaService(media, oneSession(), objects, 15*time.Minute, testLogger), media, objects
}

func TestSignUploadAndRegister(t *testing.T) {
	svc, media, _ := newMediaFixture()
	ctx := context.Background()

	signed, err := svc.SignUpload(ctx, member, "s-1", &dto.SignUploadRequest{Kind: models.MediaRecording, FileName: "take 1.m4a", ContentType: "audio/mp4"})
	if err != nil {
		t.Fatalf("SignUpload: %v", err)
	}
	if !strings.HasPrefix(signed.StoragePath, "sessions/s-1/recordings/") || signed.ExpiresIn != 900 {
		t.Errorf("signed = %+v", signed)
	}

	if _, err := svc.RegisterMedia(ctx, member, "s-2", &dto.RegisterMediaRequest{Kind: models.MediaRecording, StoragePath: signed.StoragePath}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("foreign session path: err = %v", err)
	}
	m, err := svc.RegisterMedia(ctx, member, "s-1", &dto.RegisterMediaRequest{Kind: models.MediaRecording, StoragePath: signed.StoragePath, Caption: "take 1"})
	if err != nil {
		t.Fatalf("RegisterMedia: %v", err)
	}
	if m.URL != "https://cdn.test/"+signed.StoragePath || len(media.rows) != 1 {
		t.Errorf("media = %+v", m)
	}
}

func TestUploadMediaRemovesObjectWhenInsertFails(t *testing.T) {
	svc, media, objects := newMediaFixture()
	media.failAdd = true

	_, err := svc.UploadMedia(context.Background(), member, "s-1", models.MediaPhoto, "", Upload{
		FileName: "stage.jpg", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("jpg"),
	})
	if err == nil {
		t.Fatal("expected insert failure")
	}
	if len(objects.objects) != 0 {
		t.Errorf("object left behind: %v", objects.objects)
	}
}

func TestDeleteMediaOwnerOrAdmin(t *testing.T) {
	svc, media, objects := newMediaFixture()
	ctx := context.Background()

	m, err := svc.UploadMedia(ctx, member, "s-1", models.MediaPhoto, "stage", Upload{FileName: "stage.jpg", Size: 3, Body: strings.NewReader("jpg")})
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}

	other := models.Actor{UserID: "u2", Role: models.RoleUser}
	if err := svc.DeleteMedia(ctx, other, models.MediaPhoto, m.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other user: err = %v", err)
	}
	if err := svc.DeleteMedia(ctx, admin, models.MediaPhoto, m.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(media.rows) != 0 || len(objects.objects) != 0 {
		t.Errorf("rows=%d objects=%d after delete", len(media.rows), len(objects.objects))
	}
	if err := svc.DeleteMedia(ctx, admin, "video", m.ID); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("bad kind: err = %v", err)
	}
}
