package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/pkg/apperrors"
)

func pendingUsers() *fakeUsers {
	return newFakeUsers(
		models.User{ID: "u1", Email: "u1@example.com", Name: "Uma", Status: models.UserStatusPending, Role: models.RoleUser},
		models.User{ID: "u2", Email: "u2@example.com", Name: "Vic", Status: models.UserStatusPending, Role: models.RoleUser},
	)
}

func TestApproveUsersWithCapabilities(t *testing.T) {
	users := pendingUsers()
	caps := &fakeUserCaps{byUser: map[string][]string{"u1": {"cap-drums"}}}
	svc := NewUserService(users, caps, testLogger)

	resp, err := svc.SetUserStatus(context.Background(), admin, &dto.SetUserStatusRequest{
		UserIDs:      []string{"u1", "u2"},
		Action:       ActionApprove,
		Capabilities: []string{"cap-guitar"},
	})
	if err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	if resp.Status != string(models.UserStatusApproved) || len(resp.Updated) != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
	for _, id := range []string{"u1", "u2"} {
		if users.byID[id].Status != models.UserStatusApproved {
			t.Errorf("%s status = %s", id, users.byID[id].Status)
		}
		got := caps.byUser[id]
		if len(got) != 1 || got[0] != "cap-guitar" {
			t.Errorf("%s capabilities = %v, want exactly [cap-guitar]", id, got)
		}
	}
}

func TestRejectLeavesCapabilitiesAlone(t *testing.T) {
	users := pendingUsers()
	caps := &fakeUserCaps{byUser: map[string][]string{"u1": {"cap-drums"}}}
	svc := NewUserService(users, caps, testLogger)

	_, err := svc.SetUserStatus(context.Background(), admin, &dto.SetUserStatusRequest{
		UserIDs: []string{"u1"}, Action: ActionReject, Capabilities: []string{"cap-guitar"},
	})
	if err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	if users.byID["u1"].Status != models.UserStatusRejected {
		t.Error("u1 should be rejected")
	}
	if got := caps.byUser["u1"]; len(got) != 1 || got[0] != "cap-drums" {
		t.Errorf("capabilities changed on reject: %v", got)
	}
}

func TestSetUserStatusValidation(t *testing.T) {
	svc := NewUserService(pendingUsers(), &fakeUserCaps{}, testLogger)
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  models.Actor
		req    dto.SetUserStatusRequest
		target error
	}{
		{"non admin", member, dto.SetUserStatusRequest{UserIDs: []string{"u1"}, Action: ActionApprove}, apperrors.ErrPermissionDenied},
		{"no ids", admin, dto.SetUserStatusRequest{Action: ActionApprove}, apperrors.ErrBadRequest},
		{"bad action", admin, dto.SetUserStatusRequest{UserIDs: []string{"u1"}, Action: "ban"}, apperrors.ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetUserStatus(ctx, tt.actor, &tt.req)
			if !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestApprovalStopsWithoutRollback(t *testing.T) {
	users := pendingUsers()
	caps := &fakeUserCaps{failFor: "u2"}
	svc := NewUserService(users, caps, testLogger)

	_, err := svc.SetUserStatus(context.Background(), admin, &dto.SetUserStatusRequest{
		UserIDs: []string{"u1", "u2"}, Action: ActionApprove, Capabilities: []string{"cap-bass"},
	})
	if err == nil {
		t.Fatal("expected the capability failure to be returned")
	}
	if users.byID["u1"].Status != models.UserStatusApproved {
		t.Error("u1 was processed before the failure and must stay approved")
	}
}

func TestUpdateProfileRejectsShortPhone(t *testing.T) {
	users := pendingUsers()
	svc := NewUserService(users, &fakeUserCaps{}, testLogger)
	actor := models.Actor{UserID: "u1", Role: models.RoleUser}

	if _, err := svc.UpdateProfile(context.Background(), actor, &dto.UpdateProfileRequest{Name: "Uma", Phone: "555-12"}); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Errorf("err = %v, want bad request", err)
	}

	resp, err := svc.UpdateProfile(context.Background(), actor, &dto.UpdateProfileRequest{Name: " Uma R ", Phone: "(555) 010-2030"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.Name != "Uma R" {
		t.Errorf("name = %q", resp.Name)
	}
}
