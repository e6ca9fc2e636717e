package objectstore

import (
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Take 3 (final).mp3", "Take-3-final-.mp3"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\photo.jpg`, "photo.jpg"},
		{"...", "file"},
		{"", "file"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	got := SanitizeFileName(strings.Repeat("a", 300) + ".wav")
	if len(got) != 100 || !strings.HasSuffix(got, ".wav") {
		t.Errorf("got %d chars: %q", len(got), got)
	}
}

func TestSessionMediaKey(t *testing.T) {
	key := SessionMediaKey("s1", "recording", "jam.m4a")
	if !strings.HasPrefix(key, "sessions/s1/recordings/") || !strings.HasSuffix(key, "-jam.m4a") {
		t.Errorf("key = %q", key)
	}
	if !BelongsToSession(key, "s1", "recording") {
		t.Error("key should belong to its session")
	}
	if BelongsToSession(key, "s2", "recording") || BelongsToSession(key, "s1", "photo") {
		t.Error("key must not match another session or kind")
	}
	if BelongsToSession("sessions/s1/recordings/../../s2/x", "s1", "recording") {
		t.Error("traversal must be rejected")
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(&types.NotFound{}) {
		t.Error("typed NotFound")
	}
	if !isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}) {
		t.Error("generic NoSuchKey")
	}
	if isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}) || isNotFound(errors.New("x")) {
		t.Error("false positive")
	}
}
