package objectstore

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Store is a bucket-scoped object store
type Store interface {
	// Put uploads body to key. With overwrite false an existing object is a conflict.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, overwrite bool) error
	// SignUpload returns a URL the client can PUT the object to directly
	SignUpload(ctx context.Context, key, contentType string) (string, error)
	// Exists reports whether key is present
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL is the address clients read key from
	PublicURL(key string) string
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFileName reduces a client file name to a safe object key segment
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "file"
	}
	if len(name) > 100 {
		ext := path.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:100-len(ext)] + ext
	}
	return name
}

// SessionMediaKey builds sessions/<session>/<kind>s/<uuid>-<name>
func SessionMediaKey(sessionID, kind, fileName string) string {
	return path.Join("sessions", sessionID, kind+"s", uuid.NewString()+"-"+SanitizeFileName(fileName))
}

// BelongsToSession reports whether key was issued for sessionID and kind
func BelongsToSession(key, sessionID, kind string) bool {
	prefix := path.Join("sessions", sessionID, kind+"s") + "/"
	return strings.HasPrefix(key, prefix) && !strings.Contains(key, "..")
}
