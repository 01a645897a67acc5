package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/mediplus/internal/config"
)

var (
	ErrNotFound  = errors.New("blob not found")
	ErrInvalidID = errors.New("invalid blob id")
)

// Object is a stored payload: an opaque id plus the URL it is served from.
type Object struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Store interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (Object, error)
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, id string) error
	URL(id string) string
}

func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Store(cfg), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewID derives a unique id from an uploaded file name: a uuid, a dash and
// the sanitized base name.
func NewID(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "file"
	}
	if len(base) > 100 {
		base = base[len(base)-100:]
	}
	return uuid.NewString() + "-" + base
}

func validateID(id string) error {
	if id == "" || id != path.Base(id) || strings.HasPrefix(id, ".") || unsafeChars.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

func publicURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/" + id
}

func contentTypeFor(id string) string {
	if ct := mime.TypeByExtension(filepath.Ext(id)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
