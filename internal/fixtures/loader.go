// internal/fixtures/loader.go
// Fixture loading: resolving a named test resource to raw bytes plus declared
// name/MIME metadata. Backed by an abstract filesystem so tests run against
// an in-memory tree instead of the host disk.
package fixtures

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aidazolic/dropsim/api/schemas"
)

const defaultMIMEType = "application/octet-stream"

// Loader resolves named fixtures from a directory into FileSpec values.
type Loader struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

// NewLoader creates a loader rooted at dir on the given filesystem. A nil
// filesystem falls back to the host OS.
func NewLoader(fsys afero.Fs, dir string, logger *zap.Logger) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fs: fsys, dir: dir, logger: logger}
}

// Load resolves the named fixture to its raw bytes. The declared name is the
// fixture's base name and the MIME type is inferred from its extension,
// falling back to a generic binary type. The content is returned as opaque
// bytes with no decoding of any kind.
func (l *Loader) Load(name string) (schemas.FileSpec, error) {
	return l.LoadWithMIME(name, "")
}

// LoadWithMIME is Load with an explicit MIME type overriding the inference.
func (l *Loader) LoadWithMIME(name, mimeType string) (schemas.FileSpec, error) {
	if strings.TrimSpace(name) == "" {
		return schemas.FileSpec{}, fmt.Errorf("fixture name must be non-empty")
	}

	path := filepath.Join(l.dir, name)
	content, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return schemas.FileSpec{}, fmt.Errorf("failed to load fixture %q: %w", name, err)
	}

	if mimeType == "" {
		mimeType = inferMIMEType(name)
	}

	l.logger.Debug("Loaded fixture.",
		zap.String("fixture", name),
		zap.Int("bytes", len(content)),
		zap.String("mime_type", mimeType))

	return schemas.FileSpec{
		Content:  content,
		Name:     filepath.Base(name),
		MIMEType: mimeType,
	}, nil
}

// inferMIMEType maps a fixture's extension to a MIME type, stripping any
// charset parameters the mime package appends for text types.
func inferMIMEType(name string) string {
	byExt := mime.TypeByExtension(filepath.Ext(name))
	if byExt == "" {
		return defaultMIMEType
	}
	if base, _, err := mime.ParseMediaType(byExt); err == nil {
		return base
	}
	return byExt
}
