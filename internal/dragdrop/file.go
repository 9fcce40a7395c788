// internal/dragdrop/file.go
package dragdrop

import (
	"encoding/base64"
	"strings"

	"github.com/aidazolic/dropsim/api/schemas"
)

// DefaultMIMEType is assumed when a FileSpec declares none.
const DefaultMIMEType = "application/octet-stream"

// SimulatedFile is an in-memory file-like value built from a FileSpec. It is
// what gets placed into a TransferPayload and manufactured inside the page as
// a native File. The content is copied at construction time; the value never
// shares mutable state with its spec.
type SimulatedFile struct {
	name     string
	mimeType string
	content  []byte
}

// Build converts a FileSpec into a SimulatedFile. Content is treated as
// opaque bytes with no transcoding or line-ending normalization; the returned
// value's Size equals len(spec.Content) exactly. A zero-length content is
// legal. The name must be non-empty; the MIME type defaults to a generic
// binary type when omitted.
func Build(spec schemas.FileSpec) (*SimulatedFile, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, &ConstructionError{Reason: "file name must be non-empty"}
	}

	mimeType := spec.MIMEType
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}

	content := make([]byte, len(spec.Content))
	copy(content, spec.Content)

	return &SimulatedFile{
		name:     spec.Name,
		mimeType: mimeType,
		content:  content,
	}, nil
}

// Name returns the declared file name.
func (f *SimulatedFile) Name() string { return f.name }

// MIMEType returns the declared (or defaulted) MIME type.
func (f *SimulatedFile) MIMEType() string { return f.mimeType }

// Size returns the exact byte length of the content.
func (f *SimulatedFile) Size() int { return len(f.content) }

// encoded returns the content as base64 for transport into the page. Raw
// bytes cannot cross the protocol boundary as a JSON argument, so the in-page
// side decodes this back into a Uint8Array before constructing the File.
func (f *SimulatedFile) encoded() string {
	return base64.StdEncoding.EncodeToString(f.content)
}
