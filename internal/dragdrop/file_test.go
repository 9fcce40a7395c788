// internal/dragdrop/file_test.go
package dragdrop

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidazolic/dropsim/api/schemas"
)

func TestBuildRoundTripFidelity(t *testing.T) {
	cases := []struct {
		name string
		size int
	}{
		{"Empty", 0},
		{"SingleByte", 1},
		{"Large", 2 << 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content := bytes.Repeat([]byte{0xA7}, tc.size)
			file, err := Build(schemas.FileSpec{Content: content, Name: "blob.bin", MIMEType: "application/x-test"})
			require.NoError(t, err)

			assert.Equal(t, tc.size, file.Size(), "reported byte length must equal the spec content length exactly")
			assert.Equal(t, "blob.bin", file.Name())
			assert.Equal(t, "application/x-test", file.MIMEType())
		})
	}
}

func TestBuildBinaryContentIsOpaque(t *testing.T) {
	// Bytes that would trip any encoding or line-ending normalization.
	content := []byte{0x00, 0xFF, '\r', '\n', 0x80, '\r', 0x00}
	file, err := Build(schemas.FileSpec{Content: content, Name: "raw.bin"})
	require.NoError(t, err)
	assert.Equal(t, len(content), file.Size())
}

func TestBuildCopiesContent(t *testing.T) {
	content := []byte("original")
	file, err := Build(schemas.FileSpec{Content: content, Name: "a.txt"})
	require.NoError(t, err)

	// Mutating the caller's buffer must not reach the built file.
	content[0] = 'X'
	assert.Equal(t, "b3JpZ2luYWw=", file.encoded())
}

func TestBuildDefaultsMIMEType(t *testing.T) {
	file, err := Build(schemas.FileSpec{Content: []byte("x"), Name: "noext"})
	require.NoError(t, err)
	assert.Equal(t, DefaultMIMEType, file.MIMEType())
}

func TestBuildRejectsEmptyName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		_, err := Build(schemas.FileSpec{Content: []byte("x"), Name: name})
		require.Error(t, err)

		var cerr *ConstructionError
		require.ErrorAs(t, err, &cerr)
	}
}
