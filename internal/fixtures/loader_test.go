// internal/fixtures/loader_test.go
package fixtures

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestLoader(t *testing.T, files map[string][]byte) *Loader {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, "testdata/"+name, content, 0o644))
	}
	return NewLoader(fsys, "testdata", zaptest.NewLogger(t))
}

func TestLoaderLoad(t *testing.T) {
	body := []byte("col1,col2\n1,2\n")
	loader := newTestLoader(t, map[string][]byte{"base.csv": body})

	spec, err := loader.Load("base.csv")
	require.NoError(t, err)

	assert.Equal(t, body, spec.Content)
	assert.Equal(t, "base.csv", spec.Name)
	assert.Equal(t, "text/csv", spec.MIMEType)
}

func TestLoaderMIMEFallback(t *testing.T) {
	loader := newTestLoader(t, map[string][]byte{"blob.unknownext": {0x00, 0x01}})

	spec, err := loader.Load("blob.unknownext")
	require.NoError(t, err)
	assert.Equal(t, defaultMIMEType, spec.MIMEType)
}

func TestLoaderMIMEOverride(t *testing.T) {
	loader := newTestLoader(t, map[string][]byte{"data.bin": []byte("x")})

	spec, err := loader.LoadWithMIME("data.bin", "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", spec.MIMEType)
}

func TestLoaderEmptyFixture(t *testing.T) {
	loader := newTestLoader(t, map[string][]byte{"empty.csv": {}})

	spec, err := loader.Load("empty.csv")
	require.NoError(t, err)
	assert.Empty(t, spec.Content)
}

func TestLoaderMissingFixture(t *testing.T) {
	loader := newTestLoader(t, nil)

	_, err := loader.Load("nope.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestLoaderRejectsEmptyName(t *testing.T) {
	loader := newTestLoader(t, nil)

	_, err := loader.Load("  ")
	require.Error(t, err)
}
