package zwrap_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/nefstar/zwrap"
)

const text = "data_x\n_entry.id 1ABC\n"

func gzipped(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, tt := range []struct {
		name string
		data []byte
		zip  bool
	}{
		{"plain.cif", []byte(text), false},
		{"packed.cif.gz", gzipped(t), true},
	} {
		fname := filepath.Join(dir, tt.name)
		require.NoError(t, os.WriteFile(fname, tt.data, 0o644))
		r, err := zwrap.Open(fname)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.zip, r.Compressed(), tt.name)
		b, err := io.ReadAll(r)
		require.NoError(t, err, tt.name)
		assert.Equal(t, text, string(b), tt.name)
		assert.NoError(t, r.Close(), tt.name)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := zwrap.Open(filepath.Join(t.TempDir(), "nothing.cif"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
