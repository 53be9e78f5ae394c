package brokenio

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const text = "save_nef_molecular_system\n   _nef_molecular_system.sf_category nef_molecular_system\nsave_\n"

func TestClean(t *testing.T) {
	r := New(strings.NewReader(text), 1)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, text, string(b))
	_, n := r.Counts()
	assert.Equal(t, len(text), n)
}

func TestZeroFile(t *testing.T) {
	r := New(strings.NewReader(text), 1)
	r.SetProbZeroFile(1)
	b, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Empty(t, b)
}

func TestFail(t *testing.T) {
	r := New(strings.NewReader(text), 1)
	r.SetProbFail(1)
	r.SetFracFail(0.5)
	_, err := io.ReadAll(r)
	assert.ErrorContains(t, err, "wiped out")
}

func TestTrash(t *testing.T) {
	p := []byte("abcdefghij")
	n, err := trash(p, 0.3)
	assert.Equal(t, 7, n)
	assert.Error(t, err)
	assert.Equal(t, []byte{0, 0, 0}, p[7:])

	n, err = trash(p[:4], 0)
	assert.Equal(t, 4, n)
	assert.NoError(t, err)
}
