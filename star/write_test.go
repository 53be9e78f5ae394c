package star

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fmtTests = []struct {
	in, want string
}{
	{"", "."},
	{"ALA", "ALA"},
	{"two words", "'two words'"},
	{"it's here", "\"it's here\""},
	{"_looks_like_tag", "'_looks_like_tag'"},
	{"loop_x", "'loop_x'"},
	{"a\nb", ";a\nb\n;"},
	{"'both\" kinds", ";'both\" kinds\n;"},
}

func TestFormatValue(t *testing.T) {
	for _, tt := range fmtTests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%q) got %q want %q", tt.in, got, tt.want)
		}
	}
}

// TestWriteRead writes what we read and reads it again. Every tag and
// value must survive.
func TestWriteRead(t *testing.T) {
	doc, err := Parse(smallNef)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf, WriteOptions{}))

	again, err := Parse(buf.String())
	require.NoError(t, err, buf.String())
	assert.Equal(t, doc.Entry, again.Entry)
}

func TestWriteSkips(t *testing.T) {
	e := NewEntry("x")
	sf := NewSaveframe("nef_chemical_shift_list_a", "nef_chemical_shift_list")
	require.NoError(t, sf.AddTag("sf_category", "nef_chemical_shift_list"))
	require.NoError(t, sf.AddTag("sf_framecode", sf.Name))
	require.NoError(t, sf.AddTag("comment", "?"))
	lp := NewLoop("_nef_chemical_shift")
	require.NoError(t, lp.AddTag("chain_code", "value"))
	require.NoError(t, lp.AddData([]string{".", "?"}))
	require.NoError(t, sf.AddLoop(lp))
	require.NoError(t, e.AddSaveframe(sf))

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, WriteOptions{SkipEmptyLoops: true, SkipEmptyTags: true}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "data_x\n"))
	assert.NotContains(t, out, "comment")
	assert.NotContains(t, out, "loop_")
	assert.Contains(t, out, "_nef_chemical_shift_list.sf_framecode")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.nef")
	require.NoError(t, os.WriteFile(plain, []byte(smallNef), 0o644))
	doc, err := ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "test_entry", doc.Entry.ID)

	var zbuf bytes.Buffer
	zw := gzip.NewWriter(&zbuf)
	_, err = zw.Write([]byte(smallNef))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	zipped := filepath.Join(dir, "a.nef.gz")
	require.NoError(t, os.WriteFile(zipped, zbuf.Bytes(), 0o644))
	zdoc, err := ReadFile(zipped)
	require.NoError(t, err)
	assert.Equal(t, doc.Entry, zdoc.Entry)

	empty := filepath.Join(dir, "empty.nef")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = ReadFile(empty)
	assert.True(t, errors.Is(err, ErrEmptyFile))

	out := filepath.Join(dir, "out.nef")
	require.NoError(t, WriteFile(out, doc, WriteOptions{}))
	back, err := ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, doc.Entry, back.Entry)
}
