package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.False(t, cfg.Strict)
	assert.False(t, cfg.Rescue.Enabled)
	assert.Empty(t, cfg.CCDPath)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "nefstar.yaml")
	body := `strict: true
leave_unmatched: true
rescue:
  enabled: true
  adopt_auth_chain: true
workers: 3
`
	require.NoError(t, os.WriteFile(name, []byte(body), 0o644))
	v := viper.New()
	require.NoError(t, Init(v, name))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.LeaveUnmatched)
	assert.True(t, cfg.Rescue.Enabled)
	assert.True(t, cfg.Rescue.AdoptAuthChain)
	assert.False(t, cfg.Rescue.ResetAuthSeq)
	assert.Equal(t, 3, cfg.Workers)

	o, err := cfg.Options(nil)
	require.NoError(t, err)
	assert.True(t, o.Strict)
	assert.True(t, o.Rescue)
	assert.True(t, o.AdoptAuthChain)
	assert.Nil(t, o.Coords)
}

func TestEnv(t *testing.T) {
	t.Setenv("NEFSTAR_BMRB_ONLY", "true")
	t.Setenv("NEFSTAR_RESCUE_RESET_AUTH_SEQ", "true")
	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.True(t, cfg.BMRBOnly)
	assert.True(t, cfg.Rescue.ResetAuthSeq)
}

func TestBadCoords(t *testing.T) {
	cfg := Config{CIFPath: filepath.Join(t.TempDir(), "missing.cif")}
	_, err := cfg.Options(nil)
	assert.Error(t, err)
}

func TestStat(t *testing.T) {
	s, err := Config{}.Stat()
	require.NoError(t, err)
	assert.True(t, s.HasCompID("ALA"))

	_, err = Config{CCDPath: []string{filepath.Join(t.TempDir(), "none.toml")}}.Stat()
	assert.Error(t, err)
}
