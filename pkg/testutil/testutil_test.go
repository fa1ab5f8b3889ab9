package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestEnvironment(t *testing.T) {
	t.Setenv("QCD_RS_SESSIONID", "leaked-from-the-outside-session")

	env := NewTestEnvironment(t)

	assert.Equal(t, env.HomeDir, os.Getenv("HOME"))
	assert.Equal(t, env.ConfigDir, os.Getenv("XDG_CONFIG_HOME"))
	_, set := os.LookupEnv("QCD_RS_SESSIONID")
	assert.False(t, set)

	dir := env.Dir("projects/qcd")
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(env.HomeDir, ".qcd_rs.sqlite"), env.DatabasePath())
}

func TestOpenDB(t *testing.T) {
	db := OpenDB(t)
	_, err := os.Stat(db.Path())
	assert.NoError(t, err)
}

func TestClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(start)
	c.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}
