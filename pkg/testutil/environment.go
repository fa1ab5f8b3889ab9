// pkg/testutil/environment.go
// DEPENDENCIES: datastore
// PURPOSE: Isolate tests from the user's home, config and session

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/qcd/pkg/datastore"
)

// Variables read by qcd. Tests start with all of them unset.
var qcdEnvVars = []string{
	"QCD_RS_DBPATH",
	"QCD_RS_DBNAME",
	"QCD_RS_SESSIONID",
	"QCD_RS_CONFIG",
	"NO_COLOR",
}

// TestEnvironment is a temp home with its own XDG directories.
type TestEnvironment struct {
	Root      string
	HomeDir   string
	ConfigDir string
	StateDir  string

	t *testing.T
}

// NewTestEnvironment points HOME and the XDG variables at a fresh temp dir
// and clears every QCD_RS_* variable for the duration of the test.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	env := &TestEnvironment{
		Root:      root,
		HomeDir:   filepath.Join(root, "home"),
		ConfigDir: filepath.Join(root, "config"),
		StateDir:  filepath.Join(root, "state"),
		t:         t,
	}
	for _, dir := range []string{env.HomeDir, env.ConfigDir, env.StateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", env.ConfigDir)
	t.Setenv("XDG_STATE_HOME", env.StateDir)
	for _, name := range qcdEnvVars {
		// Setenv first so the original value is restored on cleanup
		t.Setenv(name, "")
		if err := os.Unsetenv(name); err != nil {
			t.Fatalf("Failed to unset %s: %v", name, err)
		}
	}

	return env
}

// DatabasePath is where qcd puts its database in this environment when
// nothing overrides it.
func (e *TestEnvironment) DatabasePath() string {
	return filepath.Join(e.HomeDir, ".qcd_rs.sqlite")
}

// Dir creates a directory below the home dir and returns its path.
func (e *TestEnvironment) Dir(rel string) string {
	e.t.Helper()
	return CreateDir(e.t, e.HomeDir, rel)
}

// CreateDir creates parent/rel and returns its path.
func CreateDir(t *testing.T, parent, rel string) string {
	t.Helper()
	path := filepath.Join(parent, rel)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", path, err)
	}
	return path
}

// OpenDB opens a fresh database in a temp dir and closes it on cleanup.
func OpenDB(t *testing.T) *datastore.DB {
	t.Helper()
	return OpenDBAt(t, filepath.Join(t.TempDir(), "qcd.sqlite"))
}

// OpenDBAt opens the database at path and closes it on cleanup.
func OpenDBAt(t *testing.T, path string) *datastore.DB {
	t.Helper()
	db, err := datastore.Open(context.Background(), datastore.Options{Path: path})
	if err != nil {
		t.Fatalf("Failed to open database %s: %v", path, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
