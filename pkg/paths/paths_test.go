package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
		errCode  errors.ErrorCode
	}{
		{"absolute path", "/usr/local/bin", "/usr/local/bin", ""},
		{"trailing slash cleaned", "/usr/local/", "/usr/local", ""},
		{"dot segments cleaned", "/usr/./local/../lib", "/usr/lib", ""},
		{"home expansion", "~/projects", filepath.Join(home, "projects"), ""},
		{"bare tilde", "~", home, ""},
		{"relative path", "sub/dir", filepath.Join(cwd, "sub", "dir"), ""},
		{"empty", "", "", errors.ErrInvalidPath},
		{"invalid utf8", "/tmp/\xff\xfe", "", errors.ErrInvalidPath},
		{"null byte", "/tmp/a\x00b", "", errors.ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.errCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.errCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("/srv/data"))

	err := Validate("relative/path")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPath))

	err = Validate("/srv/\xff")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPath))

	long := "/" + string(make([]byte, maxPathLength))
	err = Validate(long)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidPath))
}

func TestDatabasePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".qcd_rs.sqlite"), DatabasePath("", ""))
	assert.Equal(t, "/data/custom.db", DatabasePath("/data", "custom.db"))
	assert.Equal(t, filepath.Join(home, "db", ".qcd_rs.sqlite"), DatabasePath("~/db", ""))
}

func TestConfigFilePath(t *testing.T) {
	t.Setenv(EnvConfigFile, "/etc/qcd.toml")
	assert.Equal(t, "/etc/qcd.toml", ConfigFilePath())

	t.Setenv(EnvConfigFile, "")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	assert.Equal(t, filepath.Join("/cfg", "qcd", "config.toml"), ConfigFilePath())
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester", ExpandHome("~"))
	assert.Equal(t, "/home/tester/x", ExpandHome("~/x"))
	assert.Equal(t, "~other/x", ExpandHome("~other/x"))
	assert.Equal(t, "/abs", ExpandHome("/abs"))
	assert.Equal(t, "", ExpandHome(""))
}

func TestCurrentDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	got, err := CurrentDir()
	require.NoError(t, err)

	// macOS temp dirs live behind a /private symlink
	want, _ := filepath.EvalSymlinks(dir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotResolved)
}
