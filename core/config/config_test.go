package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
banner: "hello\n"
prompt: '\w\$ '
history_file: history.db
default_path: /usr/bin:/bin
`

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/gush/config.yaml", []byte(testConfig), 0644))

	cfg, err := Load(fsys, "/etc/gush")

	require.NoError(t, err)
	assert.Equal(t, "hello\n", cfg.Banner)
	assert.Equal(t, `\w\$ `, cfg.Prompt)
	assert.Equal(t, "/usr/bin:/bin", cfg.DefaultPath)
	assert.Equal(t, filepath.Join("/etc/gush", "history.db"), cfg.HistoryPath())
}

func TestLoadAcceptsConfigFilePath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/gush/config.yaml", []byte(testConfig), 0644))

	cfg, err := Load(fsys, "/etc/gush/config.yaml")

	require.NoError(t, err)
	assert.Equal(t, `\w\$ `, cfg.Prompt)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/etc/gush")

	assert.Error(t, err)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/gush/config.yaml",
		[]byte(testConfig+"bogus_key: true\n"), 0644))

	_, err := Load(fsys, "/etc/gush")

	assert.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/gush/config.yaml",
		[]byte("banner: hi\n"), 0644))

	_, err := Load(fsys, "/etc/gush")

	require.Error(t, err)
	// Validation errors name fields by their json tag.
	assert.Contains(t, err.Error(), "prompt")
}

func TestHistoryPathAbsolute(t *testing.T) {
	cfg := &Configuration{configDir: "/etc/gush", HistoryFile: "/var/lib/gush/history.db"}

	assert.Equal(t, "/var/lib/gush/history.db", cfg.HistoryPath())
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Banner)
	assert.NotEmpty(t, cfg.HistoryFile)
}
