package wpfs_test

import (
	"os"
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigFromEnv(t *testing.T) {
	t.Setenv("BEAVER_FS_METHOD", "memory")
	t.Setenv("BEAVER_ABSPATH", "/var/www/site")
	t.Setenv("BEAVER_FS_CHMOD_FILE", "0640")
	t.Setenv("BEAVER_WPFS_GUARDED", "true")
	t.Setenv("BEAVER_WPFS_CACHE_TTL", "30")

	cfg, err := wpfs.GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Method)
	assert.Equal(t, "/var/www/site", cfg.Abspath)
	assert.Equal(t, os.FileMode(0o640), cfg.FileMode())
	assert.Equal(t, os.FileMode(0o755), cfg.DirMode())
	assert.True(t, cfg.Guarded)
	assert.False(t, cfg.Hookable)
	assert.Equal(t, 30, cfg.CacheTTL)
	assert.Equal(t, 22, cfg.FTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*wpfs.Config)
		wantErr string
	}{
		{"valid", func(*wpfs.Config) {}, ""},
		{"no method", func(c *wpfs.Config) { c.Method = "" }, "filesystem method is required"},
		{"no abspath", func(c *wpfs.Config) { c.Abspath = "" }, "ABSPATH is required"},
		{"bad file mode", func(c *wpfs.Config) { c.ChmodFile = "rw" }, "FS_CHMOD_FILE"},
		{"bad dir mode", func(c *wpfs.Config) { c.ChmodDir = "0999" }, "FS_CHMOD_DIR"},
		{"ssh2 without host", func(c *wpfs.Config) { c.Method = "ssh2" }, "FTP_HOST is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigModeFallback(t *testing.T) {
	cfg := &wpfs.Config{ChmodFile: "bogus", ChmodDir: ""}
	assert.Equal(t, wpfs.ChmodFile, cfg.FileMode())
	assert.Equal(t, wpfs.ChmodDir, cfg.DirMode())

	cfg = &wpfs.Config{ChmodFile: " 0600 ", ChmodDir: "2775"}
	assert.Equal(t, os.FileMode(0o600), cfg.FileMode())
	assert.Equal(t, os.FileMode(0o775), cfg.DirMode())
}

func TestConfigLayout(t *testing.T) {
	layout := testConfig().Layout()
	assert.Equal(t, wpfs.Layout{
		Abspath:    root,
		ContentDir: root + "/wp-content",
		ContentURL: "http://example.test/wp-content",
		PluginsDir: root + "/wp-content/plugins",
		ThemesDir:  root + "/wp-content/themes",
		LangDir:    root + "/wp-content/languages",
		UploadsDir: root + "/wp-content/uploads",
	}, layout)

	cfg := testConfig()
	cfg.Abspath = root + "/"
	cfg.ContentDir = "/data/content"
	cfg.PluginDir = "/data/plugins"
	cfg.Uploads = "files"
	cfg.ContentURL = "https://cdn.test/c/"
	layout = cfg.Layout()
	assert.Equal(t, root, layout.Abspath)
	assert.Equal(t, "/data/content/themes", layout.ThemesDir)
	assert.Equal(t, "/data/plugins", layout.PluginsDir)
	assert.Equal(t, "/data/content/languages", layout.LangDir)
	assert.Equal(t, root+"/files", layout.UploadsDir)
	assert.Equal(t, "https://cdn.test/c", layout.ContentURL)
}
