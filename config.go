package wpfs

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Filesystem method (direct, memory, ssh2)
	Method string `env:"FS_METHOD,default:direct"`

	// Installation layout
	Abspath    string `env:"ABSPATH,default:./wordpress"`
	ContentDir string `env:"WP_CONTENT_DIR"` // defaults to ABSPATH/wp-content
	ContentURL string `env:"WP_CONTENT_URL,default:http://localhost/wp-content"`
	PluginDir  string `env:"WP_PLUGIN_DIR"` // defaults to WP_CONTENT_DIR/plugins
	LangDir    string `env:"WP_LANG_DIR"`   // defaults to WP_CONTENT_DIR/languages
	TempDir    string `env:"WP_TEMP_DIR"`
	Uploads    string `env:"UPLOADS"` // relative to ABSPATH, defaults to wp-content/uploads

	// SSH credentials
	FTPHost    string `env:"FTP_HOST"`
	FTPUser    string `env:"FTP_USER"`
	FTPPass    string `env:"FTP_PASS"`
	FTPPort    int    `env:"FTP_PORT,default:22"`
	FTPPubKey  string `env:"FTP_PUBKEY"`
	FTPPrivKey string `env:"FTP_PRIVKEY"` // Path to private key file

	// Default permissions, octal
	ChmodFile string `env:"FS_CHMOD_FILE,default:0644"`
	ChmodDir  string `env:"FS_CHMOD_DIR,default:0755"`

	// Decoration
	Guarded  bool `env:"WPFS_GUARDED,default:false"`
	Hookable bool `env:"WPFS_HOOKABLE,default:false"`

	// Content cache; a zero TTL disables it
	CacheTTL int  `env:"WPFS_CACHE_TTL,default:0"` // seconds
	Watch    bool `env:"WPFS_WATCH,default:false"`

	// Downloads and uploads
	TrustedKeys   string `env:"WPFS_TRUSTED_KEYS"` // comma-separated base64 ed25519 public keys
	MaxUploadSize int64  `env:"WPFS_MAX_UPLOAD_SIZE,default:0"`

	// Logging
	LogLevel string `env:"WPFS_LOG_LEVEL,default:info"`
	LogFile  string `env:"WPFS_LOG_FILE"`
}

// GetConfig returns config loaded from environment, e.g. BEAVER_FS_METHOD
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Method == "" {
		return errors.New("filesystem method is required")
	}
	if c.Abspath == "" {
		return errors.New("ABSPATH is required")
	}
	if _, err := parseMode(c.ChmodFile); err != nil {
		return fmt.Errorf("FS_CHMOD_FILE: %w", err)
	}
	if _, err := parseMode(c.ChmodDir); err != nil {
		return fmt.Errorf("FS_CHMOD_DIR: %w", err)
	}
	if c.Method == "ssh2" && c.FTPHost == "" {
		return errors.New("FTP_HOST is required for the ssh2 method")
	}
	return nil
}

func parseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q", s)
	}
	return os.FileMode(v).Perm(), nil
}

// FileMode returns FS_CHMOD_FILE, falling back to 0644.
func (c *Config) FileMode() os.FileMode {
	if m, err := parseMode(c.ChmodFile); err == nil {
		return m
	}
	return ChmodFile
}

// DirMode returns FS_CHMOD_DIR, falling back to 0755.
func (c *Config) DirMode() os.FileMode {
	if m, err := parseMode(c.ChmodDir); err == nil {
		return m
	}
	return ChmodDir
}

// Layout resolves the well-known directories of the installation.
func (c *Config) Layout() Layout {
	abs := c.Abspath
	if !filepath.IsAbs(abs) {
		if a, err := filepath.Abs(abs); err == nil {
			abs = a
		}
	}
	abs = path.Clean(filepath.ToSlash(abs))
	content := c.ContentDir
	if content == "" {
		content = path.Join(abs, "wp-content")
	}
	plugins := c.PluginDir
	if plugins == "" {
		plugins = path.Join(content, "plugins")
	}
	lang := c.LangDir
	if lang == "" {
		lang = path.Join(content, "languages")
	}
	uploads := path.Join(content, "uploads")
	if c.Uploads != "" {
		uploads = path.Join(abs, c.Uploads)
	}
	return Layout{
		Abspath:    abs,
		ContentDir: content,
		ContentURL: strings.TrimRight(c.ContentURL, "/"),
		PluginsDir: plugins,
		ThemesDir:  path.Join(content, "themes"),
		LangDir:    lang,
		UploadsDir: uploads,
		TempDir:    c.TempDir,
	}
}

// Layout holds the resolved directories a host serves.
type Layout struct {
	Abspath    string
	ContentDir string
	ContentURL string
	PluginsDir string
	ThemesDir  string
	LangDir    string
	UploadsDir string
	TempDir    string
}
