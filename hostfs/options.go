package hostfs

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gobeaver/wpfs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Options configures a Host and its Runtime.
type Options struct {
	// FileMode and DirMode are used when a caller passes a zero mode.
	// Default: 0644 and 0755
	FileMode os.FileMode
	DirMode  os.FileMode

	// Attributes resolves owners, groups and access times.
	// Default: an in-memory table
	Attributes Attributes

	// TrustedKeys verify download signatures.
	TrustedKeys []ed25519.PublicKey

	// MaxUploadSize rejects larger uploads; zero disables the check.
	MaxUploadSize int64

	// Client performs downloads.
	// Default: http.DefaultClient
	Client *http.Client

	// Logger receives runtime events. The zero value discards them.
	Logger zerolog.Logger

	// Now is the clock of the uploads directory buckets.
	// Default: time.Now
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.FileMode == 0 {
		o.FileMode = wpfs.ChmodFile
	}
	if o.DirMode == 0 {
		o.DirMode = wpfs.ChmodDir
	}
	if o.Attributes == nil {
		o.Attributes = NewMapAttributes("", "")
	}
	if o.Client == nil {
		o.Client = http.DefaultClient
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// OptionsFromConfig reads modes, trusted keys and the upload limit from cfg.
func OptionsFromConfig(cfg *wpfs.Config) (Options, error) {
	keys, err := ParseTrustedKeys(cfg.TrustedKeys)
	if err != nil {
		return Options{}, err
	}
	return Options{
		FileMode:      cfg.FileMode(),
		DirMode:       cfg.DirMode(),
		TrustedKeys:   keys,
		MaxUploadSize: cfg.MaxUploadSize,
		Logger:        log.Logger,
	}, nil
}

// ParseTrustedKeys decodes a comma separated list of base64 ed25519 keys.
func ParseTrustedKeys(list string) ([]ed25519.PublicKey, error) {
	var keys []ed25519.PublicKey
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("trusted key %q: %w", s, err)
		}
		if len(raw) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("trusted key %q: want %d bytes, got %d", s, ed25519.PublicKeySize, len(raw))
		}
		keys = append(keys, ed25519.PublicKey(raw))
	}
	return keys, nil
}

// Build creates the host and runtime a driver registers. The runtime works
// over the cache-wrapped host so its writes invalidate the cache. closers
// are released when the host is closed.
func Build(fs afero.Fs, cfg *wpfs.Config, attrs Attributes, closers ...io.Closer) (*Host, wpfs.Host, wpfs.Runtime, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	opts.Attributes = attrs

	layout := cfg.Layout()
	base := New(fs, layout, opts)
	for _, c := range closers {
		base.AddCloser(c)
	}
	host := wpfs.WrapCache(base, cfg)
	return base, host, NewRuntime(host, layout, opts), nil
}
