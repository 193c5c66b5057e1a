// Package local provides the "direct" host: the installation on local disk.
package local

import (
	"fmt"

	"github.com/gobeaver/wpfs"
	"github.com/gobeaver/wpfs/hostfs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// New creates the local host for cfg. With WPFS_WATCH set the content
// directory is watched and changes made by other processes invalidate the
// content cache.
func New(cfg *wpfs.Config) (wpfs.Host, wpfs.Runtime, error) {
	base, host, rt, err := hostfs.Build(afero.NewOsFs(), cfg, osAttributes{})
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Watch {
		return host, rt, nil
	}

	target, ok := host.(wpfs.CanInvalidate)
	if !ok {
		return host, rt, nil
	}
	w, err := Watch(cfg.Layout().ContentDir, target, log.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("watch content dir: %w", err)
	}
	base.AddCloser(w)
	return host, rt, nil
}
