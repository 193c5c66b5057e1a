// Package memory provides the "memory" host: an installation kept in an
// afero.MemMapFs, for tests and dry runs.
package memory

import (
	"path"

	"github.com/gobeaver/wpfs"
	"github.com/gobeaver/wpfs/hostfs"
	"github.com/spf13/afero"
)

// DefaultOwner owns every path of a fresh memory host.
const DefaultOwner = "www-data"

// New creates an empty installation in memory with the layout of cfg.
func New(cfg *wpfs.Config) (wpfs.Host, wpfs.Runtime, error) {
	return Open(afero.NewMemMapFs(), cfg)
}

// Open serves an existing afero filesystem, creating the layout directories
// that are missing.
func Open(fs afero.Fs, cfg *wpfs.Config) (wpfs.Host, wpfs.Runtime, error) {
	layout := cfg.Layout()
	for _, dir := range []string{
		layout.Abspath,
		layout.ContentDir,
		layout.PluginsDir,
		layout.ThemesDir,
		layout.LangDir,
		layout.UploadsDir,
	} {
		if err := fs.MkdirAll(dir, cfg.DirMode()); err != nil {
			return nil, nil, err
		}
	}

	_, host, rt, err := hostfs.Build(fs, cfg, hostfs.NewMapAttributes(DefaultOwner, DefaultOwner))
	return host, rt, err
}

// Seed writes files (path -> content) into fs, creating parents.
func Seed(fs afero.Fs, files map[string]string) error {
	for name, content := range files {
		if err := fs.MkdirAll(path.Dir(name), wpfs.ChmodDir); err != nil {
			return err
		}
		if err := afero.WriteFile(fs, name, []byte(content), wpfs.ChmodFile); err != nil {
			return err
		}
	}
	return nil
}
