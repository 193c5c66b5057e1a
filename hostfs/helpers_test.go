package hostfs_test

import (
	"path"
	"testing"
	"time"

	"github.com/gobeaver/wpfs"
	"github.com/gobeaver/wpfs/hostfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const root = "/srv/wp"

var fixedNow = time.Date(2024, time.May, 17, 12, 0, 0, 0, time.UTC)

type env struct {
	fs    afero.Fs
	host  *hostfs.Host
	rt    *hostfs.Runtime
	attrs *hostfs.MapAttributes
}

func testLayout() wpfs.Layout {
	cfg := &wpfs.Config{
		Abspath:    root,
		ContentURL: "http://example.test/wp-content",
		TempDir:    root + "/tmp",
	}
	return cfg.Layout()
}

// newEnv serves files from a fresh memory filesystem with the standard
// layout. opt, when given, adjusts the options before the host is built.
func newEnv(t *testing.T, files map[string]string, opt ...func(*hostfs.Options)) *env {
	t.Helper()

	fs := afero.NewMemMapFs()
	layout := testLayout()
	for _, dir := range []string{layout.Abspath, layout.PluginsDir, layout.ThemesDir, layout.UploadsDir, layout.TempDir} {
		require.NoError(t, fs.MkdirAll(dir, 0o755))
	}
	for name, content := range files {
		require.NoError(t, fs.MkdirAll(path.Dir(name), 0o755))
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	attrs := hostfs.NewMapAttributes("www-data", "www-data")
	opts := hostfs.Options{Attributes: attrs, Now: func() time.Time { return fixedNow }}
	for _, o := range opt {
		o(&opts)
	}

	host := hostfs.New(fs, layout, opts)
	return &env{fs: fs, host: host, rt: hostfs.NewRuntime(host, layout, opts), attrs: attrs}
}

func (e *env) read(t *testing.T, name string) string {
	t.Helper()
	data, err := afero.ReadFile(e.fs, name)
	require.NoError(t, err)
	return string(data)
}
