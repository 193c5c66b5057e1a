package wpfs_test

import (
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/gobeaver/wpfs/driver/memory"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const root = "/srv/wp"

type fixture struct {
	fs       afero.Fs
	cfg      *wpfs.Config
	env      *wpfs.Environment
	hooks    *wpfs.HookRegistry
	settings *wpfs.Settings
	factory  *wpfs.Factory
}

func testConfig() *wpfs.Config {
	return &wpfs.Config{
		Method:     "memory",
		Abspath:    root,
		ContentURL: "http://example.test/wp-content",
		ChmodFile:  "0644",
		ChmodDir:   "0755",
	}
}

// newFixture builds an isolated environment over an in-memory installation
// holding files.
func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, memory.Seed(fs, files))

	cfg := testConfig()
	host, rt, err := memory.Open(fs, cfg)
	require.NoError(t, err)

	fx := &fixture{
		fs:       fs,
		cfg:      cfg,
		hooks:    wpfs.NewHookRegistry(),
		settings: wpfs.NewSettings(false, false),
	}
	fx.env = &wpfs.Environment{
		Host:     host,
		Runtime:  rt,
		Hooks:    fx.hooks,
		Settings: fx.settings,
		Logger:   zerolog.Nop(),
	}
	fx.factory = wpfs.NewFactory(fx.env)
	return fx
}

func (fx *fixture) reader(t *testing.T) wpfs.Reader {
	t.Helper()
	r, err := fx.factory.Reader()
	require.NoError(t, err)
	return r
}

func (fx *fixture) action(t *testing.T) wpfs.Action {
	t.Helper()
	a, err := fx.factory.Action()
	require.NoError(t, err)
	return a
}

func (fx *fixture) auditor(t *testing.T) wpfs.Auditor {
	t.Helper()
	a, err := fx.factory.Auditor()
	require.NoError(t, err)
	return a
}

func (fx *fixture) manager(t *testing.T) wpfs.Manager {
	t.Helper()
	m, err := fx.factory.Manager()
	require.NoError(t, err)
	return m
}

func (fx *fixture) advanced(t *testing.T) wpfs.Advanced {
	t.Helper()
	a, err := fx.factory.Advanced()
	require.NoError(t, err)
	return a
}

func (fx *fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fx.fs, name)
	require.NoError(t, err)
	return string(data)
}
