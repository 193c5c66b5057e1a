package wpfs_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := testConfig()
	cfg.Guarded = true

	f, err := wpfs.New(cfg)
	require.NoError(t, err)
	assert.True(t, f.Environment().Settings.Guarded())
	assert.False(t, f.Environment().Settings.Hookable())

	r, err := f.Reader()
	require.NoError(t, err)
	assert.Equal(t, root+"/wp-content/plugins/", r.GetPluginsPath())

	// Guarded by config: a missing file is reported as such.
	_, err = r.GetContents(context.Background(), root+"/nope")
	assert.True(t, wpfs.IsNotExist(err))
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Method = ""

	_, err := wpfs.New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNewConnectionErrors(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		cfg := testConfig()
		cfg.Method = "ssh2"
		cfg.FTPHost = "example.test"

		_, err := wpfs.New(cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, wpfs.ErrConnection))
		assert.Equal(t, "Filesystem credentials were not provided.", err.Error())
	})

	t.Run("unregistered method", func(t *testing.T) {
		cfg := testConfig()
		cfg.Method = "ftpext"

		_, err := wpfs.New(cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, wpfs.ErrConnection))
		assert.True(t, errors.Is(err, wpfs.ErrNotSupported))
		assert.Equal(t, "Failed to connect to the filesystem with the provided credentials.", err.Error())
	})
}

func TestInitAndDefault(t *testing.T) {
	wpfs.Reset()
	t.Cleanup(func() {
		wpfs.Reset()
		wpfs.SetGuarded(false)
		wpfs.SetHookable(false)
	})

	cfg := testConfig()
	cfg.Hookable = true
	require.NoError(t, wpfs.Init(cfg))

	f, err := wpfs.Default()
	require.NoError(t, err)
	assert.Same(t, wpfs.DefaultSettings(), f.Environment().Settings)
	assert.True(t, wpfs.DefaultSettings().Hookable())

	// A second Init is a no-op.
	other := testConfig()
	other.Method = "ssh2"
	require.NoError(t, wpfs.Init(other))

	again, err := wpfs.Default()
	require.NoError(t, err)
	assert.Same(t, f, again)
}

func TestInitResetConcurrent(t *testing.T) {
	wpfs.Reset()
	t.Cleanup(func() {
		wpfs.Reset()
		wpfs.SetGuarded(false)
		wpfs.SetHookable(false)
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, wpfs.Init(testConfig()))
		}()
		go func() {
			defer wg.Done()
			wpfs.Reset()
		}()
	}
	wg.Wait()

	require.NoError(t, wpfs.Init(testConfig()))
	f, err := wpfs.Default()
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestWithPrefix(t *testing.T) {
	t.Setenv("SITE_FS_METHOD", "memory")
	t.Setenv("SITE_ABSPATH", "/srv/site")
	t.Setenv("SITE_WPFS_HOOKABLE", "true")

	f, err := wpfs.WithPrefix("SITE_").New()
	require.NoError(t, err)
	assert.True(t, f.Environment().Settings.Hookable())

	r, err := f.Reader()
	require.NoError(t, err)
	assert.Equal(t, "/srv/site/", r.GetInstallationPath())
}
