package memory_test

import (
	"context"
	"slices"
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/gobeaver/wpfs/driver/memory"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config() *wpfs.Config {
	return &wpfs.Config{
		Method:    "memory",
		Abspath:   "/srv/wp",
		ChmodFile: "0644",
		ChmodDir:  "0755",
	}
}

func TestNewCreatesLayout(t *testing.T) {
	host, rt, err := memory.New(config())
	require.NoError(t, err)
	require.NotNil(t, rt)
	ctx := context.Background()

	for _, dir := range []string{
		"/srv/wp",
		"/srv/wp/wp-content",
		"/srv/wp/wp-content/plugins",
		"/srv/wp/wp-content/themes",
		"/srv/wp/wp-content/languages",
		"/srv/wp/wp-content/uploads",
	} {
		assert.True(t, host.IsDir(ctx, dir), dir)
	}
	require.NoError(t, host.Connect(ctx))

	owner, err := host.Owner(ctx, "/srv/wp")
	require.NoError(t, err)
	assert.Equal(t, memory.DefaultOwner, owner)
}

func TestOpenSeeded(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, memory.Seed(fs, map[string]string{
		"/srv/wp/wp-config.php":                      "<?php",
		"/srv/wp/wp-content/plugins/hello/hello.php": "hello",
	}))

	info, err := fs.Stat("/srv/wp/wp-content/plugins/hello")
	require.NoError(t, err)
	assert.Equal(t, wpfs.ChmodDir, info.Mode().Perm())

	host, _, err := memory.Open(fs, config())
	require.NoError(t, err)

	data, err := host.GetContents(context.Background(), "wp-config.php")
	require.NoError(t, err)
	assert.Equal(t, "<?php", string(data))
}

func TestOpenWithCache(t *testing.T) {
	cfg := config()
	cfg.CacheTTL = 60

	host, _, err := memory.New(cfg)
	require.NoError(t, err)
	_, ok := host.(*wpfs.CachingHost)
	assert.True(t, ok)
}

func TestRegistered(t *testing.T) {
	assert.True(t, slices.Contains(wpfs.Drivers(), "memory"))

	host, _, err := wpfs.CreateHost(config())
	require.NoError(t, err)
	assert.Equal(t, "/srv/wp/", host.Abspath())
}
