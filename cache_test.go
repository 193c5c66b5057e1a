package wpfs_test

import (
	"context"
	"testing"
	"time"

	"github.com/gobeaver/wpfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	c := wpfs.NewMemoryCache()

	c.Set("a", 1, 0)
	c.Set("b", 2, time.Millisecond)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(5 * time.Millisecond)
	_, ok = c.Get("b")
	assert.False(t, ok)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(0), stats.Size)
	assert.InDelta(t, 0.5, stats.HitRate, 0.001)
}

func TestCachingHostContents(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/a.txt": "one"})
	ctx := context.Background()
	host := wpfs.NewCachingHost(fx.env.Host, 0)

	data, err := host.GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	// A change behind the cache's back is not seen until invalidated.
	require.NoError(t, afero.WriteFile(fx.fs, root+"/a.txt", []byte("two"), 0o644))
	data, err = host.GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	assert.True(t, host.Invalidate(root+"/a.txt"))
	data, err = host.GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	// Writes through the wrapper invalidate.
	require.NoError(t, host.PutContents(ctx, root+"/a.txt", []byte("three"), 0))
	data, err = host.GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "three", string(data))

	assert.Equal(t, int64(1), host.Stats().Hits)
	assert.Same(t, fx.env.Host, host.Unwrap())
}

func TestCachingHostReturnsCopies(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/a.txt": "abc"})
	ctx := context.Background()
	host := wpfs.NewCachingHost(fx.env.Host, 0)

	data, err := host.GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	data[0] = 'X'

	again, err := host.GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestCachingHostInvalidatePrefix(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/plugins/a/a.php": "a",
		root + "/plugins/b.php":   "b",
		root + "/pluginsx.php":    "x",
	})
	ctx := context.Background()
	host := wpfs.NewCachingHost(fx.env.Host, 0)

	for _, p := range []string{root + "/plugins/a/a.php", root + "/plugins/b.php", root + "/pluginsx.php"} {
		assert.True(t, host.Exists(ctx, p))
	}

	assert.Equal(t, 2, host.InvalidatePrefix(root+"/plugins/"))
	assert.Equal(t, int64(1), host.Stats().Size)
}

func TestCachingHostDeleteAndMove(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/a.txt": "a"})
	ctx := context.Background()
	host := wpfs.NewCachingHost(fx.env.Host, 0)

	require.True(t, host.Exists(ctx, root+"/a.txt"))
	require.False(t, host.Exists(ctx, root+"/b.txt"))

	require.NoError(t, host.Move(ctx, root+"/a.txt", root+"/b.txt", false))
	assert.False(t, host.Exists(ctx, root+"/a.txt"))
	assert.True(t, host.Exists(ctx, root+"/b.txt"))

	require.NoError(t, host.Delete(ctx, root+"/b.txt", false, wpfs.TypeFile))
	assert.False(t, host.Exists(ctx, root+"/b.txt"))
}

func TestCachingHostTTL(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	host := wpfs.NewCachingHost(fx.env.Host, 200*time.Millisecond)

	assert.False(t, host.IsFile(ctx, root+"/late.txt"))
	require.NoError(t, afero.WriteFile(fx.fs, root+"/late.txt", nil, 0o644))
	assert.False(t, host.IsFile(ctx, root+"/late.txt"))

	assert.Eventually(t, func() bool {
		return host.IsFile(ctx, root+"/late.txt")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCachingHostPathSpellings(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/a.txt": "one"})
	ctx := context.Background()
	host := wpfs.NewCachingHost(fx.env.Host, 0)

	data, err := host.GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))

	require.NoError(t, host.PutContents(ctx, "a.txt", []byte("two"), 0))
	for _, p := range []string{"a.txt", "./a.txt", root + "/a.txt", root + "//x/../a.txt"} {
		data, err = host.GetContents(ctx, p)
		require.NoError(t, err, p)
		assert.Equal(t, "two", string(data), p)
	}
	assert.Equal(t, int64(1), host.Stats().Size)

	assert.True(t, host.Exists(ctx, root+"/a.txt"))
	require.NoError(t, host.Delete(ctx, "./a.txt", false, wpfs.TypeFile))
	assert.False(t, host.Exists(ctx, root+"/a.txt"))
	_, err = host.GetContents(ctx, root+"/a.txt")
	assert.True(t, wpfs.IsNotExist(err))
}

func TestCachingHostInvalidateRelative(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/wp-content/a.txt": "one"})
	ctx := context.Background()
	host := wpfs.NewCachingHost(fx.env.Host, 0)

	_, err := host.GetContents(ctx, "wp-content/a.txt")
	require.NoError(t, err)

	// Absolute invalidation reaches entries read through relative paths.
	assert.Equal(t, 1, host.InvalidatePrefix(root+"/wp-content/"))
	_, err = host.GetContents(ctx, "wp-content/a.txt")
	require.NoError(t, err)
	assert.True(t, host.Invalidate(root+"/wp-content/a.txt"))
}

func TestCachingHostChdirKeepsEntries(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/a.txt":            "top",
		root + "/wp-content/a.txt": "content",
	})
	ctx := context.Background()
	host := wpfs.NewCachingHost(fx.env.Host, 0)

	data, err := host.GetContents(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "top", string(data))

	require.NoError(t, host.Chdir(ctx, root+"/wp-content"))
	assert.Equal(t, int64(1), host.Stats().Size)

	// The same relative spelling now names another file.
	data, err = host.GetContents(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	data, err = host.GetContents(ctx, "../a.txt")
	require.NoError(t, err)
	assert.Equal(t, "top", string(data))
	assert.Equal(t, int64(2), host.Stats().Size)
}

func TestCachingHostThroughFactory(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/a.txt": "one"})
	fx.env.Host = wpfs.NewCachingHost(fx.env.Host, 0)
	fx.factory = wpfs.NewFactory(fx.env)
	ctx := context.Background()

	got, err := fx.reader(t).GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "one", got)

	require.NoError(t, fx.action(t).PutContents(ctx, "./a.txt", "two", 0))
	got, err = fx.reader(t).GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}
