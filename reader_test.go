package wpfs_test

import (
	"context"
	"os"
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderLocations(t *testing.T) {
	r := newFixture(t, nil).reader(t)
	ctx := context.Background()

	home, err := r.GetHomePath(ctx)
	require.NoError(t, err)
	assert.Equal(t, root+"/", home)
	assert.Equal(t, root+"/", r.GetInstallationPath())
	assert.Equal(t, root+"/wp-content/", r.GetContentPath())
	assert.Equal(t, root+"/wp-content/plugins/", r.GetPluginsPath())
	assert.Equal(t, root+"/wp-content/themes/", r.GetThemesPath(""))
	assert.Equal(t, root+"/wp-content/languages/", r.GetLangPath())
}

func TestReaderContents(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/lines.txt": "one\ntwo\nthree",
		root + "/empty.txt": "",
	})
	r := fx.reader(t)
	ctx := context.Background()

	lines, err := r.GetContentsAsArray(ctx, root+"/lines.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"one\n", "two\n", "three"}, lines)

	lines, err = r.GetContentsAsArray(ctx, root+"/empty.txt")
	require.NoError(t, err)
	assert.Empty(t, lines)

	size, err := r.GetFileSize(ctx, root+"/lines.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(13), size)

	_, err = r.GetLastModifiedTime(ctx, root+"/lines.txt")
	assert.NoError(t, err)
}

func TestReaderPermissions(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/wp-config.php": "<?php"})
	require.NoError(t, fx.fs.Chmod(root+"/wp-config.php", 0o640))
	r := fx.reader(t)
	ctx := context.Background()

	human, err := r.GetHumanReadablePermissions(ctx, root+"/wp-config.php")
	require.NoError(t, err)
	assert.Equal(t, "-rw-r-----", human)

	octal, err := r.GetPermissions(ctx, root+"/wp-config.php")
	require.NoError(t, err)
	assert.Equal(t, "640", octal)

	assert.Equal(t, "0640", r.GetPermissionsAsOctal(human))

	owner, err := r.GetOwner(ctx, root+"/wp-config.php")
	require.NoError(t, err)
	assert.Equal(t, "www-data", owner)
}

func TestReaderDirectoryList(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/wp-content/plugins/hello.php":        "h",
		root + "/wp-content/plugins/akismet/main.php": "a",
		root + "/wp-content/plugins/.DS_Store":        "x",
	})
	r := fx.reader(t)
	ctx := context.Background()

	list, err := r.GetDirectoryList(ctx, root+"/wp-content/plugins", false, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "akismet", list[0].Name)
	assert.Equal(t, wpfs.TypeDirectory, list[0].Type)
	require.Len(t, list[0].Files, 1)
	assert.Equal(t, "main.php", list[0].Files[0].Name)
	assert.Equal(t, "hello.php", list[1].Name)
	assert.Equal(t, int64(1), list[1].Size)

	all, err := r.GetDirectoryList(ctx, root+"/wp-content/plugins", true, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Nil(t, all[1].Files)
}

func TestReaderFolderSearch(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/wp-content/plugins/akismet/main.php": "a"})
	r := fx.reader(t)
	ctx := context.Background()

	dir, err := r.FindFolder(ctx, root+"/wp-content/plugins")
	require.NoError(t, err)
	assert.Equal(t, root+"/wp-content/plugins/", dir)

	dir, err = r.FindFolder(ctx, "/elsewhere/wp-content/plugins/akismet")
	require.NoError(t, err)
	assert.Equal(t, root+"/wp-content/plugins/akismet/", dir)

	dir, err = r.SearchForFolder(ctx, "wp-content/plugins", " ", false)
	require.NoError(t, err)
	assert.Equal(t, root+"/wp-content/plugins/", dir)

	_, err = r.FindFolder(ctx, "no/such/folder")
	assert.True(t, wpfs.IsNotExist(err))
}

func TestReaderRuntimeHelpers(t *testing.T) {
	r := newFixture(t, nil).reader(t)

	assert.Equal(t, "C:/wp/wp-content", r.GetNormalizePath(`c:\wp\\wp-content`))
	assert.Equal(t, "my-photo.jpg", r.GetSanitizeFilename("my photo?.jpg"))
	assert.NotEmpty(t, r.GetTempDir(context.Background()))
}

func TestManagerBasics(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/uploads/a.jpg":   "a",
		root + "/uploads/a-1.jpg": "a",
	})
	m := fx.manager(t)
	r := fx.reader(t)
	ctx := context.Background()

	require.NoError(t, m.SetPermissions(ctx, root+"/uploads", 0o700, true))
	info, err := fx.fs.Stat(root + "/uploads/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	require.NoError(t, m.SetOwner(ctx, root+"/uploads", "deploy", true))
	require.NoError(t, m.SetGroup(ctx, root+"/uploads/a.jpg", "web", false))
	owner, err := r.GetOwner(ctx, root+"/uploads/a-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "deploy", owner)
	group, err := r.GetGroup(ctx, root+"/uploads/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "web", group)

	name, err := m.EnsureUniqueFilename(ctx, root+"/uploads", "a.jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, "a-2.jpg", name)

	name, err = m.EnsureUniqueFilename(ctx, root+"/uploads", "a.jpg", func(dir, name, ext string) string {
		return name + "-custom" + ext
	})
	require.NoError(t, err)
	assert.Equal(t, "a-custom.jpg", name)

	require.NoError(t, m.SetCurrentDirectory(ctx, root+"/uploads"))
	cwd, err := r.GetCurrentPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, root+"/uploads", cwd)

	// Relative paths now resolve against the new directory.
	contents, err := r.GetContents(ctx, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a", contents)

	// The memory host does not cache, so there is nothing to drop.
	dropped, err := m.InvalidateOpCache(ctx, root+"/uploads/a.jpg", true)
	require.NoError(t, err)
	assert.False(t, dropped)
	assert.NoError(t, m.InvalidateDirectoryOpCache(ctx, root+"/uploads"))
	assert.Error(t, m.InvalidateDirectoryOpCache(ctx, " "))
}

func TestManagerInvalidateCachingHost(t *testing.T) {
	cfg := testConfig()
	cfg.CacheTTL = 60

	f, err := wpfs.New(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	a, err := f.Action()
	require.NoError(t, err)
	require.NoError(t, a.PutContents(ctx, root+"/a.txt", "a", 0))

	r, err := f.Reader()
	require.NoError(t, err)
	_, err = r.GetContents(ctx, root+"/a.txt")
	require.NoError(t, err)

	m, err := f.Manager()
	require.NoError(t, err)
	dropped, err := m.InvalidateOpCache(ctx, root+"/a.txt", false)
	require.NoError(t, err)
	assert.True(t, dropped)

	dropped, err = m.InvalidateOpCache(ctx, root+"/a.txt", false)
	require.NoError(t, err)
	assert.False(t, dropped)

	dropped, err = m.InvalidateOpCache(ctx, root+"/a.txt", true)
	require.NoError(t, err)
	assert.True(t, dropped)
}
