package wpfs_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/gobeaver/wpfs/driver/memory"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderFromMissing(t *testing.T) {
	fx := newFixture(t, nil)

	_, err := wpfs.From(context.Background(), fx.env.Host, root+"/wp-config.php")
	require.Error(t, err)
	assert.True(t, wpfs.IsNotExist(err))
	assert.Equal(t, "File not found: /srv/wp/wp-config.php", err.Error())
}

func TestBuilderEditAndSave(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/wp-config.php": "define('WP_DEBUG', false);\ndefine('DB_NAME', 'old');\n",
	})
	ctx := context.Background()

	b, err := wpfs.From(ctx, fx.env.Host, root+"/wp-config.php")
	require.NoError(t, err)

	err = b.Backup(ctx, "").
		Replace("false", "true").
		ReplacePairs("'old'", "'new'").
		ReplaceRegex(`define\('(\w+)'`, "define('WP_$1'").
		Prepend("<?php\n").
		Append("// end\n").
		WithPermissions(0o640).
		Save(ctx)
	require.NoError(t, err)

	assert.Equal(t,
		"<?php\ndefine('WP_WP_DEBUG', true);\ndefine('WP_DB_NAME', 'new');\n// end\n",
		fx.read(t, root+"/wp-config.php"))
	assert.Equal(t,
		"define('WP_DEBUG', false);\ndefine('DB_NAME', 'old');\n",
		fx.read(t, root+"/wp-config.php.bak"))

	info, err := fx.fs.Stat(root + "/wp-config.php")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestBuilderCreateWithOwner(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	err := wpfs.Create(fx.env.Host, root+"/.htaccess").
		SetContent("RewriteEngine On\n").
		WithOwner("deploy", "").
		WithOwner("", "web").
		Save(ctx)
	require.NoError(t, err)

	owner, err := fx.env.Host.Owner(ctx, root+"/.htaccess")
	require.NoError(t, err)
	assert.Equal(t, "deploy", owner)

	group, err := fx.env.Host.Group(ctx, root+"/.htaccess")
	require.NoError(t, err)
	assert.Equal(t, "web", group)

	info, err := fx.fs.Stat(root + "/.htaccess")
	require.NoError(t, err)
	assert.Equal(t, wpfs.ChmodFile, info.Mode().Perm())
}

func TestBuilderSaveUsesConfiguredMode(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig()
	cfg.ChmodFile = "0600"
	host, _, err := memory.Open(fs, cfg)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, wpfs.Create(host, root+"/wp-config.php").SetContent("<?php").Save(ctx))
	info, err := fs.Stat(root + "/wp-config.php")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, wpfs.Create(host, root+"/index.php").SetContent("<?php").WithPermissions(0o640).Save(ctx))
	info, err = fs.Stat(root + "/index.php")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestBuilderConditionals(t *testing.T) {
	fx := newFixture(t, nil)
	b := wpfs.Create(fx.env.Host, root+"/x.txt").SetContent("abc")

	upper := func(b *wpfs.FileBuilder) { b.Transform(strings.ToUpper) }
	hasB := func(b *wpfs.FileBuilder) bool { return strings.Contains(b.Get(), "b") }

	b.When(false, upper)
	assert.Equal(t, "abc", b.Get())

	b.WhenFunc(hasB, upper)
	assert.Equal(t, "ABC", b.Get())

	b.Unless(true, func(b *wpfs.FileBuilder) { b.Append("!") })
	b.UnlessFunc(hasB, func(b *wpfs.FileBuilder) { b.Append("?") })
	assert.Equal(t, "ABC?", b.Get())

	b.ReplaceRegexFunc(`[A-Z]`, strings.ToLower)
	assert.Equal(t, "abc?", b.Get())
	assert.Equal(t, root+"/x.txt", b.Path())
}

func TestBuilderStickyError(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()

	b := wpfs.Create(fx.env.Host, root+"/x.txt").
		SetContent("abc").
		ReplaceRegex(`(`, "x").
		Append("never")
	require.Error(t, b.Err())
	assert.Equal(t, "abc", b.Get())
	assert.ErrorIs(t, b.Save(ctx), b.Err())

	exists := fx.env.Host.Exists(ctx, root+"/x.txt")
	assert.False(t, exists)

	odd := wpfs.Create(fx.env.Host, root+"/y.txt").ReplacePairs("a")
	assert.Error(t, odd.Err())
}

func TestBuilderMoveAndDelete(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/a.txt": "a"})
	ctx := context.Background()
	host := fx.env.Host

	b, err := wpfs.From(ctx, host, root+"/a.txt")
	require.NoError(t, err)
	require.NoError(t, b.Move(ctx, root+"/b.txt", false))
	assert.False(t, host.Exists(ctx, root+"/a.txt"))
	assert.True(t, host.Exists(ctx, root+"/b.txt"))

	require.NoError(t, wpfs.Create(host, root+"/b.txt").Delete(ctx))
	assert.False(t, host.Exists(ctx, root+"/b.txt"))

	err = wpfs.Create(host, root+"/b.txt").Delete(ctx)
	assert.True(t, wpfs.IsNotExist(err))
}
