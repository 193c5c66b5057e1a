package wpfs_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/gobeaver/wpfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deniedHost refuses every read while reporting files as present.
type deniedHost struct {
	wpfs.Host
}

func (deniedHost) GetContents(_ context.Context, file string) ([]byte, error) {
	return nil, &wpfs.PathError{Op: "get_contents", Path: file, Err: wpfs.ErrPermission}
}

func asFSError(t *testing.T, err error) *wpfs.FSError {
	t.Helper()
	var fsErr *wpfs.FSError
	require.True(t, errors.As(err, &fsErr), "want *FSError, got %T: %v", err, err)
	return fsErr
}

func TestGuardedReaderMissingFile(t *testing.T) {
	fx := newFixture(t, nil)
	fx.settings.SetGuarded(true)
	ctx := context.Background()

	_, err := fx.reader(t).GetContents(ctx, root+"/missing.txt")
	require.Error(t, err)
	assert.True(t, wpfs.IsNotExist(err))
	assert.Equal(t, "Path or file /srv/wp/missing.txt not found", err.Error())
	assert.Equal(t, string(wpfs.OpGetContents), asFSError(t, err).Op)
}

func TestGuardedReaderPermission(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/secret.php": "<?php"})
	fx.env.Host = deniedHost{Host: fx.env.Host}
	fx.settings.SetGuarded(true)

	_, err := fx.reader(t).GetContents(context.Background(), root+"/secret.php")
	require.Error(t, err)
	assert.True(t, wpfs.IsPermission(err))
	assert.Equal(t, "Permission denied for /srv/wp/secret.php", err.Error())
}

func TestGuardedReaderPassesSuccess(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/empty.txt": ""})
	fx.settings.SetGuarded(true)

	// An empty string is a valid answer.
	got, err := fx.reader(t).GetContents(context.Background(), root+"/empty.txt")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestGuardedTogglesLive(t *testing.T) {
	fx := newFixture(t, nil)
	fx.settings.SetGuarded(true)
	r := fx.reader(t)
	ctx := context.Background()

	_, err := r.GetContents(ctx, root+"/missing.txt")
	asFSError(t, err)

	fx.settings.SetGuarded(false)
	_, err = r.GetContents(ctx, root+"/missing.txt")
	require.Error(t, err)
	var fsErr *wpfs.FSError
	assert.False(t, errors.As(err, &fsErr), "unguarded call should return the host error")
	assert.True(t, wpfs.IsNotExist(err))
}

func TestGuardedAuditorFalseIsFailure(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/index.php": "<?php"})
	ctx := context.Background()

	ok, err := fx.auditor(t).Exists(ctx, root+"/nope")
	require.NoError(t, err)
	assert.False(t, ok)

	fx.settings.SetGuarded(true)
	a := fx.auditor(t)

	ok, err = a.Exists(ctx, root+"/index.php")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = a.Exists(ctx, root+"/nope")
	require.Error(t, err)
	assert.True(t, wpfs.IsFailure(err))
	assert.Equal(t, "Operation failed without a specific error message.", err.Error())

	_, err = a.VerifyMD5(ctx, root+"/index.php", "00000000000000000000000000000000")
	assert.True(t, wpfs.IsFailure(err))
}

func TestGuardedHostErrorMessage(t *testing.T) {
	fx := newFixture(t, nil)
	fx.settings.SetGuarded(true)

	_, err := fx.action(t).DownloadFromURL(context.Background(), "not a url", 0, false)
	require.Error(t, err)
	assert.True(t, wpfs.IsFailure(err))
	assert.Equal(t, "Invalid URL Provided.", err.Error())

	var he *wpfs.HostError
	assert.False(t, errors.As(err, &he))
}

func TestGuardedErrorCarrier(t *testing.T) {
	fx := newFixture(t, nil)
	ctx := context.Background()
	file := wpfs.UploadedFile{Name: "photo.jpg", Error: 4}

	res, err := fx.action(t).HandleUpload(ctx, file, nil, "2024-05")
	require.NoError(t, err)
	assert.Equal(t, "No file was uploaded.", res.Error)

	fx.settings.SetGuarded(true)
	_, err = fx.action(t).HandleUpload(ctx, file, nil, "2024-05")
	require.Error(t, err)
	assert.True(t, wpfs.IsFailure(err))
	assert.Equal(t, "No file was uploaded.", err.Error())
}

func TestGuardedActionPreconditions(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/a.txt": "a"})
	fx.settings.SetGuarded(true)
	a := fx.action(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		path string
	}{
		{"copy missing source", func() error {
			return a.CopyFile(ctx, root+"/none.txt", root+"/b.txt", false, 0)
		}, root + "/none.txt"},
		{"move missing source", func() error {
			return a.MoveFile(ctx, root+"/none.txt", root+"/b.txt", false)
		}, root + "/none.txt"},
		{"move missing destination", func() error {
			return a.MoveFile(ctx, root+"/a.txt", root+"/b.txt", false)
		}, root + "/b.txt"},
		{"copy directory missing target", func() error {
			return a.CopyDirectory(ctx, root+"/wp-content", root+"/backup", nil)
		}, root + "/backup"},
		{"move directory missing target", func() error {
			return a.MoveDirectory(ctx, root+"/wp-content", root+"/elsewhere", false)
		}, root + "/elsewhere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, wpfs.IsNotExist(err))
			assert.Equal(t, tt.path, asFSError(t, err).Path)
		})
	}
}

func TestGuardedActionFailureOnExistingResource(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/a.txt": "a",
		root + "/b.txt": "b",
	})
	fx.settings.SetGuarded(true)

	// The source exists, so a refused copy is reported as a permission problem.
	err := fx.action(t).CopyFile(context.Background(), root+"/a.txt", root+"/b.txt", false, 0)
	require.Error(t, err)
	assert.True(t, wpfs.IsPermission(err))
	assert.Equal(t, "b", fx.read(t, root+"/b.txt"))
}

func TestGuardedActionSuccess(t *testing.T) {
	fx := newFixture(t, nil)
	fx.settings.SetGuarded(true)
	ctx := context.Background()
	a := fx.action(t)

	require.NoError(t, a.PutContents(ctx, root+"/robots.txt", "User-agent: *\n", 0))
	require.NoError(t, a.CopyFile(ctx, root+"/robots.txt", root+"/robots.bak", false, 0))
	require.NoError(t, a.PutContents(ctx, root+"/robots.old", "stale", 0))
	require.NoError(t, a.MoveFile(ctx, root+"/robots.bak", root+"/robots.old", true))
	assert.Equal(t, "User-agent: *\n", fx.read(t, root+"/robots.old"))
}

func TestGuardedMoveOntoExistingDestination(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/a.txt": "a",
		root + "/b.txt": "b",
	})
	fx.settings.SetGuarded(true)
	ctx := context.Background()
	a := fx.action(t)

	// Without overwrite the host refuses and the existing source makes it a
	// permission failure.
	err := a.MoveFile(ctx, root+"/a.txt", root+"/b.txt", false)
	require.Error(t, err)
	assert.True(t, wpfs.IsPermission(err))
	assert.Equal(t, "b", fx.read(t, root+"/b.txt"))

	require.NoError(t, a.MoveFile(ctx, root+"/a.txt", root+"/b.txt", true))
	assert.Equal(t, "a", fx.read(t, root+"/b.txt"))
	_, err = fx.fs.Stat(root + "/a.txt")
	assert.True(t, os.IsNotExist(err))
}

func TestGuardedManager(t *testing.T) {
	fx := newFixture(t, map[string]string{root + "/a.txt": "a"})
	fx.settings.SetGuarded(true)
	m := fx.manager(t)
	ctx := context.Background()

	err := m.SetPermissions(ctx, root+"/none.txt", 0o600, false)
	assert.True(t, wpfs.IsNotExist(err))

	err = m.InvalidateDirectoryOpCache(ctx, root+"/none")
	assert.True(t, wpfs.IsNotExist(err))

	require.NoError(t, m.InvalidateDirectoryOpCache(ctx, root+"/wp-content"))
	require.NoError(t, m.SetCurrentDirectory(ctx, root+"/wp-content"))

	err = m.SetCurrentDirectory(ctx, root+"/a.txt")
	assert.True(t, wpfs.IsPermission(err))
}

func TestGuardedAdvanced(t *testing.T) {
	fx := newFixture(t, map[string]string{
		root + "/a.txt":        "same",
		root + "/b.txt":        "same",
		root + "/full/item.md": "x",
	})
	fx.settings.SetGuarded(true)
	adv := fx.advanced(t)
	ctx := context.Background()

	empty, err := adv.IsDirectoryEmpty(ctx, root+"/full")
	require.NoError(t, err)
	assert.False(t, empty)

	equal, err := adv.FilesEqual(ctx, root+"/a.txt", root+"/b.txt")
	require.NoError(t, err)
	assert.True(t, equal)

	require.NoError(t, afero.WriteFile(fx.fs, root+"/b.txt", []byte("other"), 0o644))
	equal, err = adv.FilesEqual(ctx, root+"/a.txt", root+"/b.txt")
	require.NoError(t, err)
	assert.False(t, equal)

	_, err = adv.FilesEqual(ctx, root+"/a.txt", root+"/c.txt")
	assert.True(t, wpfs.IsNotExist(err))

	_, err = adv.Hash(ctx, root+"/c.txt", wpfs.ChecksumSHA256)
	assert.True(t, wpfs.IsNotExist(err))

	err = adv.Append(ctx, root+"/c.txt", "more")
	assert.True(t, wpfs.IsNotExist(err))
}
