// Package hostfs implements wpfs.Host and wpfs.Runtime over an afero.Fs, so
// local disk, memory and SFTP back ends share one set of file mechanics.
package hostfs

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobeaver/wpfs"
	"github.com/spf13/afero"
)

// Host is a wpfs.Host over an afero.Fs. Paths are slash separated; relative
// paths resolve against the current directory, which starts at Abspath.
type Host struct {
	fs     afero.Fs
	layout wpfs.Layout
	opts   Options

	mu      sync.RWMutex
	cwd     string
	closers []io.Closer
}

// New creates a host serving layout from fs.
func New(fs afero.Fs, layout wpfs.Layout, opts Options) *Host {
	opts = opts.withDefaults()
	return &Host{fs: fs, layout: layout, opts: opts, cwd: layout.Abspath}
}

// Fs returns the underlying filesystem.
func (h *Host) Fs() afero.Fs { return h.fs }

// Layout returns the directories the host serves.
func (h *Host) Layout() wpfs.Layout { return h.layout }

func (h *Host) resolve(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !path.IsAbs(p) {
		h.mu.RLock()
		p = path.Join(h.cwd, p)
		h.mu.RUnlock()
	}
	return path.Clean(p)
}

func trailing(p string) string {
	return strings.TrimRight(p, "/") + "/"
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// pathErr maps os errors onto the wpfs sentinels.
func pathErr(op, p string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		return &wpfs.PathError{Op: op, Path: p, Err: wpfs.ErrNotExist}
	case errors.Is(err, os.ErrPermission):
		return &wpfs.PathError{Op: op, Path: p, Err: wpfs.ErrPermission}
	default:
		return &wpfs.PathError{Op: op, Path: p, Err: err}
	}
}

// ============================================================================
// Locations
// ============================================================================

func (h *Host) Abspath() string    { return trailing(h.layout.Abspath) }
func (h *Host) ContentDir() string { return trailing(h.layout.ContentDir) }
func (h *Host) PluginsDir() string { return trailing(h.layout.PluginsDir) }
func (h *Host) LangDir() string    { return trailing(h.layout.LangDir) }

func (h *Host) ThemesDir(theme string) string {
	if theme == "" {
		return trailing(h.layout.ThemesDir)
	}
	return trailing(path.Join(h.layout.ThemesDir, theme))
}

func (h *Host) Cwd(ctx context.Context) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cwd, nil
}

func (h *Host) Chdir(ctx context.Context, dir string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	p := h.resolve(dir)
	info, err := h.fs.Stat(p)
	if err != nil {
		return pathErr("chdir", dir, err)
	}
	if !info.IsDir() {
		return &wpfs.PathError{Op: "chdir", Path: dir, Err: wpfs.ErrInvalidPath}
	}
	h.mu.Lock()
	h.cwd = p
	h.mu.Unlock()
	return nil
}

// ============================================================================
// Contents
// ============================================================================

func (h *Host) GetContents(ctx context.Context, file string) ([]byte, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(h.fs, h.resolve(file))
	if err != nil {
		return nil, pathErr("get_contents", file, err)
	}
	return data, nil
}

// GetContentsArray returns the lines of file, each keeping its newline.
func (h *Host) GetContentsArray(ctx context.Context, file string) ([]string, error) {
	data, err := h.GetContents(ctx, file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	lines := strings.SplitAfter(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// PutContents writes file and sets its mode. The parent must exist.
func (h *Host) PutContents(ctx context.Context, file string, contents []byte, mode os.FileMode) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if mode == 0 {
		mode = h.opts.FileMode
	}
	p := h.resolve(file)
	if err := afero.WriteFile(h.fs, p, contents, mode); err != nil {
		return pathErr("put_contents", file, err)
	}
	return pathErr("put_contents", file, h.fs.Chmod(p, mode))
}

// ============================================================================
// Copy, move, delete
// ============================================================================

// Copy copies a regular file. A zero mode keeps the source permissions.
func (h *Host) Copy(ctx context.Context, src, dst string, overwrite bool, mode os.FileMode) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	from, to := h.resolve(src), h.resolve(dst)
	if !overwrite && h.exists(to) {
		return &wpfs.PathError{Op: "copy", Path: dst, Err: os.ErrExist}
	}

	in, err := h.fs.Open(from)
	if err != nil {
		return pathErr("copy", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return pathErr("copy", src, err)
	}
	if info.IsDir() {
		return &wpfs.PathError{Op: "copy", Path: src, Err: wpfs.ErrInvalidPath}
	}
	if mode == 0 {
		mode = info.Mode().Perm()
	}

	out, err := h.fs.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return pathErr("copy", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return pathErr("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return pathErr("copy", dst, err)
	}
	return pathErr("copy", dst, h.fs.Chmod(to, mode))
}

// Move renames src to dst, removing dst first when overwrite is set.
func (h *Host) Move(ctx context.Context, src, dst string, overwrite bool) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	from, to := h.resolve(src), h.resolve(dst)
	if !h.exists(from) {
		return &wpfs.PathError{Op: "move", Path: src, Err: wpfs.ErrNotExist}
	}
	if h.exists(to) {
		if !overwrite {
			return &wpfs.PathError{Op: "move", Path: dst, Err: os.ErrExist}
		}
		if err := h.fs.RemoveAll(to); err != nil {
			return pathErr("move", dst, err)
		}
	}
	return pathErr("move", src, h.fs.Rename(from, to))
}

// Delete removes file. Directories need recursive unless they are empty.
func (h *Host) Delete(ctx context.Context, file string, recursive bool, typ wpfs.EntryType) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(file) == "" {
		return &wpfs.PathError{Op: "delete", Path: file, Err: wpfs.ErrInvalidPath}
	}
	p := h.resolve(file)
	info, err := h.fs.Stat(p)
	if err != nil {
		return pathErr("delete", file, err)
	}

	switch {
	case typ == wpfs.TypeFile || !info.IsDir():
		if info.IsDir() {
			return &wpfs.PathError{Op: "delete", Path: file, Err: wpfs.ErrInvalidPath}
		}
		return pathErr("delete", file, h.fs.Remove(p))
	case !recursive:
		return pathErr("delete", file, h.fs.Remove(p))
	default:
		return pathErr("delete", file, h.fs.RemoveAll(p))
	}
}

// ============================================================================
// Predicates
// ============================================================================

func (h *Host) exists(p string) bool {
	_, err := h.fs.Stat(p)
	return err == nil
}

func (h *Host) stat(ctx context.Context, p string) (os.FileInfo, bool) {
	if checkCtx(ctx) != nil {
		return nil, false
	}
	info, err := h.fs.Stat(h.resolve(p))
	return info, err == nil
}

func (h *Host) Exists(ctx context.Context, p string) bool {
	_, ok := h.stat(ctx, p)
	return ok
}

func (h *Host) IsFile(ctx context.Context, p string) bool {
	info, ok := h.stat(ctx, p)
	return ok && info.Mode().IsRegular()
}

func (h *Host) IsDir(ctx context.Context, p string) bool {
	info, ok := h.stat(ctx, p)
	return ok && info.IsDir()
}

// IsReadable opens the path for reading.
func (h *Host) IsReadable(ctx context.Context, p string) bool {
	if checkCtx(ctx) != nil {
		return false
	}
	f, err := h.fs.Open(h.resolve(p))
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// IsWritable looks at the permission bits; afero has no access(2).
func (h *Host) IsWritable(ctx context.Context, p string) bool {
	info, ok := h.stat(ctx, p)
	return ok && info.Mode().Perm()&0o222 != 0
}

// ============================================================================
// Times and sizes
// ============================================================================

func (h *Host) Atime(ctx context.Context, file string) (time.Time, error) {
	info, ok := h.stat(ctx, file)
	if !ok {
		return time.Time{}, &wpfs.PathError{Op: "atime", Path: file, Err: wpfs.ErrNotExist}
	}
	return h.opts.Attributes.Atime(info), nil
}

func (h *Host) Mtime(ctx context.Context, file string) (time.Time, error) {
	info, ok := h.stat(ctx, file)
	if !ok {
		return time.Time{}, &wpfs.PathError{Op: "mtime", Path: file, Err: wpfs.ErrNotExist}
	}
	return info.ModTime(), nil
}

func (h *Host) Size(ctx context.Context, file string) (int64, error) {
	info, ok := h.stat(ctx, file)
	if !ok {
		return 0, &wpfs.PathError{Op: "size", Path: file, Err: wpfs.ErrNotExist}
	}
	return info.Size(), nil
}

// Touch creates file when missing and sets its times. A zero mtime means
// now; a zero atime follows mtime.
func (h *Host) Touch(ctx context.Context, file string, mtime, atime time.Time) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if mtime.IsZero() {
		mtime = time.Now()
	}
	if atime.IsZero() {
		atime = mtime
	}
	p := h.resolve(file)
	if !h.exists(p) {
		f, err := h.fs.OpenFile(p, os.O_WRONLY|os.O_CREATE, h.opts.FileMode)
		if err != nil {
			return pathErr("touch", file, err)
		}
		_ = f.Close()
	}
	return pathErr("touch", file, h.fs.Chtimes(p, atime, mtime))
}

// ============================================================================
// Directories
// ============================================================================

// Mkdir creates one directory level and applies mode, owner and group.
func (h *Host) Mkdir(ctx context.Context, dir string, mode os.FileMode, owner, group string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if mode == 0 {
		mode = h.opts.DirMode
	}
	p := h.resolve(strings.TrimRight(dir, "/"))
	if err := h.fs.Mkdir(p, mode); err != nil {
		return pathErr("mkdir", dir, err)
	}
	if err := h.fs.Chmod(p, mode|os.ModeDir); err != nil {
		return pathErr("mkdir", dir, err)
	}
	if owner != "" {
		if err := h.opts.Attributes.Chown(p, owner); err != nil {
			return pathErr("mkdir", dir, err)
		}
	}
	if group != "" {
		if err := h.opts.Attributes.Chgrp(p, group); err != nil {
			return pathErr("mkdir", dir, err)
		}
	}
	return nil
}

func (h *Host) Rmdir(ctx context.Context, dir string, recursive bool) error {
	return h.Delete(ctx, dir, recursive, wpfs.TypeDirectory)
}

// Dirlist lists dir sorted by name. When dir is a file the listing holds
// only that file.
func (h *Host) Dirlist(ctx context.Context, dir string, includeHidden, recursive bool) ([]wpfs.DirEntry, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	p := h.resolve(dir)
	info, err := h.fs.Stat(p)
	if err != nil {
		return nil, pathErr("dirlist", dir, err)
	}
	if !info.IsDir() {
		return []wpfs.DirEntry{h.entry(path.Dir(p), info)}, nil
	}
	return h.list(ctx, p, includeHidden, recursive)
}

func (h *Host) list(ctx context.Context, dir string, includeHidden, recursive bool) ([]wpfs.DirEntry, error) {
	infos, err := afero.ReadDir(h.fs, dir)
	if err != nil {
		return nil, pathErr("dirlist", dir, err)
	}

	entries := make([]wpfs.DirEntry, 0, len(infos))
	for _, info := range infos {
		if !includeHidden && strings.HasPrefix(info.Name(), ".") {
			continue
		}
		e := h.entry(dir, info)
		if recursive && e.Type == wpfs.TypeDirectory {
			if err := checkCtx(ctx); err != nil {
				return nil, err
			}
			if e.Files, err = h.list(ctx, path.Join(dir, e.Name), includeHidden, true); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (h *Host) entry(dir string, info os.FileInfo) wpfs.DirEntry {
	full := path.Join(dir, info.Name())
	typ := wpfs.TypeFile
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		typ = wpfs.TypeLink
	case info.IsDir():
		typ = wpfs.TypeDirectory
	}
	owner, _ := h.opts.Attributes.Owner(full, info)
	group, _ := h.opts.Attributes.Group(full, info)
	mod := info.ModTime()
	return wpfs.DirEntry{
		Name:        info.Name(),
		Perms:       wpfs.HumanPermissions(info.Mode()),
		PermsN:      "0" + wpfs.OctalPermissions(info.Mode()),
		Owner:       owner,
		Group:       group,
		Size:        info.Size(),
		LastModUnix: mod.Unix(),
		LastMod:     mod.Format("Jan 2"),
		Time:        mod.Format("15:04:05"),
		Type:        typ,
	}
}

// ============================================================================
// Ownership and permissions
// ============================================================================

// Chmod sets mode on file. A zero mode picks the default for its type.
func (h *Host) Chmod(ctx context.Context, file string, mode os.FileMode, recursive bool) error {
	return h.apply(ctx, "chmod", file, recursive, func(p string, info os.FileInfo) error {
		m := mode
		if m == 0 {
			m = h.opts.FileMode
			if info.IsDir() {
				m = h.opts.DirMode
			}
		}
		return h.fs.Chmod(p, m)
	})
}

func (h *Host) Chown(ctx context.Context, file, owner string, recursive bool) error {
	return h.apply(ctx, "chown", file, recursive, func(p string, _ os.FileInfo) error {
		return h.opts.Attributes.Chown(p, owner)
	})
}

func (h *Host) Chgrp(ctx context.Context, file, group string, recursive bool) error {
	return h.apply(ctx, "chgrp", file, recursive, func(p string, _ os.FileInfo) error {
		return h.opts.Attributes.Chgrp(p, group)
	})
}

func (h *Host) apply(ctx context.Context, op, file string, recursive bool, fn func(string, os.FileInfo) error) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	root := h.resolve(file)
	info, err := h.fs.Stat(root)
	if err != nil {
		return pathErr(op, file, err)
	}
	if !recursive || !info.IsDir() {
		return pathErr(op, file, fn(root, info))
	}
	return afero.Walk(h.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return pathErr(op, p, err)
		}
		if err := checkCtx(ctx); err != nil {
			return err
		}
		return pathErr(op, p, fn(p, info))
	})
}

func (h *Host) Owner(ctx context.Context, file string) (string, error) {
	info, ok := h.stat(ctx, file)
	if !ok {
		return "", &wpfs.PathError{Op: "owner", Path: file, Err: wpfs.ErrNotExist}
	}
	return h.opts.Attributes.Owner(h.resolve(file), info)
}

func (h *Host) Group(ctx context.Context, file string) (string, error) {
	info, ok := h.stat(ctx, file)
	if !ok {
		return "", &wpfs.PathError{Op: "group", Path: file, Err: wpfs.ErrNotExist}
	}
	return h.opts.Attributes.Group(h.resolve(file), info)
}

func (h *Host) Getchmod(ctx context.Context, file string) (os.FileMode, error) {
	info, ok := h.stat(ctx, file)
	if !ok {
		return 0, &wpfs.PathError{Op: "getchmod", Path: file, Err: wpfs.ErrNotExist}
	}
	return info.Mode(), nil
}

// ============================================================================
// Folder lookup
// ============================================================================

// FindFolder returns folder with a trailing slash when it is a directory,
// otherwise searches for it below Abspath and then from the root.
func (h *Host) FindFolder(ctx context.Context, folder string) (string, error) {
	if h.IsDir(ctx, folder) {
		return trailing(h.resolve(folder)), nil
	}
	return h.SearchForFolder(ctx, folder, h.layout.Abspath, false)
}

// SearchForFolder tries ever shorter tails of folder below base. Without a
// hit and loop unset, the search is repeated once from "/".
func (h *Host) SearchForFolder(ctx context.Context, folder, base string, loop bool) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	if base == "" || base == "." {
		base = h.layout.Abspath
	}
	folder = strings.ReplaceAll(folder, "\\", "/")
	parts := strings.FieldsFunc(folder, func(r rune) bool { return r == '/' })

	for i := range parts {
		candidate := path.Join(append([]string{h.resolve(base)}, parts[i:]...)...)
		if info, err := h.fs.Stat(candidate); err == nil && info.IsDir() {
			return trailing(candidate), nil
		}
	}

	if !loop && base != "/" {
		return h.SearchForFolder(ctx, folder, "/", true)
	}
	return "", &wpfs.PathError{Op: "search_for_folder", Path: folder, Err: wpfs.ErrNotExist}
}

// Connect verifies the installation root is reachable.
func (h *Host) Connect(ctx context.Context) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	info, err := h.fs.Stat(h.layout.Abspath)
	if err != nil {
		return pathErr("connect", h.layout.Abspath, err)
	}
	if !info.IsDir() {
		return &wpfs.PathError{Op: "connect", Path: h.layout.Abspath, Err: wpfs.ErrInvalidPath}
	}
	h.opts.Logger.Debug().Str("abspath", h.layout.Abspath).Msg("host connected")
	return nil
}

// AddCloser registers c to be closed with the host.
func (h *Host) AddCloser(c io.Closer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closers = append(h.closers, c)
}

// Close releases the connection or watchers the driver attached.
func (h *Host) Close() error {
	h.mu.Lock()
	closers := h.closers
	h.closers = nil
	h.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ wpfs.Host     = (*Host)(nil)
	_ wpfs.CanClose = (*Host)(nil)
)
