package hostfs

import (
	"context"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gobeaver/wpfs"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

// Runtime implements wpfs.Runtime over any wpfs.Host. Every file access goes
// through the host, so a caching host stays coherent.
type Runtime struct {
	host   wpfs.Host
	layout wpfs.Layout
	opts   Options

	mu      sync.Mutex
	uploads map[string]wpfs.UploadDir
}

// NewRuntime creates the utility functions for host.
func NewRuntime(host wpfs.Host, layout wpfs.Layout, opts Options) *Runtime {
	return &Runtime{
		host:    host,
		layout:  layout,
		opts:    opts.withDefaults(),
		uploads: make(map[string]wpfs.UploadDir),
	}
}

// HomePath is the installation root.
func (r *Runtime) HomePath(ctx context.Context) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	return trailing(r.layout.Abspath), nil
}

// ListFiles returns the files below folder as absolute paths, directories
// with a trailing slash, descending at most levels deep. Exclusions are
// glob patterns matched against the path relative to folder and against
// the base name.
func (r *Runtime) ListFiles(ctx context.Context, folder string, levels int, exclusions []string, includeHidden bool) ([]string, error) {
	if folder == "" {
		return nil, &wpfs.PathError{Op: "list_files", Path: folder, Err: wpfs.ErrInvalidPath}
	}
	if levels <= 0 {
		return []string{}, nil
	}

	matchers := make([]glob.Glob, 0, len(exclusions))
	for _, pattern := range exclusions {
		g, err := glob.Compile(strings.TrimRight(pattern, "/"), '/')
		if err != nil {
			return nil, &wpfs.PathError{Op: "list_files", Path: pattern, Err: err}
		}
		matchers = append(matchers, g)
	}

	root := strings.TrimRight(folder, "/")
	files := []string{}
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		entries, err := r.host.Dirlist(ctx, dir, true, false)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !includeHidden && strings.HasPrefix(e.Name, ".") {
				continue
			}
			full := path.Join(dir, e.Name)
			rel := strings.TrimPrefix(full, root+"/")
			if excluded(matchers, rel, e.Name) {
				continue
			}
			if e.Type != wpfs.TypeDirectory {
				files = append(files, full)
				continue
			}
			files = append(files, full+"/")
			if depth > 1 {
				if err := walk(full, depth-1); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(root, levels); err != nil {
		return nil, err
	}
	return files, nil
}

func excluded(matchers []glob.Glob, rel, name string) bool {
	for _, g := range matchers {
		if g.Match(rel) || g.Match(name) {
			return true
		}
	}
	return false
}

// TempDir returns WP_TEMP_DIR when set, otherwise the first writable of the
// system temp dir and the content dir, and "/tmp/" as a last resort.
func (r *Runtime) TempDir(ctx context.Context) string {
	if r.layout.TempDir != "" {
		return trailing(r.layout.TempDir)
	}
	for _, dir := range []string{os.TempDir(), r.layout.ContentDir} {
		if dir != "" && r.host.IsDir(ctx, dir) && r.host.IsWritable(ctx, dir) {
			return trailing(dir)
		}
	}
	return "/tmp/"
}

var (
	slashRun   = regexp.MustCompile(`/{2,}`)
	driveRoot  = regexp.MustCompile(`^[a-z]:`)
	streamWrap = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

// NormalizePath converts backslashes, collapses duplicate slashes and
// upper-cases a Windows drive letter. A stream wrapper prefix is kept.
func (r *Runtime) NormalizePath(p string) string {
	wrapper := streamWrap.FindString(p)
	p = strings.TrimPrefix(p, wrapper)
	p = strings.ReplaceAll(p, "\\", "/")
	p = slashRun.ReplaceAllString(p, "/")
	if driveRoot.MatchString(p) {
		p = strings.ToUpper(p[:1]) + p[1:]
	}
	return wrapper + p
}

const unsafeFilenameChars = "?[]/\\=<>:;,'\"&$#*()|~`!{}%+’«»”“\x00"

var dashRun = regexp.MustCompile(`[\r\n\t -]+`)

func isAlnum(c rune) bool { return unicode.IsLetter(c) || unicode.IsDigit(c) }

// SanitizeFilename strips characters that are unsafe in file names and
// turns whitespace into dashes.
func (r *Runtime) SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "%20", "-")
	name = strings.ReplaceAll(name, "+", "-")
	name = strings.Map(func(c rune) rune {
		if strings.ContainsRune(unsafeFilenameChars, c) {
			return -1
		}
		return c
	}, name)
	name = dashRun.ReplaceAllString(name, "-")
	name = strings.Trim(name, ".-_")

	ext := path.Ext(name)
	if !strings.ContainsFunc(strings.TrimSuffix(name, ext), isAlnum) {
		return "unnamed-file" + ext
	}
	return name
}

// TempName creates an empty file with a unique name in dir (TempDir when
// empty) and returns its path.
func (r *Runtime) TempName(ctx context.Context, filename, dir string) (string, error) {
	if dir == "" {
		dir = r.TempDir(ctx)
	}
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "" || base == "." || base == "/" {
		base = strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	if len(base) > 100 {
		base = base[:100]
	}

	name := path.Join(dir, r.SanitizeFilename(base)+"-"+randomSuffix(6)+".tmp")
	if err := r.host.Touch(ctx, name, time.Time{}, time.Time{}); err != nil {
		return "", err
	}
	return name, nil
}

func randomSuffix(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// UniqueFilename returns a file name that does not exist in dir. cb, when
// given, picks the name instead.
func (r *Runtime) UniqueFilename(ctx context.Context, dir, filename string, cb wpfs.UniqueFilenameFunc) (string, error) {
	if err := checkCtx(ctx); err != nil {
		return "", err
	}
	filename = r.SanitizeFilename(filename)
	ext := path.Ext(filename)
	name := strings.TrimSuffix(filename, ext)

	if cb != nil {
		return cb(dir, name, ext), nil
	}

	candidate := filename
	for i := 1; r.host.Exists(ctx, path.Join(dir, candidate)); i++ {
		if err := checkCtx(ctx); err != nil {
			return "", err
		}
		candidate = name + "-" + strconv.Itoa(i) + ext
	}
	return candidate, nil
}

// InvalidateCache drops path from a caching host. It reports whether an
// entry was dropped, or true when force is set and the host caches.
func (r *Runtime) InvalidateCache(ctx context.Context, p string, force bool) (bool, error) {
	if err := checkCtx(ctx); err != nil {
		return false, err
	}
	c, ok := r.host.(wpfs.CanInvalidate)
	if !ok {
		return false, nil
	}
	dropped := c.Invalidate(p)
	r.opts.Logger.Debug().Str("path", p).Bool("dropped", dropped).Msg("cache invalidated")
	return dropped || force, nil
}

// InvalidateCacheDir drops every cached entry below dir.
func (r *Runtime) InvalidateCacheDir(ctx context.Context, dir string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(dir) == "" {
		return &wpfs.PathError{Op: "invalidate_cache_dir", Path: dir, Err: wpfs.ErrInvalidPath}
	}
	if c, ok := r.host.(wpfs.CanInvalidate); ok {
		n := c.InvalidatePrefix(dir)
		r.opts.Logger.Debug().Str("dir", dir).Int("entries", n).Msg("cache directory invalidated")
	}
	return nil
}

func (r *Runtime) CheckFiletype(name string, mimes map[string]string) wpfs.FileType {
	return wpfs.CheckFiletype(name, mimes)
}

var _ wpfs.Runtime = (*Runtime)(nil)
