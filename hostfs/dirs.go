package hostfs

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gobeaver/wpfs"
)

// mkdirAll creates dir and its missing parents through the host.
func (r *Runtime) mkdirAll(ctx context.Context, dir string) error {
	dir = path.Clean(dir)
	if dir == "/" || dir == "." || r.host.IsDir(ctx, dir) {
		return nil
	}
	if err := r.mkdirAll(ctx, path.Dir(dir)); err != nil {
		return err
	}
	return r.host.Mkdir(ctx, dir, r.opts.DirMode, "", "")
}

// UploadDir resolves the uploads bucket of yearMonth ("2024-05" or longer;
// the current month when empty). Results are memoized per bucket until
// refreshCache is set.
func (r *Runtime) UploadDir(ctx context.Context, yearMonth string, createDir, refreshCache bool) wpfs.UploadDir {
	if yearMonth == "" {
		yearMonth = r.opts.Now().Format("2006-01")
	}

	r.mu.Lock()
	cached, ok := r.uploads[yearMonth]
	r.mu.Unlock()

	dir := cached
	if !ok || refreshCache {
		dir = r.uploadDir(yearMonth)
		r.mu.Lock()
		r.uploads[yearMonth] = dir
		r.mu.Unlock()
	}

	if createDir && dir.Error == "" {
		if err := r.mkdirAll(ctx, dir.Path); err != nil {
			r.opts.Logger.Warn().Err(err).Str("path", dir.Path).Msg("uploads directory not created")
			dir.Error = fmt.Sprintf("Unable to create directory %s. Is its parent directory writable by the server?", dir.Path)
		}
	}
	return dir
}

func (r *Runtime) uploadDir(yearMonth string) wpfs.UploadDir {
	basedir := strings.TrimRight(r.layout.UploadsDir, "/")
	baseurl := r.layout.ContentURL + "/uploads"
	if rel, ok := strings.CutPrefix(basedir, strings.TrimRight(r.layout.ContentDir, "/")+"/"); ok {
		baseurl = r.layout.ContentURL + "/" + rel
	}

	var subdir string
	if len(yearMonth) >= 7 {
		subdir = "/" + yearMonth[:4] + "/" + yearMonth[5:7]
	}

	return wpfs.UploadDir{
		Path:    basedir + subdir,
		URL:     baseurl + subdir,
		Subdir:  subdir,
		Basedir: basedir,
		Baseurl: baseurl,
	}
}

// CopyDir copies the contents of from into the existing directory to.
// skip lists paths relative to from that are left out.
func (r *Runtime) CopyDir(ctx context.Context, from, to string, skip []string) error {
	entries, err := r.host.Dirlist(ctx, from, true, false)
	if err != nil {
		return err
	}

	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		skipped[strings.Trim(s, "/")] = true
	}

	for _, e := range entries {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		if skipped[e.Name] {
			continue
		}
		src, dst := path.Join(from, e.Name), path.Join(to, e.Name)

		if e.Type != wpfs.TypeDirectory {
			if err := r.host.Copy(ctx, src, dst, true, r.opts.FileMode); err != nil {
				return &wpfs.HostError{Code: "copy_failed_copy_dir", Message: "Could not copy file. " + dst}
			}
			continue
		}

		if !r.host.IsDir(ctx, dst) {
			if err := r.host.Mkdir(ctx, dst, r.opts.DirMode, "", ""); err != nil {
				return &wpfs.HostError{Code: "mkdir_failed_copy_dir", Message: "Could not create directory. " + dst}
			}
		}

		var sub []string
		for s := range skipped {
			if rest, ok := strings.CutPrefix(s, e.Name+"/"); ok {
				sub = append(sub, rest)
			}
		}
		if err := r.CopyDir(ctx, src, dst, sub); err != nil {
			return err
		}
	}
	return nil
}

// MoveDir moves from to to. A rename is tried first; when it fails the tree
// is copied and the source removed.
func (r *Runtime) MoveDir(ctx context.Context, from, to string, overwrite bool) error {
	if trailing(from) == trailing(to) {
		return &wpfs.HostError{Code: "source_destination_same_move_dir", Message: "The source and destination are the same."}
	}

	if r.host.Exists(ctx, to) {
		if !overwrite {
			return &wpfs.HostError{Code: "destination_already_exists_move_dir", Message: "The destination folder already exists."}
		}
		if err := r.host.Delete(ctx, to, true, wpfs.TypeDirectory); err != nil {
			return &wpfs.HostError{Code: "destination_not_deleted_move_dir", Message: "The destination folder already exists and could not be removed."}
		}
	}

	err := r.host.Move(ctx, from, to, false)
	if err == nil {
		return nil
	}
	r.opts.Logger.Debug().Err(err).Str("from", from).Str("to", to).Msg("rename failed, copying directory")

	if err := r.mkdirAll(ctx, to); err != nil {
		return &wpfs.HostError{Code: "mkdir_failed_move_dir", Message: "Could not create directory. " + to}
	}
	if err := r.CopyDir(ctx, from, to, nil); err != nil {
		_ = r.host.Delete(ctx, to, true, wpfs.TypeDirectory)
		return &wpfs.HostError{Code: "move_dir_failed", Message: "Could not move the directory. " + err.Error()}
	}
	if err := r.host.Delete(ctx, from, true, wpfs.TypeDirectory); err != nil {
		return &wpfs.HostError{Code: "source_not_deleted_move_dir", Message: "The directory was copied but the source could not be removed."}
	}
	return nil
}
