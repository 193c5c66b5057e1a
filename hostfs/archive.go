package hostfs

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/gobeaver/wpfs"
)

func (r *Runtime) openZip(ctx context.Context, file string) (*zip.Reader, error) {
	data, err := r.host.GetContents(ctx, file)
	if err != nil {
		return nil, err
	}
	return zip.NewReader(bytes.NewReader(data), int64(len(data)))
}

// IsZipValid reports whether file opens as a zip archive.
func (r *Runtime) IsZipValid(ctx context.Context, file string) bool {
	_, err := r.openZip(ctx, file)
	return err == nil
}

// Unzip extracts file into to, creating directories as needed. Entries that
// would land outside to are rejected.
func (r *Runtime) Unzip(ctx context.Context, file, to string) error {
	zr, err := r.openZip(ctx, file)
	if err != nil {
		if wpfs.IsNotExist(err) {
			return err
		}
		return &wpfs.HostError{Code: "incompatible_archive", Message: "Incompatible Archive."}
	}
	if len(zr.File) == 0 {
		return &wpfs.HostError{Code: "empty_archive_pclzip", Message: "Empty archive."}
	}

	to = strings.TrimRight(to, "/")
	if err := r.mkdirAll(ctx, to); err != nil {
		return &wpfs.HostError{Code: "mkdir_failed_ziparchive", Message: "Could not create directory. " + to}
	}

	for _, f := range zr.File {
		if err := checkCtx(ctx); err != nil {
			return err
		}

		raw := strings.ReplaceAll(f.Name, "\\", "/")
		if !safeEntry(raw) {
			return &wpfs.HostError{Code: "invalid_file_ziparchive", Message: "Could not extract file from archive. " + f.Name}
		}
		target := to + path.Clean("/"+raw)

		if f.FileInfo().IsDir() {
			if err := r.mkdirAll(ctx, target); err != nil {
				return &wpfs.HostError{Code: "mkdir_failed_ziparchive", Message: "Could not create directory. " + target}
			}
			continue
		}

		if err := r.mkdirAll(ctx, path.Dir(target)); err != nil {
			return &wpfs.HostError{Code: "mkdir_failed_ziparchive", Message: "Could not create directory. " + path.Dir(target)}
		}
		data, err := readZipFile(f)
		if err != nil {
			return &wpfs.HostError{Code: "stat_failed_ziparchive", Message: "Could not retrieve file from archive. " + f.Name}
		}
		if err := r.host.PutContents(ctx, target, data, r.opts.FileMode); err != nil {
			return &wpfs.HostError{Code: "copy_failed_ziparchive", Message: "Could not copy file. " + target}
		}
	}

	r.opts.Logger.Debug().Str("file", file).Str("to", to).Int("entries", len(zr.File)).Msg("archive extracted")
	return nil
}

// safeEntry rejects absolute names and ".." components.
func safeEntry(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
