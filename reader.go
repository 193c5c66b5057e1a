package wpfs

import (
	"context"
	"strings"
	"time"
)

// BaseReader delegates read-only queries to the host.
type BaseReader struct {
	env *Environment
}

// NewReader creates the base reader over env.
func NewReader(env *Environment) *BaseReader {
	return &BaseReader{env: env}
}

// Kind implements Service
func (r *BaseReader) Kind() Kind { return KindReader }

func (r *BaseReader) GetHomePath(ctx context.Context) (string, error) {
	return r.env.Runtime.HomePath(ctx)
}

func (r *BaseReader) GetInstallationPath() string { return r.env.Host.Abspath() }

func (r *BaseReader) GetContentPath() string { return r.env.Host.ContentDir() }

func (r *BaseReader) GetPluginsPath() string { return r.env.Host.PluginsDir() }

func (r *BaseReader) GetThemesPath(theme string) string { return r.env.Host.ThemesDir(theme) }

func (r *BaseReader) GetLangPath() string { return r.env.Host.LangDir() }

func (r *BaseReader) GetHumanReadablePermissions(ctx context.Context, file string) (string, error) {
	mode, err := r.env.Host.Getchmod(ctx, file)
	if err != nil {
		return "", err
	}
	return HumanPermissions(mode), nil
}

func (r *BaseReader) GetPermissions(ctx context.Context, file string) (string, error) {
	mode, err := r.env.Host.Getchmod(ctx, file)
	if err != nil {
		return "", err
	}
	return OctalPermissions(mode), nil
}

func (r *BaseReader) GetContents(ctx context.Context, file string) (string, error) {
	data, err := r.env.Host.GetContents(ctx, file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *BaseReader) GetContentsAsArray(ctx context.Context, file string) ([]string, error) {
	return r.env.Host.GetContentsArray(ctx, file)
}

func (r *BaseReader) GetCurrentPath(ctx context.Context) (string, error) {
	return r.env.Host.Cwd(ctx)
}

func (r *BaseReader) GetOwner(ctx context.Context, file string) (string, error) {
	return r.env.Host.Owner(ctx, file)
}

func (r *BaseReader) GetGroup(ctx context.Context, file string) (string, error) {
	return r.env.Host.Group(ctx, file)
}

func (r *BaseReader) GetLastAccessedTime(ctx context.Context, file string) (time.Time, error) {
	return r.env.Host.Atime(ctx, file)
}

func (r *BaseReader) GetLastModifiedTime(ctx context.Context, file string) (time.Time, error) {
	return r.env.Host.Mtime(ctx, file)
}

func (r *BaseReader) GetFileSize(ctx context.Context, file string) (int64, error) {
	return r.env.Host.Size(ctx, file)
}

func (r *BaseReader) GetPermissionsAsOctal(mode string) string {
	return PermissionsFromHuman(mode)
}

func (r *BaseReader) GetDirectoryList(ctx context.Context, path string, includeHidden, recursive bool) ([]DirEntry, error) {
	return r.env.Host.Dirlist(ctx, path, includeHidden, recursive)
}

func (r *BaseReader) GetFiles(ctx context.Context, folder string, levels int, exclusions []string, includeHidden bool) ([]string, error) {
	return r.env.Runtime.ListFiles(ctx, folder, levels, exclusions, includeHidden)
}

// GetUploadsDirInfo reports failures through UploadDir.Error.
func (r *BaseReader) GetUploadsDirInfo(ctx context.Context, yearMonth string, createDir, refreshCache bool) (UploadDir, error) {
	return r.env.Runtime.UploadDir(ctx, yearMonth, createDir, refreshCache), nil
}

func (r *BaseReader) GetTempDir(ctx context.Context) string { return r.env.Runtime.TempDir(ctx) }

func (r *BaseReader) GetNormalizePath(path string) string { return r.env.Runtime.NormalizePath(path) }

func (r *BaseReader) GetSanitizeFilename(filename string) string {
	return r.env.Runtime.SanitizeFilename(filename)
}

func (r *BaseReader) FindFolder(ctx context.Context, folder string) (string, error) {
	return r.env.Host.FindFolder(ctx, folder)
}

func (r *BaseReader) SearchForFolder(ctx context.Context, folder, base string, loop bool) (string, error) {
	if strings.TrimSpace(base) == "" {
		base = "."
	}
	return r.env.Host.SearchForFolder(ctx, folder, base, loop)
}
