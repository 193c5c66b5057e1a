package wpfs

import (
	"context"
	"os"
	"time"
)

// BaseAction delegates file and directory changes to the host.
type BaseAction struct {
	env *Environment
}

// NewAction creates the base action adapter over env.
func NewAction(env *Environment) *BaseAction {
	return &BaseAction{env: env}
}

// Kind implements Service
func (a *BaseAction) Kind() Kind { return KindAction }

func (a *BaseAction) PutContents(ctx context.Context, file, contents string, mode os.FileMode) error {
	return a.env.Host.PutContents(ctx, file, []byte(contents), mode)
}

func (a *BaseAction) CopyFile(ctx context.Context, source, destination string, overwrite bool, mode os.FileMode) error {
	return a.env.Host.Copy(ctx, source, destination, overwrite, mode)
}

func (a *BaseAction) CopyDirectory(ctx context.Context, from, to string, skipList []string) error {
	return a.env.Runtime.CopyDir(ctx, from, to, skipList)
}

func (a *BaseAction) MoveFile(ctx context.Context, source, destination string, overwrite bool) error {
	return a.env.Host.Move(ctx, source, destination, overwrite)
}

func (a *BaseAction) MoveDirectory(ctx context.Context, from, to string, overwrite bool) error {
	return a.env.Runtime.MoveDir(ctx, from, to, overwrite)
}

func (a *BaseAction) Delete(ctx context.Context, path string, recursive bool, typ EntryType) error {
	return a.env.Host.Delete(ctx, path, recursive, typ)
}

// Touch sets the times of file, creating it when missing. A zero time means now;
// a zero atime follows mtime.
func (a *BaseAction) Touch(ctx context.Context, file string, mtime, atime time.Time) error {
	return a.env.Host.Touch(ctx, file, mtime, atime)
}

func (a *BaseAction) CreateDirectory(ctx context.Context, path string, mode os.FileMode, owner, group string) error {
	return a.env.Host.Mkdir(ctx, path, mode, owner, group)
}

func (a *BaseAction) CreateTempFile(ctx context.Context, filename, dir string) (string, error) {
	return a.env.Runtime.TempName(ctx, filename, dir)
}

func (a *BaseAction) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	return a.env.Host.Rmdir(ctx, path, recursive)
}

// HandleUpload reports failures through UploadResult.Error.
func (a *BaseAction) HandleUpload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) (UploadResult, error) {
	return a.env.Runtime.HandleUpload(ctx, file, overrides, yearMonth), nil
}

// HandleSideload reports failures through UploadResult.Error.
func (a *BaseAction) HandleSideload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) (UploadResult, error) {
	return a.env.Runtime.HandleSideload(ctx, file, overrides, yearMonth), nil
}

func (a *BaseAction) DownloadFromURL(ctx context.Context, url string, timeout time.Duration, signatureVerification bool) (string, error) {
	return a.env.Runtime.DownloadURL(ctx, url, timeout, signatureVerification)
}

func (a *BaseAction) Unzip(ctx context.Context, file, to string) error {
	return a.env.Runtime.Unzip(ctx, file, to)
}
