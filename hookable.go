package wpfs

import (
	"context"
	"os"
	"time"

	"github.com/beevik/etree"
)

// Hookable decorators dispatch "wpfs_before_<op>_action" with the call
// arguments, run the wrapped call, pass a successful result of filtered
// operations through "wpfs_<op>_filter" and finally dispatch
// "wpfs_after_<op>_action" with the result followed by the arguments.
// Operations without a result report whether they succeeded.

type hooker struct {
	env *Environment
}

func (h hooker) before(op Operation, args []any) {
	h.env.hooks().DoAction(op.Before(), args...)
}

func (h hooker) after(op Operation, result any, args []any) {
	h.env.hooks().DoAction(op.After(), append([]any{result}, args...)...)
}

// filter replaces result with the filtered value when it still has type T.
func filter[T any](h hooker, op Operation, result T, args []any) T {
	if !op.Filtered() {
		return result
	}
	v := h.env.hooks().ApplyFilters(op.Filter(), result, args...)
	if t, ok := v.(T); ok {
		return t
	}
	h.env.Logger.Warn().Str("hook", op.Filter()).Msgf("filter returned %T, keeping original result", v)
	return result
}

func hookValue[T any](h hooker, op Operation, call func() (T, error), args ...any) (T, error) {
	h.before(op, args)
	res, err := call()
	if err == nil {
		res = filter(h, op, res, args)
	}
	h.after(op, res, args)
	return res, err
}

func hookPure[T any](h hooker, op Operation, call func() T, args ...any) T {
	h.before(op, args)
	res := filter(h, op, call(), args)
	h.after(op, res, args)
	return res
}

func hookErr(h hooker, op Operation, call func() error, args ...any) error {
	h.before(op, args)
	err := call()
	h.after(op, err == nil, args)
	return err
}

// ============================================================================
// HookableReader
// ============================================================================

type HookableReader struct {
	next Reader
	h    hooker
}

// NewHookableReader wraps next.
func NewHookableReader(env *Environment, next Reader) *HookableReader {
	return &HookableReader{next: next, h: hooker{env: env}}
}

func (r *HookableReader) Kind() Kind      { return KindReader }
func (r *HookableReader) Unwrap() Service { return r.next }

func (r *HookableReader) GetHomePath(ctx context.Context) (string, error) {
	return hookValue(r.h, OpGetHomePath, func() (string, error) { return r.next.GetHomePath(ctx) })
}

func (r *HookableReader) GetInstallationPath() string {
	return hookPure(r.h, OpGetInstallationPath, r.next.GetInstallationPath)
}

func (r *HookableReader) GetContentPath() string {
	return hookPure(r.h, OpGetContentPath, r.next.GetContentPath)
}

func (r *HookableReader) GetPluginsPath() string {
	return hookPure(r.h, OpGetPluginsPath, r.next.GetPluginsPath)
}

func (r *HookableReader) GetThemesPath(theme string) string {
	return hookPure(r.h, OpGetThemesPath, func() string { return r.next.GetThemesPath(theme) }, theme)
}

func (r *HookableReader) GetLangPath() string {
	return hookPure(r.h, OpGetLangPath, r.next.GetLangPath)
}

func (r *HookableReader) GetHumanReadablePermissions(ctx context.Context, file string) (string, error) {
	return hookValue(r.h, OpGetHumanReadablePermissions, func() (string, error) {
		return r.next.GetHumanReadablePermissions(ctx, file)
	}, file)
}

func (r *HookableReader) GetPermissions(ctx context.Context, file string) (string, error) {
	return hookValue(r.h, OpGetPermissions, func() (string, error) {
		return r.next.GetPermissions(ctx, file)
	}, file)
}

func (r *HookableReader) GetContents(ctx context.Context, file string) (string, error) {
	return hookValue(r.h, OpGetContents, func() (string, error) {
		return r.next.GetContents(ctx, file)
	}, file)
}

func (r *HookableReader) GetContentsAsArray(ctx context.Context, file string) ([]string, error) {
	return hookValue(r.h, OpGetContentsAsArray, func() ([]string, error) {
		return r.next.GetContentsAsArray(ctx, file)
	}, file)
}

func (r *HookableReader) GetCurrentPath(ctx context.Context) (string, error) {
	return hookValue(r.h, OpGetCurrentPath, func() (string, error) { return r.next.GetCurrentPath(ctx) })
}

func (r *HookableReader) GetOwner(ctx context.Context, file string) (string, error) {
	return hookValue(r.h, OpGetOwner, func() (string, error) { return r.next.GetOwner(ctx, file) }, file)
}

func (r *HookableReader) GetGroup(ctx context.Context, file string) (string, error) {
	return hookValue(r.h, OpGetGroup, func() (string, error) { return r.next.GetGroup(ctx, file) }, file)
}

func (r *HookableReader) GetLastAccessedTime(ctx context.Context, file string) (time.Time, error) {
	return hookValue(r.h, OpGetLastAccessedTime, func() (time.Time, error) {
		return r.next.GetLastAccessedTime(ctx, file)
	}, file)
}

func (r *HookableReader) GetLastModifiedTime(ctx context.Context, file string) (time.Time, error) {
	return hookValue(r.h, OpGetLastModifiedTime, func() (time.Time, error) {
		return r.next.GetLastModifiedTime(ctx, file)
	}, file)
}

func (r *HookableReader) GetFileSize(ctx context.Context, file string) (int64, error) {
	return hookValue(r.h, OpGetFileSize, func() (int64, error) { return r.next.GetFileSize(ctx, file) }, file)
}

func (r *HookableReader) GetPermissionsAsOctal(mode string) string {
	return hookPure(r.h, OpGetPermissionsAsOctal, func() string { return r.next.GetPermissionsAsOctal(mode) }, mode)
}

func (r *HookableReader) GetDirectoryList(ctx context.Context, path string, includeHidden, recursive bool) ([]DirEntry, error) {
	return hookValue(r.h, OpGetDirectoryList, func() ([]DirEntry, error) {
		return r.next.GetDirectoryList(ctx, path, includeHidden, recursive)
	}, path, includeHidden, recursive)
}

func (r *HookableReader) GetFiles(ctx context.Context, folder string, levels int, exclusions []string, includeHidden bool) ([]string, error) {
	return hookValue(r.h, OpGetFiles, func() ([]string, error) {
		return r.next.GetFiles(ctx, folder, levels, exclusions, includeHidden)
	}, folder, levels, exclusions, includeHidden)
}

func (r *HookableReader) GetUploadsDirInfo(ctx context.Context, yearMonth string, createDir, refreshCache bool) (UploadDir, error) {
	return hookValue(r.h, OpGetUploadsDirInfo, func() (UploadDir, error) {
		return r.next.GetUploadsDirInfo(ctx, yearMonth, createDir, refreshCache)
	}, yearMonth, createDir, refreshCache)
}

func (r *HookableReader) GetTempDir(ctx context.Context) string {
	return hookPure(r.h, OpGetTempDir, func() string { return r.next.GetTempDir(ctx) })
}

func (r *HookableReader) GetNormalizePath(path string) string {
	return hookPure(r.h, OpGetNormalizePath, func() string { return r.next.GetNormalizePath(path) }, path)
}

func (r *HookableReader) GetSanitizeFilename(filename string) string {
	return hookPure(r.h, OpGetSanitizeFilename, func() string { return r.next.GetSanitizeFilename(filename) }, filename)
}

func (r *HookableReader) FindFolder(ctx context.Context, folder string) (string, error) {
	return hookValue(r.h, OpFindFolder, func() (string, error) { return r.next.FindFolder(ctx, folder) }, folder)
}

func (r *HookableReader) SearchForFolder(ctx context.Context, folder, base string, loop bool) (string, error) {
	return hookValue(r.h, OpSearchForFolder, func() (string, error) {
		return r.next.SearchForFolder(ctx, folder, base, loop)
	}, folder, base, loop)
}

// ============================================================================
// HookableAction
// ============================================================================

type HookableAction struct {
	next Action
	h    hooker
}

// NewHookableAction wraps next.
func NewHookableAction(env *Environment, next Action) *HookableAction {
	return &HookableAction{next: next, h: hooker{env: env}}
}

func (a *HookableAction) Kind() Kind      { return KindAction }
func (a *HookableAction) Unwrap() Service { return a.next }

func (a *HookableAction) PutContents(ctx context.Context, file, contents string, mode os.FileMode) error {
	return hookErr(a.h, OpPutContents, func() error {
		return a.next.PutContents(ctx, file, contents, mode)
	}, file, contents, mode)
}

func (a *HookableAction) CopyFile(ctx context.Context, source, destination string, overwrite bool, mode os.FileMode) error {
	return hookErr(a.h, OpCopyFile, func() error {
		return a.next.CopyFile(ctx, source, destination, overwrite, mode)
	}, source, destination, overwrite, mode)
}

func (a *HookableAction) CopyDirectory(ctx context.Context, from, to string, skipList []string) error {
	return hookErr(a.h, OpCopyDirectory, func() error {
		return a.next.CopyDirectory(ctx, from, to, skipList)
	}, from, to, skipList)
}

func (a *HookableAction) MoveFile(ctx context.Context, source, destination string, overwrite bool) error {
	return hookErr(a.h, OpMoveFile, func() error {
		return a.next.MoveFile(ctx, source, destination, overwrite)
	}, source, destination, overwrite)
}

func (a *HookableAction) MoveDirectory(ctx context.Context, from, to string, overwrite bool) error {
	return hookErr(a.h, OpMoveDirectory, func() error {
		return a.next.MoveDirectory(ctx, from, to, overwrite)
	}, from, to, overwrite)
}

func (a *HookableAction) Delete(ctx context.Context, path string, recursive bool, typ EntryType) error {
	return hookErr(a.h, OpDelete, func() error {
		return a.next.Delete(ctx, path, recursive, typ)
	}, path, recursive, typ)
}

func (a *HookableAction) Touch(ctx context.Context, file string, mtime, atime time.Time) error {
	return hookErr(a.h, OpTouch, func() error { return a.next.Touch(ctx, file, mtime, atime) }, file, mtime, atime)
}

func (a *HookableAction) CreateDirectory(ctx context.Context, path string, mode os.FileMode, owner, group string) error {
	return hookErr(a.h, OpCreateDirectory, func() error {
		return a.next.CreateDirectory(ctx, path, mode, owner, group)
	}, path, mode, owner, group)
}

func (a *HookableAction) CreateTempFile(ctx context.Context, filename, dir string) (string, error) {
	return hookValue(a.h, OpCreateTempFile, func() (string, error) {
		return a.next.CreateTempFile(ctx, filename, dir)
	}, filename, dir)
}

func (a *HookableAction) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	return hookErr(a.h, OpDeleteDirectory, func() error {
		return a.next.DeleteDirectory(ctx, path, recursive)
	}, path, recursive)
}

func (a *HookableAction) HandleUpload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) (UploadResult, error) {
	return hookValue(a.h, OpHandleUpload, func() (UploadResult, error) {
		return a.next.HandleUpload(ctx, file, overrides, yearMonth)
	}, file, overrides, yearMonth)
}

func (a *HookableAction) HandleSideload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) (UploadResult, error) {
	return hookValue(a.h, OpHandleSideload, func() (UploadResult, error) {
		return a.next.HandleSideload(ctx, file, overrides, yearMonth)
	}, file, overrides, yearMonth)
}

func (a *HookableAction) DownloadFromURL(ctx context.Context, url string, timeout time.Duration, signatureVerification bool) (string, error) {
	return hookValue(a.h, OpDownloadFromURL, func() (string, error) {
		return a.next.DownloadFromURL(ctx, url, timeout, signatureVerification)
	}, url, timeout, signatureVerification)
}

func (a *HookableAction) Unzip(ctx context.Context, file, to string) error {
	return hookErr(a.h, OpUnzip, func() error { return a.next.Unzip(ctx, file, to) }, file, to)
}

// ============================================================================
// HookableAuditor
// ============================================================================

type HookableAuditor struct {
	next Auditor
	h    hooker
}

// NewHookableAuditor wraps next.
func NewHookableAuditor(env *Environment, next Auditor) *HookableAuditor {
	return &HookableAuditor{next: next, h: hooker{env: env}}
}

func (a *HookableAuditor) Kind() Kind      { return KindAuditor }
func (a *HookableAuditor) Unwrap() Service { return a.next }

func (a *HookableAuditor) Exists(ctx context.Context, path string) (bool, error) {
	return hookValue(a.h, OpExists, func() (bool, error) { return a.next.Exists(ctx, path) }, path)
}

func (a *HookableAuditor) IsBinary(text string) (bool, error) {
	return hookValue(a.h, OpIsBinary, func() (bool, error) { return a.next.IsBinary(text) }, text)
}

func (a *HookableAuditor) IsFile(ctx context.Context, path string) (bool, error) {
	return hookValue(a.h, OpIsFile, func() (bool, error) { return a.next.IsFile(ctx, path) }, path)
}

func (a *HookableAuditor) IsDirectory(ctx context.Context, path string) (bool, error) {
	return hookValue(a.h, OpIsDirectory, func() (bool, error) { return a.next.IsDirectory(ctx, path) }, path)
}

func (a *HookableAuditor) IsReadable(ctx context.Context, path string) (bool, error) {
	return hookValue(a.h, OpIsReadable, func() (bool, error) { return a.next.IsReadable(ctx, path) }, path)
}

func (a *HookableAuditor) IsWritable(ctx context.Context, path string) (bool, error) {
	return hookValue(a.h, OpIsWritable, func() (bool, error) { return a.next.IsWritable(ctx, path) }, path)
}

func (a *HookableAuditor) Connect(ctx context.Context) (bool, error) {
	return hookValue(a.h, OpConnect, func() (bool, error) { return a.next.Connect(ctx) })
}

func (a *HookableAuditor) VerifyMD5(ctx context.Context, filename, expectedMD5 string) (bool, error) {
	return hookValue(a.h, OpVerifyMD5, func() (bool, error) {
		return a.next.VerifyMD5(ctx, filename, expectedMD5)
	}, filename, expectedMD5)
}

func (a *HookableAuditor) VerifySignature(ctx context.Context, filename string, signatures []string, filenameForErrors string) (bool, error) {
	return hookValue(a.h, OpVerifySignature, func() (bool, error) {
		return a.next.VerifySignature(ctx, filename, signatures, filenameForErrors)
	}, filename, signatures, filenameForErrors)
}

func (a *HookableAuditor) IsZipFile(ctx context.Context, file string) (bool, error) {
	return hookValue(a.h, OpIsZipFile, func() (bool, error) { return a.next.IsZipFile(ctx, file) }, file)
}

// ============================================================================
// HookableManager
// ============================================================================

type HookableManager struct {
	next Manager
	h    hooker
}

// NewHookableManager wraps next.
func NewHookableManager(env *Environment, next Manager) *HookableManager {
	return &HookableManager{next: next, h: hooker{env: env}}
}

func (m *HookableManager) Kind() Kind      { return KindManager }
func (m *HookableManager) Unwrap() Service { return m.next }

func (m *HookableManager) EnsureUniqueFilename(ctx context.Context, dir, filename string, cb UniqueFilenameFunc) (string, error) {
	return hookValue(m.h, OpEnsureUniqueFilename, func() (string, error) {
		return m.next.EnsureUniqueFilename(ctx, dir, filename, cb)
	}, dir, filename, cb)
}

func (m *HookableManager) SetGroup(ctx context.Context, file, group string, recursive bool) error {
	return hookErr(m.h, OpSetGroup, func() error {
		return m.next.SetGroup(ctx, file, group, recursive)
	}, file, group, recursive)
}

func (m *HookableManager) SetPermissions(ctx context.Context, file string, mode os.FileMode, recursive bool) error {
	return hookErr(m.h, OpSetPermissions, func() error {
		return m.next.SetPermissions(ctx, file, mode, recursive)
	}, file, mode, recursive)
}

func (m *HookableManager) SetOwner(ctx context.Context, file, owner string, recursive bool) error {
	return hookErr(m.h, OpSetOwner, func() error {
		return m.next.SetOwner(ctx, file, owner, recursive)
	}, file, owner, recursive)
}

func (m *HookableManager) SetCurrentDirectory(ctx context.Context, path string) error {
	return hookErr(m.h, OpSetCurrentDirectory, func() error { return m.next.SetCurrentDirectory(ctx, path) }, path)
}

func (m *HookableManager) InvalidateOpCache(ctx context.Context, filepath string, force bool) (bool, error) {
	return hookValue(m.h, OpInvalidateOpCache, func() (bool, error) {
		return m.next.InvalidateOpCache(ctx, filepath, force)
	}, filepath, force)
}

func (m *HookableManager) InvalidateDirectoryOpCache(ctx context.Context, dir string) error {
	return hookErr(m.h, OpInvalidateDirectoryOpCache, func() error {
		return m.next.InvalidateDirectoryOpCache(ctx, dir)
	}, dir)
}

// ============================================================================
// HookableAdvanced
// ============================================================================

type HookableAdvanced struct {
	next Advanced
	h    hooker
}

// NewHookableAdvanced wraps next.
func NewHookableAdvanced(env *Environment, next Advanced) *HookableAdvanced {
	return &HookableAdvanced{next: next, h: hooker{env: env}}
}

func (a *HookableAdvanced) Kind() Kind      { return KindAdvanced }
func (a *HookableAdvanced) Unwrap() Service { return a.next }

func (a *HookableAdvanced) AtomicWrite(ctx context.Context, path, content string, mode os.FileMode) error {
	return hookErr(a.h, OpAtomicWrite, func() error {
		return a.next.AtomicWrite(ctx, path, content, mode)
	}, path, content, mode)
}

func (a *HookableAdvanced) Append(ctx context.Context, path, content string) error {
	return hookErr(a.h, OpAppend, func() error { return a.next.Append(ctx, path, content) }, path, content)
}

func (a *HookableAdvanced) Prepend(ctx context.Context, path, content string) error {
	return hookErr(a.h, OpPrepend, func() error { return a.next.Prepend(ctx, path, content) }, path, content)
}

func (a *HookableAdvanced) Replace(ctx context.Context, path string, search, replace []string) error {
	return hookErr(a.h, OpReplace, func() error {
		return a.next.Replace(ctx, path, search, replace)
	}, path, search, replace)
}

func (a *HookableAdvanced) Extension(path string) string {
	return hookPure(a.h, OpExtension, func() string { return a.next.Extension(path) }, path)
}

func (a *HookableAdvanced) Filename(path string) string {
	return hookPure(a.h, OpFilename, func() string { return a.next.Filename(path) }, path)
}

func (a *HookableAdvanced) Dirname(path string) string {
	return hookPure(a.h, OpDirname, func() string { return a.next.Dirname(path) }, path)
}

func (a *HookableAdvanced) CleanDirectory(ctx context.Context, directory string) error {
	return hookErr(a.h, OpCleanDirectory, func() error { return a.next.CleanDirectory(ctx, directory) }, directory)
}

func (a *HookableAdvanced) IsDirectoryEmpty(ctx context.Context, directory string) (bool, error) {
	return hookValue(a.h, OpIsDirectoryEmpty, func() (bool, error) {
		return a.next.IsDirectoryEmpty(ctx, directory)
	}, directory)
}

func (a *HookableAdvanced) GetMimeType(ctx context.Context, path string) (string, error) {
	return hookValue(a.h, OpGetMimeType, func() (string, error) { return a.next.GetMimeType(ctx, path) }, path)
}

func (a *HookableAdvanced) Hash(ctx context.Context, path string, algorithm ChecksumAlgorithm) (string, error) {
	return hookValue(a.h, OpHash, func() (string, error) {
		return a.next.Hash(ctx, path, algorithm)
	}, path, algorithm)
}

func (a *HookableAdvanced) FilesEqual(ctx context.Context, path1, path2 string) (bool, error) {
	return hookValue(a.h, OpFilesEqual, func() (bool, error) {
		return a.next.FilesEqual(ctx, path1, path2)
	}, path1, path2)
}

func (a *HookableAdvanced) ReadJSON(ctx context.Context, path string) (any, error) {
	return hookValue(a.h, OpReadJSON, func() (any, error) { return a.next.ReadJSON(ctx, path) }, path)
}

func (a *HookableAdvanced) WriteJSON(ctx context.Context, path string, data any, pretty bool) error {
	return hookErr(a.h, OpWriteJSON, func() error {
		return a.next.WriteJSON(ctx, path, data, pretty)
	}, path, data, pretty)
}

func (a *HookableAdvanced) ReadXML(ctx context.Context, path string) (*etree.Element, error) {
	return hookValue(a.h, OpReadXML, func() (*etree.Element, error) { return a.next.ReadXML(ctx, path) }, path)
}

func (a *HookableAdvanced) WriteXML(ctx context.Context, path string, xml any) error {
	return hookErr(a.h, OpWriteXML, func() error { return a.next.WriteXML(ctx, path, xml) }, path, xml)
}

func (a *HookableAdvanced) ReadDOM(ctx context.Context, path string) (*etree.Document, error) {
	return hookValue(a.h, OpReadDOM, func() (*etree.Document, error) { return a.next.ReadDOM(ctx, path) }, path)
}

func (a *HookableAdvanced) WriteDOM(ctx context.Context, path string, dom *etree.Document) error {
	return hookErr(a.h, OpWriteDOM, func() error { return a.next.WriteDOM(ctx, path, dom) }, path, dom)
}
