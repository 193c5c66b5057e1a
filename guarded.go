package wpfs

import (
	"context"
	"os"
	"time"

	"github.com/beevik/etree"
)

// Guarded decorators turn unsuccessful results of the wrapped service into
// *FSError values unwrapping to ErrNotExist, ErrPermission or ErrFailed.
// While guarded mode is off they pass results through untouched.

// ============================================================================
// GuardedReader
// ============================================================================

type GuardedReader struct {
	next Reader
	g    guard
}

// NewGuardedReader wraps next.
func NewGuardedReader(env *Environment, next Reader) *GuardedReader {
	return &GuardedReader{next: next, g: guard{env: env}}
}

func (r *GuardedReader) Kind() Kind      { return KindReader }
func (r *GuardedReader) Unwrap() Service { return r.next }

func (r *GuardedReader) GetHomePath(ctx context.Context) (string, error) {
	res, err := r.next.GetHomePath(ctx)
	return ensureSuccessful(r.g, string(OpGetHomePath), res, err)
}

func (r *GuardedReader) GetInstallationPath() string { return r.next.GetInstallationPath() }
func (r *GuardedReader) GetContentPath() string      { return r.next.GetContentPath() }
func (r *GuardedReader) GetPluginsPath() string      { return r.next.GetPluginsPath() }
func (r *GuardedReader) GetThemesPath(theme string) string {
	return r.next.GetThemesPath(theme)
}
func (r *GuardedReader) GetLangPath() string { return r.next.GetLangPath() }

func (r *GuardedReader) GetHumanReadablePermissions(ctx context.Context, file string) (string, error) {
	res, err := r.next.GetHumanReadablePermissions(ctx, file)
	return validateResource(ctx, r.g, string(OpGetHumanReadablePermissions), res, err, file)
}

func (r *GuardedReader) GetPermissions(ctx context.Context, file string) (string, error) {
	res, err := r.next.GetPermissions(ctx, file)
	return validateResource(ctx, r.g, string(OpGetPermissions), res, err, file)
}

func (r *GuardedReader) GetContents(ctx context.Context, file string) (string, error) {
	res, err := r.next.GetContents(ctx, file)
	return validateResource(ctx, r.g, string(OpGetContents), res, err, file)
}

func (r *GuardedReader) GetContentsAsArray(ctx context.Context, file string) ([]string, error) {
	res, err := r.next.GetContentsAsArray(ctx, file)
	return validateResource(ctx, r.g, string(OpGetContentsAsArray), res, err, file)
}

func (r *GuardedReader) GetCurrentPath(ctx context.Context) (string, error) {
	res, err := r.next.GetCurrentPath(ctx)
	return ensureSuccessful(r.g, string(OpGetCurrentPath), res, err)
}

func (r *GuardedReader) GetOwner(ctx context.Context, file string) (string, error) {
	res, err := r.next.GetOwner(ctx, file)
	return validateResource(ctx, r.g, string(OpGetOwner), res, err, file)
}

func (r *GuardedReader) GetGroup(ctx context.Context, file string) (string, error) {
	res, err := r.next.GetGroup(ctx, file)
	return validateResource(ctx, r.g, string(OpGetGroup), res, err, file)
}

func (r *GuardedReader) GetLastAccessedTime(ctx context.Context, file string) (time.Time, error) {
	res, err := r.next.GetLastAccessedTime(ctx, file)
	return validateResource(ctx, r.g, string(OpGetLastAccessedTime), res, err, file)
}

func (r *GuardedReader) GetLastModifiedTime(ctx context.Context, file string) (time.Time, error) {
	res, err := r.next.GetLastModifiedTime(ctx, file)
	return validateResource(ctx, r.g, string(OpGetLastModifiedTime), res, err, file)
}

func (r *GuardedReader) GetFileSize(ctx context.Context, file string) (int64, error) {
	res, err := r.next.GetFileSize(ctx, file)
	return validateResource(ctx, r.g, string(OpGetFileSize), res, err, file)
}

func (r *GuardedReader) GetPermissionsAsOctal(mode string) string {
	return r.next.GetPermissionsAsOctal(mode)
}

func (r *GuardedReader) GetDirectoryList(ctx context.Context, path string, includeHidden, recursive bool) ([]DirEntry, error) {
	res, err := r.next.GetDirectoryList(ctx, path, includeHidden, recursive)
	return validateResource(ctx, r.g, string(OpGetDirectoryList), res, err, path)
}

func (r *GuardedReader) GetFiles(ctx context.Context, folder string, levels int, exclusions []string, includeHidden bool) ([]string, error) {
	res, err := r.next.GetFiles(ctx, folder, levels, exclusions, includeHidden)
	return validateResource(ctx, r.g, string(OpGetFiles), res, err, folder)
}

func (r *GuardedReader) GetUploadsDirInfo(ctx context.Context, yearMonth string, createDir, refreshCache bool) (UploadDir, error) {
	res, err := r.next.GetUploadsDirInfo(ctx, yearMonth, createDir, refreshCache)
	return ensureSuccessful(r.g, string(OpGetUploadsDirInfo), res, err)
}

func (r *GuardedReader) GetTempDir(ctx context.Context) string { return r.next.GetTempDir(ctx) }

func (r *GuardedReader) GetNormalizePath(path string) string { return r.next.GetNormalizePath(path) }

func (r *GuardedReader) GetSanitizeFilename(filename string) string {
	return r.next.GetSanitizeFilename(filename)
}

func (r *GuardedReader) FindFolder(ctx context.Context, folder string) (string, error) {
	res, err := r.next.FindFolder(ctx, folder)
	return validateResource(ctx, r.g, string(OpFindFolder), res, err, folder)
}

func (r *GuardedReader) SearchForFolder(ctx context.Context, folder, base string, loop bool) (string, error) {
	res, err := r.next.SearchForFolder(ctx, folder, base, loop)
	return validateResource(ctx, r.g, string(OpSearchForFolder), res, err, folder)
}

// ============================================================================
// GuardedAction
// ============================================================================

type GuardedAction struct {
	next Action
	g    guard
}

// NewGuardedAction wraps next.
func NewGuardedAction(env *Environment, next Action) *GuardedAction {
	return &GuardedAction{next: next, g: guard{env: env}}
}

func (a *GuardedAction) Kind() Kind      { return KindAction }
func (a *GuardedAction) Unwrap() Service { return a.next }

// check validates an error-only outcome on resource.
func (a *GuardedAction) check(ctx context.Context, op Operation, err error, resource string) error {
	_, err = validateResource(ctx, a.g, string(op), done(err), err, resource)
	return err
}

func (a *GuardedAction) PutContents(ctx context.Context, file, contents string, mode os.FileMode) error {
	return a.check(ctx, OpPutContents, a.next.PutContents(ctx, file, contents, mode), file)
}

func (a *GuardedAction) CopyFile(ctx context.Context, source, destination string, overwrite bool, mode os.FileMode) error {
	if err := a.g.ensureExists(ctx, string(OpCopyFile), source); err != nil {
		return err
	}
	return a.check(ctx, OpCopyFile, a.next.CopyFile(ctx, source, destination, overwrite, mode), source)
}

func (a *GuardedAction) CopyDirectory(ctx context.Context, from, to string, skipList []string) error {
	if err := a.g.ensureExists(ctx, string(OpCopyDirectory), to); err != nil {
		return err
	}
	return a.check(ctx, OpCopyDirectory, a.next.CopyDirectory(ctx, from, to, skipList), from)
}

func (a *GuardedAction) MoveFile(ctx context.Context, source, destination string, overwrite bool) error {
	if err := a.g.ensureExists(ctx, string(OpMoveFile), source); err != nil {
		return err
	}
	if err := a.g.ensureExists(ctx, string(OpMoveFile), destination); err != nil {
		return err
	}
	return a.check(ctx, OpMoveFile, a.next.MoveFile(ctx, source, destination, overwrite), source)
}

func (a *GuardedAction) MoveDirectory(ctx context.Context, from, to string, overwrite bool) error {
	if err := a.g.ensureExists(ctx, string(OpMoveDirectory), to); err != nil {
		return err
	}
	return a.check(ctx, OpMoveDirectory, a.next.MoveDirectory(ctx, from, to, overwrite), from)
}

func (a *GuardedAction) Delete(ctx context.Context, path string, recursive bool, typ EntryType) error {
	return a.check(ctx, OpDelete, a.next.Delete(ctx, path, recursive, typ), path)
}

func (a *GuardedAction) Touch(ctx context.Context, file string, mtime, atime time.Time) error {
	return a.check(ctx, OpTouch, a.next.Touch(ctx, file, mtime, atime), file)
}

func (a *GuardedAction) CreateDirectory(ctx context.Context, path string, mode os.FileMode, owner, group string) error {
	return a.check(ctx, OpCreateDirectory, a.next.CreateDirectory(ctx, path, mode, owner, group), path)
}

func (a *GuardedAction) CreateTempFile(ctx context.Context, filename, dir string) (string, error) {
	res, err := a.next.CreateTempFile(ctx, filename, dir)
	return ensureSuccessful(a.g, string(OpCreateTempFile), res, err)
}

func (a *GuardedAction) DeleteDirectory(ctx context.Context, path string, recursive bool) error {
	return a.check(ctx, OpDeleteDirectory, a.next.DeleteDirectory(ctx, path, recursive), path)
}

func (a *GuardedAction) HandleUpload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) (UploadResult, error) {
	res, err := a.next.HandleUpload(ctx, file, overrides, yearMonth)
	return ensureSuccessful(a.g, string(OpHandleUpload), res, err)
}

func (a *GuardedAction) HandleSideload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) (UploadResult, error) {
	res, err := a.next.HandleSideload(ctx, file, overrides, yearMonth)
	return ensureSuccessful(a.g, string(OpHandleSideload), res, err)
}

func (a *GuardedAction) DownloadFromURL(ctx context.Context, url string, timeout time.Duration, signatureVerification bool) (string, error) {
	res, err := a.next.DownloadFromURL(ctx, url, timeout, signatureVerification)
	return validateResource(ctx, a.g, string(OpDownloadFromURL), res, err, url)
}

func (a *GuardedAction) Unzip(ctx context.Context, file, to string) error {
	return a.check(ctx, OpUnzip, a.next.Unzip(ctx, file, to), file)
}

// ============================================================================
// GuardedAuditor
// ============================================================================

// GuardedAuditor fails on a false answer: a predicate that does not hold is
// reported as ErrFailed.
type GuardedAuditor struct {
	next Auditor
	g    guard
}

// NewGuardedAuditor wraps next.
func NewGuardedAuditor(env *Environment, next Auditor) *GuardedAuditor {
	return &GuardedAuditor{next: next, g: guard{env: env}}
}

func (a *GuardedAuditor) Kind() Kind      { return KindAuditor }
func (a *GuardedAuditor) Unwrap() Service { return a.next }

func (a *GuardedAuditor) Exists(ctx context.Context, path string) (bool, error) {
	res, err := a.next.Exists(ctx, path)
	return ensureSuccessful(a.g, string(OpExists), res, err)
}

func (a *GuardedAuditor) IsBinary(text string) (bool, error) {
	res, err := a.next.IsBinary(text)
	return ensureSuccessful(a.g, string(OpIsBinary), res, err)
}

func (a *GuardedAuditor) IsFile(ctx context.Context, path string) (bool, error) {
	res, err := a.next.IsFile(ctx, path)
	return ensureSuccessful(a.g, string(OpIsFile), res, err)
}

func (a *GuardedAuditor) IsDirectory(ctx context.Context, path string) (bool, error) {
	res, err := a.next.IsDirectory(ctx, path)
	return ensureSuccessful(a.g, string(OpIsDirectory), res, err)
}

func (a *GuardedAuditor) IsReadable(ctx context.Context, path string) (bool, error) {
	res, err := a.next.IsReadable(ctx, path)
	return ensureSuccessful(a.g, string(OpIsReadable), res, err)
}

func (a *GuardedAuditor) IsWritable(ctx context.Context, path string) (bool, error) {
	res, err := a.next.IsWritable(ctx, path)
	return ensureSuccessful(a.g, string(OpIsWritable), res, err)
}

func (a *GuardedAuditor) Connect(ctx context.Context) (bool, error) {
	res, err := a.next.Connect(ctx)
	return ensureSuccessful(a.g, string(OpConnect), res, err)
}

func (a *GuardedAuditor) VerifyMD5(ctx context.Context, filename, expectedMD5 string) (bool, error) {
	res, err := a.next.VerifyMD5(ctx, filename, expectedMD5)
	return ensureSuccessful(a.g, string(OpVerifyMD5), res, err)
}

func (a *GuardedAuditor) VerifySignature(ctx context.Context, filename string, signatures []string, filenameForErrors string) (bool, error) {
	res, err := a.next.VerifySignature(ctx, filename, signatures, filenameForErrors)
	return ensureSuccessful(a.g, string(OpVerifySignature), res, err)
}

func (a *GuardedAuditor) IsZipFile(ctx context.Context, file string) (bool, error) {
	res, err := a.next.IsZipFile(ctx, file)
	return ensureSuccessful(a.g, string(OpIsZipFile), res, err)
}

// ============================================================================
// GuardedManager
// ============================================================================

type GuardedManager struct {
	next Manager
	g    guard
}

// NewGuardedManager wraps next.
func NewGuardedManager(env *Environment, next Manager) *GuardedManager {
	return &GuardedManager{next: next, g: guard{env: env}}
}

func (m *GuardedManager) Kind() Kind      { return KindManager }
func (m *GuardedManager) Unwrap() Service { return m.next }

func (m *GuardedManager) check(ctx context.Context, op Operation, err error, resource string) error {
	_, err = validateResource(ctx, m.g, string(op), done(err), err, resource)
	return err
}

func (m *GuardedManager) EnsureUniqueFilename(ctx context.Context, dir, filename string, cb UniqueFilenameFunc) (string, error) {
	res, err := m.next.EnsureUniqueFilename(ctx, dir, filename, cb)
	return validateResource(ctx, m.g, string(OpEnsureUniqueFilename), res, err, filename)
}

func (m *GuardedManager) SetGroup(ctx context.Context, file, group string, recursive bool) error {
	return m.check(ctx, OpSetGroup, m.next.SetGroup(ctx, file, group, recursive), file)
}

func (m *GuardedManager) SetPermissions(ctx context.Context, file string, mode os.FileMode, recursive bool) error {
	return m.check(ctx, OpSetPermissions, m.next.SetPermissions(ctx, file, mode, recursive), file)
}

func (m *GuardedManager) SetOwner(ctx context.Context, file, owner string, recursive bool) error {
	return m.check(ctx, OpSetOwner, m.next.SetOwner(ctx, file, owner, recursive), file)
}

func (m *GuardedManager) SetCurrentDirectory(ctx context.Context, path string) error {
	return m.check(ctx, OpSetCurrentDirectory, m.next.SetCurrentDirectory(ctx, path), path)
}

func (m *GuardedManager) InvalidateOpCache(ctx context.Context, filepath string, force bool) (bool, error) {
	res, err := m.next.InvalidateOpCache(ctx, filepath, force)
	return validateResource(ctx, m.g, string(OpInvalidateOpCache), res, err, filepath)
}

// InvalidateDirectoryOpCache only checks that dir exists; the outcome of the
// invalidation itself is not validated.
func (m *GuardedManager) InvalidateDirectoryOpCache(ctx context.Context, dir string) error {
	if err := m.g.ensureExists(ctx, string(OpInvalidateDirectoryOpCache), dir); err != nil {
		return err
	}
	return m.next.InvalidateDirectoryOpCache(ctx, dir)
}

// ============================================================================
// GuardedAdvanced
// ============================================================================

type GuardedAdvanced struct {
	next Advanced
	g    guard
}

// NewGuardedAdvanced wraps next.
func NewGuardedAdvanced(env *Environment, next Advanced) *GuardedAdvanced {
	return &GuardedAdvanced{next: next, g: guard{env: env}}
}

func (a *GuardedAdvanced) Kind() Kind      { return KindAdvanced }
func (a *GuardedAdvanced) Unwrap() Service { return a.next }

func (a *GuardedAdvanced) check(ctx context.Context, op Operation, err error, resource string) error {
	_, err = validateResource(ctx, a.g, string(op), done(err), err, resource)
	return err
}

func (a *GuardedAdvanced) AtomicWrite(ctx context.Context, path, content string, mode os.FileMode) error {
	return a.check(ctx, OpAtomicWrite, a.next.AtomicWrite(ctx, path, content, mode), path)
}

func (a *GuardedAdvanced) Append(ctx context.Context, path, content string) error {
	return a.check(ctx, OpAppend, a.next.Append(ctx, path, content), path)
}

func (a *GuardedAdvanced) Prepend(ctx context.Context, path, content string) error {
	return a.check(ctx, OpPrepend, a.next.Prepend(ctx, path, content), path)
}

func (a *GuardedAdvanced) Replace(ctx context.Context, path string, search, replace []string) error {
	return a.check(ctx, OpReplace, a.next.Replace(ctx, path, search, replace), path)
}

func (a *GuardedAdvanced) Extension(path string) string { return a.next.Extension(path) }
func (a *GuardedAdvanced) Filename(path string) string  { return a.next.Filename(path) }
func (a *GuardedAdvanced) Dirname(path string) string   { return a.next.Dirname(path) }

func (a *GuardedAdvanced) CleanDirectory(ctx context.Context, directory string) error {
	return a.check(ctx, OpCleanDirectory, a.next.CleanDirectory(ctx, directory), directory)
}

// IsDirectoryEmpty only fails on errors; false is a valid answer.
func (a *GuardedAdvanced) IsDirectoryEmpty(ctx context.Context, directory string) (bool, error) {
	res, err := a.next.IsDirectoryEmpty(ctx, directory)
	return res, a.check(ctx, OpIsDirectoryEmpty, err, directory)
}

func (a *GuardedAdvanced) GetMimeType(ctx context.Context, path string) (string, error) {
	res, err := a.next.GetMimeType(ctx, path)
	return validateResource(ctx, a.g, string(OpGetMimeType), res, err, path)
}

func (a *GuardedAdvanced) Hash(ctx context.Context, path string, algorithm ChecksumAlgorithm) (string, error) {
	res, err := a.next.Hash(ctx, path, algorithm)
	return validateResource(ctx, a.g, string(OpHash), res, err, path)
}

// FilesEqual requires path2 to exist and only fails on errors after that.
func (a *GuardedAdvanced) FilesEqual(ctx context.Context, path1, path2 string) (bool, error) {
	if err := a.g.ensureExists(ctx, string(OpFilesEqual), path2); err != nil {
		return false, err
	}
	res, err := a.next.FilesEqual(ctx, path1, path2)
	return res, a.check(ctx, OpFilesEqual, err, path1)
}

func (a *GuardedAdvanced) ReadJSON(ctx context.Context, path string) (any, error) {
	res, err := a.next.ReadJSON(ctx, path)
	return validateResource(ctx, a.g, string(OpReadJSON), res, err, path)
}

func (a *GuardedAdvanced) WriteJSON(ctx context.Context, path string, data any, pretty bool) error {
	return a.check(ctx, OpWriteJSON, a.next.WriteJSON(ctx, path, data, pretty), path)
}

func (a *GuardedAdvanced) ReadXML(ctx context.Context, path string) (*etree.Element, error) {
	res, err := a.next.ReadXML(ctx, path)
	return validateResource(ctx, a.g, string(OpReadXML), res, err, path)
}

func (a *GuardedAdvanced) WriteXML(ctx context.Context, path string, xml any) error {
	return a.check(ctx, OpWriteXML, a.next.WriteXML(ctx, path, xml), path)
}

func (a *GuardedAdvanced) ReadDOM(ctx context.Context, path string) (*etree.Document, error) {
	res, err := a.next.ReadDOM(ctx, path)
	return validateResource(ctx, a.g, string(OpReadDOM), res, err, path)
}

func (a *GuardedAdvanced) WriteDOM(ctx context.Context, path string, dom *etree.Document) error {
	return a.check(ctx, OpWriteDOM, a.next.WriteDOM(ctx, path, dom), path)
}
