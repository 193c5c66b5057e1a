package wpfs

import (
	"context"
	"os"
	"time"

	"github.com/beevik/etree"
)

// Default permission bits used when a caller passes a zero mode.
const (
	ChmodFile os.FileMode = 0o644
	ChmodDir  os.FileMode = 0o755
)

// EntryType distinguishes files, directories and links in directory listings.
type EntryType string

const (
	TypeAny       EntryType = ""
	TypeFile      EntryType = "f"
	TypeDirectory EntryType = "d"
	TypeLink      EntryType = "l"
)

// DirEntry describes one item of a directory listing.
type DirEntry struct {
	Name        string
	Perms       string // human readable, e.g. "-rw-r--r--"
	PermsN      string // octal, e.g. "0644"
	Owner       string
	Group       string
	Size        int64
	LastModUnix int64
	LastMod     string // "Jan 2"
	Time        string // "15:04:05"
	Type        EntryType
	Files       []DirEntry // populated for directories when listing recursively
}

// FileType is the result of matching a file name against the known extensions.
type FileType struct {
	Ext  string
	Type string
}

// UploadDir describes the uploads location for a given time bucket.
type UploadDir struct {
	Path    string
	URL     string
	Subdir  string
	Basedir string
	Baseurl string
	Error   string
}

// ResultError implements errorCarrier.
func (u UploadDir) ResultError() string { return u.Error }

// UploadedFile is the description of a file received by the host, either from a
// form post or from a local sideload.
type UploadedFile struct {
	Name    string
	Type    string
	TmpName string
	Size    int64
	Error   int
}

// UploadOverrides tunes upload handling.
type UploadOverrides struct {
	TestSize       bool
	TestType       bool
	Mimes          map[string]string // extension (without dot) -> mime type
	UniqueFilename UniqueFilenameFunc
}

// DefaultUploadOverrides mirrors the host defaults: size and type are checked.
func DefaultUploadOverrides() *UploadOverrides {
	return &UploadOverrides{TestSize: true, TestType: true}
}

// UploadResult is what the host returns after moving an upload into place.
// On failure only Error is set.
type UploadResult struct {
	File  string
	URL   string
	Type  string
	Error string
}

// ResultError implements errorCarrier.
func (u UploadResult) ResultError() string { return u.Error }

// UniqueFilenameFunc lets callers pick a file name when the requested one is taken.
type UniqueFilenameFunc func(dir, name, ext string) string

// ============================================================================
// Host contract
// ============================================================================

// Host is the host filesystem object every adapter delegates to. It may be
// backed by local disk, memory or an SSH transport; the adapters never know.
type Host interface {
	// Well-known locations of the installation.
	Abspath() string
	ContentDir() string
	PluginsDir() string
	ThemesDir(theme string) string
	LangDir() string

	Cwd(ctx context.Context) (string, error)
	Chdir(ctx context.Context, dir string) error

	GetContents(ctx context.Context, file string) ([]byte, error)
	GetContentsArray(ctx context.Context, file string) ([]string, error)
	PutContents(ctx context.Context, file string, contents []byte, mode os.FileMode) error

	Copy(ctx context.Context, src, dst string, overwrite bool, mode os.FileMode) error
	Move(ctx context.Context, src, dst string, overwrite bool) error
	Delete(ctx context.Context, file string, recursive bool, typ EntryType) error

	Exists(ctx context.Context, path string) bool
	IsFile(ctx context.Context, path string) bool
	IsDir(ctx context.Context, path string) bool
	IsReadable(ctx context.Context, path string) bool
	IsWritable(ctx context.Context, path string) bool

	Atime(ctx context.Context, file string) (time.Time, error)
	Mtime(ctx context.Context, file string) (time.Time, error)
	Size(ctx context.Context, file string) (int64, error)
	Touch(ctx context.Context, file string, mtime, atime time.Time) error

	Mkdir(ctx context.Context, path string, mode os.FileMode, owner, group string) error
	Rmdir(ctx context.Context, path string, recursive bool) error
	Dirlist(ctx context.Context, path string, includeHidden, recursive bool) ([]DirEntry, error)

	Chmod(ctx context.Context, file string, mode os.FileMode, recursive bool) error
	Chown(ctx context.Context, file, owner string, recursive bool) error
	Chgrp(ctx context.Context, file, group string, recursive bool) error
	Owner(ctx context.Context, file string) (string, error)
	Group(ctx context.Context, file string) (string, error)
	Getchmod(ctx context.Context, file string) (os.FileMode, error)

	FindFolder(ctx context.Context, folder string) (string, error)
	SearchForFolder(ctx context.Context, folder, base string, loop bool) (string, error)

	Connect(ctx context.Context) error
}

// Runtime groups the host utility functions that live outside the filesystem
// object: upload handling, archives, downloads, signatures and the like.
type Runtime interface {
	HomePath(ctx context.Context) (string, error)
	ListFiles(ctx context.Context, folder string, levels int, exclusions []string, includeHidden bool) ([]string, error)
	UploadDir(ctx context.Context, yearMonth string, createDir, refreshCache bool) UploadDir
	TempDir(ctx context.Context) string
	NormalizePath(path string) string
	SanitizeFilename(name string) string

	CopyDir(ctx context.Context, from, to string, skip []string) error
	MoveDir(ctx context.Context, from, to string, overwrite bool) error
	TempName(ctx context.Context, filename, dir string) (string, error)
	HandleUpload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) UploadResult
	HandleSideload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) UploadResult
	DownloadURL(ctx context.Context, url string, timeout time.Duration, verifySignature bool) (string, error)
	Unzip(ctx context.Context, file, to string) error

	VerifyMD5(ctx context.Context, file, expected string) (bool, error)
	VerifySignature(ctx context.Context, file string, signatures []string, displayName string) (bool, error)
	IsZipValid(ctx context.Context, file string) bool

	UniqueFilename(ctx context.Context, dir, filename string, cb UniqueFilenameFunc) (string, error)
	InvalidateCache(ctx context.Context, path string, force bool) (bool, error)
	InvalidateCacheDir(ctx context.Context, dir string) error

	CheckFiletype(name string, mimes map[string]string) FileType
}

// ============================================================================
// Adapter contracts
// ============================================================================

// Kind names one of the adapter groups.
type Kind string

const (
	KindReader   Kind = "FSBaseReader"
	KindAction   Kind = "FSBaseAction"
	KindAuditor  Kind = "FSBaseAuditor"
	KindManager  Kind = "FSBaseManager"
	KindAdvanced Kind = "FSAdvanced"
)

// Service is implemented by every adapter and decorator.
type Service interface {
	Kind() Kind
}

// Reader exposes read-only queries about the installation and its files.
type Reader interface {
	Service
	GetHomePath(ctx context.Context) (string, error)
	GetInstallationPath() string
	GetContentPath() string
	GetPluginsPath() string
	GetThemesPath(theme string) string
	GetLangPath() string
	GetHumanReadablePermissions(ctx context.Context, file string) (string, error)
	GetPermissions(ctx context.Context, file string) (string, error)
	GetContents(ctx context.Context, file string) (string, error)
	GetContentsAsArray(ctx context.Context, file string) ([]string, error)
	GetCurrentPath(ctx context.Context) (string, error)
	GetOwner(ctx context.Context, file string) (string, error)
	GetGroup(ctx context.Context, file string) (string, error)
	GetLastAccessedTime(ctx context.Context, file string) (time.Time, error)
	GetLastModifiedTime(ctx context.Context, file string) (time.Time, error)
	GetFileSize(ctx context.Context, file string) (int64, error)
	GetPermissionsAsOctal(mode string) string
	GetDirectoryList(ctx context.Context, path string, includeHidden, recursive bool) ([]DirEntry, error)
	GetFiles(ctx context.Context, folder string, levels int, exclusions []string, includeHidden bool) ([]string, error)
	GetUploadsDirInfo(ctx context.Context, yearMonth string, createDir, refreshCache bool) (UploadDir, error)
	GetTempDir(ctx context.Context) string
	GetNormalizePath(path string) string
	GetSanitizeFilename(filename string) string
	FindFolder(ctx context.Context, folder string) (string, error)
	SearchForFolder(ctx context.Context, folder, base string, loop bool) (string, error)
}

// Action exposes operations that change files and directories.
type Action interface {
	Service
	PutContents(ctx context.Context, file, contents string, mode os.FileMode) error
	CopyFile(ctx context.Context, source, destination string, overwrite bool, mode os.FileMode) error
	CopyDirectory(ctx context.Context, from, to string, skipList []string) error
	MoveFile(ctx context.Context, source, destination string, overwrite bool) error
	MoveDirectory(ctx context.Context, from, to string, overwrite bool) error
	Delete(ctx context.Context, path string, recursive bool, typ EntryType) error
	Touch(ctx context.Context, file string, mtime, atime time.Time) error
	CreateDirectory(ctx context.Context, path string, mode os.FileMode, owner, group string) error
	CreateTempFile(ctx context.Context, filename, dir string) (string, error)
	DeleteDirectory(ctx context.Context, path string, recursive bool) error
	HandleUpload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) (UploadResult, error)
	HandleSideload(ctx context.Context, file UploadedFile, overrides *UploadOverrides, yearMonth string) (UploadResult, error)
	DownloadFromURL(ctx context.Context, url string, timeout time.Duration, signatureVerification bool) (string, error)
	Unzip(ctx context.Context, file, to string) error
}

// Auditor exposes predicates and integrity checks.
type Auditor interface {
	Service
	Exists(ctx context.Context, path string) (bool, error)
	IsBinary(text string) (bool, error)
	IsFile(ctx context.Context, path string) (bool, error)
	IsDirectory(ctx context.Context, path string) (bool, error)
	IsReadable(ctx context.Context, path string) (bool, error)
	IsWritable(ctx context.Context, path string) (bool, error)
	Connect(ctx context.Context) (bool, error)
	VerifyMD5(ctx context.Context, filename, expectedMD5 string) (bool, error)
	VerifySignature(ctx context.Context, filename string, signatures []string, filenameForErrors string) (bool, error)
	IsZipFile(ctx context.Context, file string) (bool, error)
}

// Manager exposes ownership, permission and cache management.
type Manager interface {
	Service
	EnsureUniqueFilename(ctx context.Context, dir, filename string, cb UniqueFilenameFunc) (string, error)
	SetGroup(ctx context.Context, file, group string, recursive bool) error
	SetPermissions(ctx context.Context, file string, mode os.FileMode, recursive bool) error
	SetOwner(ctx context.Context, file, owner string, recursive bool) error
	SetCurrentDirectory(ctx context.Context, path string) error
	InvalidateOpCache(ctx context.Context, filepath string, force bool) (bool, error)
	InvalidateDirectoryOpCache(ctx context.Context, dir string) error
}

// Advanced exposes composite helpers built from host primitives.
type Advanced interface {
	Service
	AtomicWrite(ctx context.Context, path, content string, mode os.FileMode) error
	Append(ctx context.Context, path, content string) error
	Prepend(ctx context.Context, path, content string) error
	Replace(ctx context.Context, path string, search, replace []string) error
	Extension(path string) string
	Filename(path string) string
	Dirname(path string) string
	CleanDirectory(ctx context.Context, directory string) error
	IsDirectoryEmpty(ctx context.Context, directory string) (bool, error)
	GetMimeType(ctx context.Context, path string) (string, error)
	Hash(ctx context.Context, path string, algorithm ChecksumAlgorithm) (string, error)
	FilesEqual(ctx context.Context, path1, path2 string) (bool, error)
	ReadJSON(ctx context.Context, path string) (any, error)
	WriteJSON(ctx context.Context, path string, data any, pretty bool) error
	ReadXML(ctx context.Context, path string) (*etree.Element, error)
	WriteXML(ctx context.Context, path string, xml any) error
	ReadDOM(ctx context.Context, path string) (*etree.Document, error)
	WriteDOM(ctx context.Context, path string, dom *etree.Document) error
}

// ============================================================================
// Optional host capabilities
// ============================================================================

// CanInvalidate is implemented by hosts that keep a content cache.
type CanInvalidate interface {
	Invalidate(path string) bool
	InvalidatePrefix(dir string) int
}

// CanClose is implemented by hosts holding a connection or watcher.
type CanClose interface {
	Close() error
}
