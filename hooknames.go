package wpfs

import (
	"sort"
	"strings"
	"unicode"
)

// Operation is the snake_case name of an adapter method as it appears in hook
// names, e.g. "get_contents".
type Operation string

// HookPrefix starts every hook name.
const HookPrefix = "wpfs_"

// Before returns the name of the action dispatched before the call.
func (o Operation) Before() string { return HookPrefix + "before_" + string(o) + "_action" }

// After returns the name of the action dispatched after the call.
func (o Operation) After() string { return HookPrefix + "after_" + string(o) + "_action" }

// Filter returns the name of the filter applied to the call result.
func (o Operation) Filter() string { return HookPrefix + string(o) + "_filter" }

// Method returns the Go method name, e.g. "GetContents".
func (o Operation) Method() string {
	var b strings.Builder
	for _, part := range strings.Split(string(o), "_") {
		if part == "" {
			continue
		}
		switch part {
		case "md5", "json", "xml", "dom", "url":
			b.WriteString(strings.ToUpper(part))
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// Reader operations
const (
	OpGetHomePath                 Operation = "get_home_path"
	OpGetInstallationPath         Operation = "get_installation_path"
	OpGetContentPath              Operation = "get_content_path"
	OpGetPluginsPath              Operation = "get_plugins_path"
	OpGetThemesPath               Operation = "get_themes_path"
	OpGetLangPath                 Operation = "get_lang_path"
	OpGetHumanReadablePermissions Operation = "get_human_readable_permissions"
	OpGetPermissions              Operation = "get_permissions"
	OpGetContents                 Operation = "get_contents"
	OpGetContentsAsArray          Operation = "get_contents_as_array"
	OpGetCurrentPath              Operation = "get_current_path"
	OpGetOwner                    Operation = "get_owner"
	OpGetGroup                    Operation = "get_group"
	OpGetLastAccessedTime         Operation = "get_last_accessed_time"
	OpGetLastModifiedTime         Operation = "get_last_modified_time"
	OpGetFileSize                 Operation = "get_file_size"
	OpGetPermissionsAsOctal       Operation = "get_permissions_as_octal"
	OpGetDirectoryList            Operation = "get_directory_list"
	OpGetFiles                    Operation = "get_files"
	OpGetUploadsDirInfo           Operation = "get_uploads_dir_info"
	OpGetTempDir                  Operation = "get_temp_dir"
	OpGetNormalizePath            Operation = "get_normalize_path"
	OpGetSanitizeFilename         Operation = "get_sanitize_filename"
	OpFindFolder                  Operation = "find_folder"
	OpSearchForFolder             Operation = "search_for_folder"
)

// Action operations
const (
	OpPutContents     Operation = "put_contents"
	OpCopyFile        Operation = "copy_file"
	OpCopyDirectory   Operation = "copy_directory"
	OpMoveFile        Operation = "move_file"
	OpMoveDirectory   Operation = "move_directory"
	OpDelete          Operation = "delete"
	OpTouch           Operation = "touch"
	OpCreateDirectory Operation = "create_directory"
	OpCreateTempFile  Operation = "create_temp_file"
	OpDeleteDirectory Operation = "delete_directory"
	OpHandleUpload    Operation = "handle_upload"
	OpHandleSideload  Operation = "handle_sideload"
	OpDownloadFromURL Operation = "download_from_url"
	OpUnzip           Operation = "unzip"
)

// Auditor operations
const (
	OpExists          Operation = "exists"
	OpIsBinary        Operation = "is_binary"
	OpIsFile          Operation = "is_file"
	OpIsDirectory     Operation = "is_directory"
	OpIsReadable      Operation = "is_readable"
	OpIsWritable      Operation = "is_writable"
	OpConnect         Operation = "connect"
	OpVerifyMD5       Operation = "verify_md5"
	OpVerifySignature Operation = "verify_signature"
	OpIsZipFile       Operation = "is_zip_file"
)

// Manager operations
const (
	OpEnsureUniqueFilename       Operation = "ensure_unique_filename"
	OpSetGroup                   Operation = "set_group"
	OpSetPermissions             Operation = "set_permissions"
	OpSetOwner                   Operation = "set_owner"
	OpSetCurrentDirectory        Operation = "set_current_directory"
	OpInvalidateOpCache          Operation = "invalidate_op_cache"
	OpInvalidateDirectoryOpCache Operation = "invalidate_directory_op_cache"
)

// Advanced operations
const (
	OpAtomicWrite      Operation = "atomic_write"
	OpAppend           Operation = "append"
	OpPrepend          Operation = "prepend"
	OpReplace          Operation = "replace"
	OpExtension        Operation = "extension"
	OpFilename         Operation = "filename"
	OpDirname          Operation = "dirname"
	OpCleanDirectory   Operation = "clean_directory"
	OpIsDirectoryEmpty Operation = "is_directory_empty"
	OpGetMimeType      Operation = "get_mime_type"
	OpHash             Operation = "hash"
	OpFilesEqual       Operation = "files_equal"
	OpReadJSON         Operation = "read_json"
	OpWriteJSON        Operation = "write_json"
	OpReadXML          Operation = "read_xml"
	OpWriteXML         Operation = "write_xml"
	OpReadDOM          Operation = "read_dom"
	OpWriteDOM         Operation = "write_dom"
)

type opInfo struct {
	kind     Kind
	filtered bool
}

var operations = map[Operation]opInfo{}

func register(kind Kind, filtered bool, ops ...Operation) {
	for _, op := range ops {
		operations[op] = opInfo{kind: kind, filtered: filtered}
	}
}

func init() {
	register(KindReader, true,
		OpGetHomePath, OpGetInstallationPath, OpGetContentPath, OpGetPluginsPath,
		OpGetThemesPath, OpGetLangPath, OpGetHumanReadablePermissions, OpGetPermissions,
		OpGetContents, OpGetContentsAsArray, OpGetCurrentPath, OpGetOwner, OpGetGroup,
		OpGetLastAccessedTime, OpGetLastModifiedTime, OpGetFileSize, OpGetPermissionsAsOctal,
		OpGetDirectoryList, OpGetFiles, OpGetUploadsDirInfo, OpGetTempDir, OpGetNormalizePath,
		OpGetSanitizeFilename, OpFindFolder, OpSearchForFolder)

	register(KindAction, false,
		OpPutContents, OpCopyFile, OpCopyDirectory, OpMoveFile, OpMoveDirectory, OpDelete,
		OpTouch, OpCreateDirectory, OpDeleteDirectory, OpUnzip)
	register(KindAction, true,
		OpCreateTempFile, OpHandleUpload, OpHandleSideload, OpDownloadFromURL)

	register(KindAuditor, false,
		OpExists, OpIsBinary, OpIsFile, OpIsDirectory, OpIsReadable, OpIsWritable,
		OpConnect, OpVerifyMD5, OpVerifySignature, OpIsZipFile)

	register(KindManager, false,
		OpSetGroup, OpSetPermissions, OpSetOwner, OpSetCurrentDirectory,
		OpInvalidateOpCache, OpInvalidateDirectoryOpCache)
	register(KindManager, true, OpEnsureUniqueFilename)

	register(KindAdvanced, false,
		OpAtomicWrite, OpAppend, OpPrepend, OpReplace, OpCleanDirectory, OpIsDirectoryEmpty,
		OpFilesEqual, OpWriteJSON, OpWriteXML, OpWriteDOM)
	register(KindAdvanced, true,
		OpExtension, OpFilename, OpDirname, OpGetMimeType, OpHash, OpReadJSON, OpReadXML, OpReadDOM)
}

// Filtered reports whether the result of o passes through a filter.
func (o Operation) Filtered() bool { return operations[o].filtered }

// Kind returns the adapter group o belongs to.
func (o Operation) Kind() Kind { return operations[o].kind }

// Operations returns every operation of kind, sorted by name. An empty kind
// returns all of them.
func Operations(kind Kind) []Operation {
	var out []Operation
	for op, info := range operations {
		if kind == "" || info.kind == kind {
			out = append(out, op)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HookNames lists every hook name of kind (all kinds when empty), sorted.
func HookNames(kind Kind) []string {
	var names []string
	for _, op := range Operations(kind) {
		names = append(names, op.Before(), op.After())
		if op.Filtered() {
			names = append(names, op.Filter())
		}
	}
	sort.Strings(names)
	return names
}
