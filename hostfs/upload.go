package hostfs

import (
	"context"
	"fmt"
	"path"

	"github.com/gobeaver/wpfs"
)

// uploadErrors are the messages of the numeric upload error codes.
var uploadErrors = map[int]string{
	1: "The uploaded file exceeds the upload_max_filesize directive in php.ini.",
	2: "The uploaded file exceeds the MAX_FILE_SIZE directive that was specified in the HTML form.",
	3: "The uploaded file was only partially uploaded.",
	4: "No file was uploaded.",
	6: "Missing a temporary folder.",
	7: "Failed to write file to disk.",
	8: "File upload stopped by extension.",
}

const (
	msgEmptyFile    = "File is empty. Please upload something more substantial."
	msgTooLarge     = "The uploaded file exceeds the maximum upload size for this site."
	msgFailedTest   = "Specified file failed upload test."
	msgNotAllowed   = "Sorry, you are not allowed to upload this file type."
	msgCouldNotMove = "The uploaded file could not be moved to %s."
)

// HandleUpload moves a received upload into the uploads bucket of yearMonth.
func (r *Runtime) HandleUpload(ctx context.Context, file wpfs.UploadedFile, overrides *wpfs.UploadOverrides, yearMonth string) wpfs.UploadResult {
	return r.handle(ctx, "upload", file, overrides, yearMonth)
}

// HandleSideload does the same for a file that is already on the host.
func (r *Runtime) HandleSideload(ctx context.Context, file wpfs.UploadedFile, overrides *wpfs.UploadOverrides, yearMonth string) wpfs.UploadResult {
	return r.handle(ctx, "sideload", file, overrides, yearMonth)
}

func (r *Runtime) handle(ctx context.Context, action string, file wpfs.UploadedFile, overrides *wpfs.UploadOverrides, yearMonth string) wpfs.UploadResult {
	if overrides == nil {
		overrides = wpfs.DefaultUploadOverrides()
	}
	fail := func(msg string) wpfs.UploadResult {
		r.opts.Logger.Info().Str("action", action).Str("file", file.Name).Msg(msg)
		return wpfs.UploadResult{Error: msg}
	}

	if file.Error != 0 {
		if msg, ok := uploadErrors[file.Error]; ok {
			return fail(msg)
		}
		return fail(fmt.Sprintf("Unknown upload error %d.", file.Error))
	}

	if overrides.TestSize {
		if file.Size <= 0 {
			return fail(msgEmptyFile)
		}
		if r.opts.MaxUploadSize > 0 && file.Size > r.opts.MaxUploadSize {
			return fail(msgTooLarge)
		}
	}

	if file.TmpName == "" || !r.host.IsFile(ctx, file.TmpName) {
		return fail(msgFailedTest)
	}

	ft := r.CheckFiletype(file.Name, overrides.Mimes)
	if overrides.TestType && (ft.Ext == "" || ft.Type == "") {
		return fail(msgNotAllowed)
	}
	typ := ft.Type
	if typ == "" {
		typ = file.Type
	}

	uploads := r.UploadDir(ctx, yearMonth, true, false)
	if uploads.Error != "" {
		return fail(uploads.Error)
	}

	filename, err := r.UniqueFilename(ctx, uploads.Path, file.Name, overrides.UniqueFilename)
	if err != nil {
		return fail(err.Error())
	}

	target := path.Join(uploads.Path, filename)
	if err := r.host.Move(ctx, file.TmpName, target, false); err != nil {
		r.opts.Logger.Warn().Err(err).Str("target", target).Msg("upload not moved")
		return fail(fmt.Sprintf(msgCouldNotMove, uploads.Path))
	}
	if err := r.host.Chmod(ctx, target, r.opts.FileMode, false); err != nil {
		r.opts.Logger.Warn().Err(err).Str("target", target).Msg("upload permissions not set")
	}

	r.opts.Logger.Info().Str("action", action).Str("file", target).Msg("upload stored")
	return wpfs.UploadResult{
		File: target,
		URL:  uploads.URL + "/" + filename,
		Type: typ,
	}
}
