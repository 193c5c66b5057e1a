package wpfs

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

// Common MIME types
const (
	MIMETypeTextPlain       = "text/plain"
	MIMETypeTextHTML        = "text/html"
	MIMETypeTextCSS         = "text/css"
	MIMETypeTextJavaScript  = "text/javascript"
	MIMETypeApplicationJSON = "application/json"
	MIMETypeApplicationXML  = "application/xml"
	MIMETypeImageJPEG       = "image/jpeg"
	MIMETypeImagePNG        = "image/png"
	MIMETypeImageGIF        = "image/gif"
	MIMETypeImageSVG        = "image/svg+xml"
	MIMETypeImageWebP       = "image/webp"
	MIMETypeAudioMP3        = "audio/mpeg"
	MIMETypeAudioOGG        = "audio/ogg"
	MIMETypeVideoMP4        = "video/mp4"
	MIMETypeVideoWebM       = "video/webm"
	MIMETypeApplicationPDF  = "application/pdf"
	MIMETypeApplicationZip  = "application/zip"
)

// AllowedMimes is the default upload allow-list. Keys are "|" separated
// extension groups, as the host stores them.
var AllowedMimes = map[string]string{
	"jpg|jpeg|jpe":       MIMETypeImageJPEG,
	"gif":                MIMETypeImageGIF,
	"png":                MIMETypeImagePNG,
	"webp":               MIMETypeImageWebP,
	"svg":                MIMETypeImageSVG,
	"ico":                "image/x-icon",
	"txt|asc|c|cc|h|srt": MIMETypeTextPlain,
	"csv":                "text/csv",
	"css":                MIMETypeTextCSS,
	"htm|html":           MIMETypeTextHTML,
	"js":                 MIMETypeTextJavaScript,
	"json":               MIMETypeApplicationJSON,
	"xml":                MIMETypeApplicationXML,
	"md":                 "text/markdown",
	"mp3|m4a|m4b":        MIMETypeAudioMP3,
	"ogg|oga":            MIMETypeAudioOGG,
	"mp4|m4v":            MIMETypeVideoMP4,
	"webm":               MIMETypeVideoWebM,
	"pdf":                MIMETypeApplicationPDF,
	"zip":                MIMETypeApplicationZip,
	"gz|gzip":            "application/gzip",
	"tar":                "application/x-tar",
	"doc":                "application/msword",
	"docx":               "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":                "application/vnd.ms-excel",
	"xlsx":               "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":                "application/vnd.ms-powerpoint",
	"pptx":               "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"woff":               "font/woff",
	"woff2":              "font/woff2",
	"ttf":                "font/ttf",
	"otf":                "font/otf",
}

// CheckFiletype matches name against mimes (AllowedMimes when nil). A name
// with no matching extension yields an empty FileType.
func CheckFiletype(name string, mimes map[string]string) FileType {
	if mimes == nil {
		mimes = AllowedMimes
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		return FileType{}
	}
	for group, typ := range mimes {
		for _, candidate := range strings.Split(group, "|") {
			if candidate == ext {
				return FileType{Ext: ext, Type: typ}
			}
		}
	}
	return FileType{}
}

// GuessContentType tries to determine the content type of a file from its path and data
func GuessContentType(filePath string, data []byte) string {
	if ft := CheckFiletype(filePath, nil); ft.Type != "" {
		return ft.Type
	}

	if len(data) > 0 {
		return http.DetectContentType(data)
	}

	if contentType := mime.TypeByExtension(strings.ToLower(path.Ext(filePath))); contentType != "" {
		return contentType
	}

	return "application/octet-stream"
}

// IsTextFile returns true if the file is a text file based on its MIME type
func IsTextFile(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") ||
		contentType == MIMETypeApplicationJSON ||
		contentType == MIMETypeApplicationXML
}

// IsImageFile returns true if the file is an image file based on its MIME type
func IsImageFile(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
