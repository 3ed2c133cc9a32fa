package constants

import "strings"

// SourceFormat is the coarse kind of an ingestion source file.
type SourceFormat string

const (
	SHEET SourceFormat = "SHEET"
	PDF   SourceFormat = "PDF"
	IMAGE SourceFormat = "IMAGE"
)

// AllowedExtensions holds the default allowed file extensions for roll ingestion.
var AllowedExtensions = map[string]struct{}{
	"xlsx": {},
	"xls":  {},
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to its source format, or "" if unsupported.
func MapExtToFormat(ext string) SourceFormat {
	switch NormalizeExt(ext) {
	case "xlsx", "xls":
		return SHEET
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return ""
	}
}
