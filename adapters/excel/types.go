package excel

import (
	"path/filepath"
	"strings"
)

// FileType identifies a supported spreadsheet format
type FileType string

const (
	FileTypeXLSX    FileType = "xlsx"
	FileTypeCSV     FileType = "csv"
	FileTypeUnknown FileType = ""
)

// DetectFileType maps a file extension to a FileType
func DetectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FileTypeXLSX
	case ".csv":
		return FileTypeCSV
	default:
		return FileTypeUnknown
	}
}
