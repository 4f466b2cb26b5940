package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents different dataset file formats
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV            // id,name,address rows under a header line
	FormatJSONL          // one JSON object per line
)

// String returns the manifest spelling of the format
func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSONL:
		return "jsonl"
	}
	return "unknown"
}

// DetectFormat guesses a file's format from its extension
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".jsonl", ".ndjson":
		return FormatJSONL
	}
	return FormatUnknown
}

// ParseFormat maps a manifest format string to a Format.
// An empty string means autodetect and is not an error.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return FormatUnknown, nil
	case "csv":
		return FormatCSV, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	}
	return FormatUnknown, fmt.Errorf("unrecognized format %q", s)
}
