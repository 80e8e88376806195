// backend/src/security/validation/file_validation.go
package validation

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/parsers"
)

// sniffSize is how much of an upload is inspected before parsing.
const sniffSize = 1024

// AllowedClientContentTypes maps client-declared MIME types to the upload
// format they may carry.
var AllowedClientContentTypes = map[string]string{
	"text/csv":                 parsers.FormatCSV,
	"application/csv":          parsers.FormatCSV,
	"text/plain":               parsers.FormatCSV,
	"application/vnd.ms-excel": parsers.FormatCSV, // Often used for CSV by older Excel
	"application/octet-stream": "",                // browsers fall back to this; content decides
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": parsers.FormatXLSX,
}

// ValidateClientContentType checks the Content-Type header provided by the client.
// Parameters such as charset are ignored.
func ValidateClientContentType(contentType string) error {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if mediaType == "" {
		return nil
	}
	if _, exists := AllowedClientContentTypes[mediaType]; !exists {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: client-declared file type '%s' is not allowed", ErrValidationFailed, contentType)
	}
	return nil
}

// isBinaryContent reports whether buf looks like binary data rather than CSV text.
func isBinaryContent(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return true
	}
	// A multi-byte rune may be cut at the end of the sniff window.
	for i := 0; i < utf8.UTFMax && len(buf) > 0; i++ {
		if utf8.Valid(buf) {
			return false
		}
		buf = buf[:len(buf)-1]
	}
	return !utf8.Valid(buf)
}

// ValidateFileContent inspects the first KB of an upload against the
// format it will be parsed as and rewinds the reader for the parser.
func ValidateFileContent(file io.ReadSeeker, format string) error {
	if file == nil {
		return fmt.Errorf("%w: file is nil", ErrValidationFailed)
	}

	buffer := make([]byte, sniffSize)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read file for content type checking: %w", err)
	}
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}
	if n == 0 {
		return fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}

	detected := strings.ToLower(strings.Split(http.DetectContentType(buffer[:n]), ";")[0])

	if format == parsers.FormatXLSX {
		// xlsx files are zip archives.
		if detected != "application/zip" {
			logger.L.Warn("File rejected: xlsx upload is not a zip archive", "detectedContentType", detected)
			return fmt.Errorf("%w: file does not look like an xlsx workbook", ErrValidationFailed)
		}
		return nil
	}

	if isBinaryContent(buffer[:n]) {
		logger.L.Warn("File rejected: Binary content detected in text upload")
		return fmt.Errorf("%w: file appears to be binary, not CSV text", ErrValidationFailed)
	}
	if detected != "text/plain" && detected != "text/csv" {
		logger.L.Warn("Disallowed detected file content type", "detectedContentType", detected)
		return fmt.Errorf("%w: detected file content type '%s' is not allowed", ErrValidationFailed, detected)
	}

	logger.L.Debug("File content type validated", "detectedContentType", detected)
	return nil
}
