// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/username/pricedash/backend/src/models"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxFilenameLength      = 255
	MaxDataTypeLength      = 32
)

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateStringRegex checks if a string matches a given regex pattern.
func ValidateStringRegex(s string, pattern *regexp.Regexp, fieldName, formatDescription string) error {
	if !pattern.MatchString(s) {
		return fmt.Errorf("%w: %s ('%s') is not in the expected format (%s)", ErrValidationFailed, fieldName, s, formatDescription)
	}
	return nil
}

var (
	dataTypeRegex = regexp.MustCompile(`^[a-zA-Z_]+$`)
	filenameRegex = regexp.MustCompile(`^[\w\-. ()]+$`)
)

// ValidateDataType checks the shape of a data type tag and resolves it.
// Well-formed but unsupported tags surface models.ErrUnknownDataType.
func ValidateDataType(s string) (models.DataType, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "data_type"); err != nil {
		return "", err
	}
	if err := ValidateStringMaxLength(trimmed, MaxDataTypeLength, "data_type"); err != nil {
		return "", err
	}
	if err := ValidateStringRegex(trimmed, dataTypeRegex, "data_type", "letters and underscores"); err != nil {
		return "", err
	}
	return models.ParseDataType(trimmed)
}

// ValidateFilename checks an uploaded file name and returns its base name.
// An empty name is allowed.
func ValidateFilename(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", nil
	}
	base := filepath.Base(strings.ReplaceAll(trimmed, "\\", "/"))
	if err := ValidateStringMaxLength(base, MaxFilenameLength, "filename"); err != nil {
		return "", err
	}
	if err := ValidateStringRegex(base, filenameRegex, "filename", "letters, digits, spaces and ._-()"); err != nil {
		return "", err
	}
	return base, nil
}
