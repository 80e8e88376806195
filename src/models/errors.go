package models

import "errors"

var (
	// ErrMalformedInput is returned when an upload has no header row.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnknownDataType is returned for a tag outside inventory, competitor and historical.
	ErrUnknownDataType = errors.New("unknown data type")
	// ErrCalculation marks value-level arithmetic problems, reported as record warnings.
	ErrCalculation = errors.New("calculation error")
)
