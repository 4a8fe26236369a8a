package bms

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedSystemType = errors.New("unsupported system type")
	ErrUnsupportedReportType = errors.New("unsupported report type")
	ErrMissingColumn         = errors.New("missing required column")
)

// Returned when a row lacks a column required by the system type
type MissingColumnError struct {
	Column string
	System SystemType
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s row has no %q column", ErrMissingColumn, e.System, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
