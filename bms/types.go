package bms

import (
	"fmt"
	"strings"
)

// Vendor/protocol family of an exported report
type SystemType int

const (
	Apogee SystemType = iota + 1
	Bacnet
)

var SYSTEM_TYPES = []SystemType{Apogee, Bacnet}

func (s SystemType) String() string {
	switch s {
	case Apogee:
		return "apogee"
	case Bacnet:
		return "bacnet"
	}
	return fmt.Sprintf("SystemType(%d)", int(s))
}

func ParseSystemType(s string) (SystemType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "apogee":
		return Apogee, nil
	case "bacnet":
		return Bacnet, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSystemType, s)
}

func (s SystemType) MarshalText() ([]byte, error) {
	if s != Apogee && s != Bacnet {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSystemType, int(s))
	}
	return []byte(s.String()), nil
}

func (s *SystemType) UnmarshalText(b []byte) error {
	parsed, err := ParseSystemType(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Classification of an uploaded export
type ReportType int

const (
	Failed ReportType = iota + 1
	Operator
	Alarm
)

var REPORT_TYPES = []ReportType{Failed, Operator, Alarm}

func (r ReportType) String() string {
	switch r {
	case Failed:
		return "failed"
	case Operator:
		return "operator"
	case Alarm:
		return "alarm"
	}
	return fmt.Sprintf("ReportType(%d)", int(r))
}

// Label used in report headers, e.g. "Total Failed"
func (r ReportType) Label() string {
	switch r {
	case Failed:
		return "Failed"
	case Operator:
		return "Operator"
	case Alarm:
		return "Alarms"
	}
	return r.String()
}

func ParseReportType(s string) (ReportType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "failed":
		return Failed, nil
	case "operator":
		return Operator, nil
	case "alarm":
		return Alarm, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedReportType, s)
}

func (r ReportType) MarshalText() ([]byte, error) {
	if r != Failed && r != Operator && r != Alarm {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedReportType, int(r))
	}
	return []byte(r.String()), nil
}

func (r *ReportType) UnmarshalText(b []byte) error {
	parsed, err := ParseReportType(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Returns the system type hinted by the file name, if any
func SystemTypeFromFilename(filename string) (SystemType, bool) {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "apogee"):
		return Apogee, true
	case strings.Contains(name, "bacnet"):
		return Bacnet, true
	}
	return 0, false
}

// Returns the report type hinted by the file name, if any
func ReportTypeFromFilename(filename string) (ReportType, bool) {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "failed"):
		return Failed, true
	case strings.Contains(name, "operator"):
		return Operator, true
	case strings.Contains(name, "alarm"):
		return Alarm, true
	}
	return 0, false
}
