package bms

// One spreadsheet row, keyed by column header
type RawRow map[string]string

// Returns the value of the first column present in the row.
// A present column with an empty cell stops the search.
func (r RawRow) Lookup(columns ...string) (string, bool) {
	for _, col := range columns {
		if val, ok := r[col]; ok {
			return val, true
		}
	}
	return "", false
}

// Same as Lookup, but defaults to the empty string
func (r RawRow) Optional(columns ...string) string {
	val, _ := r.Lookup(columns...)
	return val
}

func (r RawRow) required(column string, system SystemType) (string, error) {
	val, ok := r[column]
	if !ok {
		return "", &MissingColumnError{Column: column, System: system}
	}
	return val, nil
}

// Apogee export columns, all required
const (
	APOGEE_NAME_COL        string = "Point System Name"
	APOGEE_PANEL_COL       string = "Panel Name"
	APOGEE_DESCRIPTION_COL string = "Description"
	APOGEE_UNITS_COL       string = "Engineering Units"
	APOGEE_PRIORITY_COL    string = "Command Priority"
	APOGEE_VALUE_COL       string = "Value/State"
	APOGEE_STATUS_COL      string = "Status"
)

// Bacnet export columns. Only designation and description are required,
// the others are tried in order of preference.
const (
	BACNET_DESIGNATION_COL string = "Object Designation"
	BACNET_DESCRIPTION_COL string = "Object Description"
)

var (
	BACNET_UNITS_COLS     = []string{"[Units]", "Units"}
	BACNET_PRIORITY_COLS  = []string{"[Current_Priority]"}
	BACNET_VALUE_COLS     = []string{"Main Value", "State"}
	BACNET_CATEGORY_COLS  = []string{"Category"}
	BACNET_TYPE_COLS      = []string{"Type", "Discipline"}
	BACNET_STATUS_COLS    = []string{"[Status_Flags]"}
	BACNET_CREATED_AT_COL = []string{"Creation Date Time"}
)

// Canonical record of a single exported point
type Point struct {
	Name            string     `json:"name" db:"name"`
	PanelName       string     `json:"panel_name" db:"panel_name"`
	Description     string     `json:"description" db:"description"`
	SystemType      SystemType `json:"system_type" db:"system_type"`
	Units           string     `json:"units" db:"units"`
	CommandPriority string     `json:"command_priority" db:"command_priority"`
	CurrentValue    string     `json:"current_value" db:"current_value"`
	Status          string     `json:"status" db:"status"`
	// Bacnet only
	AlarmCategory string `json:"alarm_category,omitempty" db:"alarm_category"`
	ObjectType    string `json:"object_type,omitempty" db:"object_type"`
	CreationTime  string `json:"creation_time,omitempty" db:"creation_time"`
	// Same for every point of a sample
	Site      string `json:"site" db:"site"`
	Timestamp string `json:"timestamp" db:"timestamp"`
}

// Maps a raw row to a Point according to the system type
func NormalizePoint(row RawRow, system SystemType, site, timestamp string) (Point, error) {
	var point Point
	var err error

	switch system {
	case Apogee:
		point, err = normalizeApogee(row)
	case Bacnet:
		point, err = normalizeBacnet(row)
	default:
		return Point{}, ErrUnsupportedSystemType
	}
	if err != nil {
		return Point{}, err
	}

	point.SystemType = system
	point.Site = site
	point.Timestamp = timestamp
	return point, nil
}

// Apogee exports already carry the resolved panel name
func normalizeApogee(row RawRow) (Point, error) {
	var p Point

	fields := []struct {
		col string
		dst *string
	}{
		{APOGEE_NAME_COL, &p.Name},
		{APOGEE_PANEL_COL, &p.PanelName},
		{APOGEE_DESCRIPTION_COL, &p.Description},
		{APOGEE_UNITS_COL, &p.Units},
		{APOGEE_PRIORITY_COL, &p.CommandPriority},
		{APOGEE_VALUE_COL, &p.CurrentValue},
		{APOGEE_STATUS_COL, &p.Status},
	}

	for _, f := range fields {
		val, err := row.required(f.col, Apogee)
		if err != nil {
			return Point{}, err
		}
		*f.dst = val
	}

	return p, nil
}

// The panel of a bacnet point is always derived from its designation
func normalizeBacnet(row RawRow) (Point, error) {
	name, err := row.required(BACNET_DESIGNATION_COL, Bacnet)
	if err != nil {
		return Point{}, err
	}

	description, err := row.required(BACNET_DESCRIPTION_COL, Bacnet)
	if err != nil {
		return Point{}, err
	}

	return Point{
		Name:            name,
		PanelName:       PanelFromPointName(name),
		Description:     description,
		Units:           row.Optional(BACNET_UNITS_COLS...),
		CommandPriority: row.Optional(BACNET_PRIORITY_COLS...),
		CurrentValue:    row.Optional(BACNET_VALUE_COLS...),
		AlarmCategory:   row.Optional(BACNET_CATEGORY_COLS...),
		ObjectType:      row.Optional(BACNET_TYPE_COLS...),
		Status:          row.Optional(BACNET_STATUS_COLS...),
		CreationTime:    row.Optional(BACNET_CREATED_AT_COL...),
	}, nil
}
