package bms

import "testing"

func TestPanelFromPointName(t *testing.T) {
	type testCase struct {
		tag      string
		input    string
		expected string
	}

	cases := []testCase{
		{"hardware with point", "Site1.Hardware.PanelA.Point1", "PanelA"},
		{"hardware short tail", "Site1.Hardware.PanelA", "PanelA"},
		{"hardware last token", "Site1.Hardware", "Hardware"},
		{"offline trends", "Site1.OfflineTrends.Trend.PanelB.Point", "PanelB"},
		{"offline trends out of range", "Site1.OfflineTrends.Trend", UnknownPanel},
		{"field networks long", "Site1.FieldNetworks.Net1.Dev1.PanelC.Obj", "Dev1"},
		{"field networks four tokens", "Site1.FieldNetworks.Net1.PanelD.Obj", "Net1"},
		{"field networks three tokens", "Site1.FieldNetworks.PanelE.Obj", "PanelE"},
		{"field networks too short", "Site1.FieldNetworks.Obj", UnknownPanel},
		{"field networks short skips later markers", "Site1.APOGEEZones.FieldNetworks.Obj", UnknownPanel},
		{"apogee zones", "Site1.APOGEEZones.ZoneX", "ZoneX"},
		{"servers", "Site1.Servers.SrvA.SrvB", "SrvA-SrvB"},
		{"no marker", "RandomPath.NoMarker", UnknownPanel},
		{"empty name", "", UnknownPanel},
		{"hardware beats servers", "Site1.Servers.Hardware.PanelH.Point", "PanelH"},
		{"hardware beats later servers", "Site1.Hardware.PanelH.Servers.SrvA", "PanelH"},
		{"offline trends beats apogee zones", "Site1.APOGEEZones.OfflineTrends.T.PanelO", "PanelO"},
		{"marker is case sensitive", "Site1.hardware.PanelA.Point1", UnknownPanel},
	}

	for _, c := range cases {
		t.Log(c.tag)
		if result := PanelFromPointName(c.input); result != c.expected {
			t.Errorf("Got %q, wanted %q", result, c.expected)
		}
	}
}

// A marker in first position must count as found instead of falling through
// to the next marker check
func TestPanelFromPointNameMarkerAtIndexZero(t *testing.T) {
	type testCase struct {
		input    string
		expected string
	}

	cases := []testCase{
		{"Hardware.PanelA.Point1", "PanelA"},
		{"OfflineTrends.Trend.PanelB", "PanelB"},
		{"FieldNetworks.Net1.PanelC.Obj", "Net1"},
		{"APOGEEZones.ZoneX", "ZoneX"},
		{"Servers.SrvA", "Servers-SrvA"},
		{"Servers", UnknownPanel},
		{"Hardware.Servers.SrvA.SrvB", "Servers"},
	}

	for _, c := range cases {
		t.Log("Testing name:", c.input)
		if result := PanelFromPointName(c.input); result != c.expected {
			t.Errorf("Got %q, wanted %q", result, c.expected)
		}
	}
}

func TestPanelFromPointNameIsDeterministic(t *testing.T) {
	names := []string{
		"Site1.Hardware.PanelA.Point1",
		"Site1.FieldNetworks.Net1.Dev1.PanelC.Obj",
		"RandomPath.NoMarker",
	}

	for _, name := range names {
		first := PanelFromPointName(name)
		for range 10 {
			if result := PanelFromPointName(name); result != first {
				t.Errorf("Got %q, wanted %q", result, first)
			}
		}
	}
}
