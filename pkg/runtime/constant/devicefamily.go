package constant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DeviceFamily selects the addressing syntax of a device.
type DeviceFamily int8

const (
	FamilyUnset DeviceFamily = iota
	FamilyOther
	FamilySiemens
	FamilyAllenBradley
)

var DeviceFamilyToString = map[DeviceFamily]string{
	FamilyUnset:        "",
	FamilyOther:        "Other",
	FamilySiemens:      "SIEMENS",
	FamilyAllenBradley: "AB",
}

var StringToDeviceFamily = map[string]DeviceFamily{
	"siemens":       FamilySiemens,
	"ab":            FamilyAllenBradley,
	"allenbradley":  FamilyAllenBradley,
	"allen-bradley": FamilyAllenBradley,
	"other":         FamilyOther,
}

// ParseDeviceFamily maps a family directory name to its family, unknown names map to FamilyOther
// and an empty name to FamilyUnset.
func ParseDeviceFamily(s string) DeviceFamily {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return FamilyUnset
	}
	if f, ok := StringToDeviceFamily[strings.ToLower(s)]; ok {
		return f
	}
	return FamilyOther
}

func (f DeviceFamily) String() string {
	return DeviceFamilyToString[f]
}

func (f DeviceFamily) MarshalJSON() ([]byte, error) {
	if s, ok := DeviceFamilyToString[f]; ok {
		return json.Marshal(s)
	}
	return nil, fmt.Errorf("unknown device family %d", f)
}

func (f *DeviceFamily) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}
	*f = ParseDeviceFamily(s)
	return nil
}
