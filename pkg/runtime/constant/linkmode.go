package constant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LinkMode is the collection link between the SCADA channel and the device.
type LinkMode int8

const (
	LinkEthernet LinkMode = iota
	LinkSerial
)

var LinkModeToString = map[LinkMode]string{
	LinkEthernet: "Ethernet",
	LinkSerial:   "Serial",
}

var StringToLinkMode = map[string]LinkMode{
	"ethernet": LinkEthernet,
	"以太网":      LinkEthernet,
	"serial":   LinkSerial,
	"com":      LinkSerial,
}

// LinkModeLabel is the channel name prefix KingSCADA uses for each link.
var LinkModeLabel = map[LinkMode]string{
	LinkEthernet: "以太网",
	LinkSerial:   "COM",
}

func ParseLinkMode(s string) (LinkMode, error) {
	v, ok := StringToLinkMode[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return LinkEthernet, fmt.Errorf("unknown link mode %s", s)
	}
	return v, nil
}

func (lm LinkMode) String() string {
	return LinkModeToString[lm]
}

func (lm LinkMode) MarshalJSON() ([]byte, error) {
	if s, ok := LinkModeToString[lm]; ok {
		return json.Marshal(s)
	}
	return nil, fmt.Errorf("unknown link mode %d", lm)
}

func (lm *LinkMode) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}

	v, err := ParseLinkMode(s)
	if err != nil {
		return err
	}
	*lm = v
	return nil
}
