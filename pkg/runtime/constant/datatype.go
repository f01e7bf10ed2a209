package constant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DataType is the value class of a KingSCADA IO tag.
type DataType int8

const (
	DISC DataType = iota
	SHORT
	FLOAT
)

var DataTypeToString = map[DataType]string{
	DISC:  "IODisc",
	SHORT: "IOShort",
	FLOAT: "IOFloat",
}

var DataTypeToItemDataType = map[DataType]string{
	DISC:  "BIT",
	SHORT: "SHORT",
	FLOAT: "FLOAT",
}

var StringToDataType = map[string]DataType{
	"iodisc":   DISC,
	"discrete": DISC,
	"ioshort":  SHORT,
	"short":    SHORT,
	"iofloat":  FLOAT,
	"float":    FLOAT,
}

// LookupDataType maps a template point type to its data type. Anything that is not a
// short or a float is a discrete tag, known reports whether s named a type at all.
func LookupDataType(s string) (DataType, bool) {
	if dt, ok := StringToDataType[strings.ToLower(strings.TrimSpace(s))]; ok {
		return dt, true
	}
	return DISC, false
}

func (dt DataType) String() string {
	return DataTypeToString[dt]
}

func (dt DataType) MarshalJSON() ([]byte, error) {
	if s, ok := DataTypeToString[dt]; ok {
		return json.Marshal(s)
	}
	return nil, fmt.Errorf("unknown data type %d", dt)
}

func (dt *DataType) UnmarshalJSON(bytes []byte) error {
	var s string
	if err := json.Unmarshal(bytes, &s); err != nil {
		return err
	}

	v, ok := StringToDataType[strings.ToLower(s)]
	if !ok {
		return fmt.Errorf("unknown data type %s", s)
	}
	*dt = v
	return nil
}
