package pointtable

import (
	"github.com/gopcua/opcua/ua"
	"github.com/pkg/errors"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"strconv"
	"strings"
)

const kingSCADATagType = "用户变量"

var kingSCADASchema = []string{
	"TagID", "TagName", "Description", "TagType", "TagDataType",
	"MaxRawValue", "MinRawValue", "MaxValue", "MinValue", "NonLinearTableName",
	"ConvertType", "IsFilter", "DeadBand", "Unit", "ChannelName",
	"DeviceName", "ChannelDriver", "DeviceSeries", "DeviceSeriesType", "CollectControl",
	"CollectInterval", "CollectOffset", "TimeZoneBias", "TimeAdjustment", "Enable",
	"ForceWrite", "ItemName", "RegName", "RegType", "ItemDataType",
	"ItemAccessMode", "HisRecordMode", "HisDeadBand", "HisInterval", "TagGroup",
	"NamespaceIndex", "IdentifierType", "Identifier", "ValueRank", "QueueSize",
	"DiscardOldest", "MonitoringMode", "TriggerMode", "DeadType", "DeadValue",
	"UANodePath",
}

var (
	// DeviceSeriesType … ForceWrite
	kingSCADACollect = []string{"0", "否", "1000", "0", "0", "0", "是", "否"}
	// HisRecordMode, HisDeadBand, HisInterval
	kingSCADAHistory = []string{"不记录", "0", "60"}
	// ValueRank … DeadValue
	kingSCADAMonitor = []string{"-1", "1", "0", "0", "0", "0", "0"}
)

// KingSCADA is the KingSCADA tag import format.
var KingSCADA = register(&Dialect{
	Name:        "kingscada",
	ConfigDir:   "config_kingscada",
	OutputDir:   "output_kingscada",
	schema:      kingSCADASchema,
	blockOffset: 5,
	blocks: map[string][]string{
		// MaxRawValue … DeadBand
		constant.DataTypeToString[constant.FLOAT]: {"1000000000", "-1000000000", "1000000000", "-1000000000", "", "无", "否", "0"},
		constant.DataTypeToString[constant.SHORT]: {"32767", "-32767", "32767", "-32767", "", "无", "否", "0"},
		constant.DataTypeToString[constant.DISC]:  {"", "", "", "", "", "", "", ""},
	},
	// Unknown point types take the discrete value block but integer addressing.
	classify: func(p *runtime.TemplatePoint) (string, bool) {
		dt, known := constant.LookupDataType(p.PointType)
		return dt.String(), known && dt == constant.DISC
	},
	offset: func(p *runtime.TemplatePoint) string {
		return p.Address
	},
	addressing: map[constant.DeviceFamily]Addresser{
		constant.FamilySiemens:      siemensFloat{},
		constant.FamilyAllenBradley: abTag{offset: func(p *runtime.TemplatePoint) string { return p.Address }},
	},
	compose:  composeKingSCADA,
	usesLink: true,
	families: map[constant.DeviceFamily]FamilyOptions{
		constant.FamilySiemens: {
			DeviceSeries:   []string{"S7-1500", "S7-1200", "S7-300(TCP)"},
			ChannelDrivers: []string{"S71500Tcp", "S71200Tcp", "S7_TCP"},
		},
		constant.FamilyAllenBradley: {
			DeviceSeries:   []string{"AB-ControlLogixTCP"},
			ChannelDrivers: []string{"ControlLogix"},
		},
	},
})

func composeKingSCADA(cell *Cell) ([]string, error) {
	c := cell.Config
	dt, known := constant.LookupDataType(cell.Point.PointType)
	tagDataType := dt.String()
	if !known {
		tagDataType = strings.TrimSpace(cell.Point.PointType)
	}
	opcua, err := opcuaFields(cell.Point.NodeID)
	if err != nil {
		return nil, errors.Wrapf(constant.ErrParse, "point %s: node id %q: %v", cell.Point.Name, cell.Point.NodeID, err)
	}

	row := make([]string, 0, len(kingSCADASchema))
	row = append(row,
		strconv.Itoa(cell.ID),
		cell.TagName(),
		cell.Description(),
		kingSCADATagType,
		tagDataType,
		"", // Unit
		channelName(&c.Link),
		c.DeviceName,
		c.ChannelDriver,
		c.DeviceSeries,
	)
	row = append(row, kingSCADACollect...)
	row = append(row,
		cell.Address.ItemPath,
		cell.Address.RegName,
		cell.Address.RegType,
		constant.DataTypeToItemDataType[dt],
		cell.Point.AccessMode,
	)
	row = append(row, kingSCADAHistory...)
	row = append(row, groupPath(c, cell.Device))
	row = append(row, opcua...)
	return row, nil
}

func channelName(l *runtime.LinkConfig) string {
	label := constant.LinkModeLabel[l.Mode]
	switch l.Mode {
	case constant.LinkSerial:
		return label + l.Port
	case constant.LinkEthernet:
		return label + "<" + l.IP + ">"
	default:
		return ""
	}
}

func groupPath(c *runtime.GenerationConfig, d *runtime.DeviceRecord) string {
	if c.GroupEnabled {
		return c.GroupPath + "." + d.Code
	}
	return c.GroupPath
}

// opcuaFields fills NamespaceIndex … UANodePath. Without a node id the tag is not bound to OPC UA.
func opcuaFields(nodeID string) ([]string, error) {
	out := make([]string, 0, 11)
	if len(nodeID) == 0 {
		out = append(out, "0", "0", "")
		out = append(out, kingSCADAMonitor...)
		return append(out, ""), nil
	}

	n, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return nil, err
	}
	var idType, id string
	switch n.Type() {
	case ua.NodeIDTypeTwoByte, ua.NodeIDTypeFourByte, ua.NodeIDTypeNumeric:
		idType, id = "0", strconv.FormatUint(uint64(n.IntID()), 10)
	case ua.NodeIDTypeString:
		idType, id = "1", n.StringID()
	case ua.NodeIDTypeGUID:
		idType, id = "2", n.StringID()
	default:
		idType, id = "3", n.StringID()
	}
	out = append(out, strconv.Itoa(int(n.Namespace())), idType, id)
	out = append(out, kingSCADAMonitor...)
	return append(out, n.String()), nil
}
