package pointtable

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"testing"
)

func TestKingSCADAHeaders(t *testing.T) {
	assert.Equal(t, []string{
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
	}, KingSCADA.Headers())
}

func TestKingSCADARow(t *testing.T) {
	devices := []runtime.DeviceRecord{{Code: "P101", Description: "1号泵", BaseAddress: "10"}}
	points := []runtime.TemplatePoint{{Name: "_SPD", Description: "速度", PointType: "IOFloat", AccessMode: "只读", Address: "4"}}

	c := siemensConfig()
	c.DeviceSeries = "S7-1500"
	c.ChannelDriver = "S71500Tcp"
	table, err := BuildRows(KingSCADA, devices, points, c)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	assert.Equal(t, runtime.OutputRow{
		"1001", "P101_SPD", "1号泵速度", "用户变量", "IOFloat",
		"1000000000", "-1000000000", "1000000000", "-1000000000", "",
		"无", "否", "0", "", "以太网<192.168.10.11>",
		"PLC1", "S71500Tcp", "S7-1500", "0", "否",
		"1000", "0", "0", "0", "是",
		"否", "DB3.14", "DB", "3", "FLOAT",
		"只读", "不记录", "0", "60", "TEST.一期",
		"0", "0", "", "-1", "1",
		"0", "0", "0", "0", "0",
		"",
	}, table.Rows[0])
}

func TestKingSCADAAddressing(t *testing.T) {
	tests := []struct {
		name     string
		family   constant.DeviceFamily
		base     string
		point    runtime.TemplatePoint
		itemName string
		regName  string
		regType  string
		itemType string
	}{
		{
			name:     "siemens discrete keeps one decimal",
			family:   constant.FamilySiemens,
			base:     "2.0",
			point:    runtime.TemplatePoint{PointType: "IODisc", Address: "1.5"},
			itemName: "DB3.3.5",
			regName:  "DB",
			regType:  "3",
			itemType: "BIT",
		},
		{
			name:     "siemens discrete whole byte",
			family:   constant.FamilySiemens,
			base:     "10",
			point:    runtime.TemplatePoint{PointType: "Discrete", Address: "2"},
			itemName: "DB3.12.0",
			regName:  "DB",
			regType:  "3",
			itemType: "BIT",
		},
		{
			name:     "siemens short truncates fractional base",
			family:   constant.FamilySiemens,
			base:     "10.7",
			point:    runtime.TemplatePoint{PointType: "IOShort", Address: "2"},
			itemName: "DB3.12",
			regName:  "DB",
			regType:  "3",
			itemType: "SHORT",
		},
		{
			name:     "unknown type uses whole byte addressing",
			family:   constant.FamilySiemens,
			base:     "10",
			point:    runtime.TemplatePoint{PointType: "IOChar", Address: "2"},
			itemName: "DB3.12",
			regName:  "DB",
			regType:  "3",
			itemType: "BIT",
		},
		{
			name:     "allen bradley",
			family:   constant.FamilyAllenBradley,
			base:     "Pump1",
			point:    runtime.TemplatePoint{PointType: "IOFloat", Address: "Speed"},
			itemName: "TAGPump1.Speed",
			regName:  "TAG",
			regType:  "0",
			itemType: "FLOAT",
		},
		{
			name:     "allen bradley without address",
			family:   constant.FamilyAllenBradley,
			base:     "Pump1",
			point:    runtime.TemplatePoint{PointType: "IOFloat"},
			itemName: "",
			regName:  "TAG",
			regType:  "0",
			itemType: "FLOAT",
		},
		{
			name:     "other family",
			family:   constant.FamilyOther,
			base:     "anything",
			point:    runtime.TemplatePoint{PointType: "IOShort", Address: "7"},
			itemType: "SHORT",
		},
	}
	item, reg, regType, itemType := column(t, KingSCADA, "ItemName"), column(t, KingSCADA, "RegName"),
		column(t, KingSCADA, "RegType"), column(t, KingSCADA, "ItemDataType")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := siemensConfig()
			c.DeviceFamily = tt.family
			table, err := BuildRows(KingSCADA, []runtime.DeviceRecord{{Code: "D", BaseAddress: tt.base}}, []runtime.TemplatePoint{tt.point}, c)
			require.NoError(t, err)
			row := table.Rows[0]
			assert.Equal(t, tt.itemName, row[item])
			assert.Equal(t, tt.regName, row[reg])
			assert.Equal(t, tt.regType, row[regType])
			assert.Equal(t, tt.itemType, row[itemType])
		})
	}
}

func TestKingSCADATagDataType(t *testing.T) {
	devices := []runtime.DeviceRecord{{Code: "P101", BaseAddress: "0"}}
	tagType := column(t, KingSCADA, "TagDataType")
	maxRaw := column(t, KingSCADA, "MaxRawValue")
	for in, want := range map[string]string{"IOFloat": "IOFloat", "float": "IOFloat", "Discrete": "IODisc", "IOChar": "IOChar"} {
		points := []runtime.TemplatePoint{{Name: "_X", PointType: in, Address: "1"}}
		table, err := BuildRows(KingSCADA, devices, points, siemensConfig())
		require.NoError(t, err, in)
		assert.Equal(t, want, table.Rows[0][tagType], in)
	}

	table, err := BuildRows(KingSCADA, devices, []runtime.TemplatePoint{{Name: "_X", PointType: "IOChar", Address: "1"}}, siemensConfig())
	require.NoError(t, err)
	assert.Empty(t, table.Rows[0][maxRaw])
}

func TestKingSCADAChannelAndGroup(t *testing.T) {
	devices := []runtime.DeviceRecord{{Code: "P101", BaseAddress: "0"}}
	points := []runtime.TemplatePoint{{Name: "_RUN", PointType: "IODisc", Address: "0.0"}}
	channel, group := column(t, KingSCADA, "ChannelName"), column(t, KingSCADA, "TagGroup")

	c := siemensConfig()
	table, err := BuildRows(KingSCADA, devices, points, c)
	require.NoError(t, err)
	assert.Equal(t, "以太网<192.168.10.11>", table.Rows[0][channel])
	assert.Equal(t, "TEST.一期", table.Rows[0][group])

	c.Link = runtime.LinkConfig{Mode: constant.LinkSerial, Port: "11"}
	c.GroupEnabled = true
	table, err = BuildRows(KingSCADA, devices, points, c)
	require.NoError(t, err)
	assert.Equal(t, "COM11", table.Rows[0][channel])
	assert.Equal(t, "TEST.一期.P101", table.Rows[0][group])
}

func TestKingSCADAOPCUA(t *testing.T) {
	devices := []runtime.DeviceRecord{{Code: "P101", BaseAddress: "0"}}
	tests := []struct {
		nodeID string
		want   []string
	}{
		{"ns=2;s=Line1.Temp", []string{"2", "1", "Line1.Temp", "-1", "1", "0", "0", "0", "0", "0", "ns=2;s=Line1.Temp"}},
		{"ns=3;i=1001", []string{"3", "0", "1001", "-1", "1", "0", "0", "0", "0", "0", "ns=3;i=1001"}},
	}
	ns := column(t, KingSCADA, "NamespaceIndex")
	for _, tt := range tests {
		t.Run(tt.nodeID, func(t *testing.T) {
			points := []runtime.TemplatePoint{{Name: "_T", PointType: "IOFloat", Address: "0", NodeID: tt.nodeID}}
			table, err := BuildRows(KingSCADA, devices, points, siemensConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.want, []string(table.Rows[0][ns:]))
		})
	}
}
