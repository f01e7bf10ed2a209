package pointtable

import (
	"fmt"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"strconv"
	"strings"
)

const (
	bewgsedDigital = "1"
	bewgsedAnalog  = "2"

	bewgsedAddressSlots  = 12
	bewgsedCollectCycle  = "1000"
	bewgsedDefaultAccess = "RW"
)

var bewgsedSchema = func() []string {
	s := []string{"序号", "所属通道", "驱动", "所属设备", "点类型", "点名", "描述"}
	for i := 1; i <= bewgsedAddressSlots; i++ {
		s = append(s, fmt.Sprintf("数值地址%d", i))
	}
	for i := 1; i <= bewgsedAddressSlots; i++ {
		s = append(s, fmt.Sprintf("字符地址%d", i))
	}
	return append(s,
		"OPC标签", "IO标签", "读写属性", "采集周期",
		"数据类型", "字节序", "单位", "小数位数", "启用",
		"是否存储", "存储周期", "变化存储", "变化阈值",
		"量程下限", "量程上限", "工程下限", "工程上限",
		"启用转换", "系数", "偏移量",
		"报警启用", "低低限", "低限", "高限", "高高限", "报警死区", "报警级别",
		"开报警", "关报警", "开状态描述", "关状态描述", "备注",
	)
}()

// BEWGSED is the BEWGSED point import format.
var BEWGSED = register(&Dialect{
	Name:        "bewgsed",
	ConfigDir:   "config_bewgsed",
	OutputDir:   "output_bewgsed",
	schema:      bewgsedSchema,
	blockOffset: 35,
	blocks: map[string][]string{
		// 数据类型 … 备注
		bewgsedDigital: {
			"BOOL", "", "", "0", "1",
			"1", "60", "1", "0",
			"0", "1", "0", "1",
			"0", "1", "0",
			"0", "", "", "", "", "0", "0",
			"0", "0", "开", "关", "",
		},
		bewgsedAnalog: {
			"FLOAT", "ABCD", "", "2", "1",
			"1", "60", "1", "0.5",
			"0", "100", "0", "100",
			"0", "1", "0",
			"0", "", "", "", "", "0", "0",
			"0", "0", "", "", "",
		},
	},
	classify: func(p *runtime.TemplatePoint) (string, bool) {
		if strings.TrimSpace(p.PointType) == bewgsedDigital {
			return bewgsedDigital, true
		}
		return bewgsedAnalog, false
	},
	offset: func(p *runtime.TemplatePoint) string {
		if len(p.AddressBit) > 0 {
			return p.AddressByte + "." + p.AddressBit
		}
		return p.AddressByte
	},
	addressing: map[constant.DeviceFamily]Addresser{
		constant.FamilySiemens:      siemensByteBit{},
		constant.FamilyAllenBradley: abTag{offset: func(p *runtime.TemplatePoint) string { return p.AddressByte }},
	},
	compose: composeBEWGSED,
	families: map[constant.DeviceFamily]FamilyOptions{
		constant.FamilySiemens:      {Drivers: []string{"PLC_SIEMENS_S7_1200_TCP"}},
		constant.FamilyAllenBradley: {Drivers: []string{"AB-ControlLogixTCP"}},
	},
})

func composeBEWGSED(cell *Cell) ([]string, error) {
	c := cell.Config
	a := cell.Address
	tag := cell.TagName()
	access := cell.Point.AccessMode
	if len(access) == 0 {
		access = bewgsedDefaultAccess
	}

	row := make([]string, 0, len(bewgsedSchema))
	row = append(row,
		strconv.Itoa(cell.ID),
		c.Channel,
		c.DriverName,
		c.DeviceName,
		cell.Point.PointType,
		tag,
		cell.Description(),
	)
	row = append(row, slots(a.DB, a.Byte, a.Bit)...)
	row = append(row, slots(a.RegName, a.ItemPath, a.RegType)...)
	row = append(row,
		strings.Join([]string{c.Channel, c.DeviceName, tag}, "."),
		tag,
		access,
		bewgsedCollectCycle,
	)
	return row, nil
}

// slots pads the address values to the fixed slot count.
func slots(values ...string) []string {
	out := make([]string, bewgsedAddressSlots)
	copy(out, values)
	return out
}
