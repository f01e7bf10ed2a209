package runtime

import (
	"scadatag/pkg/runtime/constant"
)

// TemplatePoint is one point definition of an addressing template.
// Address, AddressByte and AddressBit are relative offsets kept verbatim; only the
// addressing strategy of a dialect knows whether they hold integers or fractions.
type TemplatePoint struct {
	Name        string `json:"name" mapstructure:"name"`                         // 点名后缀
	Description string `json:"description" mapstructure:"description"`           // 描述后缀
	PointType   string `json:"pointType" mapstructure:"pointType"`               // IODisc、IOShort、IOFloat 或 1、2
	AccessMode  string `json:"accessMode,omitempty" mapstructure:"accessMode"`   // 读写属性
	Address     string `json:"address,omitempty" mapstructure:"address"`         // 偏移地址
	AddressByte string `json:"addressByte,omitempty" mapstructure:"addressByte"` // 偏移字节
	AddressBit  string `json:"addressBit,omitempty" mapstructure:"addressBit"`   // 偏移位
	NodeID      string `json:"nodeId,omitempty" mapstructure:"nodeId"`           // OPC UA 节点
}

// DeviceRecord is one row of a device inventory.
type DeviceRecord struct {
	Code        string `json:"code"`        // 设备代号
	Description string `json:"description"` // 设备描述
	BaseAddress string `json:"baseAddress"` // 拼接地址
}

type LinkConfig struct {
	Mode constant.LinkMode `json:"mode"`
	Port string            `json:"port,omitempty"` // 串口号
	IP   string            `json:"ip,omitempty"`   // IP地址
}

// GenerationConfig carries the per-run parameters of both dialects.
// Channel and DriverName are only read by BEWGSED, Link, GroupPath, DeviceSeries
// and ChannelDriver only by KingSCADA.
type GenerationConfig struct {
	StartID       int                   `json:"startId"`
	DeviceName    string                `json:"deviceName"`   // 设备名称
	GroupPath     string                `json:"groupPath"`    // 分组路径
	GroupEnabled  bool                  `json:"groupEnabled"` // 设备分组
	Link          LinkConfig            `json:"link"`
	DeviceFamily  constant.DeviceFamily `json:"deviceFamily"`
	DeviceSeries  string                `json:"deviceSeries"`  // 设备系列
	ChannelDriver string                `json:"channelDriver"` // 通道驱动
	DBNumber      string                `json:"dbNumber"`      // DB块号
	Channel       string                `json:"channel"`       // 所属通道
	DriverName    string                `json:"driverName"`    // 驱动
}

func NewDefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		StartID:    1001,
		DeviceName: "PLC1",
		GroupPath:  "TEST.一期",
		Link: LinkConfig{
			Mode: constant.LinkEthernet,
			Port: "11",
			IP:   "192.168.10.11",
		},
		DBNumber: "3",
		Channel:  "S127",
	}
}

type OutputRow []string

// Table is the header plus rows of one generation run.
type Table struct {
	Headers []string
	Rows    []OutputRow
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Empty() bool {
	return t == nil || len(t.Headers) == 0 || len(t.Rows) == 0
}
