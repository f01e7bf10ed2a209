package pointtable

import (
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"sort"
)

// Dialect describes one target SCADA import format: its column schema, the fixed
// column blocks selected by point type and the addressing strategy of each device family.
type Dialect struct {
	Name      string
	ConfigDir string // 模板目录
	OutputDir string // 输出目录

	schema      []string
	blockOffset int
	blocks      map[string][]string
	classify    func(p *runtime.TemplatePoint) (block string, discrete bool)
	offset      func(p *runtime.TemplatePoint) string
	addressing  map[constant.DeviceFamily]Addresser
	compose     func(c *Cell) ([]string, error)
	usesLink    bool
	families    map[constant.DeviceFamily]FamilyOptions
}

// FamilyOptions lists the selectable series and drivers of a family, the first entry is the default.
type FamilyOptions struct {
	DeviceSeries   []string `json:"deviceSeries,omitempty"`
	ChannelDrivers []string `json:"channelDrivers,omitempty"`
	Drivers        []string `json:"drivers,omitempty"`
}

// Cell is one device × template point pair on its way to becoming a row.
type Cell struct {
	ID      int
	Device  *runtime.DeviceRecord
	Point   *runtime.TemplatePoint
	Config  *runtime.GenerationConfig
	Address Address
	Block   string
}

func (c *Cell) TagName() string {
	return c.Device.Code + c.Point.Name
}

func (c *Cell) Description() string {
	return c.Device.Description + c.Point.Description
}

var dialects = map[string]*Dialect{}

func register(d *Dialect) *Dialect {
	dialects[d.Name] = d
	return d
}

func Lookup(name string) (*Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return nil, errors.Wrapf(constant.ErrUnknownDialect, "%q", name)
	}
	return d, nil
}

func Names() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Headers returns a copy of the column schema.
func (d *Dialect) Headers() []string {
	return append([]string(nil), d.schema...)
}

func (d *Dialect) addresser(f constant.DeviceFamily) Addresser {
	if a, ok := d.addressing[f]; ok {
		return a
	}
	return noAddress{}
}

func (d *Dialect) FamilyOptions(f constant.DeviceFamily) FamilyOptions {
	return d.families[f]
}

// ApplyDefaults fills series and driver fields left empty with the family defaults.
func (d *Dialect) ApplyDefaults(c *runtime.GenerationConfig) {
	o := d.families[c.DeviceFamily]
	if len(c.DeviceSeries) == 0 && len(o.DeviceSeries) > 0 {
		c.DeviceSeries = o.DeviceSeries[0]
	}
	if len(c.ChannelDriver) == 0 && len(o.ChannelDrivers) > 0 {
		c.ChannelDriver = o.ChannelDrivers[0]
	}
	if len(c.DriverName) == 0 && len(o.Drivers) > 0 {
		c.DriverName = o.Drivers[0]
	}
}

func (d *Dialect) Validate(c *runtime.GenerationConfig) error {
	errs := runtime.ValidateGenerationConfig(c, field.NewPath("generation"), d.usesLink)
	if len(errs) == 0 {
		return nil
	}
	return errs.ToAggregate()
}
