package options

import (
	"github.com/spf13/pflag"
	"scadatag/cmd/scadatag/config"
	"scadatag/pkg/generator"
	baseoptions "scadatag/pkg/generic/options"
	"scadatag/pkg/inventory"
	"scadatag/pkg/notify"
	"scadatag/pkg/runtime"
	"scadatag/pkg/storage"
	"time"
)

const (
	_defaultBaseDir = "."
	_defaultDialect = "kingscada"
	_defaultPort    = "32300"
	_defaultWait    = 15 * time.Second
)

// GenerationOptions are shared by generate and serve: per-run defaults, inventory
// column names and where finished runs are announced.
type GenerationOptions struct {
	BaseDir          string                   `json:"baseDir"`
	Generation       runtime.GenerationConfig `json:"generation"`
	InventoryColumns inventory.Columns        `json:"inventoryColumns"`
	Notify           notify.Options           `json:"notify"`
}

func NewDefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		BaseDir:          _defaultBaseDir,
		Generation:       runtime.NewDefaultGenerationConfig(),
		InventoryColumns: inventory.DefaultColumns(),
		Notify:           notify.NewDefaultOptions(),
	}
}

func (g *GenerationOptions) AddGenerationFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&g.BaseDir, "base-dir", "d", g.BaseDir, "Folder holding config_<dialect> and output_<dialect>")

	c := &g.Generation
	fs.IntVar(&c.StartID, "start-id", c.StartID, "TagID of the first row")
	fs.StringVar(&c.DeviceName, "device-name", c.DeviceName, "SCADA device name")
	fs.StringVar(&c.GroupPath, "group-path", c.GroupPath, "Tag group path (KingSCADA)")
	fs.BoolVar(&c.GroupEnabled, "group-enabled", c.GroupEnabled, "Append the device code to the group path (KingSCADA)")
	fs.Var(&linkModeValue{&c.Link.Mode}, "link", "Collection link, Ethernet or Serial (KingSCADA)")
	fs.StringVar(&c.Link.IP, "ip", c.Link.IP, "Device IP address of an Ethernet link")
	fs.StringVar(&c.Link.Port, "serial-port", c.Link.Port, "COM port number of a Serial link")
	fs.Var(&deviceFamilyValue{&c.DeviceFamily}, "device-family", "Addressing syntax, SIEMENS, AB or Other. Derived from the template family folder when not set")
	fs.StringVar(&c.DeviceSeries, "device-series", c.DeviceSeries, "Device series, defaults to the first series of the family (KingSCADA)")
	fs.StringVar(&c.ChannelDriver, "channel-driver", c.ChannelDriver, "Channel driver, defaults to the first driver of the family (KingSCADA)")
	fs.StringVar(&c.DBNumber, "db", c.DBNumber, "Data block number of SIEMENS addresses")
	fs.StringVar(&c.Channel, "channel", c.Channel, "Channel name (BEWGSED)")
	fs.StringVar(&c.DriverName, "driver", c.DriverName, "Driver name, defaults to the family driver (BEWGSED)")

	cols := &g.InventoryColumns
	fs.StringVar(&cols.Code, "code-column", cols.Code, "Inventory column holding the device code")
	fs.StringVar(&cols.Description, "description-column", cols.Description, "Inventory column holding the device description")
	fs.StringVar(&cols.BaseAddress, "address-column", cols.BaseAddress, "Inventory column holding the base address")

	n := &g.Notify
	fs.StringVar(&n.Broker, "mqtt-broker", n.Broker, "MQTT broker receiving run notifications, e.g. tcp://127.0.0.1:1883. Empty disables notifications")
	fs.StringVar(&n.Topic, "mqtt-topic", n.Topic, "Topic of run notifications")
	fs.StringVar(&n.ClientID, "mqtt-client-id", n.ClientID, "MQTT client id")
	fs.StringVar(&n.Username, "mqtt-username", n.Username, "MQTT username")
	fs.StringVar(&n.Password, "mqtt-password", n.Password, "MQTT password")
	fs.DurationVar(&n.Timeout, "mqtt-timeout", n.Timeout, "Connect and publish timeout")
}

// Config wires the generator used by generate and serve.
func (g *GenerationOptions) Config() (*config.Config, error) {
	notifier, err := notify.New(g.Notify)
	if err != nil {
		return nil, err
	}
	client := storage.NewFsClient(g.BaseDir)
	mgr := generator.NewManager(client,
		generator.WithNotifier(notifier),
		generator.WithColumns(g.InventoryColumns),
		generator.WithDefaults(g.Generation),
	)
	return &config.Config{
		Client:    client,
		Generator: mgr,
		Notifier:  notifier,
	}, nil
}

type GenerateOptions struct {
	Dialect   string               `json:"dialect"`
	Family    string               `json:"family"`
	Template  string               `json:"template"`
	Inventory string               `json:"inventory,omitempty"`
	Device    runtime.DeviceRecord `json:"device"` // 单组生成
	OutputDir string               `json:"outputDir,omitempty"`
	GenerationOptions
	baseoptions.BaseOptions
}

func NewDefaultGenerateOptions() *GenerateOptions {
	return &GenerateOptions{
		Dialect:           _defaultDialect,
		GenerationOptions: NewDefaultGenerationOptions(),
		BaseOptions:       baseoptions.NewDefaultBaseOptions(),
	}
}

func (o *GenerateOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Dialect, "dialect", o.Dialect, "Target SCADA dialect, kingscada or bewgsed")
	fs.StringVarP(&o.Family, "family", "f", o.Family, "Device family folder of the template")
	fs.StringVarP(&o.Template, "template", "t", o.Template, "Template file name inside the family folder")
	fs.StringVarP(&o.Inventory, "inventory", "i", o.Inventory, "Device inventory CSV")
	fs.StringVar(&o.Device.Code, "code", o.Device.Code, "Generate a single device with this code instead of reading an inventory")
	fs.StringVar(&o.Device.Description, "description", o.Device.Description, "Description of the single device")
	fs.StringVar(&o.Device.BaseAddress, "base-address", o.Device.BaseAddress, "Base address of the single device")
	fs.StringVarP(&o.OutputDir, "output-dir", "o", o.OutputDir, "Output folder, defaults to <base-dir>/output_<dialect>")
	o.AddGenerationFlags(fs)
}

func (o *GenerateOptions) Request() *generator.Request {
	req := &generator.Request{
		Dialect:   o.Dialect,
		Family:    o.Family,
		Template:  o.Template,
		Inventory: o.Inventory,
		Config:    o.Generation,
		OutputDir: o.OutputDir,
	}
	if len(o.Device.Code) > 0 {
		req.Devices = []runtime.DeviceRecord{o.Device}
	}
	return req
}

type ListOptions struct {
	BaseDir string `json:"baseDir"`
	Dialect string `json:"dialect"`
	Family  string `json:"family,omitempty"`
	baseoptions.BaseOptions
}

func NewDefaultListOptions() *ListOptions {
	return &ListOptions{
		BaseDir:     _defaultBaseDir,
		Dialect:     _defaultDialect,
		BaseOptions: baseoptions.NewDefaultBaseOptions(),
	}
}

func (o *ListOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.BaseDir, "base-dir", "d", o.BaseDir, "Folder holding config_<dialect>")
	fs.StringVar(&o.Dialect, "dialect", o.Dialect, "SCADA dialect, kingscada or bewgsed")
	fs.StringVarP(&o.Family, "family", "f", o.Family, "List the templates of this family instead of the families")
}

type ServeOptions struct {
	Port     string        `json:"port"`
	Wait     time.Duration `json:"graceful-timeout"`
	CertFile string        `json:"certFile,omitempty"`
	KeyFile  string        `json:"keyFile,omitempty"`
	GenerationOptions
	baseoptions.BaseOptions
}

func NewDefaultServeOptions() *ServeOptions {
	return &ServeOptions{
		Port:              _defaultPort,
		Wait:              _defaultWait,
		GenerationOptions: NewDefaultGenerationOptions(),
		BaseOptions:       baseoptions.NewDefaultBaseOptions(),
	}
}

func (o *ServeOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Port, "port", "P", o.Port, "Port exposed")
	fs.DurationVar(&o.Wait, "graceful-timeout", o.Wait, "The duration for which the server gracefully wait for existing connections to finish - e.g. 15s or 1m")
	fs.StringVar(&o.CertFile, "tls-cert-file", o.CertFile, "Serve HTTPS with this certificate")
	fs.StringVar(&o.KeyFile, "tls-private-key-file", o.KeyFile, "Private key of --tls-cert-file")
	o.AddGenerationFlags(fs)
}
