package generator

import (
	"context"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"k8s.io/klog/v2"
	"path/filepath"
	"scadatag/pkg/inventory"
	"scadatag/pkg/notify"
	"scadatag/pkg/output"
	"scadatag/pkg/pointtable"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"scadatag/pkg/storage"
	"scadatag/pkg/template"
	"scadatag/pkg/utils/uuidutil"
	"strings"
	"time"
)

// Request describes one generation run. Devices take precedence over InventoryName,
// which takes precedence over the Inventory path.
type Request struct {
	Dialect       string                   `json:"dialect"`
	Family        string                   `json:"family"`
	Template      string                   `json:"template"`
	Inventory     string                   `json:"inventory,omitempty"`
	InventoryName string                   `json:"inventoryName,omitempty"` // file in <base>/inventory
	Devices       []runtime.DeviceRecord   `json:"devices,omitempty"`
	Columns       *inventory.Columns       `json:"columns,omitempty"`
	Config        runtime.GenerationConfig `json:"config"`
	OutputDir     string                   `json:"outputDir,omitempty"` // 默认 output_<dialect>
}

type Result struct {
	RunID string `json:"runId"`
	output.Result
}

type Stats struct {
	Runs        int64 `json:"runs"`
	FailedRuns  int64 `json:"failedRuns"`
	RowsWritten int64 `json:"rowsWritten"`
}

type Option func(*Manager)

func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

func WithColumns(c inventory.Columns) Option {
	return func(m *Manager) {
		m.columns = c
	}
}

func WithDefaults(c runtime.GenerationConfig) Option {
	return func(m *Manager) {
		m.defaults = c
	}
}

func WithWriter(w *output.Writer) Option {
	return func(m *Manager) {
		m.writer = w
	}
}

// Manager runs generations against the template and output folders under one base directory.
type Manager struct {
	client   *storage.FsClient
	writer   *output.Writer
	notifier notify.Notifier
	columns  inventory.Columns
	defaults runtime.GenerationConfig

	runs   *atomic.Int64
	failed *atomic.Int64
	rows   *atomic.Int64
}

func NewManager(client *storage.FsClient, opts ...Option) *Manager {
	m := &Manager{
		client:   client,
		writer:   output.NewWriter(client),
		notifier: notify.Nop{},
		columns:  inventory.DefaultColumns(),
		defaults: runtime.NewDefaultGenerationConfig(),
		runs:     atomic.NewInt64(0),
		failed:   atomic.NewInt64(0),
		rows:     atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Defaults() runtime.GenerationConfig {
	return m.defaults
}

func (m *Manager) Templates(d *pointtable.Dialect) *template.Store {
	return template.NewStore(m.client, d.ConfigDir)
}

func (m *Manager) Stats() Stats {
	return Stats{
		Runs:        m.runs.Load(),
		FailedRuns:  m.failed.Load(),
		RowsWritten: m.rows.Load(),
	}
}

func (m *Manager) Generate(ctx context.Context, req *Request) (*Result, error) {
	m.runs.Inc()
	result, err := m.generate(ctx, req)
	if err != nil {
		m.failed.Inc()
		return nil, err
	}
	m.rows.Add(int64(result.Rows))
	return result, nil
}

func (m *Manager) generate(ctx context.Context, req *Request) (*Result, error) {
	d, err := pointtable.Lookup(req.Dialect)
	if err != nil {
		return nil, err
	}

	c := req.Config
	if c.DeviceFamily == constant.FamilyUnset {
		c.DeviceFamily = constant.ParseDeviceFamily(req.Family)
	}
	d.ApplyDefaults(&c)
	if err := d.Validate(&c); err != nil {
		return nil, errors.Wrap(constant.ErrInvalidConfig, err.Error())
	}

	points, err := m.Templates(d).LoadTemplate(req.Family, req.Template)
	if err != nil {
		return nil, err
	}
	devices, err := m.devices(req)
	if err != nil {
		return nil, err
	}

	table, err := pointtable.BuildRows(d, devices, points, c)
	if err != nil {
		klog.ErrorS(err, "Failed to build point table", "dialect", d.Name, "family", req.Family, "template", req.Template)
		return nil, err
	}

	folder := req.OutputDir
	if len(folder) == 0 {
		folder = d.OutputDir
	}
	written, err := m.writer.Write(folder, BaseName(req.Family, req.Template), table)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: uuidutil.UUID(), Result: *written}
	m.publish(ctx, d, req, result)
	return result, nil
}

func (m *Manager) devices(req *Request) ([]runtime.DeviceRecord, error) {
	if len(req.Devices) > 0 {
		return req.Devices, nil
	}
	columns := m.columns
	if req.Columns != nil {
		columns = *req.Columns
	}
	switch {
	case len(req.InventoryName) > 0:
		return inventory.LoadNamed(m.client, req.InventoryName, columns)
	case len(req.Inventory) > 0:
		return inventory.Load(req.Inventory, columns)
	default:
		return nil, errors.Wrap(constant.ErrEmptyInput, "neither devices nor an inventory file given")
	}
}

func (m *Manager) publish(ctx context.Context, d *pointtable.Dialect, req *Request, r *Result) {
	e := &notify.Event{
		RunID:     r.RunID,
		Dialect:   d.Name,
		Family:    req.Family,
		Template:  req.Template,
		Path:      r.Path,
		Rows:      r.Rows,
		Timestamp: time.Now(),
	}
	if err := m.notifier.Notify(ctx, e); err != nil {
		klog.ErrorS(err, "Failed to publish run notification", "runId", r.RunID)
	}
}

// BaseName is the output file prefix {family}_{template without extension}.
func BaseName(family, templateFile string) string {
	return family + "_" + strings.TrimSuffix(templateFile, filepath.Ext(templateFile))
}
