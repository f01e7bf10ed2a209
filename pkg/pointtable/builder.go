package pointtable

import (
	"fmt"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"scadatag/pkg/runtime"
)

// BuildRows cross-joins devices and template points into the rows of dialect d.
// Rows are ordered device-major, template-minor and numbered from c.StartID.
// Any device whose addressing cannot be resolved fails the whole batch: the
// returned error aggregates every failure and no rows are returned.
// Empty devices or points yield a table with headers and no rows.
func BuildRows(d *Dialect, devices []runtime.DeviceRecord, points []runtime.TemplatePoint, c runtime.GenerationConfig) (*runtime.Table, error) {
	table := &runtime.Table{Headers: d.Headers()}
	if len(devices) == 0 || len(points) == 0 {
		return table, nil
	}

	addresser := d.addresser(c.DeviceFamily)
	var errs []error
	bases := make([]Base, len(devices))
	for i := range devices {
		b, err := addresser.ParseBase(devices[i].BaseAddress)
		if err != nil {
			errs = append(errs, &AddressingError{
				Device: devices[i].Code,
				Family: c.DeviceFamily,
				Value:  devices[i].BaseAddress,
				Err:    err,
			})
			continue
		}
		bases[i] = b
	}
	if len(errs) > 0 {
		return nil, utilerrors.NewAggregate(errs)
	}

	rows := make([]runtime.OutputRow, 0, len(devices)*len(points))
	id := c.StartID
	for i := range devices {
		for j := range points {
			cell := &Cell{
				ID:     id,
				Device: &devices[i],
				Point:  &points[j],
				Config: &c,
			}
			id++

			block, discrete := d.classify(cell.Point)
			cell.Block = block
			addr, err := addresser.Resolve(bases[i], cell.Point, &c, discrete)
			if err != nil {
				errs = append(errs, &AddressingError{
					Device: cell.Device.Code,
					Point:  cell.Point.Name,
					Family: c.DeviceFamily,
					Value:  d.offset(cell.Point),
					Err:    err,
				})
				continue
			}
			cell.Address = addr

			row, err := d.row(cell)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			rows = append(rows, row)
		}
	}
	if len(errs) > 0 {
		return nil, utilerrors.NewAggregate(errs)
	}
	table.Rows = rows
	return table, nil
}

// row composes the variable fields of a cell and splices the point type block in.
func (d *Dialect) row(cell *Cell) (runtime.OutputRow, error) {
	fields, err := d.compose(cell)
	if err != nil {
		return nil, err
	}
	block := d.blocks[cell.Block]
	row := make(runtime.OutputRow, 0, len(fields)+len(block))
	row = append(row, fields[:d.blockOffset]...)
	row = append(row, block...)
	row = append(row, fields[d.blockOffset:]...)
	if len(row) != len(d.schema) {
		return nil, fmt.Errorf("%s: row for %s has %d fields, schema has %d", d.Name, cell.TagName(), len(row), len(d.schema))
	}
	return row, nil
}
