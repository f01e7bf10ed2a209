package output

import (
	"encoding/csv"
	"fmt"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
	"io"
	"k8s.io/klog/v2"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"scadatag/pkg/storage"
	"time"
)

const timestampLayout = "20060102150405"

// Result describes a written point table.
type Result struct {
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
	Message string `json:"message"`
}

// Writer serializes point tables as GBK encoded CSV, the code page the SCADA import tools expect.
type Writer struct {
	client storage.Writer
	now    func() time.Time
}

type Option func(w *Writer)

func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

func NewWriter(client storage.Writer, opts ...Option) *Writer {
	w := &Writer{
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func FileName(baseName string, t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", baseName, t.Format(timestampLayout))
}

// Write stores table as <folder>/<baseName>_<YYYYMMDDHHMMSS>.csv. A table without
// headers or rows is not written and yields ErrEmptyInput. Two writes with the same
// base name within one second target the same file, the later one wins.
func (w *Writer) Write(folder, baseName string, table *runtime.Table) (*Result, error) {
	if table.Empty() {
		klog.Warningf("Nothing to write for %s: %d headers, %d rows", baseName, len(headersOf(table)), table.Len())
		return nil, errors.Wrapf(constant.ErrEmptyInput, "point table %s", baseName)
	}

	name := FileName(baseName, w.now())
	path, err := w.client.WriteAtomic(folder, name, func(out io.Writer) error {
		return Encode(out, table)
	})
	if err != nil {
		klog.ErrorS(err, "Failed to write point table", "folder", folder, "file", name)
		return nil, errors.Wrapf(constant.ErrWriteFailure, "%s: %v", name, err)
	}

	klog.InfoS("Generated point table", "file", path, "rows", table.Len())
	return &Result{
		Path:    path,
		Rows:    table.Len(),
		Message: fmt.Sprintf("generated point table %s (%d rows)", path, table.Len()),
	}, nil
}

// Encode writes the header and rows as GBK CSV with CRLF line endings.
func Encode(out io.Writer, table *runtime.Table) error {
	enc := transform.NewWriter(out, simplifiedchinese.GBK.NewEncoder())
	cw := csv.NewWriter(enc)
	cw.UseCRLF = true
	if err := cw.Write(table.Headers); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return enc.Close()
}

func headersOf(table *runtime.Table) []string {
	if table == nil {
		return nil
	}
	return table.Headers
}
