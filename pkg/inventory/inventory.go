package inventory

import (
	"bytes"
	"encoding/csv"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/simplifiedchinese"
	"io"
	"k8s.io/klog/v2"
	"os"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"scadatag/pkg/storage"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns names the header cells holding each DeviceRecord field.
type Columns struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	BaseAddress string `json:"baseAddress"`
}

func DefaultColumns() Columns {
	return Columns{
		Code:        "设备代号",
		Description: "设备描述",
		BaseAddress: "拼接地址",
	}
}

func (c Columns) names() []string {
	return []string{c.Code, c.Description, c.BaseAddress}
}

// Dir is the folder below the base directory that holds inventories named by clients.
const Dir = "inventory"

// Load reads a device inventory file. See Decode.
func Load(path string, columns Columns) ([]runtime.DeviceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		klog.ErrorS(err, "Failed to read inventory", "file", path)
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(constant.ErrConfigNotFound, "inventory %s", path)
		}
		return nil, errors.Wrapf(constant.ErrParse, "read inventory %s: %v", path, err)
	}
	return decodeFile(path, data, columns)
}

// LoadNamed reads the inventory file name from the inventory folder of client.
// Names that are not a single file name are reported as ErrConfigNotFound.
func LoadNamed(client *storage.FsClient, name string, columns Columns) ([]runtime.DeviceRecord, error) {
	if !storage.ValidName(name) {
		return nil, errors.Wrapf(constant.ErrConfigNotFound, "invalid inventory name %q", name)
	}
	data, err := client.Get(Dir, name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(constant.ErrConfigNotFound, "inventory %s", name)
		}
		klog.ErrorS(err, "Failed to read inventory", "name", name)
		return nil, errors.Wrapf(constant.ErrParse, "read inventory %s", name)
	}
	return decodeFile(name, data, columns)
}

func decodeFile(name string, data []byte, columns Columns) ([]runtime.DeviceRecord, error) {
	devices, err := Decode(data, columns)
	if err != nil {
		if errors.Is(err, constant.ErrEmptyInput) {
			klog.Warningf("Inventory is empty or malformed: %s", name)
		} else {
			klog.ErrorS(err, "Failed to parse inventory", "file", name)
		}
		return nil, errors.WithMessagef(err, "inventory %s", name)
	}
	klog.InfoS("Loaded inventory", "file", name, "devices", len(devices))
	return devices, nil
}

// Decode parses a delimited inventory with a header row. The content is read as UTF-8
// (an optional byte order mark is dropped) and falls back to GBK when it is not valid UTF-8.
// Every configured column must be present in the header; an inventory without a
// single device is reported as ErrEmptyInput.
func Decode(data []byte, columns Columns) ([]runtime.DeviceRecord, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.Wrap(constant.ErrEmptyInput, "no header row")
	}
	if err != nil {
		return nil, errors.Wrapf(constant.ErrParse, "header: %v", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	var pos []int
	for _, name := range columns.names() {
		i, ok := index[name]
		if !ok {
			return nil, errors.Wrapf(constant.ErrParse, "missing column %q", name)
		}
		pos = append(pos, i)
	}

	var devices []runtime.DeviceRecord
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(constant.ErrParse, "%v", err)
		}
		if blank(record) {
			continue
		}
		line, _ := r.FieldPos(0)
		devices = append(devices, runtime.DeviceRecord{
			Code:        field(record, pos[0], line),
			Description: field(record, pos[1], line),
			BaseAddress: strings.TrimSpace(field(record, pos[2], line)),
		})
	}
	if len(devices) == 0 {
		return nil, errors.Wrap(constant.ErrEmptyInput, "no devices")
	}
	return devices, nil
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Wrapf(constant.ErrParse, "decode as GBK: %v", err)
	}
	klog.V(4).InfoS("Inventory is not UTF-8, decoded as GBK")
	return string(decoded), nil
}

// sniffDelimiter picks the separator of the header line among comma, semicolon and tab.
func sniffDelimiter(text string) rune {
	line := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		line = text[:i]
	}
	best, count := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if c := strings.Count(line, string(d)); c > count {
			best, count = d, c
		}
	}
	return best
}

// field returns the cell at i, short rows yield empty cells like a dictionary reader.
func field(record []string, i, line int) string {
	if i < len(record) {
		return record[i]
	}
	klog.V(4).InfoS("Short inventory row", "line", line, "columns", len(record))
	return ""
}

func blank(record []string) bool {
	for _, f := range record {
		if len(strings.TrimSpace(f)) > 0 {
			return false
		}
	}
	return true
}
