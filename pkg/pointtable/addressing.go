package pointtable

import (
	"fmt"
	"math"
	"scadatag/pkg/runtime"
	"scadatag/pkg/runtime/constant"
	"strconv"
	"strings"
)

const (
	siemensRegName = "DB"
	siemensRegType = "3"
	abRegName      = "TAG"
	abRegType      = "0"

	// maxAddress bounds base addresses and offsets.
	maxAddress = math.MaxInt32
)

// Base is a device base address interpreted for one device family.
type Base struct {
	Raw   string
	Float float64
	Int   int
}

// Address is the resolved addressing of one point.
type Address struct {
	ItemPath string
	RegName  string
	RegType  string
	DB       string // 数值地址
	Byte     string
	Bit      string
}

type Addresser interface {
	ParseBase(raw string) (Base, error)
	Resolve(base Base, p *runtime.TemplatePoint, c *runtime.GenerationConfig, discrete bool) (Address, error)
}

// siemensFloat adds fractional offsets: byte.bit pairs are written as decimals,
// so discrete points keep exactly one decimal digit and all others are truncated to whole bytes.
type siemensFloat struct{}

func (siemensFloat) ParseBase(raw string) (Base, error) {
	f, err := parseFloat(raw)
	if err != nil {
		return Base{}, err
	}
	return Base{Raw: raw, Float: f, Int: int(f)}, nil
}

func (siemensFloat) Resolve(base Base, p *runtime.TemplatePoint, c *runtime.GenerationConfig, discrete bool) (Address, error) {
	var item string
	if discrete {
		off, err := parseFloat(p.Address)
		if err != nil {
			return Address{}, err
		}
		item = fmt.Sprintf("DB%s.%.1f", c.DBNumber, base.Float+off)
	} else {
		off, err := parseInt(p.Address)
		if err != nil {
			return Address{}, err
		}
		n, err := add(base.Int, off)
		if err != nil {
			return Address{}, err
		}
		item = fmt.Sprintf("DB%s.%d", c.DBNumber, n)
	}
	return Address{
		ItemPath: item,
		RegName:  siemensRegName,
		RegType:  siemensRegType,
	}, nil
}

// siemensByteBit adds whole byte offsets and carries the bit separately.
type siemensByteBit struct{}

func (siemensByteBit) ParseBase(raw string) (Base, error) {
	i, err := parseInt(raw)
	if err != nil {
		return Base{}, err
	}
	return Base{Raw: raw, Float: float64(i), Int: i}, nil
}

func (siemensByteBit) Resolve(base Base, p *runtime.TemplatePoint, c *runtime.GenerationConfig, discrete bool) (Address, error) {
	off, err := parseInt(p.AddressByte)
	if err != nil {
		return Address{}, err
	}
	n, err := add(base.Int, off)
	if err != nil {
		return Address{}, err
	}
	a := Address{
		RegName: siemensRegName,
		RegType: siemensRegType,
		DB:      c.DBNumber,
		Byte:    strconv.Itoa(n),
	}
	a.ItemPath = fmt.Sprintf("DB%s.%s", c.DBNumber, a.Byte)
	if discrete {
		bit := 0
		if s := strings.TrimSpace(p.AddressBit); len(s) > 0 {
			if bit, err = strconv.Atoi(s); err != nil {
				return Address{}, err
			}
		}
		if bit < 0 || bit > 7 {
			return Address{}, fmt.Errorf("bit %d out of range 0-7", bit)
		}
		a.Bit = strconv.Itoa(bit)
		a.ItemPath += "." + a.Bit
	}
	return a, nil
}

// parseFloat accepts finite decimals within maxAddress, NaN and infinities are rejected.
func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	if math.Abs(f) > maxAddress {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return f, nil
}

func parseInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if i > maxAddress || i < -maxAddress {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return i, nil
}

func add(a, b int) (int, error) {
	n := a + b
	if n > maxAddress || n < -maxAddress || (b > 0 && n < a) || (b < 0 && n > a) {
		return 0, fmt.Errorf("address %d%+d is out of range", a, b)
	}
	return n, nil
}

// abTag builds symbolic ControlLogix paths, the base address is used verbatim.
type abTag struct {
	offset func(p *runtime.TemplatePoint) string
}

func (abTag) ParseBase(raw string) (Base, error) {
	return Base{Raw: raw}, nil
}

func (a abTag) Resolve(base Base, p *runtime.TemplatePoint, _ *runtime.GenerationConfig, _ bool) (Address, error) {
	addr := Address{
		RegName: abRegName,
		RegType: abRegType,
	}
	if off := a.offset(p); len(off) > 0 {
		addr.ItemPath = fmt.Sprintf("TAG%s.%s", base.Raw, off)
	}
	return addr, nil
}

type noAddress struct{}

func (noAddress) ParseBase(raw string) (Base, error) {
	return Base{Raw: raw}, nil
}

func (noAddress) Resolve(Base, *runtime.TemplatePoint, *runtime.GenerationConfig, bool) (Address, error) {
	return Address{}, nil
}

var (
	_ Addresser = siemensFloat{}
	_ Addresser = siemensByteBit{}
	_ Addresser = abTag{}
	_ Addresser = noAddress{}
)

// AddressingError reports a base address or offset that the device family cannot interpret.
type AddressingError struct {
	Device string
	Point  string
	Family constant.DeviceFamily
	Value  string
	Err    error
}

func (e *AddressingError) Error() string {
	if len(e.Point) > 0 {
		return fmt.Sprintf("device %s point %s: offset %q is not valid for %s: %v", e.Device, e.Point, e.Value, e.Family, e.Err)
	}
	return fmt.Sprintf("device %s: base address %q is not valid for %s: %v", e.Device, e.Value, e.Family, e.Err)
}

func (e *AddressingError) Unwrap() error {
	return e.Err
}

func (e *AddressingError) Is(target error) bool {
	return target == constant.ErrAddressingMismatch
}
