package layout

import (
	"strconv"
	"strings"
)

// Unit records the unit of a length value as written in a theme file.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// To converts this length to target unit. Supported targets: UnitMM, UnitPT.
// Unit-less values are returned unchanged so callers can pick their own default unit.
func (l Length) To(target Unit) float64 {
	var mm float64
	switch l.Unit {
	case UnitMM:
		mm = l.Value
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * 25.4
	case UnitPT:
		if target == UnitPT {
			return l.Value
		}
		return l.Value * PtToMm
	default:
		return l.Value
	}
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseRawLengthStr parses a length string preserving its unit.
func ParseRawLengthStr(value string) Length {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Length{Value: 0, Unit: UnitNone}
	}
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{Value: 0, Unit: UnitNone}
	}
	return Length{Value: f, Unit: unit}
}
