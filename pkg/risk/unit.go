package risk

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MolarPerMass is the number of µmol/L in one mg/dL of creatinine.
const MolarPerMass = 88.4

const (
	// MgDL is the mass concentration unit.
	MgDL Unit = "mg/dL"
	// UmolL is the molar concentration unit (µmol/L).
	UmolL Unit = "umol/L"
)

// ErrUnknownUnit is returned when a unit string is not mg/dL or µmol/L.
var ErrUnknownUnit = errors.New("unknown creatinine unit")

// Unit identifies how a creatinine value is expressed.
type Unit string

// Units lists the supported units.
func Units() []Unit {
	return []Unit{MgDL, UmolL}
}

// ParseUnit converts common spellings of the supported units into a Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mg/dl", "mgdl", "mg":
		return MgDL, nil
	case "umol/l", "µmol/l", "μmol/l", "umoll", "umol", "µmol":
		return UmolL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool {
	return u == MgDL || u == UmolL
}

// UnmarshalText accepts any spelling understood by ParseUnit.
func (u *Unit) UnmarshalText(b []byte) error {
	v, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Concentration holds the same creatinine value in both units.
type Concentration struct {
	Mass  float64 `json:"mg_dl" yaml:"mgDL"`
	Molar float64 `json:"umol_l" yaml:"umolL"`
}

// Finite reports whether both representations are usable numbers.
func (c Concentration) Finite() bool {
	return isFinite(c.Mass) && isFinite(c.Molar)
}

// Normalize expresses value, measured in unit, in both supported units.
// Non-finite values and unknown units yield NaN in both fields.
func Normalize(value float64, unit Unit) Concentration {
	if !isFinite(value) {
		return unknownConcentration()
	}

	switch unit {
	case MgDL:
		return Concentration{Mass: value, Molar: value * MolarPerMass}
	case UmolL:
		return Concentration{Mass: value / MolarPerMass, Molar: value}
	default:
		return unknownConcentration()
	}
}

// Reading is a single creatinine measurement.
type Reading struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// NewReading is a shorthand for building optional readings.
func NewReading(value float64, unit Unit) *Reading {
	return &Reading{Value: value, Unit: unit}
}

// Normalize converts the reading into both units.
func (r Reading) Normalize() Concentration {
	return Normalize(r.Value, r.Unit)
}

func unknownConcentration() Concentration {
	return Concentration{Mass: math.NaN(), Molar: math.NaN()}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
