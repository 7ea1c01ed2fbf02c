// Package form turns user supplied text and JSON into risk inputs.
//
// It owns all caller-side validation: non-numeric text, unknown units and
// non-finite numbers are rejected here so the risk rules only ever see
// well-formed readings.
package form

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mchmarny/purk/pkg/risk"
)

// Field names shared by the HTML form, query strings and JSON bodies.
const (
	FieldCreatinine      = "creatinine_72h"
	FieldCreatinineUnit  = "creatinine_72h_unit"
	FieldFailureToThrive = "failure_to_thrive"
	FieldHighGradeVUR    = "high_grade_vur"
	FieldRenalDysplasia  = "renal_dysplasia"
	FieldNadir           = "nadir"
	FieldNadirUnit       = "nadir_unit"
)

var (
	// ErrInvalid wraps every input rejection.
	ErrInvalid = errors.New("invalid input")

	// ErrInvalidNumber is returned for text that is not a finite number.
	ErrInvalidNumber = errors.New("not a finite number")

	// ErrInvalidFlag is returned for text that is not a boolean.
	ErrInvalidFlag = errors.New("not a boolean")

	validate = newValidator()
)

// Defaults supplies the unit used when a request leaves one blank.
type Defaults struct {
	CreatinineUnit risk.Unit
	NadirUnit      risk.Unit
}

// DefaultUnits matches the usual reporting: µmol/L at presentation, mg/dL
// for the one-year nadir.
func DefaultUnits() Defaults {
	return Defaults{
		CreatinineUnit: risk.UmolL,
		NadirUnit:      risk.MgDL,
	}
}

// Request is the raw evaluation request as collected from a user.
// Nil numbers are readings that were not entered.
type Request struct {
	Creatinine72h     *float64 `json:"creatinine_72h,omitempty" validate:"omitempty,finite" jsonschema:"description=Serum creatinine measured more than 72 hours after birth"`
	Creatinine72hUnit string   `json:"creatinine_72h_unit,omitempty" validate:"omitempty,unit" jsonschema:"enum=mg/dL,enum=umol/L"`
	FailureToThrive   bool     `json:"failure_to_thrive,omitempty"`
	HighGradeVUR      bool     `json:"high_grade_vur,omitempty"`
	RenalDysplasia    bool     `json:"renal_dysplasia,omitempty"`
	Nadir             *float64 `json:"nadir,omitempty" validate:"omitempty,finite" jsonschema:"description=Lowest serum creatinine during the first year of life"`
	NadirUnit         string   `json:"nadir_unit,omitempty" validate:"omitempty,unit" jsonschema:"enum=mg/dL,enum=umol/L"`
}

// FromValues reads a request from form or query values. Blank numbers are
// treated as not entered; anything else must parse.
func FromValues(v url.Values) (*Request, error) {
	r := &Request{
		Creatinine72hUnit: strings.TrimSpace(v.Get(FieldCreatinineUnit)),
		NadirUnit:         strings.TrimSpace(v.Get(FieldNadirUnit)),
	}

	var err error
	if r.Creatinine72h, err = parseNumber(FieldCreatinine, v.Get(FieldCreatinine)); err != nil {
		return nil, err
	}
	if r.Nadir, err = parseNumber(FieldNadir, v.Get(FieldNadir)); err != nil {
		return nil, err
	}
	if r.FailureToThrive, err = parseFlag(FieldFailureToThrive, v.Get(FieldFailureToThrive)); err != nil {
		return nil, err
	}
	if r.HighGradeVUR, err = parseFlag(FieldHighGradeVUR, v.Get(FieldHighGradeVUR)); err != nil {
		return nil, err
	}
	if r.RenalDysplasia, err = parseFlag(FieldRenalDysplasia, v.Get(FieldRenalDysplasia)); err != nil {
		return nil, err
	}

	return r, nil
}

// Values is the inverse of FromValues, used to refill the HTML form.
func (r *Request) Values() url.Values {
	v := url.Values{}
	if r == nil {
		return v
	}
	if r.Creatinine72h != nil {
		v.Set(FieldCreatinine, strconv.FormatFloat(*r.Creatinine72h, 'f', -1, 64))
	}
	if r.Creatinine72hUnit != "" {
		v.Set(FieldCreatinineUnit, r.Creatinine72hUnit)
	}
	if r.Nadir != nil {
		v.Set(FieldNadir, strconv.FormatFloat(*r.Nadir, 'f', -1, 64))
	}
	if r.NadirUnit != "" {
		v.Set(FieldNadirUnit, r.NadirUnit)
	}
	for name, on := range map[string]bool{
		FieldFailureToThrive: r.FailureToThrive,
		FieldHighGradeVUR:    r.HighGradeVUR,
		FieldRenalDysplasia:  r.RenalDysplasia,
	} {
		if on {
			v.Set(name, "on")
		}
	}
	return v
}

// Validate checks the request without evaluating it. Negative values are
// allowed through; classifying them is up to the risk rules.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: request required", ErrInvalid)
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}
	return nil
}

// Input validates the request and converts it into a risk.Input, filling
// blank units from d.
func (r *Request) Input(d Defaults) (risk.Input, error) {
	if err := r.Validate(); err != nil {
		return risk.Input{}, err
	}

	in := risk.Input{
		Observations: risk.Observations{
			FailureToThrive: r.FailureToThrive,
			HighGradeVUR:    r.HighGradeVUR,
			RenalDysplasia:  r.RenalDysplasia,
		},
	}

	var err error
	if in.Creatinine72h, err = reading(r.Creatinine72h, r.Creatinine72hUnit, d.CreatinineUnit); err != nil {
		return risk.Input{}, err
	}
	if in.Nadir, err = reading(r.Nadir, r.NadirUnit, d.NadirUnit); err != nil {
		return risk.Input{}, err
	}
	return in, nil
}

func reading(v *float64, unit string, def risk.Unit) (*risk.Reading, error) {
	if v == nil {
		return nil, nil
	}

	u := def
	if unit != "" {
		var err error
		if u, err = risk.ParseUnit(unit); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if !u.Valid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalid, risk.ErrUnknownUnit, u)
	}

	return risk.NewReading(*v, u), nil
}

func parseNumber(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	num, ok := decimalPoint(s)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %w: ambiguous separator: %q", ErrInvalid, field, ErrInvalidNumber, s)
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s: %w: %q", ErrInvalid, field, ErrInvalidNumber, s)
	}
	return &f, nil
}

// decimalPoint turns a single decimal comma into a point. Input where the
// comma could be a thousands separator ("1,500", "1.000,5") is refused.
func decimalPoint(s string) (string, bool) {
	whole, frac, found := strings.Cut(s, ",")
	if !found {
		return s, true
	}
	if strings.Contains(whole, ".") || strings.ContainsAny(frac, ",.") {
		return "", false
	}
	if len(frac) == 3 && strings.Trim(frac, "0123456789") == "" {
		return "", false
	}
	return strings.Replace(s, ",", ".", 1), true
}

func parseFlag(field, s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "no":
		return false, nil
	case "on", "yes":
		return true, nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w: %q", ErrInvalid, field, ErrInvalidFlag, s)
	}
	return b, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// errors are impossible here: both tags are new and the funcs non-nil
	_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		_, err := risk.ParseUnit(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	return v
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "unit":
			msgs = append(msgs, fmt.Sprintf("%s: unsupported unit %q", fe.Field(), fe.Value()))
		case "finite":
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), ErrInvalidNumber))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
