package risk

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Group is an ordinal risk band. The zero value is Undefined, which is not
// a band and must never be read as Low.
type Group int

const (
	Undefined Group = iota
	Low
	Intermediate
	High
)

const (
	labelUndefined    = "undefined"
	labelLow          = "low"
	labelIntermediate = "intermediate"
	labelHigh         = "high"
)

// ErrUnknownGroup is returned when a label does not name a risk group.
var ErrUnknownGroup = errors.New("unknown risk group")

// Groups returns the defined groups in ascending order.
func Groups() []Group {
	return []Group{Low, Intermediate, High}
}

// ParseGroup converts a label produced by Group.String back into a Group.
func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case labelLow:
		return Low, nil
	case labelIntermediate:
		return Intermediate, nil
	case labelHigh:
		return High, nil
	case labelUndefined, "":
		return Undefined, nil
	default:
		return Undefined, fmt.Errorf("%w: %q", ErrUnknownGroup, s)
	}
}

// Defined reports whether g is one of Low, Intermediate or High.
func (g Group) Defined() bool {
	return g >= Low && g <= High
}

func (g Group) String() string {
	switch g {
	case Low:
		return labelLow
	case Intermediate:
		return labelIntermediate
	case High:
		return labelHigh
	default:
		return labelUndefined
	}
}

// Title is the display label, e.g. "Intermediate".
func (g Group) Title() string {
	s := g.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// MarshalJSON encodes Undefined as null and the bands as their labels.
func (g Group) MarshalJSON() ([]byte, error) {
	if !g.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(g.String())
}

func (g *Group) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*g = Undefined
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decoding risk group: %w", err)
	}

	v, err := ParseGroup(s)
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// MarshalYAML encodes Undefined as null and the bands as their labels.
func (g Group) MarshalYAML() (any, error) {
	if !g.Defined() {
		return nil, nil
	}
	return g.String(), nil
}

func (g *Group) UnmarshalYAML(n *yaml.Node) error {
	if n.ShortTag() == "!!null" {
		*g = Undefined
		return nil
	}

	v, err := ParseGroup(n.Value)
	if err != nil {
		return err
	}
	*g = v
	return nil
}
