package style

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Style is one node of a style rule tree. A node either groups child rules (Styles) or names a
// Technique, never both. When gates the node: children are visited and techniques emitted only
// for environments the predicate accepts.
type Style struct {
	ID          string         `json:"id,omitempty" yaml:"id,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	When        any            `json:"when,omitempty" yaml:"when,omitempty"` // string or array expression
	Technique   string         `json:"technique,omitempty" yaml:"technique,omitempty"`
	Attr        map[string]any `json:"attr,omitempty" yaml:"attr,omitempty"`
	RenderOrder *int           `json:"renderOrder,omitempty" yaml:"renderOrder,omitempty"`

	// Nodes sharing a bias group share one render order, reserved from the bias range of the
	// first member encountered.
	RenderOrderBiasGroup string    `json:"renderOrderBiasGroup,omitempty" yaml:"renderOrderBiasGroup,omitempty"`
	RenderOrderBiasRange []float64 `json:"renderOrderBiasRange,omitempty" yaml:"renderOrderBiasRange,omitempty"`

	// Final stops the whole matching walk once this node matches.
	Final  bool      `json:"final,omitempty" yaml:"final,omitempty"`
	Styles StyleList `json:"styles,omitempty" yaml:"styles,omitempty"`
}

// StyleSet is an ordered list of top-level rules.
type StyleSet []*Style

// Theme is a named collection of style sets, as stored in a theme file.
type Theme struct {
	Version string              `json:"version,omitempty" yaml:"version,omitempty"`
	Styles  map[string]StyleSet `json:"styles" yaml:"styles"`
}

// ErrStyleSetNotFound is returned when a theme has no style set of the requested name.
var ErrStyleSetNotFound = errors.New("style set not found")

// StyleList holds child rules. Decoding a non-list shape does not fail; the list is left empty
// and the shape is recorded so validation can report it.
type StyleList struct {
	Items []*Style
	shape string
}

// List builds a StyleList from rules.
func List(items ...*Style) StyleList {
	return StyleList{Items: items}
}

func (l StyleList) Len() int { return len(l.Items) }

// Malformed reports whether the decoded source was not a list.
func (l StyleList) Malformed() bool { return l.shape != "" }

func (l StyleList) IsZero() bool { return len(l.Items) == 0 && l.shape == "" }

func (l *StyleList) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.SequenceNode:
		l.shape = ""
		return node.Decode(&l.Items)
	case node.Kind == yaml.ScalarNode && node.Tag == "!!null":
		return nil
	}
	l.Items = nil
	l.shape = yamlShape(node.Kind)
	return nil
}

func (l StyleList) MarshalYAML() (any, error) {
	return l.Items, nil
}

func (l *StyleList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '[':
		l.shape = ""
		return json.Unmarshal(data, &l.Items)
	case data[0] == '{':
		l.shape = "object"
	case data[0] == '"':
		l.shape = "string"
	default:
		l.shape = "scalar"
	}
	l.Items = nil
	return nil
}

func (l StyleList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Items)
}

func yamlShape(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "document"
}

// isLeaf reports whether the node names a technique and has no children.
func (s *Style) isLeaf() bool {
	return s.Styles.Len() == 0 && !s.Styles.Malformed() && s.Technique != ""
}

// problem reports what is wrong with this node alone, ignoring its descendants.
func (s *Style) problem() error {
	switch {
	case s.Styles.Malformed():
		return fmt.Errorf("styles must be a list, got %s", s.Styles.shape)
	case s.Styles.Len() > 0 && s.Technique != "":
		return fmt.Errorf("has both child styles and technique %q; technique ignored", s.Technique)
	case s.Styles.Len() == 0 && s.Technique == "":
		return errors.New("has neither child styles nor a technique")
	case len(s.RenderOrderBiasRange) != 0 && len(s.RenderOrderBiasRange) != 2:
		return fmt.Errorf("renderOrderBiasRange needs 2 values, got %d", len(s.RenderOrderBiasRange))
	case s.RenderOrder != nil && s.RenderOrderBiasGroup != "":
		return fmt.Errorf("renderOrder %d overridden by renderOrderBiasGroup %q", *s.RenderOrder, s.RenderOrderBiasGroup)
	}
	return nil
}

// Validate checks the node and all of its descendants. Every problem found is returned, joined;
// none of them is fatal to evaluation.
func (s *Style) Validate() error {
	return errors.Join(s.validate("style")...)
}

func (s *Style) validate(path string) []error {
	if s.ID != "" {
		path = fmt.Sprintf("%s(%s)", path, s.ID)
	}
	var errs []error
	if err := s.problem(); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", path, err))
	}
	for i, child := range s.Styles.Items {
		childPath := fmt.Sprintf("%s.styles[%d]", path, i)
		if child == nil {
			errs = append(errs, fmt.Errorf("%s: nil style", childPath))
			continue
		}
		errs = append(errs, child.validate(childPath)...)
	}
	return errs
}

// Validate checks every rule in the set.
func (ss StyleSet) Validate() error {
	var errs []error
	for i, s := range ss {
		path := fmt.Sprintf("styles[%d]", i)
		if s == nil {
			errs = append(errs, fmt.Errorf("%s: nil style", path))
			continue
		}
		errs = append(errs, s.validate(path)...)
	}
	return errors.Join(errs...)
}

// Validate checks every style set of the theme.
func (t *Theme) Validate() error {
	if len(t.Styles) == 0 {
		return errors.New("theme has no style sets")
	}
	var errs []error
	for _, name := range t.StyleSetNames() {
		if err := t.Styles[name].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("style set %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// StyleSetNames returns the theme's style set names, sorted.
func (t *Theme) StyleSetNames() []string {
	names := make([]string, 0, len(t.Styles))
	for name := range t.Styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluator builds a fresh evaluator for the named style set.
func (t *Theme) Evaluator(name string) (*Evaluator, error) {
	ss, ok := t.Styles[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrStyleSetNotFound)
	}
	return NewEvaluator(ss), nil
}
