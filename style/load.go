package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a theme file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for theme files that are neither YAML nor JSON.
var ErrUnsupportedFormat = errors.New("unsupported theme format")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// LoadTheme reads and decodes a theme file. Validation problems are not load errors; they are
// reported when an evaluator is built.
func LoadTheme(path string) (*Theme, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("theme %q: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	theme, err := ParseTheme(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}

// ParseTheme decodes a theme document.
func ParseTheme(data []byte, format Format) (*Theme, error) {
	var theme Theme
	if err := decode(data, format, &theme); err != nil {
		return nil, err
	}
	if theme.Styles == nil {
		theme.Styles = map[string]StyleSet{}
	}
	return &theme, nil
}

// ParseStyleSet decodes a bare list of rules.
func ParseStyleSet(data []byte, format Format) (StyleSet, error) {
	var ss StyleSet
	if err := decode(data, format, &ss); err != nil {
		return nil, err
	}
	return ss, nil
}

func decode(data []byte, format Format, out any) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("yaml unmarshal: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("json unmarshal: %w", err)
		}
	default:
		return fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	return nil
}
