package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Fepozopo/pixfx/pkg/filter"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt    ParamType = "int"
	ParamTypeFloat  ParamType = "float"
	ParamTypeEnum   ParamType = "enum"
	ParamTypeColor  ParamType = "color"
	ParamTypeMask   ParamType = "mask"
	ParamTypeString ParamType = "string"
)

// ValidationRule is a machine-friendly representation of the constraints
// a client can check before invoking a command.
type ValidationRule struct {
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
	EnumOptions []string  `json:"enumOptions,omitempty"` // valid when Type == ParamTypeEnum
	Example     string    `json:"example,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

// nonNegative lists argument names that must be >= 0.
var nonNegative = map[string]bool{"radius": true, "offset": true, "spread": true}

// upperBound caps arguments that size a window.
var upperBound = map[string]float64{"radius": filter.MaxRadius}

var enumOptions = map[string][]string{"rank": {"middle", "fixed"}}

// GenerateTooltip produces a help string from a filter.CommandSpec.
func GenerateTooltip(c filter.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" No parameters.")
		return sb.String()
	}
	sb.WriteString(" Parameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "- %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRules creates ValidationRule entries from a filter.CommandSpec.
func GenerateValidationRules(c filter.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		var t ParamType
		switch strings.ToLower(a.Type) {
		case "int":
			t = ParamTypeInt
		case "float":
			t = ParamTypeFloat
		case "enum":
			t = ParamTypeEnum
		case "color":
			t = ParamTypeColor
		case "mask":
			t = ParamTypeMask
		default:
			t = ParamTypeString
		}
		r := ValidationRule{Type: t, Required: a.Required, Hint: a.Description, Example: a.Default}
		if nonNegative[a.Name] {
			zero := 0.0
			r.Min = &zero
		}
		if m, ok := upperBound[a.Name]; ok {
			r.Max = &m
		}
		if t == ParamTypeEnum {
			r.EnumOptions = enumOptions[a.Name]
		}
		rules[a.Name] = r
	}
	return rules
}

// MetaStore indexes command specs by lower-cased name.
type MetaStore struct {
	Commands []filter.CommandSpec
	byName   map[string]filter.CommandSpec
}

// NewMetaStore creates a MetaStore from a command list.
func NewMetaStore(cmds []filter.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]filter.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[strings.ToLower(c.Name)] = c
	}
	return m
}

// Get returns the spec for name. Unknown names yield the registry's
// *filter.UnknownCommandError so callers keep the suggestion.
func (m *MetaStore) Get(name string) (filter.CommandSpec, error) {
	if c, ok := m.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return filter.Lookup(name)
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, err := m.Get(name)
	if err != nil {
		return "", nil, err
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs checks args against the metadata of cmdName and returns them
// in canonical textual form, one slot per declared parameter. Empty slots mean
// "use the default".
func NormalizeArgs(store *MetaStore, cmdName string, args []string) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is nil")
	}
	c, err := store.Get(cmdName)
	if err != nil {
		return nil, err
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s: takes at most %d parameters, got %d (usage: %s)", c.Name, len(c.Args), len(args), c.Usage)
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("%s: missing required parameter: %s", c.Name, a.Name)
			}
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypeInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %s: expected integer, got %q", c.Name, a.Name, raw)
			}
			if vr.Min != nil && float64(v) < *vr.Min {
				return nil, fmt.Errorf("%s: parameter %s: %d < min %v", c.Name, a.Name, v, *vr.Min)
			}
			if vr.Max != nil && float64(v) > *vr.Max {
				return nil, fmt.Errorf("%s: parameter %s: %d > max %v", c.Name, a.Name, v, *vr.Max)
			}
			out[i] = strconv.FormatInt(v, 10)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %s: expected float, got %q", c.Name, a.Name, raw)
			}
			if vr.Min != nil && f < *vr.Min {
				return nil, fmt.Errorf("%s: parameter %s: %v < min %v", c.Name, a.Name, f, *vr.Min)
			}
			if vr.Max != nil && f > *vr.Max {
				return nil, fmt.Errorf("%s: parameter %s: %v > max %v", c.Name, a.Name, f, *vr.Max)
			}
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		case ParamTypeEnum:
			v := strings.ToLower(raw)
			if len(vr.EnumOptions) > 0 && !slices.Contains(vr.EnumOptions, v) {
				return nil, fmt.Errorf("%s: parameter %s: %q is not one of %s", c.Name, a.Name, raw, strings.Join(vr.EnumOptions, ", "))
			}
			out[i] = v
		case ParamTypeColor:
			p, err := filter.ParsePixel(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %s: %w", c.Name, a.Name, err)
			}
			out[i] = fmt.Sprintf("%d,%d,%d", p.R, p.G, p.B)
		case ParamTypeMask:
			if _, err := filter.ParseShape(raw); err != nil {
				return nil, fmt.Errorf("%s: parameter %s: %w", c.Name, a.Name, err)
			}
			out[i] = strings.ToLower(raw)
		default:
			out[i] = raw
		}
	}
	return out, nil
}
