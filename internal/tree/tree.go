package tree

import (
	"fmt"
	"regexp"
	"strings"
)

// CurrentVersion is the command tree file format version written by the
// compiler. Load rejects files with a higher version.
const CurrentVersion = 1

// Location identifies where a parameter is placed in the HTTP request.
type Location string

const (
	// LocationPath parameters substitute a {placeholder} in the path template.
	LocationPath Location = "path"
	// LocationQuery parameters are appended to the query string.
	LocationQuery Location = "query"
	// LocationHeader parameters become request headers.
	LocationHeader Location = "header"
	// LocationBodyField parameters are individual fields of a JSON body.
	LocationBodyField Location = "body-field"
)

// ValidLocations contains all valid parameter locations.
var ValidLocations = []Location{LocationPath, LocationQuery, LocationHeader, LocationBodyField}

// ParamType is the declared type of a parameter value.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
	TypeEnum    ParamType = "enum"
	// TypeObject carries raw JSON; the value is passed through unparsed.
	TypeObject ParamType = "object"
)

// Parameter is one typed, located input to an operation.
type Parameter struct {
	// Name is the parameter name as declared by the source spec.
	Name string `json:"name"`
	// Flag is the kebab-case CLI flag derived from Name.
	Flag string `json:"flag"`
	// Location determines request placement (path, query, header, body-field).
	Location Location `json:"location"`
	// Type is the declared value type. Empty is treated as string.
	Type ParamType `json:"type,omitempty"`
	// Required marks parameters that must be supplied. Always true for
	// path parameters.
	Required bool `json:"required"`
	// Default fills the parameter when the flag is not supplied.
	Default string `json:"default,omitempty"`
	// Enum lists the allowed values when Type is enum.
	Enum []string `json:"enum,omitempty"`
	// Description is the human-readable description from the source spec.
	Description string `json:"description,omitempty"`
}

// EffectiveType returns the parameter type, defaulting to string when the
// source spec declared none.
func (p Parameter) EffectiveType() ParamType {
	if p.Type == "" {
		return TypeString
	}
	return p.Type
}

// BodyDescriptor is the opaque reference to an operation's request body.
// Body shapes are deliberately not flattened into parameters; the body is
// supplied as literal JSON (or @file) and sent unmodified.
type BodyDescriptor struct {
	// ContentType is the media type the operation accepts.
	ContentType string `json:"content_type"`
	// Schema names the body schema from the source spec, when one was
	// declared. Informational only; bodies are never validated locally.
	Schema string `json:"schema,omitempty"`
	// Required marks operations that reject an empty body.
	Required bool `json:"required"`
}

// Operation is one invocable action: an HTTP method + path template +
// parameter contract.
type Operation struct {
	// Name is the kebab-case operation name used as the CLI subcommand.
	Name string `json:"name"`
	// Method is the upper-case HTTP method.
	Method string `json:"method"`
	// Path is the path template, possibly containing {param} placeholders.
	Path string `json:"path"`
	// Description is the human-readable summary from the source spec.
	Description string `json:"description,omitempty"`
	// Params lists the operation's parameters in declared order.
	Params []Parameter `json:"params"`
	// Body is present when the operation accepts a request body.
	Body *BodyDescriptor `json:"body,omitempty"`
}

// Resource is a named grouping of related operations, mapped from an API
// tag or Postman folder.
type Resource struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Ops         []Operation `json:"ops"`
}

// CommandTree is the root of the compiled command hierarchy.
type CommandTree struct {
	Version   int        `json:"version"`
	BaseURL   string     `json:"base_url"`
	Resources []Resource `json:"resources"`
}

// placeholderRe matches normalized {param} placeholders in path templates.
var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Placeholders returns the placeholder names in the operation's path
// template, in order of appearance.
func (o *Operation) Placeholders() []string {
	matches := placeholderRe.FindAllStringSubmatch(o.Path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Param looks up a parameter by name or CLI flag, case-insensitively.
// Returns nil when the operation declares no such parameter.
func (o *Operation) Param(nameOrFlag string) *Parameter {
	for i := range o.Params {
		p := &o.Params[i]
		if strings.EqualFold(p.Name, nameOrFlag) || strings.EqualFold(p.Flag, nameOrFlag) {
			return p
		}
	}
	return nil
}

// Resource looks up a resource by name, case-insensitively.
func (t *CommandTree) Resource(name string) *Resource {
	for i := range t.Resources {
		if strings.EqualFold(t.Resources[i].Name, name) {
			return &t.Resources[i]
		}
	}
	return nil
}

// Operation looks up an operation by resource and operation name,
// case-insensitively. Either return value is nil when not found.
func (t *CommandTree) Operation(resource, operation string) (*Resource, *Operation) {
	res := t.Resource(resource)
	if res == nil {
		return nil, nil
	}
	for i := range res.Ops {
		if strings.EqualFold(res.Ops[i].Name, operation) {
			return res, &res.Ops[i]
		}
	}
	return res, nil
}

// ResourceNames returns all resource names in tree order.
func (t *CommandTree) ResourceNames() []string {
	names := make([]string, 0, len(t.Resources))
	for _, r := range t.Resources {
		names = append(names, r.Name)
	}
	return names
}

// Validate checks the structural invariants the compiler must uphold.
// A failure here is a defect in tree construction, not a runtime error:
//   - resource names unique after case normalization
//   - operation names unique within their resource
//   - every {placeholder} in a path template backed by a path parameter
//   - path parameters marked required
//   - at most one parameter per (name, location) pair
func (t *CommandTree) Validate() error {
	seenRes := make(map[string]bool)
	for _, res := range t.Resources {
		key := strings.ToLower(res.Name)
		if seenRes[key] {
			return fmt.Errorf("duplicate resource %q", res.Name)
		}
		seenRes[key] = true

		seenOps := make(map[string]bool)
		for i := range res.Ops {
			op := &res.Ops[i]
			opKey := strings.ToLower(op.Name)
			if seenOps[opKey] {
				return fmt.Errorf("resource %q: duplicate operation %q", res.Name, op.Name)
			}
			seenOps[opKey] = true

			if err := validateOperation(res.Name, op); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateOperation(resource string, op *Operation) error {
	seenParams := make(map[string]bool)
	pathParams := make(map[string]bool)
	for _, p := range op.Params {
		key := string(p.Location) + "\x00" + strings.ToLower(p.Name)
		if seenParams[key] {
			return fmt.Errorf("%s %s: duplicate parameter %q in location %s", resource, op.Name, p.Name, p.Location)
		}
		seenParams[key] = true

		switch p.Location {
		case LocationPath:
			if !p.Required {
				return fmt.Errorf("%s %s: path parameter %q must be required", resource, op.Name, p.Name)
			}
			pathParams[p.Name] = true
		case LocationQuery, LocationHeader, LocationBodyField:
		default:
			return fmt.Errorf("%s %s: parameter %q has invalid location %q", resource, op.Name, p.Name, p.Location)
		}
	}

	for _, placeholder := range op.Placeholders() {
		if !pathParams[placeholder] {
			return fmt.Errorf("%s %s: path template %q references {%s} with no matching path parameter",
				resource, op.Name, op.Path, placeholder)
		}
	}
	return nil
}
