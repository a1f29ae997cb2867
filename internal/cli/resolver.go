package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"apictl/internal/tree"
	"apictl/pkg/logging"
)

// Invocation is the raw user input for one operation call: the subcommand
// path plus the flag values cobra collected.
type Invocation struct {
	Resource  string
	Operation string
	// Args maps CLI flag name to the supplied value.
	Args map[string]string
	// Set records which flags were explicitly provided, so an explicit
	// empty string is distinguishable from an unset flag.
	Set map[string]bool
	// Body is the raw --body value: literal JSON, or @path to read a file.
	Body    string
	BodySet bool
}

// KV is an ordered key/value pair. Query parameters and headers preserve
// their declared order, which url.Values would not.
type KV struct {
	Key   string
	Value string
}

// RequestPlan is the validated, concrete result of argument resolution,
// ready for request construction. It is consumed exactly once.
type RequestPlan struct {
	Method      string
	Path        string // placeholders substituted and escaped
	Query       []KV   // declared order
	Headers     []KV   // declared order, auth header excluded
	Body        []byte
	ContentType string
}

// BodyNotAllowedError indicates --body supplied for an operation that
// declares no request body.
type BodyNotAllowedError struct {
	Resource  string
	Operation string
}

// Error returns a message naming the operation.
func (e *BodyNotAllowedError) Error() string {
	return fmt.Sprintf("operation %s %s does not accept a request body", e.Resource, e.Operation)
}

// Resolve binds an invocation against the command tree's parameter
// declarations, producing a request plan or a validation error. The only
// I/O performed is reading a --body @file; the network is never touched.
func Resolve(t *tree.CommandTree, inv Invocation) (*tree.Operation, *RequestPlan, error) {
	res := t.Resource(inv.Resource)
	if res == nil {
		return nil, nil, &UnknownCommandError{
			Resource:    inv.Resource,
			Suggestions: Suggest(inv.Resource, t.ResourceNames()),
		}
	}
	_, op := t.Operation(inv.Resource, inv.Operation)
	if op == nil {
		names := make([]string, 0, len(res.Ops))
		for _, o := range res.Ops {
			names = append(names, o.Name)
		}
		return nil, nil, &UnknownCommandError{
			Resource:    res.Name,
			Operation:   inv.Operation,
			Suggestions: Suggest(inv.Operation, names),
		}
	}

	plan := &RequestPlan{Method: op.Method, Path: op.Path}
	bodyFields := make(map[string]interface{})

	for _, p := range op.Params {
		value, supplied := lookupArg(inv, p)
		if !supplied {
			if p.Default != "" {
				value = p.Default
				supplied = true
			} else if p.Required {
				return nil, nil, &MissingRequiredError{Param: p.Name, Flag: p.Flag}
			} else {
				continue
			}
		}

		coerced, typed, err := coerce(p, value)
		if err != nil {
			return nil, nil, err
		}

		switch p.Location {
		case tree.LocationPath:
			plan.Path = substitutePlaceholder(plan.Path, p.Name, coerced)
		case tree.LocationQuery:
			plan.Query = append(plan.Query, KV{Key: p.Name, Value: coerced})
		case tree.LocationHeader:
			plan.Headers = append(plan.Headers, KV{Key: p.Name, Value: coerced})
		case tree.LocationBodyField:
			bodyFields[p.Name] = typed
		}
	}

	if strings.Contains(plan.Path, "{") {
		// The tree invariants guarantee a parameter per placeholder, so an
		// unresolved one is a dispatcher defect.
		return nil, nil, fmt.Errorf("internal error: unresolved placeholder in path %s", plan.Path)
	}

	body, err := resolveBody(res.Name, op, inv, bodyFields)
	if err != nil {
		return nil, nil, err
	}
	plan.Body = body
	if len(body) > 0 && op.Body != nil {
		plan.ContentType = op.Body.ContentType
	} else if len(body) > 0 {
		plan.ContentType = "application/json"
	}

	return op, plan, nil
}

// lookupArg finds the supplied value for a parameter, accepting either the
// flag or the raw parameter name.
func lookupArg(inv Invocation, p tree.Parameter) (string, bool) {
	if inv.Set[p.Flag] {
		return inv.Args[p.Flag], true
	}
	if p.Name != p.Flag && inv.Set[p.Name] {
		return inv.Args[p.Name], true
	}
	return "", false
}

// coerce validates a value against the declared type and returns both the
// canonical string form and the typed value for body-field assembly.
func coerce(p tree.Parameter, value string) (string, interface{}, error) {
	switch p.EffectiveType() {
	case tree.TypeInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", nil, &TypeMismatchError{Param: p.Flag, Expected: tree.TypeInteger, Value: value}
		}
		return strconv.FormatInt(n, 10), n, nil
	case tree.TypeBoolean:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", nil, &TypeMismatchError{Param: p.Flag, Expected: tree.TypeBoolean, Value: value}
		}
		return strconv.FormatBool(b), b, nil
	case tree.TypeEnum:
		for _, allowed := range p.Enum {
			if value == allowed {
				return value, value, nil
			}
		}
		return "", nil, &TypeMismatchError{Param: p.Flag, Expected: tree.TypeEnum, Value: value}
	case tree.TypeObject:
		if !json.Valid([]byte(value)) {
			return "", nil, &TypeMismatchError{Param: p.Flag, Expected: tree.TypeObject, Value: value}
		}
		return value, json.RawMessage(value), nil
	default:
		return value, value, nil
	}
}

// substitutePlaceholder replaces {name} in the path template with the
// URL-escaped value.
func substitutePlaceholder(path, name, value string) string {
	return strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
}

// resolveBody materializes the request body. An explicit --body wins over
// any declared body-field parameters; a leading @ reads the named file
// verbatim so large payloads avoid shell quoting.
func resolveBody(resource string, op *tree.Operation, inv Invocation, fields map[string]interface{}) ([]byte, error) {
	if inv.BodySet && op.Body == nil {
		return nil, &BodyNotAllowedError{Resource: resource, Operation: op.Name}
	}

	if inv.BodySet {
		if len(fields) > 0 {
			logging.Warn("Resolver", "--body overrides %d body-field parameter(s)", len(fields))
		}
		if path, ok := strings.CutPrefix(inv.Body, "@"); ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read body file %s: %w", path, err)
			}
			return data, nil
		}
		return []byte(inv.Body), nil
	}

	if len(fields) > 0 {
		data, err := json.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("assemble body fields: %w", err)
		}
		return data, nil
	}

	if op.Body != nil && op.Body.Required {
		return nil, &MissingRequiredError{Param: "body", Flag: "body"}
	}
	return nil, nil
}
