package spec

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"apictl/internal/tree"
)

// Minimal OpenAPI 3-ish model, sufficient for deriving CLI commands.
// Unknown fields are ignored.
type openapiDoc struct {
	OpenAPI string                     `json:"openapi"`
	Swagger string                     `json:"swagger"`
	Info    openapiInfo                `json:"info"`
	Servers []openapiServer            `json:"servers"`
	Tags    []openapiTag               `json:"tags"`
	Paths   map[string]json.RawMessage `json:"paths"`
}

type openapiInfo struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

type openapiServer struct {
	URL string `json:"url"`
}

type openapiTag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type openapiOperation struct {
	OperationID string             `json:"operationId"`
	Tags        []string           `json:"tags"`
	Summary     string             `json:"summary"`
	Description string             `json:"description"`
	Parameters  []openapiParameter `json:"parameters"`
	RequestBody *openapiBody       `json:"requestBody"`
}

type openapiParameter struct {
	Name        string         `json:"name"`
	In          string         `json:"in"` // path, query, header, cookie
	Description string         `json:"description"`
	Required    bool           `json:"required"`
	Schema      *openapiSchema `json:"schema"`
}

type openapiSchema struct {
	Ref     string        `json:"$ref"`
	Type    string        `json:"type"`
	Title   string        `json:"title"`
	Enum    []interface{} `json:"enum"`
	Default interface{}   `json:"default"`
}

type openapiBody struct {
	Required bool                        `json:"required"`
	Content  map[string]openapiMediaType `json:"content"`
}

type openapiMediaType struct {
	Schema *openapiSchema `json:"schema"`
}

// httpMethods is the fixed iteration order for path item methods. Go maps
// do not preserve JSON key order, so a canonical order keeps compilation
// deterministic.
var httpMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// reservedHeaders are never surfaced as header parameters: the executor
// owns authentication and content negotiation.
var reservedHeaders = map[string]bool{
	"authorization": true,
	"content-type":  true,
	"accept":        true,
	"user-agent":    true,
}

func buildFromOpenAPI(document string, data []byte) (*tree.CommandTree, error) {
	var doc openapiDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SpecError{Kind: KindMalformed, Document: document, Reason: err}
	}
	if doc.Paths == nil {
		return nil, &SpecError{Kind: KindMissingField, Document: document, Location: "paths"}
	}

	tagDescriptions := make(map[string]string)
	for _, t := range doc.Tags {
		tagDescriptions[Slugify(t.Name)] = t.Description
	}

	b := newTreeBuilder(openapiBaseURL(&doc))
	b.resourceDescriptions = tagDescriptions

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, rawPath := range paths {
		var methods map[string]json.RawMessage
		if err := json.Unmarshal(doc.Paths[rawPath], &methods); err != nil {
			// Path items that are not objects (e.g. a stray $ref string)
			// are skipped rather than failing the whole document.
			continue
		}

		path := normalizePath(rawPath)
		for _, method := range httpMethods {
			raw, ok := methods[method]
			if !ok {
				continue
			}
			var op openapiOperation
			if err := json.Unmarshal(raw, &op); err != nil {
				return nil, &SpecError{
					Kind:     KindMalformed,
					Document: document,
					Location: fmt.Sprintf("%s %s", strings.ToUpper(method), rawPath),
					Reason:   err,
				}
			}

			resource := defaultResourceFor(path)
			if len(op.Tags) > 0 && op.Tags[0] != "" {
				resource = Slugify(op.Tags[0])
			}

			name := op.OperationID
			if name == "" {
				name = fmt.Sprintf("%s-%s", method, path)
			}

			description := op.Summary
			if description == "" {
				description = op.Description
			}

			treeOp := tree.Operation{
				Name:        slugifyOp(name),
				Method:      strings.ToUpper(method),
				Path:        path,
				Description: description,
				Params:      openapiParams(path, op.Parameters),
				Body:        openapiBodyDescriptor(op.RequestBody),
			}
			if err := checkPlaceholders(document, &treeOp); err != nil {
				return nil, err
			}
			b.add(resource, treeOp)
		}
	}

	return b.build(), nil
}

// openapiParams derives the parameter list: path placeholders first (always
// required), then declared query and header parameters in spec order.
func openapiParams(path string, declared []openapiParameter) []tree.Parameter {
	params := newParamSet()
	for _, name := range placeholderNames(path) {
		params.add(tree.Parameter{
			Name:     name,
			Flag:     Slugify(name),
			Location: tree.LocationPath,
			Type:     tree.TypeString,
			Required: true,
		})
	}

	for _, p := range declared {
		if p.Name == "" {
			continue
		}
		var loc tree.Location
		switch p.In {
		case "path":
			loc = tree.LocationPath
		case "query":
			loc = tree.LocationQuery
		case "header":
			if reservedHeaders[strings.ToLower(p.Name)] {
				continue
			}
			loc = tree.LocationHeader
		default:
			// Cookie and unknown locations are not representable.
			continue
		}

		param := tree.Parameter{
			Name:        p.Name,
			Flag:        Slugify(p.Name),
			Location:    loc,
			Required:    p.Required || loc == tree.LocationPath,
			Description: p.Description,
		}
		param.Type, param.Enum, param.Default = classifySchema(p.Schema)
		params.add(param)
	}
	return params.list()
}

// classifySchema maps an OpenAPI schema onto the closed parameter type set.
// Everything the set cannot express degrades to string, which passes the
// value through untouched.
func classifySchema(s *openapiSchema) (tree.ParamType, []string, string) {
	if s == nil {
		return tree.TypeString, nil, ""
	}

	var def string
	if s.Default != nil {
		def = fmt.Sprint(s.Default)
	}

	if len(s.Enum) > 0 {
		values := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			values = append(values, fmt.Sprint(v))
		}
		return tree.TypeEnum, values, def
	}

	switch s.Type {
	case "integer":
		return tree.TypeInteger, nil, def
	case "boolean":
		return tree.TypeBoolean, nil, def
	case "object", "array":
		return tree.TypeObject, nil, def
	default:
		return tree.TypeString, nil, def
	}
}

func openapiBodyDescriptor(body *openapiBody) *tree.BodyDescriptor {
	if body == nil {
		return nil
	}

	contentType := "application/json"
	var schema *openapiSchema
	if media, ok := body.Content[contentType]; ok {
		schema = media.Schema
	} else {
		// Prefer JSON; otherwise take the lexically first media type so
		// the choice is stable.
		types := make([]string, 0, len(body.Content))
		for ct := range body.Content {
			types = append(types, ct)
		}
		sort.Strings(types)
		if len(types) > 0 {
			contentType = types[0]
			media := body.Content[contentType]
			schema = media.Schema
		}
	}

	desc := &tree.BodyDescriptor{ContentType: contentType, Required: body.Required}
	if schema != nil {
		if schema.Ref != "" {
			parts := strings.Split(schema.Ref, "/")
			desc.Schema = parts[len(parts)-1]
		} else if schema.Title != "" {
			desc.Schema = schema.Title
		}
	}
	return desc
}

func openapiBaseURL(doc *openapiDoc) string {
	if len(doc.Servers) > 0 {
		return doc.Servers[0].URL
	}
	return ""
}
