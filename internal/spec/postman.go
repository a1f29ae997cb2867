package spec

import (
	"encoding/json"
	"strings"

	"apictl/internal/tree"
)

// Minimal Postman collection v2 model. Unknown fields are ignored.
type postmanDoc struct {
	Info     postmanInfo       `json:"info"`
	Item     []postmanItem     `json:"item"`
	Variable []postmanVariable `json:"variable"`
}

type postmanInfo struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

type postmanItem struct {
	Name        string             `json:"name"`
	Description postmanDescription `json:"description"`
	Item        []postmanItem      `json:"item"`
	Request     *postmanRequest    `json:"request"`
}

type postmanRequest struct {
	Method      string             `json:"method"`
	Description postmanDescription `json:"description"`
	URL         json.RawMessage    `json:"url"`
	Header      []postmanHeader    `json:"header"`
	Body        *postmanBody       `json:"body"`
}

type postmanURL struct {
	Raw      string            `json:"raw"`
	Path     []string          `json:"path"`
	Query    []postmanQuery    `json:"query"`
	Variable []postmanVariable `json:"variable"`
}

type postmanQuery struct {
	Key         string             `json:"key"`
	Description postmanDescription `json:"description"`
	Disabled    bool               `json:"disabled"`
}

type postmanVariable struct {
	Key         string             `json:"key"`
	Value       string             `json:"value"`
	Description postmanDescription `json:"description"`
}

type postmanHeader struct {
	Key         string             `json:"key"`
	Value       string             `json:"value"`
	Description postmanDescription `json:"description"`
	Disabled    bool               `json:"disabled"`
}

type postmanBody struct {
	Mode string `json:"mode"`
}

// postmanDescription accepts both the plain string and the
// {"content": "..."} object forms Postman uses interchangeably.
type postmanDescription string

func (d *postmanDescription) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = postmanDescription(s)
		return nil
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*d = postmanDescription(obj.Content)
		return nil
	}
	// Unrecognized description shapes are dropped, not fatal.
	*d = ""
	return nil
}

// bodyMethods are the methods for which a Postman request body is honored.
var bodyMethods = map[string]bool{"POST": true, "PUT": true, "PATCH": true}

func buildFromPostman(document string, data []byte) (*tree.CommandTree, error) {
	var doc postmanDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SpecError{Kind: KindMalformed, Document: document, Reason: err}
	}
	if doc.Item == nil {
		return nil, &SpecError{Kind: KindMissingField, Document: document, Location: "item"}
	}

	b := newTreeBuilder(postmanBaseURL(&doc))
	b.resourceDescriptions = make(map[string]string)

	if err := walkPostmanItems(document, b, doc.Item, nil); err != nil {
		return nil, err
	}
	return b.build(), nil
}

// walkPostmanItems recurses through folders, carrying the folder lineage so
// the top-most folder can name the resource.
func walkPostmanItems(document string, b *treeBuilder, items []postmanItem, parents []*postmanItem) error {
	for i := range items {
		item := &items[i]
		if item.Item != nil {
			if err := walkPostmanItems(document, b, item.Item, append(parents, item)); err != nil {
				return err
			}
			continue
		}
		if item.Request == nil {
			continue
		}

		method := strings.ToUpper(item.Request.Method)
		if method == "" {
			method = "GET"
		}

		u := parsePostmanURL(item.Request.URL)
		path := normalizePath(u.path)

		resource := defaultResourceFor(path)
		if len(parents) > 0 && parents[0].Name != "" {
			resource = Slugify(parents[0].Name)
			if _, ok := b.resourceDescriptions[resource]; !ok {
				b.resourceDescriptions[resource] = string(parents[0].Description)
			}
		}

		description := string(item.Description)
		if description == "" {
			description = string(item.Request.Description)
		}

		op := tree.Operation{
			Name:        slugifyOp(item.Name),
			Method:      method,
			Path:        path,
			Description: description,
			Params:      postmanParams(path, u, item.Request.Header),
			Body:        postmanBodyDescriptor(method, item.Request.Body),
		}
		if err := checkPlaceholders(document, &op); err != nil {
			return err
		}
		b.add(resource, op)
	}
	return nil
}

type parsedURL struct {
	path     string
	query    []postmanQuery
	variable []postmanVariable
}

// parsePostmanURL handles both the string and object URL forms.
func parsePostmanURL(raw json.RawMessage) parsedURL {
	if len(raw) == 0 {
		return parsedURL{path: "/"}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parsedURL{path: pathFromRaw(s)}
	}

	var u postmanURL
	if err := json.Unmarshal(raw, &u); err != nil {
		return parsedURL{path: "/"}
	}

	path := "/"
	if len(u.Path) > 0 {
		path = "/" + strings.Join(u.Path, "/")
	} else if u.Raw != "" {
		path = pathFromRaw(u.Raw)
	}
	return parsedURL{path: path, query: u.Query, variable: u.Variable}
}

func postmanParams(path string, u parsedURL, headers []postmanHeader) []tree.Parameter {
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

	for _, v := range u.variable {
		if v.Key == "" {
			continue
		}
		params.add(tree.Parameter{
			Name:        v.Key,
			Flag:        Slugify(v.Key),
			Location:    tree.LocationPath,
			Type:        tree.TypeString,
			Required:    true,
			Description: string(v.Description),
		})
	}

	for _, q := range u.query {
		if q.Key == "" || q.Disabled {
			continue
		}
		params.add(tree.Parameter{
			Name:        q.Key,
			Flag:        Slugify(q.Key),
			Location:    tree.LocationQuery,
			Type:        tree.TypeString,
			Description: string(q.Description),
		})
	}

	for _, h := range headers {
		if h.Key == "" || h.Disabled || reservedHeaders[strings.ToLower(h.Key)] {
			continue
		}
		params.add(tree.Parameter{
			Name:        h.Key,
			Flag:        Slugify(h.Key),
			Location:    tree.LocationHeader,
			Type:        tree.TypeString,
			Default:     h.Value,
			Description: string(h.Description),
		})
	}

	return params.list()
}

func postmanBodyDescriptor(method string, body *postmanBody) *tree.BodyDescriptor {
	if body == nil || !bodyMethods[method] {
		return nil
	}
	if body.Mode == "" || body.Mode == "none" {
		return nil
	}
	return &tree.BodyDescriptor{ContentType: "application/json"}
}

// postmanBaseURL picks the collection-level base URL variable, when one of
// the conventional names is declared.
func postmanBaseURL(doc *postmanDoc) string {
	for _, v := range doc.Variable {
		switch strings.ToLower(v.Key) {
		case "base_url", "baseurl", "api_url", "apiurl":
			if v.Value != "" {
				return v.Value
			}
		}
	}
	return ""
}
