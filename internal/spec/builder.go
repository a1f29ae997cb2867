package spec

import (
	"fmt"
	"sort"

	"apictl/internal/tree"
)

// placeholderNames returns the {param} placeholder names in a normalized
// path template, in order of appearance.
func placeholderNames(path string) []string {
	op := tree.Operation{Path: path}
	return op.Placeholders()
}

// checkPlaceholders verifies every placeholder in the operation's path is
// backed by a path parameter with a usable name.
func checkPlaceholders(document string, op *tree.Operation) error {
	for _, name := range op.Placeholders() {
		if Slugify(name) == "" {
			return &SpecError{Kind: KindBadPlaceholder, Document: document, Location: op.Path}
		}
		found := false
		for _, p := range op.Params {
			if p.Location == tree.LocationPath && p.Name == name {
				found = true
				break
			}
		}
		if !found {
			return &SpecError{
				Kind:     KindBadPlaceholder,
				Document: document,
				Location: fmt.Sprintf("%s ({%s})", op.Path, name),
			}
		}
	}
	return nil
}

// paramSet accumulates parameters keyed by (location, name), preserving
// first-seen order. A later add for the same key replaces the value in
// place, so declared metadata can refine a placeholder-derived parameter.
type paramSet struct {
	order []string
	byKey map[string]tree.Parameter
}

func newParamSet() *paramSet {
	return &paramSet{byKey: make(map[string]tree.Parameter)}
}

func (s *paramSet) add(p tree.Parameter) {
	key := string(p.Location) + "\x00" + p.Name
	if _, ok := s.byKey[key]; !ok {
		s.order = append(s.order, key)
	}
	s.byKey[key] = p
}

func (s *paramSet) list() []tree.Parameter {
	params := make([]tree.Parameter, 0, len(s.order))
	for _, key := range s.order {
		params = append(params, s.byKey[key])
	}
	return params
}

// treeBuilder accumulates operations per resource, deduplicating operation
// names deterministically, and produces a sorted tree.
type treeBuilder struct {
	baseURL              string
	resourceDescriptions map[string]string
	resources            map[string]*tree.Resource
	usedNames            map[string]map[string]bool
}

func newTreeBuilder(baseURL string) *treeBuilder {
	return &treeBuilder{
		baseURL:   baseURL,
		resources: make(map[string]*tree.Resource),
		usedNames: make(map[string]map[string]bool),
	}
}

// add appends an operation to a resource, renaming on collision: first by
// appending the HTTP method, then a counter. Given identical input order
// the resulting names are always the same.
func (b *treeBuilder) add(resource string, op tree.Operation) {
	entry, ok := b.resources[resource]
	if !ok {
		entry = &tree.Resource{Name: resource}
		b.resources[resource] = entry
		b.usedNames[resource] = make(map[string]bool)
	}

	used := b.usedNames[resource]
	name := op.Name
	if used[name] {
		name = slugifyOp(fmt.Sprintf("%s-%s", op.Name, op.Method))
	}
	for idx := 2; used[name]; idx++ {
		name = slugifyOp(fmt.Sprintf("%s-%d", op.Name, idx))
	}
	used[name] = true
	op.Name = name

	entry.Ops = append(entry.Ops, op)
}

// build finalizes the tree: resources sorted by name for stable output,
// descriptions attached where the source spec provided them.
func (b *treeBuilder) build() *tree.CommandTree {
	names := make([]string, 0, len(b.resources))
	for name := range b.resources {
		names = append(names, name)
	}
	sort.Strings(names)

	t := &tree.CommandTree{Version: tree.CurrentVersion, BaseURL: b.baseURL}
	for _, name := range names {
		res := *b.resources[name]
		if desc, ok := b.resourceDescriptions[name]; ok && res.Description == "" {
			res.Description = desc
		}
		t.Resources = append(t.Resources, res)
	}
	return t
}
