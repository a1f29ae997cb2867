package spec

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"apictl/internal/tree"
	"apictl/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// Source is one spec document to compile, named for error reporting.
type Source struct {
	Name string
	Data []byte
}

// LoadSources reads spec documents from disk, preserving argument order.
func LoadSources(paths []string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read spec %s: %w", path, err)
		}
		sources = append(sources, Source{Name: path, Data: data})
	}
	return sources, nil
}

// Normalize compiles one or more spec documents into a single command
// tree. Documents are parsed concurrently, but the fold runs in declared
// source order so the result is deterministic regardless of completion
// order. Later documents may add resources and operations but never
// overwrite an operation an earlier document already defined.
func Normalize(ctx context.Context, sources []Source) (*tree.CommandTree, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no spec documents given")
	}

	partial := make([]*tree.CommandTree, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := buildOne(src)
			if err != nil {
				return err
			}
			partial[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeTrees(partial)
	if err := merged.Validate(); err != nil {
		// The builders uphold the tree invariants; a failure here is a
		// compiler defect, surfaced rather than persisted.
		return nil, fmt.Errorf("compiled tree failed validation: %w", err)
	}
	logging.Info("Compiler", "compiled %d resources from %d document(s)", len(merged.Resources), len(sources))
	return merged, nil
}

// buildOne detects the document format and dispatches to the matching
// builder.
func buildOne(src Source) (*tree.CommandTree, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(src.Data, &top); err != nil {
		return nil, &SpecError{Kind: KindMalformed, Document: src.Name, Reason: err}
	}

	switch {
	case isOpenAPI(top):
		return buildFromOpenAPI(src.Name, src.Data)
	case isPostman(top):
		return buildFromPostman(src.Name, src.Data)
	default:
		return nil, &SpecError{Kind: KindUnsupported, Document: src.Name}
	}
}

func isOpenAPI(top map[string]json.RawMessage) bool {
	_, hasOpenAPI := top["openapi"]
	_, hasSwagger := top["swagger"]
	_, hasPaths := top["paths"]
	return hasOpenAPI || hasSwagger || hasPaths
}

func isPostman(top map[string]json.RawMessage) bool {
	if _, ok := top["item"]; !ok {
		return false
	}
	var info postmanInfo
	if raw, ok := top["info"]; ok {
		if err := json.Unmarshal(raw, &info); err != nil {
			return false
		}
	}
	return strings.Contains(info.Schema, "postman")
}
