package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads and validates a command tree file.
func Load(path string) (*CommandTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open command tree %s: %w", path, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("command tree %s: %w", path, err)
	}
	return t, nil
}

// Decode parses a command tree from r and validates its invariants.
func Decode(r io.Reader) (*CommandTree, error) {
	var t CommandTree
	dec := json.NewDecoder(r)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if t.Version > CurrentVersion {
		return nil, fmt.Errorf("unsupported command tree version %d (newest supported: %d)", t.Version, CurrentVersion)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command tree: %w", err)
	}
	return &t, nil
}

// Encode writes the tree to w as indented JSON. The encoding is
// deterministic: identical trees produce byte-identical output, and the
// output round-trips through Decode without loss.
func (t *CommandTree) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(t)
}

// Save writes the tree to path, creating or truncating the file.
func (t *CommandTree) Save(path string) error {
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return fmt.Errorf("encode command tree: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write command tree %s: %w", path, err)
	}
	return nil
}
