// Package tree defines the command tree: the canonical, immutable
// representation of every CLI-invocable API operation.
//
// The tree is the contract between the spec compiler and the runtime
// dispatcher. The compiler (internal/spec) folds one or more API
// descriptions into a CommandTree and persists it as JSON; at invocation
// time the dispatcher loads the tree, builds the cobra command hierarchy
// from it, and resolves user arguments against its parameter declarations.
//
// A tree is built once per process and never mutated afterward, so it can
// be shared freely without locking.
//
// # Structure
//
//	CommandTree
//	└── Resource (API tag / Postman folder)
//	    └── Operation (HTTP method + path template)
//	        └── Parameter (typed, located input)
//
// Parameters are classified into a closed set of locations (path, query,
// header, body-field) and types (string, integer, boolean, enum, object).
// Request bodies are kept opaque behind a BodyDescriptor: body shapes vary
// too much across real-world specs for field-level flattening to be
// lossless, so the body travels as raw bytes end to end.
//
// # Persistence
//
// The JSON form produced by Save round-trips losslessly through Load; the
// encoding is deterministic so that compiling the same specs twice yields
// byte-identical files.
package tree
