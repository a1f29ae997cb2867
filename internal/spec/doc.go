// Package spec compiles API descriptions into a command tree.
//
// Two input formats are supported: Postman collection JSON and OpenAPI
// JSON. Each document is detected, parsed into a partial tree, and the
// partial trees are folded in declared document order into one canonical
// tree.CommandTree. Parsing may run concurrently but the fold order is
// fixed by the order the documents were given, so compiling the same
// inputs always produces an identical tree.
//
// Naming rules:
//   - OpenAPI tags and top-level Postman folders become resources; an
//     untagged operation is grouped under its first path segment.
//   - Operation names come from the declared identifier (operationId or
//     Postman item name), slugified to a kebab-case CLI token. Name
//     collisions within a resource are resolved deterministically by
//     appending the HTTP method and then a counter.
//   - Across documents, the first definition of a (method, path) pair in a
//     resource wins; later documents can only add. This lets a minimal
//     bootstrap spec be layered under a fuller one without regressions.
//
// Request bodies are captured as an opaque tree.BodyDescriptor rather than
// flattened into parameters; see the tree package for the rationale.
//
// All failures are reported as *SpecError values naming the offending
// document.
package spec
