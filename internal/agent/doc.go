// Package agent exposes a compiled command tree as MCP tools over stdio,
// so AI assistants can discover and invoke API operations through the
// standard Model Context Protocol instead of shelling out to the CLI.
//
// Three tools are registered:
//   - list_operations: enumerate resources and operations
//   - describe_operation: full parameter and body contract for one operation
//   - call_operation: resolve arguments and execute the HTTP request
//
// The agent reuses the same resolver and executor as the CLI, so an
// operation behaves identically whether invoked by a human or a model.
package agent
