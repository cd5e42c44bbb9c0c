// Package tools defines tool contracts, the registry, and the local tool belt.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: name-keyed dispatch whose Invoke never lets a handler
//     failure (error or panic) escape.
//   - Local tools: read_file, list_files, write_file, search_files,
//     file_info, run_tests. All file access goes through the fsops sandbox.
package tools
