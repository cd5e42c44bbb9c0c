// Package chat defines the message model shared by the engine, the store,
// and the providers.
//
// Includes:
//   - Message: role-discriminated record (system, user, assistant, tool).
//   - Content: plain text or typed blocks, one flatten function for display.
//   - ValidateHistory: structural invariants a history must hold before a
//     model call (system placement, tool-result back-references).
package chat
