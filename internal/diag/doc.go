// Package diag defines the diagnostic model shared by all pipeline phases.
//
//   - Diagnostic is the central record: severity, a stable Code, a short
//     human-oriented message, and the primary source span.
//   - Bag is a bounded, sortable collection of diagnostics.
//   - Reporter lets producers emit diagnostics without coupling to storage
//     or formatting.
//
// Codes are grouped in numeric blocks per phase: Syn* (parse) in the 2000s,
// Scope* in the 3000s, Req* (request-level failures) in the 4000s. The
// string form of a code is stable and user visible.
//
// Package diag performs no formatting or IO. Rendering lives in
// internal/diagfmt; the LSP mapping lives in internal/lsp.
package diag
