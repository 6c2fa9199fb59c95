// Package diag defines the diagnostic model shared by the lexers, parsers, the
// analyzer engine and its hosts.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by lexing, parsing and lint rules.
//   - Offer a light-weight Bag that collects, sorts and deduplicates
//     diagnostics without coupling to storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering lives in internal/diagfmt; code actions are modelled by the
// analyzer as mutation batches and applied by internal/fix.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Category – hierarchical tag such as "lint/style/useConst" or "parse".
//     Suppression comments match categories segment by segment (Category.Covers).
//   - Severity – Hint, Info, Warning, Error or Fatal.
//   - Location – file path and byte range of the primary finding.
//   - Message – inline markup (text, emphasis, code spans, links).
//   - Related – secondary locations, each with its own message.
//   - Notes and Footers – extra context and hints shown after the snippet.
//   - Tags – Verbose, Internal, Unnecessary, Deprecated.
//
// Producers usually create diagnostics without a path; the host attaches it
// with WithFilePath and WithFileSourceCode before rendering. The With*
// builders return copies and never share slices with the receiver.
//
// # Collecting diagnostics
//
// Lexers and parsers return plain slices; hosts gather them in a Bag, which
// caps the count, sorts by file and range, and drops repeats of the same
// category, range and message (Dedup).
package diag
