// Package internal contains packages that are intentionally private to
// goBroker.
//
// # Sub-packages
//
//   - api — the provider's wire contract: endpoint paths, payloads, and
//     tagged-union response decoding
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - session — the owned session value and its durable binary codec
//   - transport — the kind-agnostic HTTP adapter
//
// # What this package must NOT do
//
//   - Export types that appear in the public goBroker API.
//   - Be imported by any package outside the goBroker module.
package internal
