// Package primitives provides the foundational data structures for the router:
// the declarative state tree (StateConfig, RouterConfig), URL patterns,
// transition entries, and the Context of dynamic segment values.
//
// Everything here is plain data plus pure functions. Compilation into a live
// router, hook execution and URL bookkeeping live in internal/core.
//
// Core invariants:
//   - A state's full path (dot-separated names from the root) is unique.
//   - Dynamic segment names are unique within a single pattern.
//   - Configs are treated as immutable once handed to a router.
package primitives
