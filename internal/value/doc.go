// Package value provides the tagged-union representation of a plain-data
// save tree: scalars, ordered key/value records, and sequences.
//
// This package contains type definitions only. All other internal packages
// import value; value imports nothing internal. This keeps the data model
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Record fields keep insertion order; order is part of identity
//   - Field names must be unique within a record and non-empty
//   - No cyclic references - the codec only bounds recursion depth
//   - NaN/Infinity floats are undefined behavior; callers must not pass them
package value
