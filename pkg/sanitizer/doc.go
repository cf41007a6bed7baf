// Package sanitizer provides input normalization for slot and identity data.
//
// All normalization functions are idempotent: applying them twice gives the
// same result as applying them once. Invalid input yields empty strings or
// empty slices rather than errors; validation happens afterwards.
//
// Normalization includes:
//   - Free text (titles, locations): strip control characters, collapse whitespace, trim
//   - Roles: lowercase and trimmed
//   - Slices: remove duplicates and empty values after normalization
package sanitizer
