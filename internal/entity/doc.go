// Package entity defines the household records stored by hearth.
//
// Every record kind is a plain struct with a caller-assigned string id. The
// package also carries the per-kind metadata the stores need:
//   - the fixed blob key used by the local cache
//   - the column schema used by relational table drivers
//   - canonical JSON encoding for persisted blobs
//   - patch application (field-level, last value wins)
//
// entity imports nothing internal; store, household and the table drivers all
// build on it.
package entity
