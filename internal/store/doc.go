// Package store implements the collection contract every household record
// kind is persisted through, and the two interchangeable backends behind it.
//
// A Collection exposes five operations: GetAll, Add, Update, Delete and
// SetAll. Every mutating call returns the collection's post-mutation
// snapshot, so callers can resynchronize without a separate read.
//
// # Backends
//
//   - LocalCollection: one canonical-JSON blob per kind in a kv.Store.
//     Single-item operations read the whole blob, transform it and write it
//     back.
//   - RemoteCollection: one relational table per kind, one statement per
//     operation, followed by a re-read of the table.
//
// # Failure Model
//
// No operation returns an error. Failures are logged, counted in Metrics,
// and the caller receives a best-effort snapshot. A failed local write is
// additionally reported once per session through the Notifier. There are no
// retries.
//
// # Known Limitations
//
// RemoteCollection.SetAll is a delete of ids not in the new set followed by
// an upsert of the new set, issued as two separate calls. A reader between
// the two sees an incomplete collection, and two overlapping SetAll calls on
// one table race: whichever response lands last wins, not whichever call was
// issued last. There is no versioning and no conflict detection; concurrent
// sessions overwrite each other field by field (Update) or wholesale (SetAll).
//
// # Binding
//
// Factory decides once per kind whether a collection is remote (a remote
// endpoint is configured and the kind has a table mapping) or local. The
// binding cannot change for the lifetime of the Factory.
package store
