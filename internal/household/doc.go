// Package household holds the in-memory state of one household session and
// the operations that change it.
//
// Every mutation follows the same optimistic pattern:
//
//  1. The new state is computed and applied synchronously, under the
//     controller's mutex, in the order calls are made.
//  2. The matching store.Collection call is started on its own goroutine.
//  3. The snapshot the store returns is discarded.
//
// The in-memory state is therefore never reconciled with the store during a
// session. A failed or reordered store call leaves the two diverged until the
// next Load. Wait blocks until every started store call has returned.
package household
