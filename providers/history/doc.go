// Package history defines the Store interface for persisting solved
// questions per user, together with the Entry type stored in it.
//
// Two implementations are provided:
//   - inmemory: a mutex-guarded map, suitable for tests and single-process
//     deployments.
//   - pghistory: PostgreSQL persistence via pgx, with the answer stored as JSONB.
//
// Stores are scoped by user id on every read and delete: a user can never list
// or remove another user's entries.
package history
