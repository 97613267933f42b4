// Package pghistory implements history.Store on PostgreSQL using pgx.
//
// The store accepts any Querier, so a *pgxpool.Pool and a pgx.Tx both work.
// Call EnsureSchema once at startup for development setups; production
// deployments are expected to manage the table with migration tooling.
package pghistory
