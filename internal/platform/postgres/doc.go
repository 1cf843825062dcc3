// Package postgres provides PostgreSQL implementations of the store
// interfaces. Stores accept a store.DBTX so the same implementation runs
// against the pool or inside a transaction via WithTx.
package postgres
