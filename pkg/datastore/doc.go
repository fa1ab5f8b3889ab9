// Package datastore owns qcd's sqlite database: opening (or creating) the
// file, creating the schema, and running each logical operation inside one
// transaction.
//
// Every transaction is started with BEGIN IMMEDIATE, so a read-modify-write
// sequence (pop, swap, add with auto index) holds the write lock from its
// first read. Two qcd processes racing on the same session therefore never
// observe the same top entry. When another process keeps the lock longer
// than the configured busy timeout the operation fails with
// ErrStorageBusy. A file that is not a sqlite database fails with
// ErrStorageCorrupt.
//
// The registry and stack packages build on Querier and never see *sql.DB.
package datastore
