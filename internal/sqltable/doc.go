// Package sqltable provides SQLite-backed relational tables for remote
// collections.
//
// Each collection kind maps to one table whose primary key is the record id
// and whose other columns are named after the record's JSON fields. Tables
// are created on demand with CREATE TABLE IF NOT EXISTS; entity tables are
// never migrated.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Bookkeeping (the hearth_tables registry) is versioned through
// PRAGMA user_version.
//
// Every Table method is a single statement or a single transaction. Nothing
// spans two calls, so callers that chain calls see intermediate states.
package sqltable
