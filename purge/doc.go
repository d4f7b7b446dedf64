// Package purge empties the tables of the target store before fixtures are
// applied.
//
// Tables are removed children first, following foreign keys, so plain
// DELETE statements never trip a constraint. Two modes exist: ModeDelete
// issues DELETE FROM per table; ModeTruncate also resets identity
// sequences (TRUNCATE ... RESTART IDENTITY on PostgreSQL, sqlite_sequence
// on SQLite).
package purge
