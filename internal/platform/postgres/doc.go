// Package postgres implements the store interfaces on PostgreSQL using the
// pgx stdlib driver over database/sql.
package postgres
