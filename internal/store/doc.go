// Package store defines the persistence interfaces and errors that the
// service layer depends on. Implementations live under platform/postgres.
package store
