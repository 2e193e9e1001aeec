package mocks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
)

// DB returns a *sql.DB backed by a stub driver whose transactions are
// no-ops. It lets code built around store.RunInTransaction run in unit
// tests: Begin, Commit and Rollback all succeed, while any attempt to
// actually prepare a statement fails. The store mocks never touch the
// transaction they are handed, so this is sufficient.
func DB() *sql.DB {
	return sql.OpenDB(stubConnector{})
}

type stubConnector struct{}

func (stubConnector) Connect(context.Context) (driver.Conn, error) { return stubConn{}, nil }
func (stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("stub connection cannot prepare statements")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }
