package sql

import "database/sql/driver"

// MockDriver implements the sql/driver.Driver interface.
type MockDriver struct {
	OpenFunc func(name string) (driver.Conn, error)
}

// Open creates a new connection.
func (m MockDriver) Open(name string) (driver.Conn, error) {
	return m.OpenFunc(name)
}

// MockDriverConn implements the sql/driver.Conn interface.
type MockDriverConn struct {
	PrepareFunc func(query string) (driver.Stmt, error)
	CloseFunc   func() error
	BeginFunc   func() (driver.Tx, error)
}

func (m MockDriverConn) Prepare(query string) (driver.Stmt, error) {
	return m.PrepareFunc(query)
}

func (m MockDriverConn) Close() error {
	return m.CloseFunc()
}

func (m MockDriverConn) Begin() (driver.Tx, error) {
	return m.BeginFunc()
}

// MockDriverStmt implements the sql/driver.Stmt interface.
type MockDriverStmt struct {
	CloseFunc    func() error
	NumInputFunc func() int
	ExecFunc     func(args []driver.Value) (driver.Result, error)
	QueryFunc    func(args []driver.Value) (driver.Rows, error)
}

func (m MockDriverStmt) Close() error {
	return m.CloseFunc()
}

func (m MockDriverStmt) NumInput() int {
	return m.NumInputFunc()
}

func (m MockDriverStmt) Exec(args []driver.Value) (driver.Result, error) {
	return m.ExecFunc(args)
}

func (m MockDriverStmt) Query(args []driver.Value) (driver.Rows, error) {
	return m.QueryFunc(args)
}

// MockDriverTx implements the sql/driver/Tx interface.
type MockDriverTx struct {
	CommitFunc   func() error
	RollbackFunc func() error
}

func (m MockDriverTx) Commit() error {
	return m.CommitFunc()
}

func (m MockDriverTx) Rollback() error {
	return m.RollbackFunc()
}

// MockDriverResult implements the sql/driver.Result interface.
type MockDriverResult struct {
	LastInsertIDFunc func() (int64, error)
	RowsAffectedFunc func() (int64, error)
}

func (m MockDriverResult) LastInsertId() (int64, error) {
	return m.LastInsertIDFunc()
}

func (m MockDriverResult) RowsAffected() (int64, error) {
	return m.RowsAffectedFunc()
}

// MockDriverRows implements the sql/driver.Rows interface.
type MockDriverRows struct {
	ColumnsFunc func() []string
	CloseFunc   func() error
	NextFunc    func(dest []driver.Value) error
}

func (m MockDriverRows) Columns() []string {
	return m.ColumnsFunc()
}

func (m MockDriverRows) Close() error {
	return m.CloseFunc()
}

func (m MockDriverRows) Next(dest []driver.Value) error {
	return m.NextFunc(dest)
}

// MockScanner implements the Scanner interface.
type MockScanner struct {
	ScanFunc func(dest ...interface{}) error
}

func (m MockScanner) Scan(dest ...interface{}) error {
	return m.ScanFunc(dest...)
}
