package sql

import (
	"fmt"
	"strings"
)

type (
	// QueryFunction is a db Query that reads data.
	QueryFunction struct {
		name      string
		cols      []string
		arguments []interface{}
	}

	// ExecFunction is a db Query that changes data.
	ExecFunction struct {
		name      string
		arguments []interface{}
	}

	// Statement is a db Query with positional parameters, for databases without stored functions.
	Statement struct {
		cmd       string
		arguments []interface{}
		single    bool
	}

	// RawQuery is a db Query that changes data and has no arguments.
	RawQuery string
)

// NewQueryFunction creates a Query to call a query function.
func NewQueryFunction(name string, cols []string, args ...interface{}) QueryFunction {
	q := QueryFunction{
		name:      name,
		cols:      cols,
		arguments: args,
	}
	return q
}

// NewExecFunction creates a Query to call an exec function.
func NewExecFunction(name string, args ...interface{}) ExecFunction {
	e := ExecFunction{
		name:      name,
		arguments: args,
	}
	return e
}

// NewStatement creates a Query from the sql command and its arguments.
func NewStatement(cmd string, args ...interface{}) Statement {
	s := Statement{
		cmd:       cmd,
		arguments: args,
	}
	return s
}

// NewSingleRowStatement creates a Query that must change exactly one row when executed.
func NewSingleRowStatement(cmd string, args ...interface{}) Statement {
	s := NewStatement(cmd, args...)
	s.single = true
	return s
}

// Cmd returns a SQL string to execute the function with arguments.
func (q QueryFunction) Cmd() string {
	return fmt.Sprintf("SELECT %s FROM %s(%s)", strings.Join(q.cols, ", "), q.name, argIndexes(q.arguments))
}

// Cmd returns a SQL string to execute the function with arguments.
func (e ExecFunction) Cmd() string {
	return fmt.Sprintf("SELECT %s(%s)", e.name, argIndexes(e.arguments))
}

// Cmd returns the SQL statement.
func (s Statement) Cmd() string {
	return s.cmd
}

// Cmd returns the raw SQL query.
func (r RawQuery) Cmd() string {
	return string(r)
}

// Args returns the arguments for the query function.
func (q QueryFunction) Args() []interface{} {
	return q.arguments
}

// Args returns the arguments for the exec function.
func (e ExecFunction) Args() []interface{} {
	return e.arguments
}

// Args returns the arguments for the statement.
func (s Statement) Args() []interface{} {
	return s.arguments
}

// Args returns nil for the raw SQL query.
func (RawQuery) Args() []interface{} {
	return nil
}

// singleRow is true for all exec functions.
func (e ExecFunction) singleRow() (string, bool) {
	return e.name, true
}

// singleRow is true for single row statements.
func (s Statement) singleRow() (string, bool) {
	return s.cmd, s.single
}

// argIndexes creates the postgres-style positional parameters for the arguments: "$1, $2, ..."
func argIndexes(args []interface{}) string {
	indexes := make([]string, len(args))
	for i := range indexes {
		indexes[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(indexes, ", ")
}
