package db

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// NewSQLite opens a SQLite database with a single connection, so temp
// staging tables live on the same connection as the merge that reads them.
func NewSQLite(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
