package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	tableName    = "preco_soja"
	stagingTable = "stg_preco_soja"
	maxPracaLen  = 120
	// escala das colunas numeric(10,2) / numeric(6,2)
	storageScale = 2
)

const createTablePostgres = `
CREATE TABLE IF NOT EXISTS preco_soja (
	data    date          NOT NULL,
	uf      char(2)       NOT NULL,
	praca   varchar(120)  NOT NULL,
	compra  numeric(10,2) NOT NULL,
	var_dia numeric(6,2),
	var_sem numeric(6,2),
	var_mes numeric(6,2),
	fonte   varchar(100)  NOT NULL DEFAULT 'AgRural',
	load_ts timestamptz   NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT pk_preco_soja PRIMARY KEY (data, uf, praca)
)`

const createTableSQLite = `
CREATE TABLE IF NOT EXISTS preco_soja (
	data    TEXT    NOT NULL,
	uf      TEXT    NOT NULL,
	praca   TEXT    NOT NULL,
	compra  NUMERIC NOT NULL,
	var_dia NUMERIC,
	var_sem NUMERIC,
	var_mes NUMERIC,
	fonte   TEXT    NOT NULL DEFAULT 'AgRural',
	load_ts TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (data, uf, praca)
)`

// EnsureSchema creates preco_soja when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	var ddl string
	switch driver {
	case DriverPostgres:
		ddl = createTablePostgres
	case DriverSQLite:
		ddl = createTableSQLite
	default:
		return fmt.Errorf("driver de banco desconhecido: %q", driver)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	return nil
}
