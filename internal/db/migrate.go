// Caminho: internal/db/migrate.go
// Resumo: Migrações mínimas do devapi: tabelas de usuários e de protocolos de ITBI.

package db

import (
    "context"
    "database/sql"
)

// Migrate aplica o schema mínimo para o dublê local da API do cartório.
func Migrate(ctx context.Context, sqldb *sql.DB) error {
    var stmts []string
    if IsPostgres() {
        stmts = []string{
            `CREATE TABLE IF NOT EXISTS usuarios (
                id BIGSERIAL PRIMARY KEY,
                nome TEXT NOT NULL,
                email TEXT NOT NULL UNIQUE,
                senha_hash TEXT NOT NULL,
                criado_em TIMESTAMPTZ NOT NULL DEFAULT NOW()
            );`,
            `CREATE TABLE IF NOT EXISTS protocolos_itbi (
                id BIGSERIAL PRIMARY KEY,
                nome_cliente TEXT NOT NULL,
                telefone_cliente TEXT NOT NULL,
                numero_protocolo TEXT NOT NULL DEFAULT '',
                solicitado_id INTEGER NOT NULL DEFAULT 1,
                enviado_id INTEGER NOT NULL DEFAULT 1,
                data_cadastro TIMESTAMPTZ NOT NULL DEFAULT NOW()
            );`,
            `CREATE INDEX IF NOT EXISTS idx_protocolos_nome ON protocolos_itbi(nome_cliente);`,
        }
    } else {
        stmts = []string{
            `CREATE TABLE IF NOT EXISTS usuarios (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                nome TEXT NOT NULL,
                email TEXT NOT NULL UNIQUE,
                senha_hash TEXT NOT NULL,
                criado_em TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
            );`,
            `CREATE TABLE IF NOT EXISTS protocolos_itbi (
                id INTEGER PRIMARY KEY AUTOINCREMENT,
                nome_cliente TEXT NOT NULL,
                telefone_cliente TEXT NOT NULL,
                numero_protocolo TEXT NOT NULL DEFAULT '',
                solicitado_id INTEGER NOT NULL DEFAULT 1,
                enviado_id INTEGER NOT NULL DEFAULT 1,
                data_cadastro TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
            );`,
            `CREATE INDEX IF NOT EXISTS idx_protocolos_nome ON protocolos_itbi(nome_cliente);`,
        }
    }
    for _, stmt := range stmts {
        if _, err := sqldb.ExecContext(ctx, stmt); err != nil {
            return err
        }
    }
    return nil
}
