// Caminho: internal/db/db.go
// Resumo: Conexão com o banco do devapi a partir de DATABASE_URL, com suporte a
// Postgres (pgx) e SQLite (modernc, Go puro), e reescrita de placeholders.

package db

import (
    "database/sql"
    "fmt"
    "strconv"
    "strings"

    _ "github.com/jackc/pgx/v5/stdlib" // registra driver pgx
    _ "modernc.org/sqlite"             // registra driver sqlite puro Go
)

// Driver representa os drivers suportados.
type Driver string

const (
    DriverSQLite   Driver = "sqlite"
    DriverPostgres Driver = "pgx"
)

var currentDriver = DriverSQLite

// IsPostgres informa se o driver ativo é Postgres.
func IsPostgres() bool { return currentDriver == DriverPostgres }

// ParseDSN interpreta DATABASE_URL e devolve o driver e o DSN para database/sql.
// Aceita postgres://... e sqlite:///caminho.db; vazio usa SQLite em arquivo local.
func ParseDSN(databaseURL string) (Driver, string) {
    switch {
    case databaseURL == "":
        return DriverSQLite, sqliteDSN("itbi_devapi.db")
    case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
        return DriverPostgres, databaseURL
    case strings.HasPrefix(databaseURL, "sqlite://"):
        path := strings.TrimPrefix(databaseURL, "sqlite://")
        path = strings.TrimPrefix(path, "/") // aceita três barras
        return DriverSQLite, sqliteDSN(path)
    default:
        // Qualquer outra coisa é tratada como caminho de arquivo SQLite.
        return DriverSQLite, sqliteDSN(databaseURL)
    }
}

func sqliteDSN(path string) string {
    return fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)", path)
}

// Connect abre e valida a conexão a partir de DATABASE_URL.
func Connect(databaseURL string) (*sql.DB, error) {
    driver, dsn := ParseDSN(databaseURL)
    sqldb, err := sql.Open(string(driver), dsn)
    if err != nil {
        return nil, fmt.Errorf("open db: %w", err)
    }
    if err := sqldb.Ping(); err != nil {
        return nil, fmt.Errorf("ping db: %w", err)
    }
    currentDriver = driver
    return sqldb, nil
}

// Rebind converte placeholders '?' para o formato do driver ativo:
// $1, $2, ... no Postgres; inalterado no SQLite.
func Rebind(query string) string {
    if !IsPostgres() {
        return query
    }
    var b strings.Builder
    b.Grow(len(query) + 8)
    n := 0
    for i := 0; i < len(query); i++ {
        if query[i] == '?' {
            n++
            b.WriteByte('$')
            b.WriteString(strconv.Itoa(n))
        } else {
            b.WriteByte(query[i])
        }
    }
    return b.String()
}
