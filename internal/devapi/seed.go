// Caminho: internal/devapi/seed.go
// Resumo: Criação do usuário inicial do devapi a partir de variáveis de ambiente.

package devapi

import (
	"context"
	"database/sql"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/lfcontato/itbi_dashboard/internal/db"
)

// SeedUser cria o usuário SEED_AUTH_* se ainda não existir. Sem as variáveis
// definidas, apenas registra e segue; o cadastro via /Auth/register continua
// disponível.
func SeedUser(ctx context.Context, sqldb *sql.DB, nome, email, senha string) error {
	if nome == "" || email == "" || senha == "" {
		log.Println("SEED_AUTH_* não definidos, omitindo seed")
		return nil
	}
	var count int
	if err := sqldb.QueryRowContext(ctx, db.Rebind(`SELECT COUNT(1) FROM usuarios WHERE email = ?`), email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Println("Usuário seed já existe, pulando criação")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := sqldb.ExecContext(ctx, db.Rebind(`INSERT INTO usuarios (nome, email, senha_hash) VALUES (?,?,?)`), nome, email, string(hash)); err != nil {
		return err
	}
	log.Println("Usuário seed criado com sucesso")
	return nil
}
