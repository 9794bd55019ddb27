// Caminho: cmd/devapi/main.go
// Resumo: Servidor HTTP local que faz as vezes da API remota do cartório durante o
// desenvolvimento do painel. Conecta o banco, aplica migrações, cria o usuário
// seed e expõe /api em localhost.

package main

import (
    "context"
    "log"
    "net/http"
    "time"

    "github.com/joho/godotenv"

    "github.com/lfcontato/itbi_dashboard/internal/config"
    "github.com/lfcontato/itbi_dashboard/internal/db"
    "github.com/lfcontato/itbi_dashboard/internal/devapi"
)

// main inicializa as dependências e sobe o dublê da API.
func main() {
    _ = godotenv.Load()
    cfg := config.Load()

    sqldb, err := db.Connect(cfg.DatabaseURL)
    if err != nil { log.Fatalf("db connect: %v", err) }
    if err := db.Migrate(context.Background(), sqldb); err != nil { log.Fatalf("migrate: %v", err) }
    if err := devapi.SeedUser(context.Background(), sqldb, cfg.SeedAuthName, cfg.SeedAuthEmail, cfg.SeedAuthPassword); err != nil {
        log.Fatalf("seed: %v", err)
    }

    ttl := time.Duration(cfg.TokenAccessExpireSeconds) * time.Second
    srv := devapi.New(sqldb, cfg.SecretKey, ttl)

    log.Printf("devapi iniciado em http://localhost%v/api", cfg.DevAPIAddr)
    if err := http.ListenAndServe(cfg.DevAPIAddr, srv.Router()); err != nil {
        log.Fatalf("server error: %v", err)
    }
}
