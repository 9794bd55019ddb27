// Caminho: internal/config/config.go
// Resumo: Carrega e expõe variáveis de configuração do painel a partir de variáveis
// de ambiente. Inclui defaults seguros para desenvolvimento e centraliza chaves
// usadas pelo dashboard e pelo devapi.

package config

import (
    "os"
    "strconv"
)

// Config representa as configurações necessárias do painel.
type Config struct {
    DeploymentEnv string
    LogLevel      string

    // API remota do cartório
    APIBaseURL         string
    HTTPTimeoutSeconds int

    // Dashboard
    PageSize    int
    SessionFile string

    // Redis (opcional; quando definido, a sessão é guardada lá)
    RedisHost string
    RedisPort int
    RedisPass string
    RedisURL  string

    // devapi (dublê local da API remota)
    DevAPIAddr               string
    DatabaseURL              string
    SecretKey                string
    TokenAccessExpireSeconds int
    SeedAuthName             string
    SeedAuthEmail            string
    SeedAuthPassword         string

    // Metadados
    ServiceName string
    Version     string
}

// getenv retorna o valor de uma variável de ambiente, ou o default se não definido.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// getenvInt retorna uma variável de ambiente como inteiro, ou o default se ausente/inválido.
func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return def
}

// Load carrega as variáveis de configuração a partir do ambiente e devolve uma instância de Config.
func Load() *Config {
    return &Config{
        DeploymentEnv: getenv("DEPLOYMENT_ENVIRONMENT", "development"),
        LogLevel:      getenv("LOG_LEVEL", "INFO"),

        APIBaseURL:         getenv("API_BASE_URL", "http://vps54701.publiccloud.com.br/api"),
        HTTPTimeoutSeconds: getenvInt("HTTP_TIMEOUT_SECONDS", 30),

        // O painel carrega uma única página com tamanho fixo.
        PageSize:    getenvInt("PAGE_SIZE", 100),
        SessionFile: getenv("SESSION_FILE", ""),

        RedisHost: getenv("REDIS_HOST", ""),
        RedisPort: getenvInt("REDIS_PORT", 0),
        RedisPass: getenv("REDIS_PASSWORD", ""),
        RedisURL:  getenv("REDIS_URL", ""),

        DevAPIAddr:               getenv("DEVAPI_ADDR", ":8080"),
        DatabaseURL:              getenv("DATABASE_URL", ""),
        SecretKey:                getenv("SECRET_KEY", "change-me"),
        TokenAccessExpireSeconds: getenvInt("TOKEN_ACCESS_EXPIRE_SECONDS", 1800),
        SeedAuthName:             getenv("SEED_AUTH_NAME", ""),
        SeedAuthEmail:            getenv("SEED_AUTH_EMAIL", ""),
        SeedAuthPassword:         getenv("SEED_AUTH_PASSWORD", ""),

        ServiceName: getenv("SERVICE_NAME", "itbi_dashboard"),
        Version:     getenv("SERVICE_VERSION", "0.1.0"),
    }
}
