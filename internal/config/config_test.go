// Caminho: internal/config/config_test.go
// Resumo: Testes dos defaults e da leitura de variáveis de ambiente.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"API_BASE_URL", "PAGE_SIZE", "HTTP_TIMEOUT_SECONDS", "SECRET_KEY", "DEVAPI_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "http://vps54701.publiccloud.com.br/api", cfg.APIBaseURL)
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 30, cfg.HTTPTimeoutSeconds)
	assert.Equal(t, 1800, cfg.TokenAccessExpireSeconds)
	assert.Equal(t, ":8080", cfg.DevAPIAddr)
	assert.Equal(t, "change-me", cfg.SecretKey)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadLeAmbiente(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080/api")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg := Load()
	assert.Equal(t, "http://localhost:8080/api", cfg.APIBaseURL)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestGetenvIntInvalidoUsaDefault(t *testing.T) {
	t.Setenv("PAGE_SIZE", "cem")
	cfg := Load()
	assert.Equal(t, 100, cfg.PageSize)
}
