// Caminho: internal/kv/redis.go
// Resumo: Implementação de Store em Redis (go-redis/v9), opcional, para quando a
// sessão do painel precisa ser compartilhada entre estações.

package kv

import (
    "context"

    "github.com/redis/go-redis/v9"
)

// RedisStore guarda as chaves de sessão com um prefixo fixo.
type RedisStore struct {
    client *redis.Client
    prefix string
}

// NewRedisStore inicializa o cliente usando REDIS_URL (URI) ou addr/pass separados.
func NewRedisStore(redisURL, host string, port int, pass, prefix string) (*RedisStore, error) {
    if prefix == "" { prefix = "itbi:sessao:" }
    if redisURL != "" {
        opt, err := redis.ParseURL(redisURL)
        if err != nil { return nil, err }
        return &RedisStore{client: redis.NewClient(opt), prefix: prefix}, nil
    }
    addr := host
    if port > 0 { addr = host + ":" + itoa(port) }
    // Para TLS prefira REDIS_URL; aqui só addr/senha simples.
    return &RedisStore{client: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: 0}), prefix: prefix}, nil
}

// Get recupera uma string; retorna "" e nil se não existir.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
    v, err := s.client.Get(ctx, s.prefix+key).Result()
    if err == redis.Nil { return "", nil }
    return v, err
}

// SetAll grava o grupo em um pipeline transacional (sem TTL: expiração é dado da sessão).
func (s *RedisStore) SetAll(ctx context.Context, vals map[string]string) error {
    pipe := s.client.TxPipeline()
    for k, v := range vals {
        pipe.Set(ctx, s.prefix+k, v, 0)
    }
    _, err := pipe.Exec(ctx)
    return err
}

// Del remove chaves como um grupo.
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
    full := make([]string, len(keys))
    for i, k := range keys {
        full[i] = s.prefix + k
    }
    return s.client.Del(ctx, full...).Err()
}

// itoa simples
func itoa(n int) string {
    if n == 0 { return "0" }
    b := [12]byte{}
    i := len(b)
    for n > 0 { i--; b[i] = byte('0' + n%10); n /= 10 }
    return string(b[i:])
}
