// Caminho: internal/kv/store.go
// Resumo: Abstração de armazenamento durável chave-valor para a sessão do painel,
// no papel que o localStorage cumpre no navegador.

package kv

import "context"

// Store guarda pares chave-valor de forma durável. SetAll e Del operam sobre o
// grupo inteiro, garantindo que a sessão nunca fique em estado parcial.
type Store interface {
	// Get devolve o valor da chave, ou "" (sem erro) quando ausente.
	Get(ctx context.Context, key string) (string, error)
	// SetAll grava todas as chaves do mapa como um grupo atômico.
	SetAll(ctx context.Context, vals map[string]string) error
	// Del remove as chaves informadas como um grupo.
	Del(ctx context.Context, keys ...string) error
}
