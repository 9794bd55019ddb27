// Caminho: internal/domain/models_test.go
// Resumo: Testes dos modelos centrais: validade de sessão, contadores agregados
// e mensagens de erro de validação.

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionValid(t *testing.T) {
	agora := time.Now()

	casos := []struct {
		nome   string
		sess   Session
		espera bool
	}{
		{"completa e futura", Session{Token: "abc", ExpiresAt: agora.Add(time.Hour)}, true},
		{"sem token", Session{ExpiresAt: agora.Add(time.Hour)}, false},
		{"sem expiração", Session{Token: "abc"}, false},
		{"expirada", Session{Token: "abc", ExpiresAt: agora.Add(-time.Minute)}, false},
		{"expira exatamente agora", Session{Token: "abc", ExpiresAt: agora}, false},
		{"vazia", Session{}, false},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.espera, c.sess.Valid(agora))
		})
	}
}

func TestComputeStats(t *testing.T) {
	// Conjunto de referência: concluído, pendente puro e enviado só faltando.
	items := []Itbi{
		{ID: 1, Solicitado: StatusSim, Enviado: StatusSim},
		{ID: 2, Solicitado: StatusPendente, Enviado: StatusNao},
		{ID: 3, Solicitado: StatusSim, Enviado: StatusNao},
	}
	st := ComputeStats(items)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.PendingSent)
	assert.Equal(t, 1, st.Completed)
}

func TestComputeStatsVazio(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))
	assert.Equal(t, Stats{}, ComputeStats([]Itbi{}))
}

func TestComputeStatsPendenteContaComoNaoEnviado(t *testing.T) {
	// Enviado Pendente e enviado Não contam igual nos envios pendentes.
	st := ComputeStats([]Itbi{
		{Enviado: StatusPendente},
		{Enviado: StatusNao},
		{Enviado: StatusSim},
	})
	assert.Equal(t, 2, st.PendingSent)
}

func TestValidationErrorMensagens(t *testing.T) {
	ve := &ValidationError{Campos: map[string][]string{
		"telefoneCliente": {MsgTelefoneInvalido},
		"nomeCliente":     {"Nome do cliente é obrigatório"},
	}}
	msgs := ve.Mensagens()
	require.Len(t, msgs, 2)
	// Ordem estável por campo.
	assert.Equal(t, "Nome do cliente é obrigatório", msgs[0])
	assert.Equal(t, MsgTelefoneInvalido, msgs[1])
	assert.Contains(t, ve.Error(), "nomeCliente")
}
