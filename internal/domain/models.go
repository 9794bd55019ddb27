// Caminho: internal/domain/models.go
// Resumo: Modelos de domínio do painel ITBI (sessão, protocolo, estatísticas, identidade)
// e erros centrais usados pelos serviços.

package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Session representa a prova de autenticação mantida pelo cliente.
// Ou os quatro campos existem e são consistentes, ou a sessão está ausente.
type Session struct {
	Token     string
	UserName  string
	UserID    string
	ExpiresAt time.Time
}

// Valid informa se a sessão é utilizável: token presente e expiração no futuro.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && !s.ExpiresAt.IsZero() && s.ExpiresAt.After(now)
}

// UserIdentity é a identidade devolvida pelo cadastro (não gera sessão; o
// usuário precisa efetuar login em seguida).
type UserIdentity struct {
	ID    string
	Name  string
	Email string
}

// Itbi é o protocolo de ITBI espelhado da API remota. O cliente nunca guarda
// um protocolo parcial ou especulativo: todo item reflete a última busca.
type Itbi struct {
	ID              int64
	NomeCliente     string
	TelefoneCliente string
	NumeroProtocolo string
	Solicitado      Status
	Enviado         Status
	DataCadastro    time.Time
}

// Stats agrega os contadores derivados do conjunto carregado.
type Stats struct {
	Total       int
	PendingSent int
	Completed   int
}

// ComputeStats deriva os contadores a partir do conjunto atual:
// Total conta todos; PendingSent conta enviado != Sim; Completed conta
// solicitado == Sim e enviado == Sim.
func ComputeStats(items []Itbi) Stats {
	st := Stats{Total: len(items)}
	for _, it := range items {
		if it.Enviado != StatusSim {
			st.PendingSent++
		}
		if it.Solicitado == StatusSim && it.Enviado == StatusSim {
			st.Completed++
		}
	}
	return st
}

// Erros comuns de domínio.
var (
	ErrSessaoAusente = errors.New("sessão ausente ou expirada")
	ErrNaoEncontrado = errors.New("registro não encontrado")
)

// ValidationError carrega mensagens de validação por campo, detectadas antes
// de qualquer chamada de rede.
type ValidationError struct {
	Campos map[string][]string
}

// Error devolve todas as mensagens em ordem estável de campo.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Campos) == 0 {
		return "dados inválidos"
	}
	campos := make([]string, 0, len(e.Campos))
	for c := range e.Campos {
		campos = append(campos, c)
	}
	sort.Strings(campos)
	var b strings.Builder
	for i, c := range campos {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fmt.Sprintf("%s: %s", c, strings.Join(e.Campos[c], "; ")))
	}
	return b.String()
}

// Mensagens devolve a lista plana de mensagens, uma por violação.
func (e *ValidationError) Mensagens() []string {
	if e == nil {
		return nil
	}
	campos := make([]string, 0, len(e.Campos))
	for c := range e.Campos {
		campos = append(campos, c)
	}
	sort.Strings(campos)
	var out []string
	for _, c := range campos {
		out = append(out, e.Campos[c]...)
	}
	return out
}
