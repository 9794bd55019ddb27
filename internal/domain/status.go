// Caminho: internal/domain/status.go
// Resumo: Enum de status de workflow (Pendente/Sim/Não) com codec bidirecional
// entre o id numérico (escrita) e a descrição textual (leitura).

package domain

import "strings"

// Status é o valor de workflow usado nos campos solicitado e enviado.
// Internamente só o enum existe; id e descrição são derivados na borda.
type Status int

const (
	StatusPendente Status = 1
	StatusSim      Status = 2
	StatusNao      Status = 3
)

// ParseStatus decodifica a descrição exibida pela API. Qualquer valor
// desconhecido cai em Pendente (nunca falha).
func ParseStatus(descricao string) Status {
	switch strings.TrimSpace(descricao) {
	case "Sim":
		return StatusSim
	case "Não":
		return StatusNao
	default:
		return StatusPendente
	}
}

// StatusFromID converte o id numérico do backend; ids fora de 1..3 caem em Pendente.
func StatusFromID(id int) Status {
	switch Status(id) {
	case StatusSim:
		return StatusSim
	case StatusNao:
		return StatusNao
	default:
		return StatusPendente
	}
}

// ID devolve a forma numérica, autoritativa na escrita.
func (s Status) ID() int {
	switch s {
	case StatusSim, StatusNao:
		return int(s)
	default:
		return int(StatusPendente)
	}
}

// Descricao devolve a forma textual, autoritativa na leitura.
func (s Status) Descricao() string {
	switch s {
	case StatusSim:
		return "Sim"
	case StatusNao:
		return "Não"
	default:
		return "Pendente"
	}
}

func (s Status) String() string { return s.Descricao() }
