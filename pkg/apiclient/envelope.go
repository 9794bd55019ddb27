// Caminho: pkg/apiclient/envelope.go
// Resumo: Envelope {success, message, data, errors} usado por todas as respostas
// da API e o erro tipado que o painel propaga aos chamadores.

package apiclient

import (
	"sort"
	"strings"
)

// Envelope é o invólucro de toda resposta da API. O chamador decide por
// Success, nunca apenas pelo status de transporte.
type Envelope[T any] struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *T                  `json:"data"`
	Errors  map[string][]string `json:"errors,omitempty"`

	// HTTPStatus é preenchido pelo transporte; não vem no JSON.
	HTTPStatus int `json:"-"`
}

// Err devolve um *APIError quando o envelope indica falha; nil caso contrário.
// A mensagem do servidor tem preferência; fallback é a mensagem genérica da operação.
func (e Envelope[T]) Err(fallback string) error {
	if e.Success {
		return nil
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = fallback
	}
	return &APIError{Status: e.HTTPStatus, Message: msg, Details: e.Errors}
}

// APIError carrega a falha devolvida pelo servidor (ou uma resposta fora do
// contrato), incluindo o mapa estruturado de erros por campo quando presente.
type APIError struct {
	Status  int
	Message string
	Details map[string][]string
}

func (e *APIError) Error() string {
	msgs := e.AllMessages()
	if len(msgs) == 0 {
		return e.Message
	}
	return strings.Join(msgs, "; ")
}

// AllMessages devolve a mensagem principal seguida de cada mensagem individual
// do mapa de erros, em ordem estável de campo. Cada uma deve ser exibida.
func (e *APIError) AllMessages() []string {
	var out []string
	if strings.TrimSpace(e.Message) != "" {
		out = append(out, e.Message)
	}
	if len(e.Details) > 0 {
		campos := make([]string, 0, len(e.Details))
		for c := range e.Details {
			campos = append(campos, c)
		}
		sort.Strings(campos)
		for _, c := range campos {
			out = append(out, e.Details[c]...)
		}
	}
	return out
}
