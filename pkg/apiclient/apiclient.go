// Caminho: pkg/apiclient/apiclient.go
// Resumo: Cliente HTTP compartilhado da API do cartório. Injeta o Bearer da sessão
// em toda requisição, decodifica o envelope {success, message, data} e dispara o
// efeito global de 401 (limpar sessão + decisão de redirecionamento).

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource entrega o token corrente da sessão ("" quando ausente).
type TokenSource interface {
	Token() string
}

// Decision é o resultado puro do interceptador de 401: o que fazer, sem fazer.
type Decision struct {
	ClearSession bool
	RedirectTo   string
}

// DecideUnauthorized é a regra do interceptador: sempre limpar a sessão e
// redirecionar para /login, exceto quando a rota atual já é a de login
// (evita laço de redirecionamento).
func DecideUnauthorized(currentPath string) Decision {
	d := Decision{ClearSession: true}
	if !strings.Contains(currentPath, "/login") {
		d.RedirectTo = "/login"
	}
	return d
}

// Client é o transporte compartilhado por todos os serviços do painel.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenSource

	// Unauthorized recebe a decisão já tomada para qualquer resposta 401.
	// O dono do cliente executa o efeito (limpar sessão, navegar).
	Unauthorized func(d Decision)
}

// New cria o cliente com timeout padrão; tokens e hook são ligados pela raiz
// de composição.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Do executa uma requisição JSON e decodifica o envelope da resposta.
// Erros de transporte voltam como erro; envelope com success=false volta sem
// erro e o chamador decide via Envelope.Err.
func Do[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (Envelope[T], error) {
	var env Envelope[T]

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return env, fmt.Errorf("serializar corpo %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	full := c.BaseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return env, fmt.Errorf("montar requisição %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.Tokens != nil {
		if tok := c.Tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		logWarn("%s %s falhou: %v", method, path, err)
		return env, fmt.Errorf("requisição %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	logDebug("%s %s -> %d (%s)", method, path, resp.StatusCode, time.Since(start).String())

	// Efeito global: qualquer 401 limpa a sessão, uma única vez por resposta.
	if resp.StatusCode == http.StatusUnauthorized && c.Unauthorized != nil {
		c.Unauthorized(DecideUnauthorized(path))
	}

	env.HTTPStatus = resp.StatusCode
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// Resposta fora do contrato de envelope: trate como falha da operação.
		env.Success = false
		if env.Message == "" {
			env.Message = fmt.Sprintf("resposta inesperada da API (HTTP %d)", resp.StatusCode)
		}
	}
	return env, nil
}
