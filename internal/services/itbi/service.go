// Caminho: internal/services/itbi/service.go
// Resumo: Agregador de protocolos ITBI: busca paginada com substituição integral do
// conjunto em memória, estatísticas derivadas, filtro por termo e operações de
// criação, edição e exclusão contra a API remota.

package itbisvc

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lfcontato/itbi_dashboard/internal/domain"
	"github.com/lfcontato/itbi_dashboard/pkg/apiclient"
)

// Mensagens genéricas por operação, usadas quando o envelope não traz a do servidor.
const (
	MsgErroCarregar  = "Erro ao carregar dados"
	MsgErroCriar     = "Erro ao criar ITBI"
	MsgErroAtualizar = "Erro ao atualizar ITBI"
	MsgErroExcluir   = "Erro ao excluir"
)

// O painel carrega uma única página; a API limita o tamanho em 100.
const (
	DefaultPageSize = 100
	MaxPageSize     = 100
)

// Service mantém o conjunto carregado e tudo que deriva dele.
type Service struct {
	api *apiclient.Client

	mu    sync.Mutex
	seq   uint64 // última busca iniciada; respostas de buscas superadas são descartadas
	items []domain.Itbi
	stats domain.Stats
	termo string
}

// New cria o agregador sobre o transporte compartilhado.
func New(api *apiclient.Client) *Service {
	return &Service{api: api}
}

type itbiItemWire struct {
	ID                  int64  `json:"id"`
	NomeCliente         string `json:"nomeCliente"`
	TelefoneCliente     string `json:"telefoneCliente"`
	NumeroProtocolo     string `json:"numeroProtocolo"`
	SolicitadoDescricao string `json:"solicitadoDescricao"`
	EnviadoDescricao    string `json:"enviadoDescricao"`
	DataCadastro        string `json:"dataCadastro"`
}

type listaWire struct {
	PageNumber   int            `json:"pageNumber"`
	PageSize     int            `json:"pageSize"`
	TotalRecords int            `json:"totalRecords"`
	Items        []itbiItemWire `json:"items"`
}

type createWire struct {
	NomeCliente     string `json:"nomeCliente"`
	TelefoneCliente string `json:"telefoneCliente"`
}

type updateWire struct {
	ID              int64  `json:"id"`
	NomeCliente     string `json:"nomeCliente"`
	TelefoneCliente string `json:"telefoneCliente"`
	SolicitadoID    int    `json:"solicitadoId"`
	NumeroProtocolo string `json:"numeroProtocolo"`
	EnviadoID       int    `json:"enviadoId"`
}

type deleteWire struct {
	ID           int64  `json:"id"`
	Sucesso      bool   `json:"sucesso"`
	DataExclusao string `json:"dataExclusao"`
}

// decodeItem converte o item do fio para o modelo de domínio. A descrição é
// autoritativa na leitura; desconhecida vira Pendente.
func decodeItem(w itbiItemWire) domain.Itbi {
	return domain.Itbi{
		ID:              w.ID,
		NomeCliente:     w.NomeCliente,
		TelefoneCliente: w.TelefoneCliente,
		NumeroProtocolo: w.NumeroProtocolo,
		Solicitado:      domain.ParseStatus(w.SolicitadoDescricao),
		Enviado:         domain.ParseStatus(w.EnviadoDescricao),
		DataCadastro:    parseData(w.DataCadastro),
	}
}

// parseData aceita RFC3339 e o formato sem fuso que a API costuma devolver.
func parseData(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
		return t
	}
	return time.Time{}
}

// FetchPage busca uma página e substitui o conjunto em memória por inteiro,
// recomputando as estatísticas. Se outra busca foi iniciada enquanto esta
// aguardava resposta, o resultado atrasado é descartado e o conjunto corrente
// (da busca mais recente) é devolvido.
func (s *Service) FetchPage(ctx context.Context, pageNumber, pageSize int) ([]domain.Itbi, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	s.mu.Lock()
	s.seq++
	minha := s.seq
	s.mu.Unlock()

	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(pageNumber))
	q.Set("pageSize", strconv.Itoa(pageSize))
	env, err := apiclient.Do[listaWire](ctx, s.api, http.MethodGet, "/Itbi", q, nil)
	if err != nil {
		return nil, err
	}
	if e := env.Err(MsgErroCarregar); e != nil {
		return nil, e
	}

	var items []domain.Itbi
	if env.Data != nil {
		items = make([]domain.Itbi, 0, len(env.Data.Items))
		for _, w := range env.Data.Items {
			items = append(items, decodeItem(w))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if minha != s.seq {
		// Resposta de uma busca superada: não sobrescreve o conjunto.
		return append([]domain.Itbi(nil), s.items...), nil
	}
	s.items = items
	s.stats = domain.ComputeStats(items)
	return append([]domain.Itbi(nil), items...), nil
}

// CreateInput é a entrada da criação; o telefone aceita máscara e é normalizado.
type CreateInput struct {
	NomeCliente     string
	TelefoneCliente string
}

// Create valida localmente (sem rede) e cria o protocolo. O servidor atribui
// id, número de protocolo vazio e ambos os status Pendente; o chamador deve
// rebuscar a página para refletir o novo registro.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Itbi, error) {
	nome := strings.TrimSpace(in.NomeCliente)
	if nome == "" {
		return domain.Itbi{}, &domain.ValidationError{Campos: map[string][]string{
			"nomeCliente": {"Nome do cliente é obrigatório"},
		}}
	}
	telefone, err := domain.NormalizeTelefone(in.TelefoneCliente)
	if err != nil {
		return domain.Itbi{}, err
	}

	env, err := apiclient.Do[itbiItemWire](ctx, s.api, http.MethodPost, "/Itbi", nil, createWire{
		NomeCliente:     nome,
		TelefoneCliente: telefone,
	})
	if err != nil {
		return domain.Itbi{}, err
	}
	if e := env.Err(MsgErroCriar); e != nil {
		return domain.Itbi{}, e
	}
	if env.Data == nil {
		return domain.Itbi{}, &apiclient.APIError{Status: env.HTTPStatus, Message: MsgErroCriar}
	}
	return decodeItem(*env.Data), nil
}

// UpdateInput carrega o estado completo dos campos mutáveis (substituição
// integral, como o formulário de edição envia).
type UpdateInput struct {
	NomeCliente     string
	TelefoneCliente string // opcional: vazio é permitido na edição
	Solicitado      domain.Status
	NumeroProtocolo string
	Enviado         domain.Status
}

// Update edita o protocolo. O id do corpo é sempre construído a partir do id
// do caminho — nunca de estado antigo — porque o servidor rejeita divergência.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (domain.Itbi, error) {
	nome := strings.TrimSpace(in.NomeCliente)
	if nome == "" {
		return domain.Itbi{}, &domain.ValidationError{Campos: map[string][]string{
			"nomeCliente": {"Nome do cliente é obrigatório"},
		}}
	}
	telefone := ""
	if domain.SomenteDigitos(in.TelefoneCliente) != "" {
		var err error
		telefone, err = domain.NormalizeTelefone(in.TelefoneCliente)
		if err != nil {
			return domain.Itbi{}, err
		}
	}

	body := updateWire{
		ID:              id,
		NomeCliente:     nome,
		TelefoneCliente: telefone,
		SolicitadoID:    in.Solicitado.ID(),
		NumeroProtocolo: strings.TrimSpace(in.NumeroProtocolo),
		EnviadoID:       in.Enviado.ID(),
	}
	env, err := apiclient.Do[itbiItemWire](ctx, s.api, http.MethodPut, "/Itbi/"+strconv.FormatInt(id, 10), nil, body)
	if err != nil {
		return domain.Itbi{}, err
	}
	if e := env.Err(MsgErroAtualizar); e != nil {
		return domain.Itbi{}, e
	}
	if env.Data == nil {
		return domain.Itbi{}, &apiclient.APIError{Status: env.HTTPStatus, Message: MsgErroAtualizar}
	}
	return decodeItem(*env.Data), nil
}

// Confirmation é a confirmação de exclusão devolvida pela API.
type Confirmation struct {
	ID           int64
	Sucesso      bool
	DataExclusao time.Time
}

// Delete remove o protocolo; o chamador rebusca a página em caso de sucesso.
func (s *Service) Delete(ctx context.Context, id int64) (Confirmation, error) {
	env, err := apiclient.Do[deleteWire](ctx, s.api, http.MethodDelete, "/Itbi/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return Confirmation{}, err
	}
	if e := env.Err(MsgErroExcluir); e != nil {
		return Confirmation{}, e
	}
	if env.Data == nil {
		return Confirmation{}, &apiclient.APIError{Status: env.HTTPStatus, Message: MsgErroExcluir}
	}
	return Confirmation{
		ID:           env.Data.ID,
		Sucesso:      env.Data.Sucesso,
		DataExclusao: parseData(env.Data.DataExclusao),
	}, nil
}

// SetFilter troca o termo de busca usado pela projeção. Puro e síncrono.
func (s *Service) SetFilter(termo string) {
	s.mu.Lock()
	s.termo = termo
	s.mu.Unlock()
}

// FilteredView projeta o subconjunto visível: nome contém o termo (sem
// diferenciar maiúsculas) OU número de protocolo contém o termo (sensível a
// caixa, pois protocolos são códigos). Recomputada a cada chamada; nunca muda
// o conjunto subjacente.
func (s *Service) FilteredView() []domain.Itbi {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.termo == "" {
		return append([]domain.Itbi(nil), s.items...)
	}
	lower := strings.ToLower(s.termo)
	out := make([]domain.Itbi, 0, len(s.items))
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.NomeCliente), lower) ||
			strings.Contains(it.NumeroProtocolo, s.termo) {
			out = append(out, it)
		}
	}
	return out
}

// Stats devolve os contadores da última busca aplicada.
func (s *Service) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
