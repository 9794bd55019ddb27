// Caminho: internal/services/itbi/service_test.go
// Resumo: Testes do agregador de protocolos: busca com substituição integral,
// descarte de resposta atrasada, filtro, estatísticas e mutações.

package itbisvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfcontato/itbi_dashboard/internal/domain"
	"github.com/lfcontato/itbi_dashboard/pkg/apiclient"
)

func itemWire(id int64, nome, telefone, protocolo, solicitado, enviado string) map[string]any {
	return map[string]any{
		"id":                  id,
		"nomeCliente":         nome,
		"telefoneCliente":     telefone,
		"numeroProtocolo":     protocolo,
		"solicitadoDescricao": solicitado,
		"enviadoDescricao":    enviado,
		"dataCadastro":        "2025-03-09T14:30:00Z",
	}
}

func listaResposta(items ...map[string]any) map[string]any {
	return map[string]any{
		"success": true,
		"message": "",
		"data": map[string]any{
			"pageNumber":   1,
			"pageSize":     100,
			"totalRecords": len(items),
			"items":        items,
		},
	}
}

func novoServico(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(apiclient.New(srv.URL, 5*time.Second))
}

func TestFetchPageSubstituiConjuntoERecomputaStats(t *testing.T) {
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Itbi", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("pageNumber"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		_ = json.NewEncoder(w).Encode(listaResposta(
			itemWire(1, "Ana Lima", "11987654321", "P-001", "Sim", "Sim"),
			itemWire(2, "Bruno Costa", "1133334444", "", "Pendente", "Não"),
			itemWire(3, "Carla Dias", "11912345678", "P-003", "Sim", "Não"),
		))
	}))

	items, err := s.FetchPage(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Ana Lima", items[0].NomeCliente)
	assert.Equal(t, domain.StatusSim, items[0].Solicitado)
	assert.Equal(t, domain.StatusSim, items[0].Enviado)
	assert.Equal(t, domain.StatusPendente, items[1].Solicitado)
	assert.Equal(t, 2025, items[0].DataCadastro.Year())

	st := s.Stats()
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.PendingSent)
	assert.Equal(t, 1, st.Completed)
}

func TestFetchPageNormalizaPaginacao(t *testing.T) {
	var pageNumber, pageSize string
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNumber = r.URL.Query().Get("pageNumber")
		pageSize = r.URL.Query().Get("pageSize")
		_ = json.NewEncoder(w).Encode(listaResposta())
	}))

	_, err := s.FetchPage(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", pageNumber)
	assert.Equal(t, strconv.Itoa(DefaultPageSize), pageSize)

	_, err = s.FetchPage(context.Background(), 2, 9999)
	require.NoError(t, err)
	assert.Equal(t, "2", pageNumber)
	assert.Equal(t, strconv.Itoa(MaxPageSize), pageSize)
}

func TestFetchPageDescartaRespostaAtrasada(t *testing.T) {
	// A primeira requisição fica presa até a segunda terminar; sua resposta,
	// quando chega, não pode sobrescrever o conjunto da busca mais recente.
	primeiraChegou := make(chan struct{})
	libera := make(chan struct{})
	var ordem int32

	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&ordem, 1) == 1 {
			close(primeiraChegou)
			<-libera
			_ = json.NewEncoder(w).Encode(listaResposta(
				itemWire(1, "Resultado Antigo", "1133334444", "", "Pendente", "Pendente"),
			))
			return
		}
		_ = json.NewEncoder(w).Encode(listaResposta(
			itemWire(2, "Resultado Novo", "11987654321", "P-002", "Sim", "Sim"),
		))
	}))

	ctx := context.Background()
	resultado1 := make(chan []domain.Itbi, 1)
	go func() {
		items, err := s.FetchPage(ctx, 1, 100)
		assert.NoError(t, err)
		resultado1 <- items
	}()

	<-primeiraChegou
	atual, err := s.FetchPage(ctx, 1, 100)
	require.NoError(t, err)
	require.Len(t, atual, 1)
	assert.Equal(t, "Resultado Novo", atual[0].NomeCliente)

	close(libera)
	atrasada := <-resultado1

	// A chamada atrasada devolve o conjunto corrente, não o seu payload.
	require.Len(t, atrasada, 1)
	assert.Equal(t, "Resultado Novo", atrasada[0].NomeCliente)

	view := s.FilteredView()
	require.Len(t, view, 1)
	assert.Equal(t, "Resultado Novo", view[0].NomeCliente)
	assert.Equal(t, 1, s.Stats().Total)
}

func TestFilteredView(t *testing.T) {
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(listaResposta(
			itemWire(1, "Ana Lima", "11987654321", "P-001", "Sim", "Sim"),
			itemWire(2, "Bruno Costa", "1133334444", "p-777", "Pendente", "Não"),
			itemWire(3, "ANA PAULA", "11912345678", "X-003", "Sim", "Não"),
		))
	}))
	_, err := s.FetchPage(context.Background(), 1, 100)
	require.NoError(t, err)

	// Sem termo, devolve tudo.
	assert.Len(t, s.FilteredView(), 3)

	// Nome sem diferenciar maiúsculas.
	s.SetFilter("ana")
	view := s.FilteredView()
	require.Len(t, view, 2)
	assert.Equal(t, int64(1), view[0].ID)
	assert.Equal(t, int64(3), view[1].ID)

	// Protocolo sensível a caixa.
	s.SetFilter("P-001")
	require.Len(t, s.FilteredView(), 1)
	s.SetFilter("p-001")
	assert.Len(t, s.FilteredView(), 0)

	// Termo sem correspondência.
	s.SetFilter("zzz")
	assert.Len(t, s.FilteredView(), 0)

	// O filtro nunca altera o conjunto subjacente nem as estatísticas.
	s.SetFilter("")
	assert.Len(t, s.FilteredView(), 3)
	assert.Equal(t, 3, s.Stats().Total)
}

func TestFilteredViewIdempotente(t *testing.T) {
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(listaResposta(
			itemWire(1, "Ana Lima", "11987654321", "P-001", "Sim", "Sim"),
			itemWire(2, "Bruno Costa", "1133334444", "", "Pendente", "Não"),
		))
	}))
	_, err := s.FetchPage(context.Background(), 1, 100)
	require.NoError(t, err)

	s.SetFilter("ana")
	primeira := s.FilteredView()
	segunda := s.FilteredView()
	assert.Equal(t, primeira, segunda)
}

func TestCreateValidaAntesDaRede(t *testing.T) {
	var chamadas int32
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&chamadas, 1)
	}))

	_, err := s.Create(context.Background(), CreateInput{NomeCliente: "", TelefoneCliente: "11987654321"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Campos["nomeCliente"], "Nome do cliente é obrigatório")

	_, err = s.Create(context.Background(), CreateInput{NomeCliente: "Ana", TelefoneCliente: "123"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Campos["telefoneCliente"], domain.MsgTelefoneInvalido)

	assert.EqualValues(t, 0, atomic.LoadInt32(&chamadas))
}

func TestCreateEnviaTelefoneNormalizado(t *testing.T) {
	var corpo createWire
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&corpo))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "",
			"data":    itemWire(10, corpo.NomeCliente, corpo.TelefoneCliente, "", "Pendente", "Pendente"),
		})
	}))

	novo, err := s.Create(context.Background(), CreateInput{
		NomeCliente:     "  Ana Lima  ",
		TelefoneCliente: "(11) 98765-4321",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", corpo.NomeCliente)
	assert.Equal(t, "11987654321", corpo.TelefoneCliente)
	assert.Equal(t, int64(10), novo.ID)
	assert.Equal(t, domain.StatusPendente, novo.Solicitado)
	assert.Equal(t, domain.StatusPendente, novo.Enviado)
	assert.Equal(t, "", novo.NumeroProtocolo)
}

func TestUpdateCorpoCarregaIDDoCaminho(t *testing.T) {
	var corpo updateWire
	var caminho string
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caminho = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&corpo))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "",
			"data":    itemWire(corpo.ID, corpo.NomeCliente, corpo.TelefoneCliente, corpo.NumeroProtocolo, "Sim", "Não"),
		})
	}))

	atualizado, err := s.Update(context.Background(), 55, UpdateInput{
		NomeCliente:     "Bruno Costa",
		TelefoneCliente: "",
		Solicitado:      domain.StatusSim,
		NumeroProtocolo: " P-055 ",
		Enviado:         domain.StatusNao,
	})
	require.NoError(t, err)
	assert.Equal(t, "/Itbi/55", caminho)
	assert.Equal(t, int64(55), corpo.ID)
	assert.Equal(t, 2, corpo.SolicitadoID)
	assert.Equal(t, 3, corpo.EnviadoID)
	assert.Equal(t, "P-055", corpo.NumeroProtocolo)
	// Telefone vazio é permitido na edição e segue vazio no corpo.
	assert.Equal(t, "", corpo.TelefoneCliente)
	assert.Equal(t, int64(55), atualizado.ID)
}

func TestUpdateTelefoneInvalidoFalhaLocalmente(t *testing.T) {
	var chamadas int32
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&chamadas, 1)
	}))

	_, err := s.Update(context.Background(), 1, UpdateInput{
		NomeCliente:     "Bruno",
		TelefoneCliente: "12345",
		Solicitado:      domain.StatusPendente,
		Enviado:         domain.StatusPendente,
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.EqualValues(t, 0, atomic.LoadInt32(&chamadas))
}

func TestDelete(t *testing.T) {
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/Itbi/9", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "",
			"data": map[string]any{
				"id":           9,
				"sucesso":      true,
				"dataExclusao": "2025-03-09T15:00:00Z",
			},
		})
	}))

	conf, err := s.Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), conf.ID)
	assert.True(t, conf.Sucesso)
	assert.Equal(t, 2025, conf.DataExclusao.Year())
}

func TestOperacoesPropagamMensagemDoServidor(t *testing.T) {
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Protocolo não encontrado", "data": nil})
	}))

	_, err := s.Delete(context.Background(), 123)
	var ae *apiclient.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Protocolo não encontrado", ae.Message)
	assert.Equal(t, http.StatusNotFound, ae.Status)
}

func TestFetchPageFalhaSemMensagemUsaGenerica(t *testing.T) {
	s := novoServico(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "", "data": nil})
	}))

	_, err := s.FetchPage(context.Background(), 1, 100)
	var ae *apiclient.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, MsgErroCarregar, ae.Message)
}
