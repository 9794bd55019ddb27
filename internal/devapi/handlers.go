// Caminho: internal/devapi/handlers.go
// Resumo: Rotas e handlers do dublê local da API do cartório (/api/Auth e /api/Itbi),
// com o mesmo envelope {success, message, data} que a API real devolve.

package devapi

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/lfcontato/itbi_dashboard/internal/db"
	"github.com/lfcontato/itbi_dashboard/internal/domain"
)

// Server agrega as dependências dos handlers do devapi.
type Server struct {
	DB        *sql.DB
	Secret    string
	AccessTTL time.Duration
}

// New cria o servidor do devapi.
func New(sqldb *sql.DB, secret string, accessTTL time.Duration) *Server {
	return &Server{DB: sqldb, Secret: secret, AccessTTL: accessTTL}
}

// writeJSON escreve uma resposta JSON com status e payload arbitrários.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusWriter captura status/bytes para logging.
type statusWriter struct {
	http.ResponseWriter
	status int
	nbytes int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.nbytes += n
	return n, err
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		log.Printf("[INFO]  %s %s -> %d (%s) bytes=%d", r.Method, r.URL.Path, sw.status, time.Since(start).String(), sw.nbytes)
	})
}

// Router monta todas as rotas sob /api, como a API real publica.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "itbi_devapi", "status": "healthy"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/Auth/login", s.loginHandler).Methods(http.MethodPost)
	api.HandleFunc("/Auth/register", s.registerHandler).Methods(http.MethodPost)

	itbi := api.PathPrefix("/Itbi").Subrouter()
	itbi.Use(s.requireAuth)
	itbi.HandleFunc("", s.listHandler).Methods(http.MethodGet)
	itbi.HandleFunc("", s.createHandler).Methods(http.MethodPost)
	itbi.HandleFunc("/{id:[0-9]+}", s.updateHandler).Methods(http.MethodPut)
	itbi.HandleFunc("/{id:[0-9]+}", s.deleteHandler).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Rota não encontrada", "data": nil})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "message": "Método não permitido", "data": nil})
	})
	return r
}

// requireAuth exige Bearer válido em todas as rotas de protocolo.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := parseBearer(s.Secret, r.Header.Get("Authorization")); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Token inválido ou expirado", "data": nil})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "JSON inválido", "data": nil})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	var (
		id   int64
		nome string
		hash string
	)
	err := s.DB.QueryRowContext(r.Context(),
		db.Rebind(`SELECT id, nome, senha_hash FROM usuarios WHERE email = ? LIMIT 1`), email).
		Scan(&id, &nome, &hash)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "E-mail ou senha inválidos", "data": nil})
		return
	}

	token, expira, err := signAccessToken(s.Secret, id, nome, s.AccessTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao emitir token", "data": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "",
		"data": map[string]any{
			"id":          strconv.FormatInt(id, 10),
			"name":        nome,
			"email":       email,
			"accessToken": token,
			"expiration":  expira.UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "JSON inválido", "data": nil})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	// Validação por campo, no mesmo formato de mapa de erros da API real.
	errs := map[string][]string{}
	if req.Name == "" {
		errs["name"] = append(errs["name"], "Nome é obrigatório")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		errs["email"] = append(errs["email"], "E-mail inválido")
	}
	if len(req.Password) < 8 {
		errs["password"] = append(errs["password"], "A senha deve ter pelo menos 8 caracteres")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Dados inválidos", "data": nil, "errors": errs})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao processar senha", "data": nil})
		return
	}

	var newID int64
	if db.IsPostgres() {
		q := db.Rebind(`INSERT INTO usuarios (nome, email, senha_hash) VALUES (?,?,?) RETURNING id`)
		if err := s.DB.QueryRowContext(r.Context(), q, req.Name, req.Email, string(hash)).Scan(&newID); err != nil {
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "E-mail já cadastrado", "data": nil})
			return
		}
	} else {
		res, err := s.DB.ExecContext(r.Context(),
			db.Rebind(`INSERT INTO usuarios (nome, email, senha_hash) VALUES (?,?,?)`), req.Name, req.Email, string(hash))
		if err != nil {
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "E-mail já cadastrado", "data": nil})
			return
		}
		newID, _ = res.LastInsertId()
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "",
		"data": map[string]any{
			"id":    strconv.FormatInt(newID, 10),
			"name":  req.Name,
			"email": req.Email,
		},
	})
}

// itbiRow é a forma lida do banco; as descrições são derivadas na resposta.
type itbiRow struct {
	ID              int64
	NomeCliente     string
	TelefoneCliente string
	NumeroProtocolo string
	SolicitadoID    int
	EnviadoID       int
	DataCadastro    time.Time
}

func (row itbiRow) toWire() map[string]any {
	return map[string]any{
		"id":                  row.ID,
		"nomeCliente":         row.NomeCliente,
		"telefoneCliente":     row.TelefoneCliente,
		"numeroProtocolo":     row.NumeroProtocolo,
		"solicitadoId":        domain.StatusFromID(row.SolicitadoID).ID(),
		"solicitadoDescricao": domain.StatusFromID(row.SolicitadoID).Descricao(),
		"enviadoId":           domain.StatusFromID(row.EnviadoID).ID(),
		"enviadoDescricao":    domain.StatusFromID(row.EnviadoID).Descricao(),
		"dataCadastro":        row.DataCadastro.UTC().Format(time.RFC3339),
	}
}

func (s *Server) readRow(r *http.Request, id int64) (itbiRow, error) {
	var row itbiRow
	err := s.DB.QueryRowContext(r.Context(), db.Rebind(
		`SELECT id, nome_cliente, telefone_cliente, numero_protocolo, solicitado_id, enviado_id, data_cadastro
         FROM protocolos_itbi WHERE id = ? LIMIT 1`), id).
		Scan(&row.ID, &row.NomeCliente, &row.TelefoneCliente, &row.NumeroProtocolo,
			&row.SolicitadoID, &row.EnviadoID, &row.DataCadastro)
	return row, err
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageNumber := 1
	pageSize := 10
	if n, err := strconv.Atoi(q.Get("pageNumber")); err == nil && n >= 1 {
		pageNumber = n
	}
	if n, err := strconv.Atoi(q.Get("pageSize")); err == nil && n >= 1 {
		pageSize = n
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var total int
	if err := s.DB.QueryRowContext(r.Context(), `SELECT COUNT(1) FROM protocolos_itbi`).Scan(&total); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao consultar protocolos", "data": nil})
		return
	}

	rows, err := s.DB.QueryContext(r.Context(), db.Rebind(
		`SELECT id, nome_cliente, telefone_cliente, numero_protocolo, solicitado_id, enviado_id, data_cadastro
         FROM protocolos_itbi ORDER BY id ASC LIMIT ? OFFSET ?`), pageSize, (pageNumber-1)*pageSize)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao consultar protocolos", "data": nil})
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var row itbiRow
		if err := rows.Scan(&row.ID, &row.NomeCliente, &row.TelefoneCliente, &row.NumeroProtocolo,
			&row.SolicitadoID, &row.EnviadoID, &row.DataCadastro); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao ler resultado", "data": nil})
			return
		}
		items = append(items, row.toWire())
	}
	if err := rows.Err(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao ler resultado", "data": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "",
		"data": map[string]any{
			"pageNumber":   pageNumber,
			"pageSize":     pageSize,
			"totalRecords": total,
			"items":        items,
		},
	})
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NomeCliente     string `json:"nomeCliente"`
		TelefoneCliente string `json:"telefoneCliente"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "JSON inválido", "data": nil})
		return
	}
	req.NomeCliente = strings.TrimSpace(req.NomeCliente)

	errs := map[string][]string{}
	if req.NomeCliente == "" {
		errs["nomeCliente"] = append(errs["nomeCliente"], "Nome do cliente é obrigatório")
	}
	if tel := domain.SomenteDigitos(req.TelefoneCliente); len(tel) != 10 && len(tel) != 11 {
		errs["telefoneCliente"] = append(errs["telefoneCliente"], domain.MsgTelefoneInvalido)
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Dados inválidos", "data": nil, "errors": errs})
		return
	}

	// Criação com defaults: número de protocolo vazio e ambos os status Pendente.
	var newID int64
	if db.IsPostgres() {
		q := db.Rebind(`INSERT INTO protocolos_itbi (nome_cliente, telefone_cliente) VALUES (?,?) RETURNING id`)
		if err := s.DB.QueryRowContext(r.Context(), q, req.NomeCliente, domain.SomenteDigitos(req.TelefoneCliente)).Scan(&newID); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao criar protocolo", "data": nil})
			return
		}
	} else {
		res, err := s.DB.ExecContext(r.Context(),
			db.Rebind(`INSERT INTO protocolos_itbi (nome_cliente, telefone_cliente) VALUES (?,?)`),
			req.NomeCliente, domain.SomenteDigitos(req.TelefoneCliente))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao criar protocolo", "data": nil})
			return
		}
		newID, _ = res.LastInsertId()
	}

	row, err := s.readRow(r, newID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao ler protocolo criado", "data": nil})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "", "data": row.toWire()})
}

func (s *Server) updateHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var req struct {
		ID              int64  `json:"id"`
		NomeCliente     string `json:"nomeCliente"`
		TelefoneCliente string `json:"telefoneCliente"`
		SolicitadoID    int    `json:"solicitadoId"`
		NumeroProtocolo string `json:"numeroProtocolo"`
		EnviadoID       int    `json:"enviadoId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "JSON inválido", "data": nil})
		return
	}
	// Mesma regra da API real: o id do corpo precisa bater com o da URL.
	if req.ID != id {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Id do corpo difere do id da URL", "data": nil})
		return
	}

	errs := map[string][]string{}
	if strings.TrimSpace(req.NomeCliente) == "" {
		errs["nomeCliente"] = append(errs["nomeCliente"], "Nome do cliente é obrigatório")
	}
	if req.SolicitadoID < 1 || req.SolicitadoID > 3 {
		errs["solicitadoId"] = append(errs["solicitadoId"], "Status solicitado inválido")
	}
	if req.EnviadoID < 1 || req.EnviadoID > 3 {
		errs["enviadoId"] = append(errs["enviadoId"], "Status enviado inválido")
	}
	if tel := domain.SomenteDigitos(req.TelefoneCliente); tel != "" && len(tel) != 10 && len(tel) != 11 {
		errs["telefoneCliente"] = append(errs["telefoneCliente"], domain.MsgTelefoneInvalido)
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Dados inválidos", "data": nil, "errors": errs})
		return
	}

	if _, err := s.readRow(r, id); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Protocolo não encontrado", "data": nil})
		return
	}

	_, err := s.DB.ExecContext(r.Context(), db.Rebind(
		`UPDATE protocolos_itbi
         SET nome_cliente = ?, telefone_cliente = ?, numero_protocolo = ?, solicitado_id = ?, enviado_id = ?
         WHERE id = ?`),
		strings.TrimSpace(req.NomeCliente), domain.SomenteDigitos(req.TelefoneCliente),
		strings.TrimSpace(req.NumeroProtocolo), req.SolicitadoID, req.EnviadoID, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao atualizar protocolo", "data": nil})
		return
	}

	row, err := s.readRow(r, id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao ler protocolo atualizado", "data": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "", "data": row.toWire()})
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	if _, err := s.readRow(r, id); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Protocolo não encontrado", "data": nil})
		return
	}
	if _, err := s.DB.ExecContext(r.Context(), db.Rebind(`DELETE FROM protocolos_itbi WHERE id = ?`), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Falha ao excluir protocolo", "data": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "",
		"data": map[string]any{
			"id":           id,
			"sucesso":      true,
			"dataExclusao": time.Now().UTC().Format(time.RFC3339),
		},
	})
}
