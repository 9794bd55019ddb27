// Caminho: internal/services/auth/service.go
// Resumo: Serviço de sessão do painel: login, cadastro, logout e checagem de
// validade, com os quatro campos persistidos como um grupo atômico no Store.

package authsvc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/lfcontato/itbi_dashboard/internal/domain"
	"github.com/lfcontato/itbi_dashboard/internal/kv"
	"github.com/lfcontato/itbi_dashboard/pkg/apiclient"
)

// Chaves persistidas no Store, espelhando o localStorage do painel web.
const (
	ChaveToken           = "token"
	ChaveUserName        = "userName"
	ChaveUserID          = "userId"
	ChaveTokenExpiration = "tokenExpiration"
)

// Mensagens genéricas quando o envelope não traz a do servidor.
const (
	MsgFalhaLogin    = "Falha no login"
	MsgFalhaRegistro = "Falha no registro"
)

var validate = validator.New()

// Service agrega o transporte compartilhado e o armazenamento da sessão.
type Service struct {
	api   *apiclient.Client
	store kv.Store
}

// New cria o serviço de sessão. O Store é injetado pela raiz de composição;
// não há singleton ambiente.
func New(api *apiclient.Client, store kv.Store) *Service {
	return &Service{api: api, store: store}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
	Expiration  string `json:"expiration"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login autentica na API e, em caso de sucesso, persiste os quatro campos da
// sessão de uma vez só. Falha quando o envelope indica falha OU o token vem vazio.
func (s *Service) Login(ctx context.Context, email, senha string) (domain.Session, error) {
	req := loginRequest{Email: strings.TrimSpace(strings.ToLower(email)), Password: senha}
	env, err := apiclient.Do[loginResponse](ctx, s.api, http.MethodPost, "/Auth/login", nil, req)
	if err != nil {
		return domain.Session{}, err
	}
	if e := env.Err(MsgFalhaLogin); e != nil {
		return domain.Session{}, e
	}
	data := env.Data
	if data == nil || strings.TrimSpace(data.AccessToken) == "" {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = MsgFalhaLogin
		}
		return domain.Session{}, &apiclient.APIError{Status: env.HTTPStatus, Message: msg}
	}

	expira, err := parseExpiration(data.AccessToken, data.Expiration)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", MsgFalhaLogin, err)
	}

	sess := domain.Session{
		Token:     data.AccessToken,
		UserName:  data.Name,
		UserID:    data.ID,
		ExpiresAt: expira,
	}
	if err := s.store.SetAll(ctx, map[string]string{
		ChaveToken:           sess.Token,
		ChaveUserName:        sess.UserName,
		ChaveUserID:          sess.UserID,
		ChaveTokenExpiration: sess.ExpiresAt.Format(time.RFC3339),
	}); err != nil {
		return domain.Session{}, fmt.Errorf("persistir sessão: %w", err)
	}
	return sess, nil
}

// parseExpiration lê o instante de expiração do envelope; quando ausente ou
// ilegível, cai para a claim exp do próprio token (sem verificar assinatura —
// o servidor é quem valida; aqui só interessa o instante).
func parseExpiration(token, expiration string) (time.Time, error) {
	if v := strings.TrimSpace(expiration); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
			return t, nil
		}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time, nil
		}
	}
	return time.Time{}, fmt.Errorf("expiração ausente ou ilegível")
}

// Register cadastra um novo usuário. Não persiste sessão: o usuário precisa
// efetuar login depois. Validação local acontece antes de qualquer rede.
func (s *Service) Register(ctx context.Context, nome, email, senha string) (domain.UserIdentity, error) {
	req := registerRequest{
		Name:     strings.TrimSpace(nome),
		Email:    strings.TrimSpace(strings.ToLower(email)),
		Password: senha,
	}
	if err := validate.Struct(req); err != nil {
		return domain.UserIdentity{}, traduzValidacao(err)
	}

	env, err := apiclient.Do[registerResponse](ctx, s.api, http.MethodPost, "/Auth/register", nil, req)
	if err != nil {
		return domain.UserIdentity{}, err
	}
	if e := env.Err(MsgFalhaRegistro); e != nil {
		return domain.UserIdentity{}, e
	}
	if env.Data == nil {
		return domain.UserIdentity{}, &apiclient.APIError{Status: env.HTTPStatus, Message: MsgFalhaRegistro}
	}
	return domain.UserIdentity{ID: env.Data.ID, Name: env.Data.Name, Email: env.Data.Email}, nil
}

// traduzValidacao converte erros do validator em mensagens por campo.
func traduzValidacao(err error) error {
	ve := &domain.ValidationError{Campos: map[string][]string{}}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		ve.Campos["_"] = []string{err.Error()}
		return ve
	}
	for _, fe := range errs {
		var msg string
		switch fe.Field() {
		case "Name":
			msg = "Nome é obrigatório"
			ve.Campos["name"] = append(ve.Campos["name"], msg)
		case "Email":
			msg = "E-mail inválido"
			ve.Campos["email"] = append(ve.Campos["email"], msg)
		case "Password":
			msg = "A senha deve ter pelo menos 8 caracteres"
			ve.Campos["password"] = append(ve.Campos["password"], msg)
		default:
			ve.Campos[fe.Field()] = append(ve.Campos[fe.Field()], fe.Tag())
		}
	}
	return ve
}

// Logout limpa incondicionalmente os quatro campos persistidos. Nunca falha
// para o chamador; erro de armazenamento vira sessão ausente do mesmo jeito.
func (s *Service) Logout() {
	_ = s.store.Del(context.Background(),
		ChaveToken, ChaveUserName, ChaveUserID, ChaveTokenExpiration)
}

// IsAuthenticated aplica o predicado de validade sem tocar a rede: token
// presente e expiração interpretável e futura.
func (s *Service) IsAuthenticated() bool {
	ctx := context.Background()
	token, _ := s.store.Get(ctx, ChaveToken)
	if token == "" {
		return false
	}
	raw, _ := s.store.Get(ctx, ChaveTokenExpiration)
	if raw == "" {
		return false
	}
	expira, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return expira.After(time.Now())
}

// Token devolve o token persistido ("" quando ausente). Implementa
// apiclient.TokenSource para o transporte compartilhado.
func (s *Service) Token() string {
	v, _ := s.store.Get(context.Background(), ChaveToken)
	return v
}

// UserName devolve o nome persistido do usuário.
func (s *Service) UserName() string {
	v, _ := s.store.Get(context.Background(), ChaveUserName)
	return v
}

// UserID devolve o id persistido do usuário.
func (s *Service) UserID() string {
	v, _ := s.store.Get(context.Background(), ChaveUserID)
	return v
}
