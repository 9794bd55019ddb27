// Caminho: cmd/dashboard/main.go
// Resumo: Painel de terminal do cartório para controle de protocolos de ITBI.
// Autentica contra a API remota, guarda a sessão em armazenamento durável local
// e lista/cria/edita/exclui protocolos com contadores agregados e busca.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/lfcontato/itbi_dashboard/internal/config"
	"github.com/lfcontato/itbi_dashboard/internal/domain"
	"github.com/lfcontato/itbi_dashboard/internal/kv"
	authsvc "github.com/lfcontato/itbi_dashboard/internal/services/auth"
	itbisvc "github.com/lfcontato/itbi_dashboard/internal/services/itbi"
	"github.com/lfcontato/itbi_dashboard/pkg/apiclient"
)

// app é a raiz de composição: todos os serviços recebem suas dependências
// por parâmetro; não há singletons ambientes.
type app struct {
	cfg        *config.Config
	sessao     *authsvc.Service
	protocolos *itbisvc.Service
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	store, err := abrirStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao abrir armazenamento de sessão: %v\n", err)
		os.Exit(1)
	}

	api := apiclient.New(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)
	sessao := authsvc.New(api, store)
	api.Tokens = sessao
	// Efeito global de 401: a decisão vem pronta do transporte; aqui só o efeito.
	api.Unauthorized = func(d apiclient.Decision) {
		if d.ClearSession {
			sessao.Logout()
		}
		if d.RedirectTo != "" {
			fmt.Fprintln(os.Stderr, "Sessão expirada ou inválida. Faça login novamente.")
		}
	}

	a := &app{cfg: cfg, sessao: sessao, protocolos: itbisvc.New(api)}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "login":
		cmdErr = a.cmdLogin(ctx, os.Args[2:])
	case "registro":
		cmdErr = a.cmdRegistro(ctx, os.Args[2:])
	case "sair":
		a.sessao.Logout()
		fmt.Println("Sessão encerrada.")
	case "quem":
		cmdErr = a.cmdQuem()
	case "lista":
		cmdErr = a.cmdLista(ctx, os.Args[2:])
	case "novo":
		cmdErr = a.cmdNovo(ctx, os.Args[2:])
	case "edita":
		cmdErr = a.cmdEdita(ctx, os.Args[2:])
	case "exclui":
		cmdErr = a.cmdExclui(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if cmdErr != nil {
		exibirErro(cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Uso: dashboard <comando> [opções]

Comandos:
  login     -email -senha           autentica e guarda a sessão
  registro  -nome -email -senha     cria uma conta (login é feito depois)
  sair                              encerra a sessão local
  quem                              mostra o usuário autenticado
  lista     [-busca termo] [-pagina N] [-tamanho N]
  novo      -nome -telefone
  edita     -id N [-nome] [-telefone] [-protocolo] [-solicitado] [-enviado]
  exclui    -id N -sim`)
}

// abrirStore escolhe o backend da sessão: Redis quando configurado, senão
// arquivo local.
func abrirStore(cfg *config.Config) (kv.Store, error) {
	if cfg.RedisURL != "" || cfg.RedisHost != "" {
		return kv.NewRedisStore(cfg.RedisURL, cfg.RedisHost, cfg.RedisPort, cfg.RedisPass, "")
	}
	return kv.NewFileStore(cfg.SessionFile)
}

// exibirErro mostra cada mensagem individual de validação/erro da API.
func exibirErro(err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		for _, m := range ve.Mensagens() {
			fmt.Fprintln(os.Stderr, "Erro:", m)
		}
		return
	}
	var ae *apiclient.APIError
	if errors.As(err, &ae) {
		for _, m := range ae.AllMessages() {
			fmt.Fprintln(os.Stderr, "Erro:", m)
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Erro:", err)
}

// exigeSessao barra comandos protegidos sem sessão válida, sem tocar a rede.
func (a *app) exigeSessao() error {
	if !a.sessao.IsAuthenticated() {
		return domain.ErrSessaoAusente
	}
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "e-mail da conta")
	senha := fs.String("senha", "", "senha da conta")
	_ = fs.Parse(args)
	if *email == "" || *senha == "" {
		return fmt.Errorf("informe -email e -senha")
	}
	sess, err := a.sessao.Login(ctx, *email, *senha)
	if err != nil {
		return err
	}
	fmt.Printf("Bem-vindo(a), %s. Sessão válida até %s.\n",
		sess.UserName, sess.ExpiresAt.Local().Format("02/01/2006 15:04"))
	return nil
}

func (a *app) cmdRegistro(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("registro", flag.ExitOnError)
	nome := fs.String("nome", "", "nome completo")
	email := fs.String("email", "", "e-mail")
	senha := fs.String("senha", "", "senha (mínimo 8 caracteres)")
	_ = fs.Parse(args)
	id, err := a.sessao.Register(ctx, *nome, *email, *senha)
	if err != nil {
		return err
	}
	fmt.Printf("Conta criada com sucesso (id %s). Faça login para continuar.\n", id.ID)
	return nil
}

func (a *app) cmdQuem() error {
	if !a.sessao.IsAuthenticated() {
		fmt.Println("Nenhuma sessão ativa.")
		return nil
	}
	fmt.Printf("Usuário: %s (id %s)\n", a.sessao.UserName(), a.sessao.UserID())
	return nil
}

func (a *app) cmdLista(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lista", flag.ExitOnError)
	busca := fs.String("busca", "", "filtra por nome do cliente ou número de protocolo")
	pagina := fs.Int("pagina", 1, "número da página")
	tamanho := fs.Int("tamanho", 0, "tamanho da página")
	_ = fs.Parse(args)
	if err := a.exigeSessao(); err != nil {
		return err
	}
	if *tamanho <= 0 {
		*tamanho = a.cfg.PageSize
	}
	if _, err := a.protocolos.FetchPage(ctx, *pagina, *tamanho); err != nil {
		return err
	}
	a.protocolos.SetFilter(*busca)
	a.render()
	return nil
}

func (a *app) cmdNovo(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("novo", flag.ExitOnError)
	nome := fs.String("nome", "", "nome do cliente")
	telefone := fs.String("telefone", "", "telefone com DDD")
	_ = fs.Parse(args)
	if err := a.exigeSessao(); err != nil {
		return err
	}
	if _, err := a.protocolos.Create(ctx, itbisvc.CreateInput{
		NomeCliente:     *nome,
		TelefoneCliente: *telefone,
	}); err != nil {
		return err
	}
	fmt.Println("ITBI criado com sucesso!")
	return a.refetch(ctx)
}

func (a *app) cmdEdita(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edita", flag.ExitOnError)
	id := fs.Int64("id", 0, "id do protocolo")
	nome := fs.String("nome", "", "nome do cliente")
	telefone := fs.String("telefone", "", "telefone com DDD (vazio mantém)")
	protocolo := fs.String("protocolo", "", "número do protocolo")
	solicitado := fs.String("solicitado", "", "Pendente, Sim ou Não")
	enviado := fs.String("enviado", "", "Pendente, Sim ou Não")
	_ = fs.Parse(args)
	if err := a.exigeSessao(); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("informe -id")
	}

	// Pré-carrega o registro atual para preencher o que não foi informado,
	// como o formulário de edição faz.
	atual, err := a.buscar(ctx, *id)
	if err != nil {
		return err
	}
	in := itbisvc.UpdateInput{
		NomeCliente:     atual.NomeCliente,
		TelefoneCliente: atual.TelefoneCliente,
		Solicitado:      atual.Solicitado,
		NumeroProtocolo: atual.NumeroProtocolo,
		Enviado:         atual.Enviado,
	}
	if *nome != "" {
		in.NomeCliente = *nome
	}
	if *telefone != "" {
		in.TelefoneCliente = *telefone
	}
	if *protocolo != "" {
		in.NumeroProtocolo = *protocolo
	}
	if *solicitado != "" {
		in.Solicitado = domain.ParseStatus(*solicitado)
	}
	if *enviado != "" {
		in.Enviado = domain.ParseStatus(*enviado)
	}

	if _, err := a.protocolos.Update(ctx, *id, in); err != nil {
		return err
	}
	fmt.Println("ITBI atualizado com sucesso!")
	return a.refetch(ctx)
}

func (a *app) cmdExclui(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("exclui", flag.ExitOnError)
	id := fs.Int64("id", 0, "id do protocolo")
	sim := fs.Bool("sim", false, "confirma a exclusão")
	_ = fs.Parse(args)
	if err := a.exigeSessao(); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("informe -id")
	}
	if !*sim {
		return fmt.Errorf("tem certeza que deseja excluir este protocolo? repita com -sim para confirmar")
	}
	conf, err := a.protocolos.Delete(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("ITBI excluído com sucesso! (em %s)\n", domain.FormatData(conf.DataExclusao))
	return a.refetch(ctx)
}

// buscar carrega a página corrente e localiza o protocolo pelo id.
func (a *app) buscar(ctx context.Context, id int64) (domain.Itbi, error) {
	items, err := a.protocolos.FetchPage(ctx, 1, a.cfg.PageSize)
	if err != nil {
		return domain.Itbi{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.Itbi{}, domain.ErrNaoEncontrado
}

// refetch recarrega a página após uma mutação e reapresenta o painel.
func (a *app) refetch(ctx context.Context) error {
	if _, err := a.protocolos.FetchPage(ctx, 1, a.cfg.PageSize); err != nil {
		return err
	}
	a.render()
	return nil
}

// render imprime os contadores e a tabela filtrada.
func (a *app) render() {
	st := a.protocolos.Stats()
	fmt.Printf("\nTotal de Protocolos: %d   Envios Pendentes: %d   Concluídos: %d\n\n",
		st.Total, st.PendingSent, st.Completed)

	view := a.protocolos.FilteredView()
	if len(view) == 0 {
		fmt.Println("Nenhum protocolo para exibir.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENTE\tTELEFONE\tPROTOCOLO\tSOLICITADO\tENVIADO\tCADASTRO")
	for _, it := range view {
		protocolo := it.NumeroProtocolo
		if strings.TrimSpace(protocolo) == "" {
			protocolo = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.ID, it.NomeCliente, domain.FormatTelefone(it.TelefoneCliente), protocolo,
			it.Solicitado.Descricao(), it.Enviado.Descricao(), domain.FormatData(it.DataCadastro))
	}
	_ = w.Flush()
}
