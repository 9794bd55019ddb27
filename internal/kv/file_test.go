// Caminho: internal/kv/file_test.go
// Resumo: Testes do Store em arquivo: grupo atômico, remoção e tolerância a
// arquivo ausente ou corrompido.

package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoFileStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "sessao.json"))
	require.NoError(t, err)
	return fs
}

func TestFileStoreSetAllGetDel(t *testing.T) {
	ctx := context.Background()
	fs := novoFileStore(t)

	// Ausente devolve "" sem erro.
	v, err := fs.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, fs.SetAll(ctx, map[string]string{
		"token":           "abc",
		"userName":        "Maria",
		"userId":          "7",
		"tokenExpiration": "2030-01-01T00:00:00Z",
	}))

	for chave, espera := range map[string]string{
		"token": "abc", "userName": "Maria", "userId": "7", "tokenExpiration": "2030-01-01T00:00:00Z",
	} {
		v, err := fs.Get(ctx, chave)
		require.NoError(t, err)
		assert.Equal(t, espera, v, chave)
	}

	require.NoError(t, fs.Del(ctx, "token", "userName", "userId", "tokenExpiration"))
	for _, chave := range []string{"token", "userName", "userId", "tokenExpiration"} {
		v, err := fs.Get(ctx, chave)
		require.NoError(t, err)
		assert.Equal(t, "", v, chave)
	}
}

func TestFileStoreSobrescreveGrupo(t *testing.T) {
	ctx := context.Background()
	fs := novoFileStore(t)

	require.NoError(t, fs.SetAll(ctx, map[string]string{"token": "antigo", "userId": "1"}))
	require.NoError(t, fs.SetAll(ctx, map[string]string{"token": "novo", "userId": "2"}))

	v, err := fs.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "novo", v)
}

func TestFileStoreArquivoCorrompido(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	caminho := filepath.Join(dir, "sessao.json")
	require.NoError(t, os.WriteFile(caminho, []byte("{nao é json"), 0o600))

	fs, err := NewFileStore(caminho)
	require.NoError(t, err)

	// Corrompido equivale a sessão ausente, nunca erro.
	v, err := fs.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	// E continua gravável.
	require.NoError(t, fs.SetAll(ctx, map[string]string{"token": "abc"}))
	v, err = fs.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestFileStoreDelDeChaveInexistente(t *testing.T) {
	fs := novoFileStore(t)
	require.NoError(t, fs.Del(context.Background(), "nunca-existiu"))
}
