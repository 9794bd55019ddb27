// Caminho: internal/kv/file.go
// Resumo: Implementação de Store em arquivo JSON local, com escrita atômica via
// arquivo temporário + rename. Backend padrão do painel.

package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persiste o mapa inteiro em um único arquivo JSON (0600).
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore cria o store no caminho informado; "" usa o default no HOME.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolver HOME: %w", err)
		}
		path = filepath.Join(home, ".itbi_dashboard", "sessao.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("criar diretório de sessão: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	vals := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &vals); err != nil {
			// Arquivo corrompido equivale a sessão ausente.
			return map[string]string{}, nil
		}
	}
	return vals, nil
}

func (f *FileStore) save(vals map[string]string) error {
	raw, err := json.MarshalIndent(vals, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Get devolve o valor da chave, ou "" quando ausente.
func (f *FileStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vals, err := f.load()
	if err != nil {
		return "", err
	}
	return vals[key], nil
}

// SetAll grava o grupo de chaves de uma vez só.
func (f *FileStore) SetAll(ctx context.Context, novos map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	vals, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range novos {
		vals[k] = v
	}
	return f.save(vals)
}

// Del remove as chaves informadas.
func (f *FileStore) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	vals, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(vals, k)
	}
	return f.save(vals)
}
