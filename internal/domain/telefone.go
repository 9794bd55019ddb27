// Caminho: internal/domain/telefone.go
// Resumo: Normalização e validação de telefone brasileiro (DDD + número) e
// formatadores de exibição usados pelo painel.

package domain

import (
	"fmt"
	"time"
)

// A mensagem orienta o usuário a incluir o DDD, como no formulário original.
const MsgTelefoneInvalido = "Digite um telefone com DDD (10 ou 11 dígitos)"

// SomenteDigitos remove da entrada tudo que não for dígito [0-9].
func SomenteDigitos(v string) string {
	out := make([]rune, 0, len(v))
	for _, r := range v {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}

// NormalizeTelefone aplica o algoritmo compartilhado por criação e edição:
// remove não-dígitos, trunca em 11 dígitos e exige comprimento final de 10 ou
// 11 (a truncagem acontece antes da checagem de comprimento).
func NormalizeTelefone(v string) (string, error) {
	digitos := SomenteDigitos(v)
	if len(digitos) > 11 {
		digitos = digitos[:11]
	}
	if len(digitos) != 10 && len(digitos) != 11 {
		return "", &ValidationError{Campos: map[string][]string{
			"telefoneCliente": {MsgTelefoneInvalido},
		}}
	}
	return digitos, nil
}

// FormatTelefone aplica a máscara de exibição (DD) XXXX-XXXX ou (DD) XXXXX-XXXX.
// Entradas fora do padrão voltam como estão; formatação é só apresentação.
func FormatTelefone(v string) string {
	d := SomenteDigitos(v)
	switch len(d) {
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:6], d[6:])
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	default:
		return v
	}
}

// FormatData exibe o instante em dd/mm/aaaa (pt-BR).
func FormatData(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
