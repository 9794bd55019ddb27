// Caminho: internal/devapi/token.go
// Resumo: Emissão e verificação de tokens de acesso (JWT HS256) do dublê local da API.

package devapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signAccessToken assina um JWT com claims mínimas e devolve também o instante
// de expiração, que a API expõe no envelope de login.
func signAccessToken(secret string, userID int64, nome string, ttl time.Duration) (string, time.Time, error) {
	expira := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"name": nome,
		"exp":  expira.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	assinado, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return assinado, expira, nil
}

// parseBearer valida o header Authorization: Bearer e devolve o id do usuário.
func parseBearer(secret, header string) (int64, error) {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return 0, errors.New("token ausente")
	}
	tokenStr := strings.TrimSpace(header[len("Bearer "):])
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("algoritmo inválido")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, errors.New("token inválido")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("claims inválidas")
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("claims incompletas")
	}
	return id, nil
}
