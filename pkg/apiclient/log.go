// Caminho: pkg/apiclient/log.go
// Resumo: Helpers de logging com níveis simples (DEBUG, INFO, WARN, ERROR),
// controlados por LOG_LEVEL.

package apiclient

import (
	"log"
	"os"
	"strings"
)

func logEnabled(level string) bool {
	configured := strings.ToUpper(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if configured == "" {
		configured = "INFO"
	}
	order := map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3}
	want, ok := order[level]
	if !ok {
		return true
	}
	have, ok := order[configured]
	if !ok {
		have = 1
	}
	return want >= have
}

func logDebug(format string, args ...any) {
	if logEnabled("DEBUG") {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func logWarn(format string, args ...any) {
	if logEnabled("WARN") {
		log.Printf("[WARN]  "+format, args...)
	}
}
