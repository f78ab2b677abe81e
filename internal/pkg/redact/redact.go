// Package redact маскирует персональные данные перед записью в лог.
package redact

import "strings"

// Email оставляет первые две руны локальной части и домен: "ma***@example.com".
// Локальная часть короче трёх рун и строки не из двух частей маскируются целиком.
func Email(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***"
	}

	if r := []rune(local); len(r) > 2 {
		local = string(r[:2]) + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// Token — заглушка для токенов и кодов авторизации.
func Token() string { return "[REDACTED_TOKEN]" }
