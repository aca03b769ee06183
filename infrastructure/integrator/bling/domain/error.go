package domain

import "strings"

// ErrorResponse é o envelope de erro da API v3 do Bling.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// IsTokenError reporta se o erro indica access token inválido ou
// expirado, condição que dispara o refresh reativo.
func (e *ErrorResponse) IsTokenError() bool {
	switch e.Error.Type {
	case "invalid_token", "expired_token", "UNAUTHORIZED":
		return true
	}
	return containsTokenErrorMessage(e.Error.Message) || containsTokenErrorMessage(e.Error.Description)
}

// containsTokenErrorMessage detecta expiração de token por texto livre,
// para respostas que não seguem o envelope estruturado.
func containsTokenErrorMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "invalid_token") ||
		strings.Contains(lower, "token expirado") ||
		strings.Contains(lower, "token inválido") ||
		strings.Contains(lower, "access token expired")
}
