package marketplace

import (
	"errors"
	"fmt"
)

// Erros de configuração e autenticação das integrações
var (
	// ErrMissingClientConfig indica client id/secret ausentes; fatal,
	// exige ação do operador.
	ErrMissingClientConfig = errors.New("client id/secret da integração não configurados")
	// ErrMissingRefreshToken indica que a integração nunca foi conectada
	// ou foi desconectada.
	ErrMissingRefreshToken = errors.New("refresh token ausente; reconecte a integração")
	// ErrNotFound indica recurso inexistente no marketplace (404).
	ErrNotFound = errors.New("recurso não encontrado no marketplace")
)

// AuthError indica falha na renovação de token junto ao marketplace.
type AuthError struct {
	Integration string
	Description string // error_description retornado pelo endpoint de token
	Err         error
}

func (e *AuthError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("falha de autenticação na integração %s: %s", e.Integration, e.Description)
	}
	return fmt.Sprintf("falha de autenticação na integração %s", e.Integration)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// UpstreamAuthError indica rejeição de autenticação persistente após um
// ciclo de refresh-e-retry. Não há nova tentativa.
type UpstreamAuthError struct {
	Integration string
	Status      int
	Err         error
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("autenticação rejeitada pelo marketplace %s após retry (status %d)", e.Integration, e.Status)
}

func (e *UpstreamAuthError) Unwrap() error {
	return e.Err
}

// UpstreamError é uma resposta não-2xx que não é falha de autenticação.
type UpstreamError struct {
	Integration string
	Status      int
	Body        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("erro na API do marketplace %s. Status: %d, Corpo: %s", e.Integration, e.Status, e.Body)
}

// IsNotFound reporta se o erro representa um 404 do marketplace.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr) && upstreamErr.Status == 404
}
