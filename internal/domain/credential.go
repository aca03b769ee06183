package domain

import "time"

// Integration identifica um marketplace conectado via OAuth.
type Integration string

const (
	IntegrationBling        Integration = "bling"
	IntegrationMercadoLivre Integration = "mercado_livre"
)

// Valid reporta se o valor corresponde a uma integração conhecida.
func (i Integration) Valid() bool {
	return i == IntegrationBling || i == IntegrationMercadoLivre
}

// Credentials são as credenciais OAuth persistidas por integração.
type Credentials struct {
	Integration  Integration `json:"integration"`
	ClientID     string      `json:"client_id"`
	ClientSecret string      `json:"-"`
	AccessToken  string      `json:"-"`
	RefreshToken string      `json:"-"`
	ExpiresAt    time.Time   `json:"expires_at"`
	// UserID é a identidade do vendedor no Mercado Livre; vazio para o Bling.
	UserID    string    `json:"user_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenExpirySkew é a margem de segurança descontada da expiração antes
// de considerar o access token ainda utilizável.
const TokenExpirySkew = 60 * time.Second

// NeedsRefresh reporta se o access token deve ser renovado antes do uso.
func (c *Credentials) NeedsRefresh(now time.Time) bool {
	return c.AccessToken == "" || !now.Add(TokenExpirySkew).Before(c.ExpiresAt)
}

// HasClientConfig reporta se client id/secret estão configurados.
func (c *Credentials) HasClientConfig() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
