package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const oauthStateTTL = 10 * time.Minute

// OAuthStateStore guarda os nonces de state gerados antes do redirect de
// autorização. Cada state é de uso único e expira sozinho.
type OAuthStateStore interface {
	Put(ctx context.Context, integration domain.Integration, state string) error
	Consume(ctx context.Context, integration domain.Integration, state string) (bool, error)
}

type oauthStateStore struct {
	client *Client
}

func NewOAuthStateStore(client *Client) OAuthStateStore {
	return &oauthStateStore{client: client}
}

func stateKey(integration domain.Integration, state string) string {
	return fmt.Sprintf("oauth:state:%s:%s", integration, state)
}

func (s *oauthStateStore) Put(ctx context.Context, integration domain.Integration, state string) error {
	return s.client.SetValue(ctx, stateKey(integration, state), "1", oauthStateTTL)
}

// Consume valida e remove o state atomicamente. Retorna false para state
// desconhecido, já usado ou expirado.
func (s *oauthStateStore) Consume(ctx context.Context, integration domain.Integration, state string) (bool, error) {
	_, found, err := s.client.GetDelValue(ctx, stateKey(integration, state))
	if err != nil {
		return false, err
	}
	return found, nil
}
