package cache

import (
	"context"
	"time"

	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const (
	progressKey = "sync:progress"
	// O snapshot expira sozinho caso o processo morra no meio de uma
	// execução e nunca publique o estado terminal.
	progressTTL = 6 * time.Hour
)

// ProgressStore publica o snapshot de progresso da sincronização para o
// endpoint de polling. Último escritor vence; o RunID distingue execuções.
type ProgressStore interface {
	Save(ctx context.Context, progress *domain.SyncProgress) error
	Get(ctx context.Context) (*domain.SyncProgress, error)
	Clear(ctx context.Context) error
}

type progressStore struct {
	client *Client
}

func NewProgressStore(client *Client) ProgressStore {
	return &progressStore{client: client}
}

func (s *progressStore) Save(ctx context.Context, progress *domain.SyncProgress) error {
	return s.client.SetObject(ctx, progressKey, progress, progressTTL)
}

func (s *progressStore) Get(ctx context.Context) (*domain.SyncProgress, error) {
	var progress domain.SyncProgress
	found, err := s.client.GetObject(ctx, progressKey, &progress)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &progress, nil
}

func (s *progressStore) Clear(ctx context.Context) error {
	return s.client.Delete(ctx, progressKey)
}
