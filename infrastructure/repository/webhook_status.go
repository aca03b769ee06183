package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/database/postgres"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const (
	webhookStatusTable      = "webhook_status"
	stockWebhookStatusTable = "stock_webhook_status"
)

// WebhookStatusRepository mantém contadores de observabilidade de
// webhooks. Atualização monotônica; nunca lidos pela lógica de negócio.
type WebhookStatusRepository interface {
	RecordOrderEvent(integration domain.Integration, event string, orderID *int64) error
	RecordStockEvent(integration domain.Integration, event, lastProcessed string) error
	GetOrderStatus(integration domain.Integration) (*domain.WebhookStatus, error)
	GetStockStatus(integration domain.Integration) (*domain.StockWebhookStatus, error)
}

type webhookStatusRepository struct {
	conn *postgres.Connection
}

func NewWebhookStatusRepository(conn *postgres.Connection) WebhookStatusRepository {
	return &webhookStatusRepository{
		conn: conn,
	}
}

func (r *webhookStatusRepository) RecordOrderEvent(integration domain.Integration, event string, orderID *int64) error {
	query := squirrel.StatementBuilder.
		Insert(webhookStatusTable).
		Columns("integration", "total_received", "last_event", "last_order_id", "last_update").
		Values(string(integration), 1, event, orderID, squirrel.Expr("NOW()")).
		Suffix(`
			ON CONFLICT (integration) DO UPDATE SET
				total_received = webhook_status.total_received + 1,
				last_event = EXCLUDED.last_event,
				last_order_id = EXCLUDED.last_order_id,
				last_update = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("erro ao registrar evento de webhook: %w", err)
	}

	return nil
}

func (r *webhookStatusRepository) RecordStockEvent(integration domain.Integration, event, lastProcessed string) error {
	query := squirrel.StatementBuilder.
		Insert(stockWebhookStatusTable).
		Columns("integration", "total_received", "last_event", "last_processed", "last_update").
		Values(string(integration), 1, event, lastProcessed, squirrel.Expr("NOW()")).
		Suffix(`
			ON CONFLICT (integration) DO UPDATE SET
				total_received = stock_webhook_status.total_received + 1,
				last_event = EXCLUDED.last_event,
				last_processed = EXCLUDED.last_processed,
				last_update = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("erro ao registrar evento de estoque: %w", err)
	}

	return nil
}

func (r *webhookStatusRepository) GetOrderStatus(integration domain.Integration) (*domain.WebhookStatus, error) {
	query, args, err := squirrel.
		Select("integration", "total_received", "last_event", "last_order_id", "last_update").
		From(webhookStatusTable).
		Where(squirrel.Eq{"integration": string(integration)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	status := &domain.WebhookStatus{}
	var lastEvent sql.NullString
	var lastOrderID sql.NullInt64

	err = r.conn.QueryRow(query, args...).Scan(
		&status.Integration,
		&status.TotalReceived,
		&lastEvent,
		&lastOrderID,
		&status.LastUpdate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar status de webhook: %w", err)
	}

	status.LastEvent = lastEvent.String
	if lastOrderID.Valid {
		status.LastOrderID = &lastOrderID.Int64
	}

	return status, nil
}

func (r *webhookStatusRepository) GetStockStatus(integration domain.Integration) (*domain.StockWebhookStatus, error) {
	query, args, err := squirrel.
		Select("integration", "total_received", "last_event", "last_processed", "last_update").
		From(stockWebhookStatusTable).
		Where(squirrel.Eq{"integration": string(integration)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	status := &domain.StockWebhookStatus{}
	var lastEvent, lastProcessed sql.NullString

	err = r.conn.QueryRow(query, args...).Scan(
		&status.Integration,
		&status.TotalReceived,
		&lastEvent,
		&lastProcessed,
		&status.LastUpdate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar status de webhook de estoque: %w", err)
	}

	status.LastEvent = lastEvent.String
	status.LastProcessed = lastProcessed.String

	return status, nil
}
