package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/database/postgres"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const stockSnapshotsTable = "stock_snapshots"

type StockSnapshotRepository interface {
	GetBySKU(sku string) (*domain.StockSnapshot, error)
	GetBySKUs(skus []string) (map[string]*domain.StockSnapshot, error)
	SaveOrUpdate(snapshot *domain.StockSnapshot) error
	// MarkStale sinaliza que o saldo conhecido pode estar desatualizado
	// sem removê-lo; o valor antigo continua visível até novo evento.
	MarkStale(sku string) error
	ListAll() ([]*domain.StockSnapshot, error)
}

type stockSnapshotRepository struct {
	conn *postgres.Connection
}

func NewStockSnapshotRepository(conn *postgres.Connection) StockSnapshotRepository {
	return &stockSnapshotRepository{
		conn: conn,
	}
}

const stockColumns = "sku, name, quantity, warehouses, stale, last_event, webhook_received_at, updated_at"

func (r *stockSnapshotRepository) GetBySKU(sku string) (*domain.StockSnapshot, error) {
	query, args, err := squirrel.
		Select(stockColumns).
		From(stockSnapshotsTable).
		Where(squirrel.Eq{"sku": sku}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	snapshot, err := scanSnapshot(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar snapshot de estoque: %w", err)
	}

	return snapshot, nil
}

func (r *stockSnapshotRepository) GetBySKUs(skus []string) (map[string]*domain.StockSnapshot, error) {
	result := make(map[string]*domain.StockSnapshot, len(skus))
	if len(skus) == 0 {
		return result, nil
	}

	query, args, err := squirrel.
		Select(stockColumns).
		From(stockSnapshotsTable).
		Where(squirrel.Eq{"sku": skus}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		snapshot, err := scanSnapshotRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshots de estoque: %w", err)
		}
		result[snapshot.SKU] = snapshot
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return result, nil
}

func (r *stockSnapshotRepository) SaveOrUpdate(snapshot *domain.StockSnapshot) error {
	var warehousesJSON []byte
	var err error

	if snapshot.Warehouses != nil {
		warehousesJSON, err = json.Marshal(snapshot.Warehouses)
		if err != nil {
			return fmt.Errorf("erro ao serializar depósitos: %w", err)
		}
	}

	query := squirrel.StatementBuilder.
		Insert(stockSnapshotsTable).
		Columns("sku", "name", "quantity", "warehouses", "stale", "last_event", "webhook_received_at").
		Values(
			snapshot.SKU,
			snapshot.Name,
			snapshot.Quantity,
			warehousesJSON,
			snapshot.Stale,
			snapshot.LastEvent,
			snapshot.WebhookReceivedAt,
		).
		Suffix(`
			ON CONFLICT (sku) DO UPDATE SET
				name = EXCLUDED.name,
				quantity = EXCLUDED.quantity,
				warehouses = EXCLUDED.warehouses,
				stale = EXCLUDED.stale,
				last_event = EXCLUDED.last_event,
				webhook_received_at = EXCLUDED.webhook_received_at,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao gravar snapshot de estoque: %w", err)
	}

	return nil
}

func (r *stockSnapshotRepository) MarkStale(sku string) error {
	query, args, err := squirrel.
		Update(stockSnapshotsTable).
		Set("stale", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"sku": sku}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao marcar snapshot como desatualizado: %w", err)
	}

	return nil
}

func (r *stockSnapshotRepository) ListAll() ([]*domain.StockSnapshot, error) {
	query, args, err := squirrel.
		Select(stockColumns).
		From(stockSnapshotsTable).
		OrderBy("sku ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.StockSnapshot, 0)
	for rows.Next() {
		snapshot, err := scanSnapshotRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear snapshots de estoque: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return snapshots, nil
}

func scanSnapshotFrom(scanner orderScanner) (*domain.StockSnapshot, error) {
	snapshot := &domain.StockSnapshot{}
	var name, lastEvent sql.NullString
	var warehousesJSON []byte
	var receivedAt sql.NullTime

	err := scanner.Scan(
		&snapshot.SKU,
		&name,
		&snapshot.Quantity,
		&warehousesJSON,
		&snapshot.Stale,
		&lastEvent,
		&receivedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	snapshot.Name = name.String
	snapshot.LastEvent = lastEvent.String
	if receivedAt.Valid {
		snapshot.WebhookReceivedAt = &receivedAt.Time
	}

	if warehousesJSON != nil {
		if err := json.Unmarshal(warehousesJSON, &snapshot.Warehouses); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de depósitos: %w", err)
		}
	}

	return snapshot, nil
}

func scanSnapshot(row *sql.Row) (*domain.StockSnapshot, error) {
	return scanSnapshotFrom(row)
}

func scanSnapshotRows(rows *sql.Rows) (*domain.StockSnapshot, error) {
	return scanSnapshotFrom(rows)
}
