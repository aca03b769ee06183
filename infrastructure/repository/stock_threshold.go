package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/database/postgres"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const stockThresholdsTable = "stock_thresholds"

type StockThresholdRepository interface {
	GetBySKU(sku string) (*domain.StockThreshold, error)
	GetBySKUs(skus []string) (map[string]*domain.StockThreshold, error)
	SaveOrUpdate(threshold *domain.StockThreshold) error
}

type stockThresholdRepository struct {
	conn *postgres.Connection
}

func NewStockThresholdRepository(conn *postgres.Connection) StockThresholdRepository {
	return &stockThresholdRepository{
		conn: conn,
	}
}

func (r *stockThresholdRepository) GetBySKU(sku string) (*domain.StockThreshold, error) {
	query, args, err := squirrel.
		Select("sku", "stock_min", "stock_max", "updated_at").
		From(stockThresholdsTable).
		Where(squirrel.Eq{"sku": sku}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	threshold := &domain.StockThreshold{}
	err = r.conn.QueryRow(query, args...).Scan(
		&threshold.SKU,
		&threshold.StockMin,
		&threshold.StockMax,
		&threshold.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar limites de estoque: %w", err)
	}

	return threshold, nil
}

func (r *stockThresholdRepository) GetBySKUs(skus []string) (map[string]*domain.StockThreshold, error) {
	result := make(map[string]*domain.StockThreshold, len(skus))
	if len(skus) == 0 {
		return result, nil
	}

	query, args, err := squirrel.
		Select("sku", "stock_min", "stock_max", "updated_at").
		From(stockThresholdsTable).
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
		threshold := &domain.StockThreshold{}
		err := rows.Scan(
			&threshold.SKU,
			&threshold.StockMin,
			&threshold.StockMax,
			&threshold.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear limites de estoque: %w", err)
		}
		result[threshold.SKU] = threshold
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return result, nil
}

func (r *stockThresholdRepository) SaveOrUpdate(threshold *domain.StockThreshold) error {
	query := squirrel.StatementBuilder.
		Insert(stockThresholdsTable).
		Columns("sku", "stock_min", "stock_max").
		Values(threshold.SKU, threshold.StockMin, threshold.StockMax).
		Suffix(`
			ON CONFLICT (sku) DO UPDATE SET
				stock_min = EXCLUDED.stock_min,
				stock_max = EXCLUDED.stock_max,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("erro ao gravar limites de estoque: %w", err)
	}

	return nil
}
