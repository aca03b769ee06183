package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/database/postgres"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const inventoryMovementsTable = "inventory_movements"

// ErrInsufficientBalance indica tentativa de saída maior que o saldo.
var ErrInsufficientBalance = errors.New("saldo insuficiente para a movimentação")

// InventoryMovementRepository mantém o razão de movimentações com saldo
// corrente. Registros com saldo exigem read-modify-write atômico: a
// gravação acontece dentro de uma transação com SELECT ... FOR UPDATE,
// nunca como leitura seguida de escrita separadas.
type InventoryMovementRepository interface {
	Record(ctx context.Context, movement *domain.InventoryMovement) (*domain.InventoryMovement, error)
	ListBySKU(sku string, limit int) ([]*domain.InventoryMovement, error)
}

type inventoryMovementRepository struct {
	conn *postgres.Connection
}

func NewInventoryMovementRepository(conn *postgres.Connection) InventoryMovementRepository {
	return &inventoryMovementRepository{
		conn: conn,
	}
}

func (r *inventoryMovementRepository) Record(ctx context.Context, movement *domain.InventoryMovement) (*domain.InventoryMovement, error) {
	recorded := *movement

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		var balance float64

		// Trava o último lançamento do SKU até o commit para impedir
		// lost updates sob movimentações concorrentes.
		query, args, err := squirrel.
			Select("balance").
			From(inventoryMovementsTable).
			Where(squirrel.Eq{"sku": movement.SKU}).
			OrderBy("id DESC").
			Limit(1).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		err = tx.QueryRowContext(ctx, query, args...).Scan(&balance)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("erro ao buscar saldo corrente: %w", err)
		}

		switch movement.Type {
		case domain.MovementIn:
			recorded.Balance = balance + movement.Quantity
		case domain.MovementOut:
			if balance < movement.Quantity {
				return ErrInsufficientBalance
			}
			recorded.Balance = balance - movement.Quantity
		default:
			return fmt.Errorf("tipo de movimentação desconhecido: %s", movement.Type)
		}

		insert, insertArgs, err := squirrel.
			Insert(inventoryMovementsTable).
			Columns("sku", "type", "quantity", "balance", "reason").
			Values(movement.SKU, string(movement.Type), movement.Quantity, recorded.Balance, movement.Reason).
			Suffix("RETURNING id, created_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if err := tx.QueryRowContext(ctx, insert, insertArgs...).Scan(&recorded.ID, &recorded.CreatedAt); err != nil {
			return fmt.Errorf("erro ao gravar movimentação: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &recorded, nil
}

func (r *inventoryMovementRepository) ListBySKU(sku string, limit int) ([]*domain.InventoryMovement, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := squirrel.
		Select("id", "sku", "type", "quantity", "balance", "reason", "created_at").
		From(inventoryMovementsTable).
		Where(squirrel.Eq{"sku": sku}).
		OrderBy("id DESC").
		Limit(uint64(limit)).
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

	movements := make([]*domain.InventoryMovement, 0)
	for rows.Next() {
		movement := &domain.InventoryMovement{}
		var reason sql.NullString
		err := rows.Scan(
			&movement.ID,
			&movement.SKU,
			&movement.Type,
			&movement.Quantity,
			&movement.Balance,
			&reason,
			&movement.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear movimentações: %w", err)
		}
		movement.Reason = reason.String
		movements = append(movements, movement)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return movements, nil
}
