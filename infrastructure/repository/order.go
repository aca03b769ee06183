package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vpicolo/fabrica-manager-api/infrastructure/database/postgres"
	"github.com/vpicolo/fabrica-manager-api/internal/domain"
)

const ordersTable = "sales_orders"

type OrderRepository interface {
	GetByID(orderID int64) (*domain.SalesOrder, error)
	// Upsert grava o pedido com chave no id de origem e reporta se a
	// escrita inseriu (true) ou sobrescreveu (false) o documento.
	Upsert(order *domain.SalesOrder) (created bool, err error)
	// ExistingIDs devolve o subconjunto de ids já presentes localmente.
	ExistingIDs(orderIDs []int64) (map[int64]bool, error)
	// LatestIssueDate retorna a data de emissão mais recente entre os
	// pedidos ativos, ou nil quando a base está vazia.
	LatestIssueDate() (*time.Time, error)
	ListActive(startDate, endDate *time.Time) ([]*domain.SalesOrder, error)
	// ListInvoicedInRange retorna pedidos ativos com nota fiscal emitida
	// na janela, insumo do cálculo de demanda.
	ListInvoicedInRange(startDate, endDate time.Time) ([]*domain.SalesOrder, error)
	SoftDelete(orderID int64) error
	DeleteAll() (int64, error)
}

type orderRepository struct {
	conn *postgres.Connection
}

func NewOrderRepository(conn *postgres.Connection) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

const orderColumns = "id, number, store, customer, items, total, total_products, shipping, invoice_number, status, issue_date, webhook_source, deleted, deleted_at, created_at, updated_at"

func (r *orderRepository) GetByID(orderID int64) (*domain.SalesOrder, error) {
	query, args, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		Where(squirrel.Eq{"id": orderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	order, err := scanOrder(r.conn.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar pedido: %w", err)
	}

	return order, nil
}

func (r *orderRepository) Upsert(order *domain.SalesOrder) (bool, error) {
	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return false, fmt.Errorf("erro ao serializar cliente: %w", err)
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return false, fmt.Errorf("erro ao serializar itens: %w", err)
	}

	var shippingJSON []byte
	if order.Shipping != nil {
		shippingJSON, err = json.Marshal(order.Shipping)
		if err != nil {
			return false, fmt.Errorf("erro ao serializar transporte: %w", err)
		}
	}

	// xmax = 0 distingue inserção real de sobrescrita no ON CONFLICT,
	// alimentando os contadores created/updated do resumo de sync.
	query := squirrel.StatementBuilder.
		Insert(ordersTable).
		Columns("id", "number", "store", "customer", "items", "total", "total_products", "shipping", "invoice_number", "status", "issue_date", "webhook_source").
		Values(
			order.ID,
			order.Number,
			order.Store,
			customerJSON,
			itemsJSON,
			order.Total,
			order.TotalProducts,
			shippingJSON,
			order.InvoiceNumber,
			order.Status,
			order.IssueDate,
			order.WebhookSource,
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				number = EXCLUDED.number,
				store = EXCLUDED.store,
				customer = EXCLUDED.customer,
				items = EXCLUDED.items,
				total = EXCLUDED.total,
				total_products = EXCLUDED.total_products,
				shipping = EXCLUDED.shipping,
				invoice_number = EXCLUDED.invoice_number,
				status = EXCLUDED.status,
				issue_date = EXCLUDED.issue_date,
				webhook_source = EXCLUDED.webhook_source,
				updated_at = NOW()
			RETURNING (xmax = 0) AS inserted
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var inserted bool
	err = r.conn.QueryRow(sqlQuery, args...).Scan(&inserted)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return false, fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return false, fmt.Errorf("erro ao gravar pedido: %w", err)
	}

	return inserted, nil
}

func (r *orderRepository) ExistingIDs(orderIDs []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(orderIDs))
	if len(orderIDs) == 0 {
		return existing, nil
	}

	query, args, err := squirrel.
		Select("id").
		From(ordersTable).
		Where(squirrel.Eq{"id": orderIDs}).
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
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("erro ao escanear id de pedido: %w", err)
		}
		existing[id] = true
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return existing, nil
}

func (r *orderRepository) LatestIssueDate() (*time.Time, error) {
	query, args, err := squirrel.
		Select("MAX(issue_date)").
		From(ordersTable).
		Where(squirrel.Eq{"deleted": false}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var latest sql.NullTime
	if err := r.conn.QueryRow(query, args...).Scan(&latest); err != nil {
		return nil, fmt.Errorf("erro ao buscar última data de emissão: %w", err)
	}

	if !latest.Valid {
		return nil, nil
	}

	return &latest.Time, nil
}

func (r *orderRepository) ListActive(startDate, endDate *time.Time) ([]*domain.SalesOrder, error) {
	builder := squirrel.
		Select(orderColumns).
		From(ordersTable).
		Where(squirrel.Eq{"deleted": false}).
		OrderBy("issue_date DESC")

	if startDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"issue_date": startDate.Format(time.DateOnly)})
	}
	if endDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"issue_date": endDate.Format(time.DateOnly)})
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryOrders(query, args...)
}

func (r *orderRepository) ListInvoicedInRange(startDate, endDate time.Time) ([]*domain.SalesOrder, error) {
	query, args, err := squirrel.
		Select(orderColumns).
		From(ordersTable).
		Where(squirrel.Eq{"deleted": false}).
		Where(squirrel.NotEq{"invoice_number": nil}).
		Where(squirrel.GtOrEq{"issue_date": startDate.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"issue_date": endDate.Format(time.DateOnly)}).
		OrderBy("issue_date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryOrders(query, args...)
}

// SoftDelete marca o pedido como apagado sem removê-lo; ele some das
// listagens ativas mas continua consultável por ID.
func (r *orderRepository) SoftDelete(orderID int64) error {
	query, args, err := squirrel.
		Update(ordersTable).
		Set("deleted", true).
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": orderID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao marcar pedido como apagado: %w", err)
	}

	return nil
}

func (r *orderRepository) DeleteAll() (int64, error) {
	query, args, err := squirrel.
		Delete(ordersTable).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *orderRepository) queryOrders(query string, args ...interface{}) ([]*domain.SalesOrder, error) {
	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.SalesOrder, 0)
	for rows.Next() {
		order, err := scanOrderRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear pedidos: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return orders, nil
}

type orderScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrderFrom(scanner orderScanner) (*domain.SalesOrder, error) {
	order := &domain.SalesOrder{}
	var customerJSON, itemsJSON, shippingJSON []byte
	var invoiceNumber sql.NullString
	var deletedAt sql.NullTime

	err := scanner.Scan(
		&order.ID,
		&order.Number,
		&order.Store,
		&customerJSON,
		&itemsJSON,
		&order.Total,
		&order.TotalProducts,
		&shippingJSON,
		&invoiceNumber,
		&order.Status,
		&order.IssueDate,
		&order.WebhookSource,
		&order.Deleted,
		&deletedAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if customerJSON != nil {
		if err := json.Unmarshal(customerJSON, &order.Customer); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de cliente: %w", err)
		}
	}

	if itemsJSON != nil {
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de itens: %w", err)
		}
	}

	if shippingJSON != nil {
		shipping := &domain.Shipping{}
		if err := json.Unmarshal(shippingJSON, shipping); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de transporte: %w", err)
		}
		order.Shipping = shipping
	}

	if invoiceNumber.Valid {
		order.InvoiceNumber = &invoiceNumber.String
	}

	if deletedAt.Valid {
		order.DeletedAt = &deletedAt.Time
	}

	return order, nil
}

func scanOrder(row *sql.Row) (*domain.SalesOrder, error) {
	return scanOrderFrom(row)
}

func scanOrderRows(rows *sql.Rows) (*domain.SalesOrder, error) {
	return scanOrderFrom(rows)
}
