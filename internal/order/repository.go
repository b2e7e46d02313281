package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sakura-imports/books-backend/internal/store"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id int64) error
	BatchEdit(ctx context.Context, ids []int64, deliveryDate *string, paymentType *string) (int64, error)
	BatchDelete(ctx context.Context, ids []int64) (int64, error)
}

type postgresRepository struct {
	db store.Querier
}

func NewRepository(db store.Querier) Repository {
	return &postgresRepository{db: db}
}

const orderColumns = `order_id, customer_id, asset_code, customer_name, asset_name, order_date,
	order_real, order_ien, frete_brasil, frete_jp, total_value, delivery_date, payment_type,
	created_at, updated_at`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.CustomerID, &o.AssetCode, &o.CustomerName, &o.AssetName, &o.OrderDate,
		&o.OrderReal, &o.OrderIen, &o.FreteBrasil, &o.FreteJP, &o.TotalValue, &o.DeliveryDate,
		&o.PaymentType, &o.CreatedAt, &o.UpdatedAt)
}

func (r *postgresRepository) Create(ctx context.Context, o *Order) error {
	query := `
		INSERT INTO orders (customer_id, asset_code, customer_name, asset_name, order_date,
			order_real, order_ien, frete_brasil, frete_jp, total_value, delivery_date, payment_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING order_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		o.CustomerID, o.AssetCode, o.CustomerName, o.AssetName, o.OrderDate,
		o.OrderReal, o.OrderIen, o.FreteBrasil, o.FreteJP, o.TotalValue, o.DeliveryDate, o.PaymentType,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order %d: %w", id, err)
	}
	return &o, nil
}

func (r *postgresRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	where := ""
	args := []any{}
	if filter.CustomerName != "" {
		where = " WHERE customer_name ILIKE $1"
		args = append(args, "%"+filter.CustomerName+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("repository: failed to count orders: %w", err)
	}

	direction := "DESC"
	if filter.SortOldest {
		direction = "ASC"
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(" ORDER BY order_date %s, order_id %s", direction, direction)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	totalPages := 1
	// Filtered listings skip pagination, matching the legacy behavior of
	// showing a customer's full history on one page.
	if filter.CustomerName == "" {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, perPage, (page-1)*perPage)
	} else {
		page = 1
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return &ListResult{Orders: orders, Page: page, TotalPages: totalPages, Total: total}, nil
}

func (r *postgresRepository) Update(ctx context.Context, o *Order) error {
	query := `
		UPDATE orders
		SET customer_name = $1, asset_name = $2, order_date = $3, order_real = $4, order_ien = $5,
			frete_brasil = $6, frete_jp = $7, total_value = $8, delivery_date = $9, payment_type = $10,
			updated_at = now()
		WHERE order_id = $11
	`
	tag, err := r.db.Exec(ctx, query,
		o.CustomerName, o.AssetName, o.OrderDate, o.OrderReal, o.OrderIen,
		o.FreteBrasil, o.FreteJP, o.TotalValue, o.DeliveryDate, o.PaymentType, o.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update order %d: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// BatchEdit updates delivery date and/or payment type over a set of orders.
// These are the only mutable fields after creation besides deletion.
func (r *postgresRepository) BatchEdit(ctx context.Context, ids []int64, deliveryDate *string, paymentType *string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sets := []string{"updated_at = now()"}
	args := []any{ids}
	if deliveryDate != nil {
		args = append(args, *deliveryDate)
		sets = append(sets, fmt.Sprintf("delivery_date = $%d", len(args)))
	}
	if paymentType != nil {
		args = append(args, *paymentType)
		sets = append(sets, fmt.Sprintf("payment_type = $%d", len(args)))
	}

	query := `UPDATE orders SET ` + strings.Join(sets, ", ") + ` WHERE order_id = ANY($1)`
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to batch edit orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to batch delete orders: %w", err)
	}
	return tag.RowsAffected(), nil
}
