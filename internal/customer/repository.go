package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sakura-imports/books-backend/internal/store"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerExists   = errors.New("customer with this name already exists")
)

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id int64) (*Customer, error)
	GetByName(ctx context.Context, name string) (*Customer, error)
	ResolveOrCreate(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
	OrderCount(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context) ([]ListEntry, error)
}

type postgresRepository struct {
	db store.Querier
}

// NewRepository builds a repository over a pool or an open transaction.
func NewRepository(db store.Querier) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, c *Customer) error {
	query := `
		INSERT INTO customers (customer_name, customer_address, customer_telephone, delivery_time_request)
		VALUES ($1, $2, $3, $4)
		RETURNING customer_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, c.Name, c.Address, c.Telephone, c.DeliveryTimeRequest).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrCustomerExists
		}
		return fmt.Errorf("repository: failed to insert customer: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	query := `
		SELECT customer_id, customer_name, customer_address, customer_telephone, delivery_time_request, created_at, updated_at
		FROM customers
		WHERE customer_id = $1
	`
	var c Customer
	err := r.db.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.Telephone, &c.DeliveryTimeRequest, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("repository: failed to select customer %d: %w", id, err)
	}
	return &c, nil
}

func (r *postgresRepository) GetByName(ctx context.Context, name string) (*Customer, error) {
	query := `
		SELECT customer_id, customer_name, customer_address, customer_telephone, delivery_time_request, created_at, updated_at
		FROM customers
		WHERE customer_name = $1
	`
	var c Customer
	err := r.db.QueryRow(ctx, query, name).
		Scan(&c.ID, &c.Name, &c.Address, &c.Telephone, &c.DeliveryTimeRequest, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("repository: failed to select customer %q: %w", name, err)
	}
	return &c, nil
}

// ResolveOrCreate looks a customer up by exact name, creating one with blank
// optional fields if absent. Callers that go on to reference the returned id
// must run this on the same transaction, so a later failure also undoes the
// creation.
func (r *postgresRepository) ResolveOrCreate(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT customer_id FROM customers WHERE customer_name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("repository: failed to resolve customer %q: %w", name, err)
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO customers (customer_name) VALUES ($1) RETURNING customer_id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to create customer %q: %w", name, err)
	}
	return id, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *Customer) error {
	query := `
		UPDATE customers
		SET customer_name = $1, customer_address = $2, customer_telephone = $3,
			delivery_time_request = $4, updated_at = now()
		WHERE customer_id = $5
	`
	tag, err := r.db.Exec(ctx, query, c.Name, c.Address, c.Telephone, c.DeliveryTimeRequest, c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrCustomerExists
		}
		return fmt.Errorf("repository: failed to update customer %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *postgresRepository) OrderCount(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count orders for customer %d: %w", id, err)
	}
	return count, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]ListEntry, error) {
	// Orders join on the name snapshot, matching how the listing has always
	// counted orders that predate the customer row.
	query := `
		SELECT c.customer_id, c.customer_name, c.customer_address, c.customer_telephone,
			c.delivery_time_request, c.created_at, c.updated_at,
			COUNT(o.order_id) AS total_orders,
			COALESCE(SUM(o.total_value), 0) AS total_spent,
			MAX(o.order_date) AS last_order
		FROM customers c
		LEFT JOIN orders o ON c.customer_name = o.customer_name
		GROUP BY c.customer_id
		ORDER BY c.customer_name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query customers: %w", err)
	}
	defer rows.Close()

	entries := make([]ListEntry, 0)
	for rows.Next() {
		var e ListEntry
		err := rows.Scan(&e.ID, &e.Name, &e.Address, &e.Telephone, &e.DeliveryTimeRequest,
			&e.CreatedAt, &e.UpdatedAt, &e.TotalOrders, &e.TotalSpent, &e.LastOrder)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan customer: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating customers: %w", err)
	}
	return entries, nil
}
