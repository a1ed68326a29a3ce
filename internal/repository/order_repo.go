package repository

import (
	"context"
	"encoding/json"

	"loyalty_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, user_id, name, mobile, email, address, items, payment,
	amount::text, earned_coin, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o           domain.Order
		addressJSON []byte
		itemsJSON   []byte
		paymentJSON []byte
		amount      string
	)
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Name, &o.Mobile, &o.Email, &addressJSON,
		&itemsJSON, &paymentJSON, &amount, &o.EarnedCoin, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	if len(addressJSON) > 0 {
		_ = json.Unmarshal(addressJSON, &o.Address)
	}
	o.Items = json.RawMessage(itemsJSON)
	o.Payment = json.RawMessage(paymentJSON)
	o.Amount = parseNumeric(amount)
	return &o, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	addressJSON, err := json.Marshal(o.Address)
	if err != nil {
		addressJSON = []byte("{}")
	}
	items := o.Items
	if len(items) == 0 {
		items = json.RawMessage("[]")
	}
	payment := o.Payment
	if len(payment) == 0 {
		payment = json.RawMessage("{}")
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPlaced
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO orders (order_number, user_id, name, mobile, email, address, items, payment, amount, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.UserID, o.Name, o.Mobile, o.Email, addressJSON, []byte(items), []byte(payment),
		numeric(o.Amount), o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return translate(err)
}

// SetEarnedCoin records the coins credited for the order once the ledger accepted them
func (r *OrderRepository) SetEarnedCoin(ctx context.Context, id int64, coins int64) error {
	_, err := r.db.Exec(ctx, `UPDATE orders SET earned_coin = $2 WHERE id = $1`, id, coins)
	return translate(err)
}

func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, number))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, number, status string) (*domain.Order, error) {
	return scanOrder(r.db.QueryRow(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE order_number = $1 RETURNING `+orderColumns,
		number, status,
	))
}

func orderConditions(f domain.OrderFilter) *conditions {
	c := &conditions{}
	if f.Mobile != "" {
		c.eq("mobile", f.Mobile)
	}
	if f.Status != "" {
		c.eq("status", f.Status)
	}
	return c
}

func (r *OrderRepository) Count(ctx context.Context, f domain.OrderFilter) (int, error) {
	c := orderConditions(f)
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+c.where(), c.args...).Scan(&total)
	return total, translate(err)
}

// Find returns newest orders first
func (r *OrderRepository) Find(ctx context.Context, f domain.OrderFilter, offset, limit int) ([]domain.Order, error) {
	c := orderConditions(f)
	sql := `SELECT ` + orderColumns + ` FROM orders` + c.where() + ` ORDER BY created_at DESC, id DESC` + c.page(limit, offset)

	rows, err := r.db.Query(ctx, sql, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var res []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *o)
	}
	return res, translate(rows.Err())
}
