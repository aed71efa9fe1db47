package repos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"thebaker/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, customer_id, ordered_at, cancelled_at, total, points_used,
  points_earned, memo, pickup_time, takeaway, wants_cut, archived, status`

// Insert writes the order header and its line items in the caller's
// transaction.
func (r *OrderRepo) Insert(ext sqlx.Ext, o domain.Order) error {
	_, err := ext.Exec(`
	  INSERT INTO orders
	    (id, customer_id, ordered_at, total, points_used, points_earned,
	     memo, pickup_time, takeaway, wants_cut, archived, status)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`, o.ID, o.CustomerID, o.OrderedAt, o.Total, o.PointsUsed, o.PointsEarned,
		o.Memo, o.PickupTime, o.Takeaway, o.WantsCut, o.Status)
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := ext.Exec(`
		  INSERT INTO order_items(order_id, product_id, qty, price_at_purchase)
		  VALUES (?, ?, ?, ?)
		`, o.ID, it.ProductID, it.Qty, it.PriceAtPurchase); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	return r.GetTx(r.db, id)
}

// GetTx loads an order with its items inside the caller's transaction.
func (r *OrderRepo) GetTx(ext sqlx.Ext, id string) (domain.Order, error) {
	var o domain.Order
	err := sqlx.Get(ext, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return o, fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return o, err
	}
	err = sqlx.Select(ext, &o.Items, `
	  SELECT order_id, product_id, qty, price_at_purchase
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY product_id
	`, id)
	return o, err
}

// ListAll returns orders newest first.
func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+`
	  FROM orders
	  ORDER BY ordered_at DESC, id
	`)
	return out, err
}

// ListByPhone returns a customer's orders newest first.
func (r *OrderRepo) ListByPhone(phone string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT o.id, o.customer_id, o.ordered_at, o.cancelled_at, o.total, o.points_used,
	         o.points_earned, o.memo, o.pickup_time, o.takeaway, o.wants_cut, o.archived, o.status
	  FROM orders o
	  JOIN customers c ON c.id = o.customer_id
	  WHERE c.phone = ?
	  ORDER BY o.ordered_at DESC, o.id
	`, phone)
	return out, err
}

func (r *OrderRepo) CountByStatus(status domain.OrderStatus) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders WHERE status = ?`, status)
	return n, err
}

// SetStatus flips the status only when the current one matches `from`, so a
// concurrent transition loses cleanly instead of double-applying.
func (r *OrderRepo) SetStatus(ext sqlx.Ext, id string, from, to domain.OrderStatus) error {
	res, err := ext.Exec(`UPDATE orders SET status = ? WHERE id = ? AND status = ?`, to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: order %s is not %s", domain.ErrInvalidTransition, id, from)
	}
	return nil
}

// MarkCompleted records the earned points and the terminal COMPLETED status.
func (r *OrderRepo) MarkCompleted(ext sqlx.Ext, id string, pointsEarned int) error {
	_, err := ext.Exec(`
	  UPDATE orders SET status = ?, points_earned = ? WHERE id = ?
	`, domain.StatusCompleted, pointsEarned, id)
	return err
}

// MarkCancelled records the terminal CANCELLED status with its timestamp.
func (r *OrderRepo) MarkCancelled(ext sqlx.Ext, id, cancelledAt string) error {
	_, err := ext.Exec(`
	  UPDATE orders SET status = ?, cancelled_at = ? WHERE id = ?
	`, domain.StatusCancelled, cancelledAt, id)
	return err
}

func (r *OrderRepo) SetArchived(id string, archived bool) error {
	res, err := r.db.Exec(`UPDATE orders SET archived = ? WHERE id = ?`, archived, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: order %s", domain.ErrNotFound, id)
	}
	return nil
}
