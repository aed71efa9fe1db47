package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"thebaker/internal/domain"
)

type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = `id, phone, name, points, marketing_consent, created_at`

func (r *CustomerRepo) Get(id string) (domain.Customer, error) {
	return r.GetTx(r.db, id)
}

// GetTx reads a customer inside the caller's transaction.
func (r *CustomerRepo) GetTx(ext sqlx.Ext, id string) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.Get(ext, &c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return c, fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
	}
	return c, err
}

func (r *CustomerRepo) ByPhone(phone string) (domain.Customer, error) {
	return r.byPhone(r.db, phone)
}

func (r *CustomerRepo) byPhone(ext sqlx.Ext, phone string) (domain.Customer, error) {
	var c domain.Customer
	err := sqlx.Get(ext, &c, `SELECT `+customerCols+` FROM customers WHERE phone = ?`, phone)
	if err == sql.ErrNoRows {
		return c, fmt.Errorf("%w: customer with phone %s", domain.ErrNotFound, phone)
	}
	return c, err
}

// FindOrCreate looks a customer up by phone and lazily creates a zero-point
// record with the given display name when none exists.
func (r *CustomerRepo) FindOrCreate(ext sqlx.Ext, phone, defaultName string) (domain.Customer, error) {
	c, err := r.byPhone(ext, phone)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return c, err
	}
	c = domain.Customer{ID: uuid.NewString(), Phone: phone, Name: defaultName}
	_, err = ext.Exec(`
	  INSERT INTO customers(id, phone, name, points, marketing_consent)
	  VALUES (?, ?, ?, 0, 0)
	`, c.ID, c.Phone, c.Name)
	if err != nil {
		return c, err
	}
	return r.byPhone(ext, phone)
}

// UpdateProfile sets the display name and marketing consent.
func (r *CustomerRepo) UpdateProfile(ext sqlx.Ext, id, name string, consent bool) error {
	_, err := ext.Exec(`UPDATE customers SET name = ?, marketing_consent = ? WHERE id = ?`, name, consent, id)
	return err
}

// AdjustPoints applies a single signed delta to the balance. The conditional
// UPDATE refuses any delta that would take the balance below zero, so a
// use+earn pair must be combined into one call by the caller.
func (r *CustomerRepo) AdjustPoints(ext sqlx.Ext, id string, delta int) error {
	res, err := ext.Exec(`
	  UPDATE customers
	  SET points = points + ?
	  WHERE id = ? AND points + ? >= 0
	`, delta, id, delta)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var c domain.Customer
		gerr := sqlx.Get(ext, &c, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
		if gerr == sql.ErrNoRows {
			return fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
		}
		if gerr != nil {
			return gerr
		}
		return fmt.Errorf("%w: balance %dP, requested %dP", domain.ErrInsufficientPoints, c.Points, -delta)
	}
	return nil
}
