package repos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"thebaker/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, price, stock, category, image_path, active, created_at, updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	return r.GetTx(r.db, id)
}

// GetTx reads a product inside the caller's transaction (ext may also be the
// plain DB handle).
func (r *ProductRepo) GetTx(ext sqlx.Ext, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(ext, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return p, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return p, err
}

// ListAll returns every active product, newest first.
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE active = 1
	  ORDER BY created_at DESC, name
	`)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, price, stock, category, image_path, active)
	  VALUES (?, ?, ?, ?, ?, ?, 1)
	`, p.ID, p.Name, p.Price, p.Stock, p.Category, p.ImagePath)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, price = ?, stock = ?, category = ?, image_path = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND active = 1
	`, p.Name, p.Price, p.Stock, p.Category, p.ImagePath, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

// SoftDelete hides a product from the menu while historical order lines keep
// referencing it.
func (r *ProductRepo) SoftDelete(id string) error {
	res, err := r.db.Exec(`UPDATE products SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return nil
}

// SetStock overwrites the stock count (staff stocktake, not order flow).
func (r *ProductRepo) SetStock(id string, qty int) error {
	res, err := r.db.Exec(`UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, qty, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return nil
}

// Reserve atomically subtracts qty units if enough stock exists. The
// conditional UPDATE is the read-modify-write guard; concurrent reservations
// on the same product serialize on the row.
func (r *ProductRepo) Reserve(ext sqlx.Ext, id string, qty int) error {
	res, err := ext.Exec(`
	  UPDATE products
	  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	`, qty, id, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a missing product from an empty shelf
		var exists int
		if err := sqlx.Get(ext, &exists, `SELECT COUNT(*) FROM products WHERE id = ?`, id); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("%w: product %s (requested %d)", domain.ErrInsufficientStock, id, qty)
	}
	return nil
}

// Release puts qty units back; used only by cancellation, once per order
// (the caller enforces the once-only guard).
func (r *ProductRepo) Release(ext sqlx.Ext, id string, qty int) error {
	res, err := ext.Exec(`
	  UPDATE products
	  SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, qty, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return nil
}
