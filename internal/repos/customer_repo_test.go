package repos_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"thebaker/internal/domain"
	"thebaker/internal/repos"
)

func custdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE customers(id TEXT PRIMARY KEY, phone TEXT UNIQUE, name TEXT DEFAULT '',
	  points INTEGER DEFAULT 0, marketing_consent INTEGER DEFAULT 0,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	INSERT INTO customers(id,phone,name,points) VALUES ('c1','01012345678','Mina',100);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestAdjustPointsErrorTaxonomy(t *testing.T) {
	db := custdb(t)
	repo := repos.NewCustomerRepo(db)

	// an overdraft is a balance problem, not a lookup problem
	err := repo.AdjustPoints(db, "c1", -150)
	if !errors.Is(err, domain.ErrInsufficientPoints) {
		t.Fatalf("want ErrInsufficientPoints, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("overdraft must not read as not-found")
	}

	// a missing customer is a lookup problem, not a balance problem
	err = repo.AdjustPoints(db, "no-such", 10)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if errors.Is(err, domain.ErrInsufficientPoints) {
		t.Fatal("missing customer must not read as an overdraft")
	}

	if err := repo.AdjustPoints(db, "c1", -100); err != nil {
		t.Fatal(err)
	}
	c, err := repo.Get("c1")
	if err != nil {
		t.Fatal(err)
	}
	if c.Points != 0 {
		t.Fatalf("want balance 0, got %d", c.Points)
	}
}

func TestFindOrCreateIsLazy(t *testing.T) {
	db := custdb(t)
	repo := repos.NewCustomerRepo(db)

	c, err := repo.FindOrCreate(db, "01012345678", "Guest")
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != "c1" || c.Name != "Mina" {
		t.Fatalf("existing customer replaced: %+v", c)
	}

	c, err = repo.FindOrCreate(db, "01099990000", "Guest")
	if err != nil {
		t.Fatal(err)
	}
	if c.ID == "" || c.Points != 0 || c.Name != "Guest" {
		t.Fatalf("unexpected new customer %+v", c)
	}
}
