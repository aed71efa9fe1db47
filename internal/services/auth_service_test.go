package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"thebaker/internal/repos"
	"thebaker/internal/services"
)

func newAuthService(t *testing.T) (*services.AuthService, *sqlx.DB) {
	t.Helper()
	db := memdb(t)
	schema := `
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT UNIQUE, name TEXT,
	  password_hash TEXT, role TEXT, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE sessions(id TEXT PRIMARY KEY, user_id TEXT,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, last_seen TEXT);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO users(id,email,name,password_hash,role)
	  VALUES ('u-counter','counter@thebaker.test','Counter',?,'STAFF')`, string(hash)); err != nil {
		t.Fatal(err)
	}
	return &services.AuthService{Users: repos.NewUserRepo(db)}, db
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Login("sid-1", "counter@thebaker.test", "wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds for bad password, got %v", err)
	}
	if _, err := svc.Login("sid-1", "nobody@thebaker.test", "Passw0rd!"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds for unknown email, got %v", err)
	}
}

func TestLoginBindsSession(t *testing.T) {
	svc, _ := newAuthService(t)

	u, err := svc.Login("sid-1", "counter@thebaker.test", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "STAFF" {
		t.Fatalf("want STAFF, got %s", u.Role)
	}

	got, err := svc.CurrentUser("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("session resolved to %s, want %s", got.ID, u.ID)
	}

	if err := svc.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser("sid-1"); err == nil {
		t.Fatal("logged-out session must not resolve")
	}
}

func TestIdleSessionExpires(t *testing.T) {
	svc, db := newAuthService(t)

	if _, err := svc.Login("sid-1", "counter@thebaker.test", "Passw0rd!"); err != nil {
		t.Fatal(err)
	}

	// a tablet left alone overnight
	if _, err := db.Exec(`UPDATE sessions SET last_seen = datetime('now', '-13 hours') WHERE id = 'sid-1'`); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser("sid-1"); err == nil {
		t.Fatal("stale session must read as logged out")
	}

	// activity inside the window keeps the session alive
	if _, err := db.Exec(`UPDATE sessions SET last_seen = datetime('now', '-11 hours') WHERE id = 'sid-1'`); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser("sid-1"); err != nil {
		t.Fatalf("live session rejected: %v", err)
	}

	// that read slid the window forward
	var seen string
	if err := db.Get(&seen, `SELECT last_seen FROM sessions WHERE id = 'sid-1'`); err != nil {
		t.Fatal(err)
	}
	var stale int
	if err := db.Get(&stale, `SELECT COUNT(*) FROM sessions WHERE id = 'sid-1' AND last_seen < datetime('now', '-1 hour')`); err != nil {
		t.Fatal(err)
	}
	if stale != 0 {
		t.Fatalf("TouchSession did not refresh last_seen (still %s)", seen)
	}
}
