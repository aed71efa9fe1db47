package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"thebaker/internal/domain"
	"thebaker/internal/repos"
)

// ErrBadCreds covers every staff login failure; the message never reveals
// whether the email or the password was wrong.
var ErrBadCreds = errors.New("invalid email or password")

// AuthService signs counter staff in and out and resolves the session
// cookie on each request.
type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser returns the staff member behind a session, or an error when
// the session is unknown or has sat idle past the window. An active read
// keeps the session alive.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	u, err := s.Users.SessionUser(sid)
	if err != nil {
		return nil, err
	}
	_ = s.Users.TouchSession(sid)
	return u, nil
}
