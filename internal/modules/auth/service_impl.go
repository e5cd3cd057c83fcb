package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/lubinda/stockline-backend/internal/apperr"
	"github.com/lubinda/stockline-backend/internal/modules/account"
	"github.com/lubinda/stockline-backend/internal/modules/activity"
)

// Claims carries the account id (subject) and role inside the JWT.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

type service struct {
	accountRepo account.Repository
	secret      []byte
	activity    activity.Recorder
}

// NewService creates a new auth service signing tokens with the given secret.
func NewService(accountRepo account.Repository, secret []byte, recorder activity.Recorder) Service {
	return &service{accountRepo: accountRepo, secret: secret, activity: recorder}
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	a, err := s.accountRepo.GetAccountByEmail(ctx, email)
	if err != nil {
		return "", apperr.Unauthorized("email or password is incorrect")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", apperr.Unauthorized("email or password is incorrect")
	}
	if !a.Verified {
		return "", apperr.Unauthorized("account is not verified")
	}

	claims := &Claims{
		Role: string(a.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   a.ID.String(),
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.activity.Record(ctx, a.ID, "login", "successful login")

	return signed, nil
}
