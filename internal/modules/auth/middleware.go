package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"

	"github.com/lubinda/stockline-backend/internal/modules/account"
)

// Authorize builds the role-gating middleware used by every protected route.
// It verifies the bearer token, reloads the account (so revoked accounts and
// stale role claims are caught), checks the role allow-list, and attaches
// the resulting Principal to the request context.
func Authorize(accountRepo account.Repository, secret []byte, logger *zap.Logger) account.Middleware {
	return func(roles ...account.Role) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				header := r.Header.Get("Authorization")
				if !strings.HasPrefix(header, "Bearer ") {
					unauthorized(w, "missing bearer token")
					return
				}
				raw := strings.TrimPrefix(header, "Bearer ")

				claims := &Claims{}
				token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return secret, nil
				})
				if err != nil || !token.Valid {
					unauthorized(w, "invalid or expired token")
					return
				}

				a, err := accountRepo.GetAccountByID(r.Context(), claims.Subject)
				if err != nil {
					unauthorized(w, "account no longer exists")
					return
				}

				if len(roles) > 0 && !roleAllowed(a.Role, roles) {
					logger.Info("role rejected",
						zap.String("email", a.Email),
						zap.String("role", string(a.Role)),
						zap.String("path", r.URL.Path))
					unauthorized(w, "insufficient role permissions")
					return
				}

				p := Principal{AccountID: a.ID, Role: a.Role, BranchID: a.BranchID}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
			})
		}
	}
}

func roleAllowed(role account.Role, allowed []account.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
