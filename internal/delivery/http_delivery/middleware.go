package http_delivery

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"chat-service/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// HandlerFunc lets endpoints return errors; Wrap converts them into the
// uniform error envelope {success, message, name}.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			derr := domain.AsError(err)
			if derr.Code >= 500 {
				log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
			}
			WriteJSON(w, map[string]any{
				"success": false,
				"message": derr.Message,
				"name":    derr.Name,
			}, derr.Code)
		}
	})
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type ctxKey string

const userKey ctxKey = "user_id"

// ProfileFinder checks that the token's subject still exists in the user
// store before a request proceeds.
type ProfileFinder interface {
	FindProfile(ctx context.Context, id string) (*domain.UserProfile, error)
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

// AuthMiddleware validates an HS256 bearer token (header or cookie) and
// loads the caller's profile. Chat endpoints only require authentication, no
// role checks.
func AuthMiddleware(secret string, users ProfileFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				WriteJSON(w, map[string]any{"success": false, "message": "You are not authorized"}, http.StatusUnauthorized)
				return
			}

			parsed, err := jwt.Parse(tok, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid {
				WriteJSON(w, map[string]any{"success": false, "message": "Unauthorized"}, http.StatusForbidden)
				return
			}

			claims, ok := parsed.Claims.(jwt.MapClaims)
			if !ok {
				WriteJSON(w, map[string]any{"success": false, "message": "Unauthorized"}, http.StatusForbidden)
				return
			}
			uid, _ := claims["sub"].(string)
			if uid == "" {
				WriteJSON(w, map[string]any{"success": false, "message": "You are not authorized"}, http.StatusUnauthorized)
				return
			}

			if users != nil {
				profile, err := users.FindProfile(r.Context(), uid)
				if err != nil || profile == nil {
					WriteJSON(w, map[string]any{"success": false, "message": "You are not authorized"}, http.StatusUnauthorized)
					return
				}
			}

			ctx := context.WithValue(r.Context(), userKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromCtx returns the authenticated caller id set by AuthMiddleware.
func UserFromCtx(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value(userKey).(string)
	return uid, ok && uid != ""
}
