package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Mark0025/peterental/pkg/handlers"
)

// Resolver extracts a Session from incoming requests.
type Resolver struct {
	cfg    *Config
	parser *jwt.Parser
}

func NewResolver(cfg *Config) *Resolver {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &Resolver{
		cfg:    cfg,
		parser: jwt.NewParser(opts...),
	}
}

// Resolve returns the session for r. A bearer token that fails verification
// yields ErrUnauthenticated; a missing user is only an error when the
// configuration requires authentication.
func (res *Resolver) Resolve(r *http.Request) (Session, error) {
	token := bearerToken(r)

	var s Session
	if res.cfg.JWTSecret != "" {
		if token != "" {
			userID, err := res.verify(token)
			if err != nil {
				return Session{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
			}
			s = Session{UserID: userID, Token: token}
		}
	} else {
		s = Session{
			UserID: strings.TrimSpace(r.Header.Get(res.cfg.UserHeader)),
			Token:  token,
		}
	}

	if res.cfg.Required && !s.Authenticated() {
		return Session{}, ErrUnauthenticated
	}
	return s, nil
}

func (res *Resolver) verify(raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := res.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(res.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	userID, ok := claims[res.cfg.UserClaim].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("claim %q missing", res.cfg.UserClaim)
	}
	return userID, nil
}

// Middleware attaches the resolved session to each request context and
// rejects requests that fail resolution with 401.
func Middleware(res *Resolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := res.Resolve(r)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
