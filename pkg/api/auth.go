package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/matzehuels/seatplan/pkg/errors"
)

// DefaultTokenTTL is the lifetime of tokens minted by Issue.
const DefaultTokenTTL = 24 * time.Hour

// Authenticator verifies HS256 bearer tokens. The token subject is the
// user id; sign-in itself happens elsewhere.
type Authenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator creates an authenticator for tokens signed with secret.
func NewAuthenticator(secret, issuer string) *Authenticator {
	return &Authenticator{secret: []byte(secret), issuer: issuer, ttl: DefaultTokenTTL, now: time.Now}
}

// Issue mints a token for userID. Used by `seatplan token` for local
// development and by tests.
func (a *Authenticator) Issue(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "user id cannot be empty")
	}
	if ttl <= 0 {
		ttl = a.ttl
	}
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "sign token")
	}
	return s, nil
}

// Verify returns the user id carried by a token.
func (a *Authenticator) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnauthorized, err, "invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, "token has no subject")
	}
	return claims.Subject, nil
}

type userKey struct{}

// UserID returns the authenticated user of a request context, or "" for
// anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// Middleware attaches the bearer token's user to the request context.
// Requests without a token continue anonymously; a malformed or expired
// token is rejected with 401.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			writeError(w, errors.New(errors.ErrCodeUnauthorized, "authorization must be a bearer token"))
			return
		}
		userID, err := a.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, userID)))
	})
}
