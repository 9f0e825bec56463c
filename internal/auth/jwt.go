package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	claimSubject     = "sub"
	claimType        = "typ"
	claimSessionID   = "session_id"
	claimLocale      = "locale"
	claimIssuedAt    = "iat"
	claimExpiresAt   = "exp"
	sessionTokenType = "assistant_session"
)

// JWTMiddleware returns a JWT auth middleware configured for HS256 tokens.
// Tokens are read from the Authorization header or, for WebSocket upgrades,
// from the token query parameter.
func JWTMiddleware(secret string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		TokenLookup:   "header:Authorization:Bearer ,query:token",
		Skipper:       skipper,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
	})
}

// SessionToken holds the claims of a widget session token.
type SessionToken struct {
	SessionID string
	Locale    string
}

// GenerateSessionToken creates a signed JWT bound to one assistant session.
func GenerateSessionToken(info SessionToken, secret string, expiresIn time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(info.SessionID) == "" {
		return "", time.Time{}, fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, fmt.Errorf("jwt secret is required")
	}
	if expiresIn <= 0 {
		return "", time.Time{}, fmt.Errorf("jwt expires in must be positive")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(expiresIn)
	claims := jwt.MapClaims{
		claimSubject:   info.SessionID,
		claimType:      sessionTokenType,
		claimSessionID: info.SessionID,
		claimLocale:    info.Locale,
		claimIssuedAt:  now.Unix(),
		claimExpiresAt: expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// SessionTokenFromContext extracts the session token claims placed in the
// context by JWTMiddleware.
func SessionTokenFromContext(c echo.Context) (SessionToken, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return SessionToken{}, err
	}
	if claimString(claims, claimType) != sessionTokenType {
		return SessionToken{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
	}
	info := SessionToken{
		SessionID: claimString(claims, claimSessionID),
		Locale:    claimString(claims, claimLocale),
	}
	if strings.TrimSpace(info.SessionID) == "" {
		return SessionToken{}, echo.NewHTTPError(http.StatusUnauthorized, "session id missing")
	}
	return info, nil
}

// RequireSession checks that the token in the context belongs to sessionID.
func RequireSession(c echo.Context, sessionID string) error {
	info, err := SessionTokenFromContext(c)
	if err != nil {
		return err
	}
	if info.SessionID != sessionID {
		return echo.NewHTTPError(http.StatusForbidden, "token does not belong to this session")
	}
	return nil
}

// RefreshSessionToken re-issues the token in the context with the same
// lifetime it was originally issued with, or defaultExpiresIn when that
// cannot be derived.
func RefreshSessionToken(c echo.Context, secret string, defaultExpiresIn time.Duration) (string, time.Time, error) {
	info, err := SessionTokenFromContext(c)
	if err != nil {
		return "", time.Time{}, err
	}
	claims, _ := claimsFromContext(c)
	expiresIn := defaultExpiresIn
	iat, okIat := claimUnix(claims, claimIssuedAt)
	exp, okExp := claimUnix(claims, claimExpiresAt)
	if okIat && okExp && exp > iat {
		expiresIn = time.Duration(exp-iat) * time.Second
	}
	return GenerateSessionToken(info, secret, expiresIn)
}

func claimsFromContext(c echo.Context) (jwt.MapClaims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	raw, ok := claims[key]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(raw)
	}
}

func claimUnix(claims jwt.MapClaims, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
