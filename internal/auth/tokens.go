package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stylespizza/pizza-api/internal/config"
	"github.com/stylespizza/pizza-api/internal/models"
)

// TokenKind distinguishes the credential types minted by the issuer. Every
// token carries its kind in the "typ" claim and Parse rejects a token
// presented for a purpose it was not minted for.
type TokenKind string

const (
	TokenAccess       TokenKind = "access"
	TokenRefresh      TokenKind = "refresh"
	TokenVerification TokenKind = "verification"
	TokenReset        TokenKind = "reset"
)

// TokenIssuer mints and validates the HMAC-signed JWT credentials used by
// the identity service.
type TokenIssuer struct {
	secret          []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	verificationTTL time.Duration
	resetTTL        time.Duration
}

// NewTokenIssuer creates a TokenIssuer from the application configuration.
func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		secret:          []byte(cfg.JWTSecret),
		accessTTL:       cfg.AccessTokenTTL,
		refreshTTL:      cfg.RefreshTokenTTL,
		verificationTTL: cfg.VerificationTokenTTL,
		resetTTL:        cfg.ResetTokenTTL,
	}
}

// AccessToken mints a short-lived access credential carrying the user's
// identity and role.
func (t *TokenIssuer) AccessToken(user *models.User) (string, error) {
	return t.sign(jwt.MapClaims{
		"uid":  user.ID,
		"role": string(user.Role),
	}, TokenAccess, t.accessTTL)
}

// RefreshToken mints a long-lived refresh credential. The caller persists it
// in the user's refresh slot; presenting it later only succeeds while it is
// still the stored credential.
func (t *TokenIssuer) RefreshToken(userID uint) (string, error) {
	return t.sign(jwt.MapClaims{"uid": userID}, TokenRefresh, t.refreshTTL)
}

// VerificationToken mints a time-boxed email-verification credential.
func (t *TokenIssuer) VerificationToken(email string) (string, error) {
	return t.sign(jwt.MapClaims{"email": email}, TokenVerification, t.verificationTTL)
}

// ResetToken mints a time-boxed password-reset credential.
func (t *TokenIssuer) ResetToken(userID uint) (string, error) {
	return t.sign(jwt.MapClaims{"uid": userID}, TokenReset, t.resetTTL)
}

func (t *TokenIssuer) sign(claims jwt.MapClaims, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims["typ"] = string(kind)
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates a token string and returns its claims. The signing method
// is restricted to HMAC to prevent algorithm confusion attacks, and the
// "typ" claim must match the expected kind.
func (t *TokenIssuer) Parse(tokenString string, expected TokenKind) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	typ, _ := claims["typ"].(string)
	if typ != string(expected) {
		return nil, fmt.Errorf("unexpected token type %q, want %q", typ, expected)
	}

	return claims, nil
}

// UserIDFromClaims extracts the user ID from the "uid" claim. JSON numbers
// arrive as float64; numeric strings are accepted as well.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	if uid, ok := claims["uid"].(float64); ok {
		if uid <= 0 {
			return 0, fmt.Errorf("invalid uid claim: must be positive, got: %f", uid)
		}
		return uint(uid), nil
	}

	if uid, ok := claims["uid"].(string); ok && uid != "" {
		parsedID, err := strconv.ParseUint(uid, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid uid claim format: must be a numeric string, got: %s", uid)
		}
		return uint(parsedID), nil
	}

	return 0, fmt.Errorf("token missing required 'uid' claim")
}

// RoleFromClaims extracts and validates the role claim. Tokens must carry an
// explicit role; no default is assumed.
func RoleFromClaims(claims jwt.MapClaims) (models.Role, error) {
	raw, ok := claims["role"].(string)
	if !ok || raw == "" {
		return "", fmt.Errorf("token missing required 'role' claim")
	}

	role := models.Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q", raw)
	}
	return role, nil
}

// EmailFromClaims extracts the email claim from a verification token.
func EmailFromClaims(claims jwt.MapClaims) (string, error) {
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("token missing required 'email' claim")
	}
	return email, nil
}
