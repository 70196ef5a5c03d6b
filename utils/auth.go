package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Token purposes carried in the "typ" claim
const (
	TokenTypeAccess       = "access"
	TokenTypeRefresh      = "refresh"
	TokenTypeVerification = "verify"
)

// TokenClaims is what the application reads back out of a signed token
type TokenClaims struct {
	UserID    uint
	Role      models.Role
	Type      string
	ExpiresAt time.Time
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateAccessToken creates a short-lived bearer token for a user
func GenerateAccessToken(user *models.User) (string, error) {
	ttl := config.App.AccessTokenTTL
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}
	return signToken(user, TokenTypeAccess, ttl, config.App.JWTSecret)
}

// GenerateRefreshToken creates the long-lived token stored in the refresh cookie
func GenerateRefreshToken(user *models.User) (string, error) {
	return signToken(user, TokenTypeRefresh, RefreshTokenTTL, refreshSecret())
}

// GenerateVerificationToken creates the token embedded in the verification email link
func GenerateVerificationToken(user *models.User) (string, error) {
	return signToken(user, TokenTypeVerification, VerificationTokenTTL, config.App.JWTSecret)
}

func signToken(user *models.User, typ string, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.ID
	claims["role"] = string(user.Role)
	claims["typ"] = typ
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString([]byte(secret))
}

// ValidateAccessToken parses a bearer token
func ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	return parseToken(tokenString, TokenTypeAccess, config.App.JWTSecret)
}

// ValidateRefreshToken parses a refresh cookie value
func ValidateRefreshToken(tokenString string) (*TokenClaims, error) {
	return parseToken(tokenString, TokenTypeRefresh, refreshSecret())
}

// ValidateVerificationToken parses an email verification token
func ValidateVerificationToken(tokenString string) (*TokenClaims, error) {
	return parseToken(tokenString, TokenTypeVerification, config.App.JWTSecret)
}

func parseToken(tokenString, typ, secret string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if t, _ := claims["typ"].(string); t != typ {
		return nil, errors.New("wrong token type")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, errors.New("invalid user ID in token")
	}
	role, _ := claims["role"].(string)
	exp, _ := claims["exp"].(float64)

	return &TokenClaims{
		UserID:    uint(userID),
		Role:      models.Role(role),
		Type:      typ,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

func refreshSecret() string {
	if config.App.JWTRefreshSecret != "" {
		return config.App.JWTRefreshSecret
	}
	return config.App.JWTSecret
}
