package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"timeclock/internal/model"
)

const (
	CtxUserID   = "user_id"
	CtxUserName = "user_name"
	CtxUserRole = "user_role"
)

// Signer issues and verifies session tokens.
type Signer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

func (s *Signer) Issue(uid int, name string, role model.Category) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid,
		"name": name,
		"role": string(role),
		"exp":  s.Now().Add(s.TTL).Unix(),
	}).SignedString(s.Secret)
}

type Claims struct {
	UserID int
	Name   string
	Role   model.Category
	Expiry time.Time
}

func (s *Signer) Parse(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.Now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims := token.Claims.(jwt.MapClaims)
	uid, ok := claims["uid"].(float64)
	if !ok {
		return nil, errors.New("token missing uid")
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("token missing exp")
	}
	return &Claims{UserID: int(uid), Name: name, Role: model.Category(role), Expiry: exp.Time}, nil
}

// JWTAuth verifies the bearer token and stores the caller in the context.
// A token with under a quarter of its lifetime left is renewed through X-New-Token.
func JWTAuth(s *Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := s.Parse(auth[7:])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserName, claims.Name)
		c.Set(CtxUserRole, claims.Role)

		if claims.Expiry.Sub(s.Now()) < s.TTL/4 {
			if newToken, err := s.Issue(claims.UserID, claims.Name, claims.Role); err == nil {
				c.Header("X-New-Token", newToken)
			}
		}

		c.Next()
	}
}

// AdminOnly must run after JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(CtxUserRole); role != model.CategoryAdministrator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) int { return c.GetInt(CtxUserID) }
