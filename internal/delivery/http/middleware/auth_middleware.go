package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// KeyFunc resolves RS256 verification keys, usually *auth.Provider.
type KeyFunc interface {
	KeyFunc(token *jwt.Token) (interface{}, error)
}

type AuthConfig struct {
	JWTSecret string  // HS256
	JWKS      KeyFunc // RS256, optional
	Users     domain.AuthUsecase
	SecLog    *security.SecurityLogger
}

// AuthMiddleware validates the bearer token and loads the caller's role from
// the database. Token role claims are never trusted.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			reject(c, cfg.SecLog, "Authorization header or auth_token cookie required", "missing_token")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			switch token.Method.(type) {
			case *jwt.SigningMethodHMAC:
				if cfg.JWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but no JWT secret is configured")
				}
				return []byte(cfg.JWTSecret), nil
			case *jwt.SigningMethodRSA:
				if cfg.JWKS == nil {
					return nil, fmt.Errorf("RS256 token received but no JWKS is configured")
				}
				return cfg.JWKS.KeyFunc(token)
			}
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})
		if err != nil || !token.Valid {
			reject(c, cfg.SecLog, "Invalid token", "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			reject(c, cfg.SecLog, "Invalid claims", "invalid_claims")
			return
		}
		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		if sub == "" {
			reject(c, cfg.SecLog, "Invalid claims", "missing_subject")
			return
		}

		// Unknown users get the least privileged role until /auth/sync creates them.
		role := domain.RoleCandidate
		user, err := cfg.Users.GetCurrentUser(c.Request.Context(), sub)
		switch {
		case err == nil:
			if user.Role != "" {
				role = user.Role
			}
			if email == "" {
				email = user.Email
			}
		case errors.Is(err, domain.ErrNotFound):
		default:
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), sub)
		c.Set(string(domain.KeyUserEmail), strings.ToLower(email))
		c.Set(string(domain.KeyUserRole), role)

		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, sub)
		ctx = context.WithValue(ctx, domain.KeyUserRole, role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

func reject(c *gin.Context, secLog *security.SecurityLogger, msg, reason string) {
	if secLog != nil {
		secLog.LogUnauthorized(c.Request.Context(), c.ClientIP(), c.GetString(RequestIDKey), reason)
	}
	c.Error(apperror.New(http.StatusUnauthorized, msg, nil))
	c.Abort()
}
