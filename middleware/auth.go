package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"faculty-management-api/config"
	"faculty-management-api/models"
	"faculty-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
)

const viewerKey = "viewer"

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}

// UserLookup loads the account behind a token.
type UserLookup interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// IssueToken signs a bearer token for user.
func IssueToken(user models.User) (string, time.Time, error) {
	expireHours := config.GetenvInt("JWT_EXPIRE_HOURS", 24)
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	expires := now.Add(time.Duration(expireHours) * time.Hour)

	claims := Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// AuthMiddleware validates JWT token
func AuthMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		// Browsers cannot set headers on a websocket handshake.
		if authHeader == "" && websocket.IsWebSocketUpgrade(c.Request) && c.Query("access_token") != "" {
			authHeader = "Bearer " + c.Query("access_token")
		}
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		// Role and department come from the stored account, not the token.
		user, err := users.FindUser(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			abortUnauthorized(c, "User not found")
			return
		}

		c.Set("userID", user.UserID)
		c.Set("email", user.Email)
		c.Set("roleID", user.RoleID)
		c.Set(viewerKey, services.Viewer{
			UserID:     user.UserID,
			RoleID:     user.RoleID,
			Department: user.Department,
		})

		c.Next()
	}
}

// CurrentViewer returns the caller set by AuthMiddleware.
func CurrentViewer(c *gin.Context) (services.Viewer, bool) {
	v, ok := c.Get(viewerKey)
	if !ok {
		return services.Viewer{}, false
	}
	viewer, ok := v.(services.Viewer)
	return viewer, ok
}

// RequireRole checks if user has specific role
func RequireRole(roleIDs ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, ok := CurrentViewer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Role not found", "code": "FORBIDDEN"})
			return
		}
		if !viewer.Is(roleIDs...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions", "code": "FORBIDDEN"})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg, "code": "UNAUTHORIZED"})
}
