package middlewares

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(getJWTSecret())

func getJWTSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "your_secret_key"
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		}, jwt.WithValidMethods([]string{"HS256"}))

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
			// Проверяем и извлекаем firebase_uid
			if firebaseUID, exists := claims["firebase_uid"].(string); exists {
				c.Set("firebase_uid", firebaseUID)
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: missing firebase_uid"})
				c.Abort()
				return
			}

			// Проверяем и извлекаем user_type
			if userType, exists := claims["user_type"].(string); exists {
				c.Set("user_type", userType)
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: missing user_type"})
				c.Abort()
				return
			}

			// device_id присутствует только в токенах устройств
			if deviceID, exists := claims["device_id"].(float64); exists {
				c.Set("device_id", uint(deviceID))
			}

			c.Next()
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
	}
}

// RequireUserType пропускает только запросы с указанным типом пользователя
func RequireUserType(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("user_type") != userType {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
