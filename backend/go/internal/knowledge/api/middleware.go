package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// senderKey 是认证后 sender id 在 gin 上下文中的键。
const senderKey = "senderID"

// AuthMiddleware 验证 Bearer JWT，并把 sub 声明作为 sender id 存入上下文。
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请求未包含授权标头"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "授权标头格式不正确"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("非预期的签名方法")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的 token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的 token"})
			return
		}
		sender, ok := subject(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效的 token claims"})
			return
		}
		c.Set(senderKey, sender)
		c.Next()
	}
}

// subject reads the sub claim. Chat ids are strings; numeric ids arrive as float64.
func subject(claims jwt.MapClaims) (string, bool) {
	switch v := claims["sub"].(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// rateLimitKey buckets authenticated callers by sender and everyone else by IP.
func rateLimitKey(c *gin.Context) string {
	if s := c.GetString(senderKey); s != "" {
		return "sender:" + s
	}
	return "ip:" + c.ClientIP()
}
