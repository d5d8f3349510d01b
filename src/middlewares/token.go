package middlewares

import (
	"errors"
	"fmt"
	"gsc/src/lib"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// VerifyIdToken checks a Firebase ID token and exposes its uid and email.
func VerifyIdToken(ctx *gin.Context) {
	idToken := strings.TrimSpace(strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer "))
	if idToken == "" {
		err := errors.New("missing authorization header")
		log.Printf("Check failed: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	fauth, err := lib.GetFirebaseAuth()
	if err != nil {
		log.Printf("Error retrieving Firebase Auth instance: %s\n", err.Error())
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	token, err := fauth.VerifyIDToken(ctx, idToken)
	if err != nil {
		log.Printf("Failed to verify ID token: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Failed to verify ID token"})
		return
	}
	if rd := lib.GetRedisClient(); rd != nil {
		ttl := time.Until(time.Unix(token.Expires, 0))
		if ttl > 0 {
			if err := rd.Set(ctx, fmt.Sprintf("%s:token", token.UID), idToken, ttl).Err(); err != nil {
				log.Printf("[redis] Error caching ID token: %s\n", err.Error())
			}
		}
	}
	ctx.Set("uid", token.UID)
	if email, ok := token.Claims["email"].(string); ok {
		ctx.Set("email", email)
	}
	ctx.Next()
}
