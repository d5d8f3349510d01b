package middlewares

import (
	"errors"
	"gsc/src/config"
	"gsc/src/db"
	"gsc/src/lifecycle"
	"gsc/src/models"
	"gsc/src/types"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer ") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	reqToken := strings.TrimSpace(strings.TrimPrefix(bearerToken, "Bearer "))
	if reqToken == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return config.JWTKey(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		if errors.Is(err, jwt.ErrSignatureInvalid) || errors.Is(err, jwt.ErrTokenMalformed) {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	var user models.User
	if err := db.GetDb().Where("id = ?", uint(uid)).First(&user).Error; err != nil {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID := user.ID
	ctx.Set("email", user.Email)
	ctx.Set("id", user.ID)
	ctx.Set("uid", user.UID)
	ctx.Set("role", string(user.Role))
	if user.ClientID != nil {
		ctx.Set("client_id", *user.ClientID)
	}
	ctx.Set(actorKey, lifecycle.Actor{UserID: &userID, Role: user.Role, ClientID: user.ClientID})
}

// Actor returns the identity set by AuthMiddleware.
func Actor(ctx *gin.Context) lifecycle.Actor {
	if v, ok := ctx.Get(actorKey); ok {
		if actor, ok := v.(lifecycle.Actor); ok {
			return actor
		}
	}
	return lifecycle.Actor{}
}

func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !slices.Contains(roles, Actor(ctx).Role) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		ctx.Next()
	}
}

var RequireStaff = RequireRole(types.ROLE_ADMIN, types.ROLE_AGENT)

var RequireAdmin = RequireRole(types.ROLE_ADMIN)

func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	ctx.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	ctx.Next()
}
