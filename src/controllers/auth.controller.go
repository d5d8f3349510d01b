package controllers

import (
	"errors"
	"gsc/src/db"
	"gsc/src/models"
	"gsc/src/types"
	"gsc/src/utils"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthLogin exchanges a verified Firebase identity for an API token. Unknown
// identities become client users, linked to the client record with the same
// email when one exists.
func AuthLogin(ctx *gin.Context) (token *string, user *models.User, status int, err error) {
	email := ctx.GetString("email")
	uid := ctx.GetString("uid")
	if email == "" {
		return nil, nil, http.StatusBadRequest, errors.New("identity has no email")
	}

	var muser models.User
	err = db.GetDb().Transaction(func(tx *gorm.DB) error {
		err := tx.Where(&models.User{Email: email}).First(&muser).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			muser = models.User{Email: email, UID: uid, Role: types.ROLE_CLIENT}
			var client models.Client
			if err := tx.Where(&models.Client{Email: email}).First(&client).Error; err == nil {
				muser.ClientID = &client.ID
				muser.FirstName = client.FirstName
				muser.LastName = client.LastName
			}
			return tx.Create(&muser).Error
		}
		if err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&muser).Updates(map[string]any{"last_active": now, "uid": uid}).Error
	})
	if err != nil {
		log.Printf("Error logging in user [%s]: %s\n", email, err.Error())
		return nil, nil, http.StatusBadRequest, err
	}

	jwt, err := utils.GenerateJWT(muser.Email, muser.ID, muser.Role, muser.ClientID, muser.UID)
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", muser.ID, err.Error())
		return nil, nil, http.StatusInternalServerError, err
	}
	return &jwt, &muser, http.StatusOK, nil
}

// AuthLogout stamps the last activity of the current user.
func AuthLogout(ctx *gin.Context) (status int, err error) {
	userId := ctx.GetUint("id")
	err = db.GetDb().
		Model(&models.User{}).
		Where("id = ?", userId).
		Update("last_active", time.Now()).
		Error
	if err != nil {
		log.Printf("Error on user logout: %s\n", err.Error())
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}
