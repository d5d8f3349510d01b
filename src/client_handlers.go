package main

import (
	"errors"
	"fmt"
	"gsc/src/lifecycle"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/models/scopes"
	"gsc/src/types"
	"gsc/src/utils"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func clientHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		POST("/clients", middlewares.RequireStaff, func(ctx *gin.Context) {
			var body types.CreateClientRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			dob, err := utils.ParseDate(body.DateOfBirth)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			client := models.Client{
				FirstName:   body.FirstName,
				LastName:    body.LastName,
				Email:       strings.ToLower(strings.TrimSpace(body.Email)),
				Phone:       body.Phone,
				IDType:      body.IDType,
				IDNumber:    body.IDNumber,
				DateOfBirth: dob,
				Country:     body.Country,
				UserID:      body.UserID,
			}
			err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&client).Error; err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						return fmt.Errorf("%w: a client with this email or ID number already exists", lifecycle.ErrValidation)
					}
					return err
				}
				if client.UserID != nil {
					return tx.Model(&models.User{}).Where("id = ?", *client.UserID).Update("client_id", client.ID).Error
				}
				return nil
			})
			if err != nil {
				log.Printf("Error creating client: %s\n", err.Error())
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": client})
		}).
		GET("/clients", middlewares.RequireStaff, func(ctx *gin.Context) {
			var clients []models.Client
			if err := svc.db.WithContext(ctx).Scopes(scopes.Newest).Limit(200).Find(&clients).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": clients, "count": len(clients)})
		}).
		GET("/clients/me", func(ctx *gin.Context) {
			actor := middlewares.Actor(ctx)
			if actor.ClientID == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "no client profile linked to this account"})
				return
			}
			var client models.Client
			if err := svc.db.WithContext(ctx).First(&client, *actor.ClientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
					return
				}
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": client})
		})
	return g
}

func referenceHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		GET("/countries", func(ctx *gin.Context) {
			var countries []models.Country
			if err := svc.db.WithContext(ctx).Order("name ASC").Find(&countries).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": countries, "count": len(countries)})
		}).
		GET("/visa-types", func(ctx *gin.Context) {
			var visaTypes []models.VisaType
			err := svc.db.WithContext(ctx).
				Where("is_active = ?", true).
				Preload("Country").
				Order("name ASC").
				Find(&visaTypes).
				Error
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": visaTypes, "count": len(visaTypes)})
		}).
		GET("/visa-types/:id/required_documents", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var docs []models.RequiredDocument
			err := svc.db.WithContext(ctx).
				Where("visa_type_id = ?", id).
				Order("position ASC, id ASC").
				Find(&docs).
				Error
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": docs, "count": len(docs)})
		}).
		POST("/visa-types/:id/required_documents", middlewares.RequireStaff, func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CreateRequiredDocumentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var visaType models.VisaType
			if err := svc.db.WithContext(ctx).First(&visaType, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					respondError(ctx, fmt.Errorf("%w: visa type %d", lifecycle.ErrNotFound, id))
					return
				}
				respondError(ctx, err)
				return
			}
			doc := models.RequiredDocument{
				VisaTypeID:     visaType.ID,
				Name:           body.Name,
				Description:    body.Description,
				DocumentType:   body.DocumentType,
				IsMandatory:    body.IsMandatory,
				MaxFileSizeMB:  body.MaxFileSizeMB,
				AllowedFormats: body.AllowedFormats,
				Position:       body.Position,
			}
			if err := svc.db.WithContext(ctx).Create(&doc).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": doc})
		})
	return g
}
