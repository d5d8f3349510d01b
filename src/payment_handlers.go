package main

import (
	"gsc/src/lib"
	"gsc/src/lifecycle"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/models/scopes"
	"gsc/src/types"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	kind := types.KIND_PAYMENT
	settle := func(run func(ctx *gin.Context, id uint, actor lifecycle.Actor) (*lifecycle.Result, error)) gin.HandlerFunc {
		return func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			result, err := run(ctx, id, middlewares.Actor(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		}
	}
	g.
		GET("/payments", func(ctx *gin.Context) {
			var filters types.ListQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := middlewares.Actor(ctx)
			var payments []models.Payment
			err := svc.db.WithContext(ctx).
				Scopes(scopes.VisibleTo(actor.Role, actor.ClientID), scopes.WithStatus(filters.Status), scopes.Newest).
				Preload("Client").
				Limit(200).
				Find(&payments).
				Error
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		}).
		POST("/payments", func(ctx *gin.Context) {
			var body types.CreatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			payment := models.Payment{
				PaymentType:       body.PaymentType,
				Amount:            body.Amount,
				Currency:          strings.ToUpper(body.Currency),
				PaymentMethod:     body.PaymentMethod,
				TravelBookingID:   body.TravelBookingID,
				VisaApplicationID: body.VisaApplicationID,
				Description:       body.Description,
			}
			if body.ClientID != nil {
				payment.ClientID = *body.ClientID
			}
			result, err := svc.engine.CreatePayment(ctx, middlewares.Actor(ctx), &payment)
			if err != nil {
				respondError(ctx, err)
				return
			}
			if payment.PaymentMethod == "card" && lib.GetStripeClient() != nil {
				mirrorCardPayment(ctx, svc.db.WithContext(ctx), result.Entity.(*models.Payment))
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": result})
		}).
		GET("/payments/:id", func(ctx *gin.Context) {
			ref, ok := refParam(ctx, kind)
			if !ok {
				return
			}
			entity, err := svc.engine.Load(ctx, ref, middlewares.Actor(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			payment := entity.(*models.Payment)
			if payment.TravelBookingID != nil {
				var booking models.TravelBooking
				if err := svc.db.WithContext(ctx).First(&booking, *payment.TravelBookingID).Error; err == nil {
					payment.TravelBooking = &booking
				}
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payment})
		}).
		POST("/payments/:id/process_payment", settle(func(ctx *gin.Context, id uint, actor lifecycle.Actor) (*lifecycle.Result, error) {
			return svc.engine.ProcessPayment(ctx, id, actor)
		})).
		POST("/payments/:id/approve_payment", middlewares.RequireStaff, settle(func(ctx *gin.Context, id uint, actor lifecycle.Actor) (*lifecycle.Result, error) {
			return svc.engine.ApprovePayment(ctx, id, actor)
		})).
		POST("/payments/:id/reject_payment", middlewares.RequireStaff, func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.RejectPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := svc.engine.RejectPayment(ctx, id, middlewares.Actor(ctx), body.Reason)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		}).
		POST("/payments/:id/change_status", changeStatus(svc, kind))
	return g
}

// mirrorCardPayment opens a Stripe PaymentIntent for the payment. Failures are
// logged only; the local payment stays pending either way.
func mirrorCardPayment(ctx *gin.Context, tx *gorm.DB, payment *models.Payment) {
	reference := ""
	if payment.Reference != nil {
		reference = *payment.Reference
	}
	intentID, err := lib.CreatePaymentIntent(ctx, payment.Amount, payment.Currency, reference)
	if err != nil {
		log.Printf("Could not create payment intent for %s: %s\n", reference, err.Error())
		return
	}
	if err := tx.Model(payment).UpdateColumn("provider_reference", intentID).Error; err != nil {
		log.Printf("Could not store payment intent for %s: %s\n", reference, err.Error())
		return
	}
	payment.ProviderReference = intentID
}
