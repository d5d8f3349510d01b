package main

import (
	"encoding/json"
	"fmt"
	"gsc/src/lifecycle"
	"gsc/src/models"
	"gsc/src/types"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// stripeWebhookRoute follows the PaymentIntents opened for card payments.
// Completion stays a staff decision; the webhook only starts processing or
// records a failure.
func stripeWebhookRoute(g *gin.Engine, svc *services) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "payment_intent.processing", "payment_intent.succeeded", "payment_intent.payment_failed":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			log.Printf("[PaymentIntent] ID: %s %s\n", pi.ID, pi.Status)
			if err := followPaymentIntent(ctx, svc, string(event.Type), &pi); err != nil {
				log.Printf("Error following PaymentIntent %s: %s\n", pi.ID, err.Error())
			}
		}
		ctx.Status(http.StatusNoContent)
	})
	return apiv1
}

func followPaymentIntent(ctx *gin.Context, svc *services, eventType string, pi *stripe.PaymentIntent) error {
	var payment models.Payment
	if err := svc.db.WithContext(ctx).Where("provider_reference = ?", pi.ID).First(&payment).Error; err != nil {
		return fmt.Errorf("no payment for intent: %w", err)
	}
	actor := lifecycle.SystemActor()
	if payment.Status == types.PAYMENT_PENDING {
		if _, err := svc.engine.ProcessPayment(ctx, payment.ID, actor); err != nil {
			return err
		}
	}
	if eventType != "payment_intent.payment_failed" {
		return nil
	}
	reason := "Paiement refusé par le prestataire"
	if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
		reason = pi.LastPaymentError.Msg
	}
	_, err := svc.engine.RejectPayment(ctx, payment.ID, actor, reason)
	return err
}
