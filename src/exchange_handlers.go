package main

import (
	"gsc/src/common"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/models/scopes"
	"gsc/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func exchangeHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	kind := types.KIND_CURRENCY_EXCHANGE
	g.
		GET("/exchange/rate", func(ctx *gin.Context) {
			var query types.ExchangeRateQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			quote, err := common.GetRate(ctx, svc.db.WithContext(ctx), query.From, query.To)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": quote})
		}).
		POST("/exchange/simulate", func(ctx *gin.Context) {
			var body types.SimulateExchangeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sim, err := common.Simulate(ctx, svc.db.WithContext(ctx), body.From, body.To, body.Amount)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": sim})
		}).
		GET("/exchange-rates", func(ctx *gin.Context) {
			var rates []models.ExchangeRate
			q := svc.db.WithContext(ctx).Order("from_currency ASC, to_currency ASC")
			if !middlewares.Actor(ctx).Role.IsStaff() {
				q = q.Where("is_active = ?", true)
			}
			if err := q.Find(&rates).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rates, "count": len(rates)})
		}).
		POST("/exchange-rates", middlewares.RequireAdmin, func(ctx *gin.Context) {
			var body types.ExchangeRateRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rate, err := common.SaveRate(ctx, svc.db, 0, &body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": rate})
		}).
		PUT("/exchange-rates/:id", middlewares.RequireAdmin, func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.ExchangeRateRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rate, err := common.SaveRate(ctx, svc.db, id, &body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rate})
		}).
		DELETE("/exchange-rates/:id", middlewares.RequireAdmin, func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			if err := common.DeleteRate(ctx, svc.db, id); err != nil {
				respondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/currency-exchanges", func(ctx *gin.Context) {
			var filters types.ListQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := middlewares.Actor(ctx)
			var exchanges []models.CurrencyExchangeRequest
			err := svc.db.WithContext(ctx).
				Scopes(scopes.VisibleTo(actor.Role, actor.ClientID), scopes.WithStatus(filters.Status), scopes.Newest).
				Preload("Client").
				Limit(200).
				Find(&exchanges).
				Error
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": exchanges, "count": len(exchanges)})
		}).
		POST("/currency-exchanges", func(ctx *gin.Context) {
			var body types.CreateExchangeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			exchange, err := common.BuildExchangeRequest(ctx, svc.db.WithContext(ctx), &body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			result, err := svc.engine.CreateExchange(ctx, middlewares.Actor(ctx), exchange)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": result})
		}).
		GET("/currency-exchanges/:id", func(ctx *gin.Context) {
			ref, ok := refParam(ctx, kind)
			if !ok {
				return
			}
			entity, err := svc.engine.Load(ctx, ref, middlewares.Actor(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entity})
		}).
		POST("/currency-exchanges/:id/change_status", changeStatus(svc, kind)).
		GET("/currency-exchanges/:id/history", history(svc, kind)).
		GET("/currency-exchanges/:id/report", func(ctx *gin.Context) {
			ref, ok := refParam(ctx, kind)
			if !ok {
				return
			}
			entity, err := svc.engine.Load(ctx, ref, middlewares.Actor(ctx))
			if err != nil {
				respondError(ctx, err)
				return
			}
			exchange := entity.(*models.CurrencyExchangeRequest)
			tx := svc.db.WithContext(ctx)
			if exchange.Client == nil {
				var client models.Client
				if err := tx.First(&client, exchange.ClientID).Error; err == nil {
					exchange.Client = &client
				}
			}
			report, err := common.ExchangeReport(tx, exchange)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": report})
		})
	return g
}
