package main

import (
	"fmt"
	"gsc/src/lifecycle"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func refParam(ctx *gin.Context, kind types.EntityKind) (lifecycle.Ref, bool) {
	id, ok := bindID(ctx)
	if !ok {
		return lifecycle.Ref{}, false
	}
	return lifecycle.Ref{Kind: kind, ID: id}, true
}

// transitionTo serves the fixed-target actions such as submit and cancel.
// The request body may carry notes or a reason.
func transitionTo(svc *services, kind types.EntityKind, to string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ref, ok := refParam(ctx, kind)
		if !ok {
			return
		}
		var body struct {
			Notes  string `json:"notes,omitempty"`
			Reason string `json:"reason,omitempty"`
		}
		if ctx.Request.ContentLength > 0 {
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		notes := body.Notes
		if body.Reason != "" {
			notes = body.Reason
		}
		result, err := svc.engine.RequestTransition(ctx, ref, middlewares.Actor(ctx), to, notes)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": result})
	}
}

func changeStatus(svc *services, kind types.EntityKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ref, ok := refParam(ctx, kind)
		if !ok {
			return
		}
		var body types.ChangeStatusRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, ok := types.ParseStatus(kind, body.Status)
		if !ok {
			respondError(ctx, fmt.Errorf("%w: unknown status %q", lifecycle.ErrValidation, body.Status))
			return
		}
		result, err := svc.engine.RequestTransition(ctx, ref, middlewares.Actor(ctx), status, body.Notes)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": result})
	}
}

// assignAgent lets an agent take the entity, or an admin hand it to the
// agent named in the body.
func assignAgent(svc *services, kind types.EntityKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ref, ok := refParam(ctx, kind)
		if !ok {
			return
		}
		var body types.AssignAgentRequestBody
		if ctx.Request.ContentLength > 0 {
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		actor := middlewares.Actor(ctx)
		var result *lifecycle.Result
		var err error
		if body.AgentID == nil {
			result, err = svc.engine.SelfAssign(ctx, ref, actor)
		} else {
			result, err = svc.engine.AssignAgent(ctx, ref, actor, *body.AgentID)
		}
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": result})
	}
}

func history(svc *services, kind types.EntityKind) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ref, ok := refParam(ctx, kind)
		if !ok {
			return
		}
		if _, err := svc.engine.Load(ctx, ref, middlewares.Actor(ctx)); err != nil {
			respondError(ctx, err)
			return
		}
		entries, err := models.ListHistory(svc.db.WithContext(ctx), kind, ref.ID)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
	}
}
