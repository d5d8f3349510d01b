package main

import (
	"fmt"
	awslib "gsc/src/lib/aws"
	"gsc/src/lifecycle"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/models/scopes"
	"gsc/src/types"
	"gsc/src/utils"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// bookingValidationSteps is the path an agent walks a paid booking through.
var bookingValidationSteps = map[types.BookingStatus]types.BookingStatus{
	types.BOOKING_PROCESSING:               types.BOOKING_PAYMENT_VALIDATED,
	types.BOOKING_PAYMENT_VALIDATED:        types.BOOKING_PENDING_AGENT_VALIDATION,
	types.BOOKING_PENDING_AGENT_VALIDATION: types.BOOKING_CONFIRMED,
}

func travelBookingFromBody(body *types.CreateTravelBookingRequestBody) (*models.TravelBooking, error) {
	departure, err := time.Parse(time.DateOnly, body.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", lifecycle.ErrValidation, err.Error())
	}
	returnDate, err := utils.ParseDate(body.ReturnDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", lifecycle.ErrValidation, err.Error())
	}
	if body.TripType == "round_trip" && returnDate == nil {
		return nil, fmt.Errorf("%w: a round trip needs a return date", lifecycle.ErrValidation)
	}
	booking := &models.TravelBooking{
		VisaApplicationID: body.VisaApplicationID,
		TripType:          body.TripType,
		DepartureCity:     body.DepartureCity,
		Destination:       body.Destination,
		DepartureDate:     departure,
		ReturnDate:        returnDate,
		TravelClass:       body.TravelClass,
		Price:             body.Price,
		Currency:          strings.ToUpper(body.Currency),
		Notes:             body.Notes,
	}
	if body.ClientID != nil {
		booking.ClientID = *body.ClientID
	}
	for _, p := range body.Passengers {
		dob, err := utils.ParseDate(p.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", lifecycle.ErrValidation, err.Error())
		}
		booking.Passengers = append(booking.Passengers, models.Passenger{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			DateOfBirth:    dob,
			PassportNumber: p.PassportNumber,
		})
	}
	return booking, nil
}

func loadTravelBooking(ctx *gin.Context, svc *services, id uint) (*models.TravelBooking, error) {
	entity, err := svc.engine.Load(ctx, lifecycle.Ref{Kind: types.KIND_TRAVEL_BOOKING, ID: id}, middlewares.Actor(ctx))
	if err != nil {
		return nil, err
	}
	return entity.(*models.TravelBooking), nil
}

func travelBookingHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	kind := types.KIND_TRAVEL_BOOKING
	g.
		GET("/travel-bookings", func(ctx *gin.Context) {
			var filters types.ListQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			actor := middlewares.Actor(ctx)
			q := svc.db.WithContext(ctx).Scopes(
				scopes.VisibleTo(actor.Role, actor.ClientID),
				scopes.WithStatus(filters.Status),
				scopes.Newest,
			)
			if filters.Mine && actor.Role == types.ROLE_AGENT {
				q = q.Scopes(scopes.AssignedTo(actor.UserID))
			}
			var bookings []models.TravelBooking
			if err := q.Preload("Client").Preload("Passengers").Limit(200).Find(&bookings).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		POST("/travel-bookings", func(ctx *gin.Context) {
			var body types.CreateTravelBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := travelBookingFromBody(&body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			created, err := svc.engine.CreateTravelBooking(ctx, middlewares.Actor(ctx), booking)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": created})
		}).
		GET("/travel-bookings/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			booking, err := loadTravelBooking(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			tx := svc.db.WithContext(ctx)
			if err := tx.Where("travel_booking_id = ?", booking.ID).Find(&booking.Passengers).Error; err != nil {
				respondError(ctx, err)
				return
			}
			if err := tx.Where("travel_booking_id = ?", booking.ID).Find(&booking.Documents).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/travel-bookings/:id/submit", transitionTo(svc, kind, string(types.BOOKING_PENDING_PAYMENT))).
		POST("/travel-bookings/:id/cancel", transitionTo(svc, kind, string(types.BOOKING_CANCELLED))).
		POST("/travel-bookings/:id/validate_booking", middlewares.RequireStaff, func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			booking, err := loadTravelBooking(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			next, ok := bookingValidationSteps[booking.Status]
			if !ok {
				respondError(ctx, fmt.Errorf("%w: booking is %s and cannot be validated", lifecycle.ErrInvalidTransition, booking.Status))
				return
			}
			ref := lifecycle.Ref{Kind: kind, ID: booking.ID}
			result, err := svc.engine.RequestTransition(ctx, ref, middlewares.Actor(ctx), string(next), "")
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		}).
		POST("/travel-bookings/:id/assign_agent", assignAgent(svc, kind)).
		POST("/travel-bookings/:id/change_status", changeStatus(svc, kind)).
		GET("/travel-bookings/:id/history", history(svc, kind)).
		GET("/travel-bookings/:id/documents", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			booking, err := loadTravelBooking(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			var docs []models.TravelDocument
			if err := svc.db.WithContext(ctx).Where("travel_booking_id = ?", booking.ID).Order("created_at ASC").Find(&docs).Error; err != nil {
				respondError(ctx, err)
				return
			}
			data := make([]gin.H, 0, len(docs))
			for i := range docs {
				item := gin.H{"document": docs[i]}
				if svc.documents != nil && docs[i].FileKey != "" {
					url, err := svc.documents.DownloadURL(ctx, docs[i].FileKey)
					if err != nil {
						respondError(ctx, err)
						return
					}
					item["download_url"] = url
				}
				data = append(data, item)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		POST("/travel-bookings/:id/documents", middlewares.RequireStaff, func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CreateTravelDocumentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, err := loadTravelBooking(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			doc := models.TravelDocument{
				TravelBookingID: booking.ID,
				Name:            body.Name,
				DocumentType:    body.DocumentType,
				FileName:        body.FileName,
				FileKey:         awslib.DocumentKey("travel-bookings", booking.ID, body.FileName),
				UploadedByID:    middlewares.Actor(ctx).UserID,
			}
			if err := svc.db.WithContext(ctx).Create(&doc).Error; err != nil {
				respondError(ctx, err)
				return
			}
			response := gin.H{"data": doc}
			if svc.documents != nil {
				url, err := svc.documents.UploadURL(ctx, doc.FileKey, "")
				if err != nil {
					respondError(ctx, err)
					return
				}
				response["upload_url"] = url
			}
			ctx.JSON(http.StatusCreated, response)
		})
	return g
}
