package main

import (
	"errors"
	"fmt"
	"gsc/src/config"
	awslib "gsc/src/lib/aws"
	"gsc/src/lifecycle"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/models/scopes"
	"gsc/src/types"
	"gsc/src/utils"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// visaApplicationView is an application with its completeness figures.
type visaApplicationView struct {
	*models.VisaApplication
	lifecycle.Report
}

func visaApplicationFromBody(body *types.VisaApplicationRequestBody) (*models.VisaApplication, error) {
	app := &models.VisaApplication{
		VisaTypeID:             body.VisaTypeID,
		Priority:               body.Priority,
		FirstName:              body.FirstName,
		MiddleName:             body.MiddleName,
		LastName:               body.LastName,
		Gender:                 body.Gender,
		PlaceOfBirth:           body.PlaceOfBirth,
		Nationality:            body.Nationality,
		MaritalStatus:          body.MaritalStatus,
		CurrentAddress:         body.CurrentAddress,
		City:                   body.City,
		PostalCode:             body.PostalCode,
		CountryID:              body.CountryID,
		PhoneNumber:            body.PhoneNumber,
		Email:                  body.Email,
		PassportNumber:         body.PassportNumber,
		PassportIssueCountryID: body.PassportIssueCountryID,
		PurposeOfVisit:         body.PurposeOfVisit,
		LengthOfStayDays:       body.LengthOfStayDays,
		OccupationType:         body.OccupationType,
		Occupation:             body.Occupation,
		EmergencyContactName:   body.EmergencyContactName,
		EmergencyRelationship:  body.EmergencyRelationship,
		EmergencyPhone:         body.EmergencyPhone,
	}
	if body.ClientID != nil {
		app.ClientID = *body.ClientID
	}
	dates := []struct {
		value  *string
		target **time.Time
	}{
		{body.DateOfBirth, &app.DateOfBirth},
		{body.PassportIssueDate, &app.PassportIssueDate},
		{body.PassportExpiryDate, &app.PassportExpiryDate},
		{body.IntendedDateOfArrival, &app.IntendedDateOfArrival},
		{body.IntendedDateOfDeparture, &app.IntendedDateOfDeparture},
	}
	for _, d := range dates {
		t, err := utils.ParseDate(d.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", lifecycle.ErrValidation, err.Error())
		}
		*d.target = t
	}
	return app, nil
}

func checkVisaType(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var visaType models.VisaType
	if err := tx.Select("id", "is_active").First(&visaType, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: visa type %d does not exist", lifecycle.ErrValidation, *id)
		}
		return err
	}
	if !visaType.IsActive {
		return fmt.Errorf("%w: visa type %d is not available", lifecycle.ErrValidation, *id)
	}
	return nil
}

func loadVisaApplication(ctx *gin.Context, svc *services, id uint) (*models.VisaApplication, error) {
	entity, err := svc.engine.Load(ctx, lifecycle.Ref{Kind: types.KIND_VISA_APPLICATION, ID: id}, middlewares.Actor(ctx))
	if err != nil {
		return nil, err
	}
	return entity.(*models.VisaApplication), nil
}

func visaApplicationHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	kind := types.KIND_VISA_APPLICATION
	g.
		GET("/visa-applications", func(ctx *gin.Context) {
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
			var apps []models.VisaApplication
			if err := q.Preload("Client").Preload("VisaType.Country").Limit(200).Find(&apps).Error; err != nil {
				respondError(ctx, err)
				return
			}
			views := make([]visaApplicationView, 0, len(apps))
			for i := range apps {
				report, err := lifecycle.LoadCompleteness(svc.db.WithContext(ctx), &apps[i])
				if err != nil {
					respondError(ctx, err)
					return
				}
				views = append(views, visaApplicationView{VisaApplication: &apps[i], Report: report})
			}
			ctx.JSON(http.StatusOK, gin.H{"data": views, "count": len(views)})
		}).
		POST("/visa-applications", func(ctx *gin.Context) {
			var body types.VisaApplicationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			app, err := visaApplicationFromBody(&body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			if err := checkVisaType(svc.db.WithContext(ctx), app.VisaTypeID); err != nil {
				respondError(ctx, err)
				return
			}
			created, err := svc.engine.CreateVisaApplication(ctx, middlewares.Actor(ctx), app)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": created})
		}).
		GET("/visa-applications/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			app, err := loadVisaApplication(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			tx := svc.db.WithContext(ctx)
			if err := tx.Where("application_id = ?", app.ID).Preload("RequiredDocument").Find(&app.Documents).Error; err != nil {
				respondError(ctx, err)
				return
			}
			report, err := lifecycle.LoadCompleteness(tx, app)
			if err != nil {
				respondError(ctx, err)
				return
			}
			entries, err := models.ListHistory(tx, kind, app.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"data":    visaApplicationView{VisaApplication: app, Report: report},
				"history": entries,
			})
		}).
		PUT("/visa-applications/:id", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.VisaApplicationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			app, err := loadVisaApplication(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			actor := middlewares.Actor(ctx)
			if actor.Role == types.ROLE_CLIENT && app.Status != types.VISA_DRAFT {
				respondError(ctx, fmt.Errorf("%w: only drafts can be edited", lifecycle.ErrPermissionDenied))
				return
			}
			if lifecycle.IsTerminal(kind, string(app.Status)) {
				respondError(ctx, fmt.Errorf("%w: application is %s", lifecycle.ErrValidation, app.Status))
				return
			}
			changes, err := visaApplicationFromBody(&body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			changes.ClientID = 0
			if err := checkVisaType(svc.db.WithContext(ctx), changes.VisaTypeID); err != nil {
				respondError(ctx, err)
				return
			}
			err = svc.db.WithContext(ctx).
				Model(&models.VisaApplication{ID: app.ID}).
				Omit(clause.Associations).
				Updates(changes).
				Error
			if err != nil {
				respondError(ctx, err)
				return
			}
			app, err = loadVisaApplication(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": app})
		}).
		POST("/visa-applications/:id/submit", transitionTo(svc, kind, string(types.VISA_SUBMITTED))).
		POST("/visa-applications/:id/cancel", transitionTo(svc, kind, string(types.VISA_CANCELLED))).
		POST("/visa-applications/:id/change_status", changeStatus(svc, kind)).
		POST("/visa-applications/:id/assign_agent", assignAgent(svc, kind)).
		GET("/visa-applications/:id/history", history(svc, kind)).
		GET("/visa-applications/:id/completeness", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			app, err := loadVisaApplication(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			report, err := lifecycle.LoadCompleteness(svc.db.WithContext(ctx), app)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": report})
		}).
		GET("/visa-applications/:id/qrcode", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			app, err := loadVisaApplication(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			if app.ApplicationNumber == nil {
				respondError(ctx, fmt.Errorf("%w: application has no number yet", lifecycle.ErrValidation))
				return
			}
			qrc, err := qrcode.New(fmt.Sprintf("%s/visa-applications/%d?ref=%s", config.APP_HOST, app.ID, *app.ApplicationNumber))
			if err != nil {
				respondError(ctx, err)
				return
			}
			filepath := path.Join(os.TempDir(), fmt.Sprintf("%s.jpeg", *app.ApplicationNumber))
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				respondError(ctx, err)
				return
			}
			defer os.Remove(filepath)
			ctx.FileAttachment(filepath, fmt.Sprintf("%s.jpeg", *app.ApplicationNumber))
		}).
		POST("/visa-applications/:id/documents", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CreateApplicationDocumentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			app, err := loadVisaApplication(ctx, svc, id)
			if err != nil {
				respondError(ctx, err)
				return
			}
			if lifecycle.IsTerminal(kind, string(app.Status)) {
				respondError(ctx, fmt.Errorf("%w: application is %s", lifecycle.ErrValidation, app.Status))
				return
			}
			doc, err := attachApplicationDocument(svc.db.WithContext(ctx), app, &body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			response := gin.H{"data": doc}
			if svc.documents != nil {
				url, err := svc.documents.UploadURL(ctx, doc.FileKey, doc.ContentType)
				if err != nil {
					respondError(ctx, err)
					return
				}
				response["upload_url"] = url
			}
			ctx.JSON(http.StatusCreated, response)
		}).
		POST("/application-documents/:id/confirm", func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			tx := svc.db.WithContext(ctx)
			var doc models.ApplicationDocument
			if err := tx.First(&doc, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					err = fmt.Errorf("%w: document %d", lifecycle.ErrNotFound, id)
				}
				respondError(ctx, err)
				return
			}
			if _, err := loadVisaApplication(ctx, svc, doc.ApplicationID); err != nil {
				respondError(ctx, err)
				return
			}
			if doc.Status != types.DOCUMENT_PENDING {
				respondError(ctx, fmt.Errorf("%w: document %d is %s", lifecycle.ErrValidation, doc.ID, doc.Status))
				return
			}
			if svc.documents != nil {
				exists, err := svc.documents.Exists(ctx, doc.FileKey)
				if err != nil {
					respondError(ctx, err)
					return
				}
				if !exists {
					respondError(ctx, fmt.Errorf("%w: no file uploaded for document %d", lifecycle.ErrValidation, doc.ID))
					return
				}
			}
			err := tx.Model(&doc).Update("status", types.DOCUMENT_SUBMITTED).Error
			if err == nil {
				err = tx.First(&doc, id).Error
			}
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": doc})
		}).
		POST("/application-documents/:id/review", middlewares.RequireStaff, func(ctx *gin.Context) {
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.ReviewDocumentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tx := svc.db.WithContext(ctx)
			var doc models.ApplicationDocument
			if err := tx.First(&doc, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					err = fmt.Errorf("%w: document %d", lifecycle.ErrNotFound, id)
				}
				respondError(ctx, err)
				return
			}
			if _, err := loadVisaApplication(ctx, svc, doc.ApplicationID); err != nil {
				respondError(ctx, err)
				return
			}
			now := time.Now().UTC()
			err := tx.Model(&doc).Updates(map[string]any{
				"status":         body.Status,
				"review_notes":   body.Notes,
				"reviewed_by_id": middlewares.Actor(ctx).UserID,
				"reviewed_at":    now,
			}).Error
			if err == nil {
				err = tx.First(&doc, id).Error
			}
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": doc})
		})
	return g
}

// attachApplicationDocument records an upload against an application. The
// document stays pending until the upload is confirmed. A new upload for the
// same required document replaces the previous one.
func attachApplicationDocument(tx *gorm.DB, app *models.VisaApplication, body *types.CreateApplicationDocumentRequestBody) (*models.ApplicationDocument, error) {
	if body.RequiredDocumentID != nil {
		var required models.RequiredDocument
		if err := tx.First(&required, *body.RequiredDocumentID).Error; err != nil {
			return nil, fmt.Errorf("%w: required document %d does not exist", lifecycle.ErrValidation, *body.RequiredDocumentID)
		}
		if app.VisaTypeID == nil || required.VisaTypeID != *app.VisaTypeID {
			return nil, fmt.Errorf("%w: document %d is not required for this visa type", lifecycle.ErrValidation, required.ID)
		}
	}
	doc := models.ApplicationDocument{
		ApplicationID:      app.ID,
		RequiredDocumentID: body.RequiredDocumentID,
		Name:               body.Name,
		FileKey:            awslib.DocumentKey("visa-applications", app.ID, body.FileName),
		FileName:           body.FileName,
		ContentType:        body.ContentType,
		Status:             types.DOCUMENT_PENDING,
	}
	err := tx.Transaction(func(tx *gorm.DB) error {
		if body.RequiredDocumentID != nil {
			var existing models.ApplicationDocument
			err := tx.Where("application_id = ? AND required_document_id = ?", app.ID, *body.RequiredDocumentID).First(&existing).Error
			if err == nil {
				doc.ID = existing.ID
				doc.CreatedAt = existing.CreatedAt
				return tx.Model(&existing).Updates(map[string]any{
					"name":           doc.Name,
					"file_key":       doc.FileKey,
					"file_name":      doc.FileName,
					"content_type":   doc.ContentType,
					"status":         doc.Status,
					"review_notes":   "",
					"reviewed_by_id": nil,
					"reviewed_at":    nil,
				}).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return tx.Create(&doc).Error
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
