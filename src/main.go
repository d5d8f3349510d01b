package main

import (
	"context"
	"errors"
	"gsc/src/boot"
	"gsc/src/common"
	"gsc/src/config"
	"gsc/src/controllers"
	"gsc/src/lib/mailer"
	awslib "gsc/src/lib/aws"
	"gsc/src/lifecycle"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/notifications"
	"gsc/src/types"
	"gsc/src/utils"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"strconv"
	"syscall"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const (
	apiPrefix string = "/api/v1"
)

// services holds what the handlers share.
type services struct {
	db        *gorm.DB
	engine    *lifecycle.Engine
	notifier  *notifications.Dispatcher
	documents awslib.DocumentStore
}

func newServices(gdb *gorm.DB, mail notifications.Mailer, publishers ...notifications.Publisher) *services {
	dispatcher := notifications.NewDispatcher(gdb, mail, publishers...)
	svc := &services{
		db:       gdb,
		engine:   lifecycle.NewEngine(gdb, dispatcher),
		notifier: dispatcher,
	}
	if store := awslib.NewS3DocumentStore(); store != nil {
		svc.documents = store
	}
	return svc
}

var futureDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	return datetime.After(time.Now())
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
	}
}

// respondError maps lifecycle errors to their HTTP status.
func respondError(ctx *gin.Context, err error) {
	status := lifecycle.HTTPStatus(err)
	body := gin.H{"error": err.Error()}
	var incomplete *lifecycle.IncompleteDocumentsError
	if errors.As(err, &incomplete) {
		body["missing_documents"] = incomplete.Missing
	}
	if status >= http.StatusInternalServerError {
		log.Printf("Error on %s %s: %s\n", ctx.Request.Method, ctx.FullPath(), err.Error())
		body["error"] = "Error while processing request"
	}
	ctx.JSON(status, body)
}

func bindID(ctx *gin.Context) (uint, bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return params.ID, true
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		if mm == "" {
			return
		}
		on, err := strconv.ParseBool(mm)
		if err != nil || on {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
	})
	return g
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	apiv1.POST("/auth/login", middlewares.VerifyIdToken, func(ctx *gin.Context) {
		token, user, status, err := controllers.AuthLogin(ctx)
		if err != nil {
			ctx.JSON(status, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	})
	return apiv1
}

func setupRouter(svc *services, mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	router.Use(mw...)
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router = maintenanceModeMiddleware(router)
	publicRoutes(router)
	stripeWebhookRoute(router, svc)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized.
			POST("/auth/logout", func(ctx *gin.Context) {
				status, err := controllers.AuthLogout(ctx)
				if err != nil {
					ctx.JSON(status, gin.H{"error": err.Error()})
					return
				}
				ctx.Status(http.StatusOK)
			}).
			GET("/users/me", func(ctx *gin.Context) {
				var user models.User
				if err := svc.db.Preload("Client").First(&user, ctx.GetUint("id")).Error; err != nil {
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": user})
			})

		authorized = clientHandlers(authorized, svc)
		authorized = referenceHandlers(authorized, svc)
		authorized = visaApplicationHandlers(authorized, svc)
		authorized = travelBookingHandlers(authorized, svc)
		authorized = paymentHandlers(authorized, svc)
		authorized = exchangeHandlers(authorized, svc)
		authorized = appointmentHandlers(authorized, svc)
		authorized = notificationHandlers(authorized, svc)
		authorized = settingsHandlers(authorized, svc)
	}
	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	logsDir := path.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		log.Printf("Could not create logs directory: %s\n", err.Error())
		return
	}
	gin.ForceConsoleColor()

	f, err := os.Create(path.Join(logsDir, "api.log"))
	if err == nil {
		gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	}
	log.SetOutput(&lumberjack.Logger{
		Filename:   path.Join(logsDir, "server.log"),
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func corsMiddleware(apiEnv string) gin.HandlerFunc {
	if apiEnv == "local" {
		return cors.Default()
	}
	appHost := config.APP_HOST
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString("^"+regexp.QuoteMeta(appHost)+"$", origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	return cors.New(cc)
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env file loaded: %s\n", err.Error())
		}
	}
	if utils.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	initLogger()
	registerValidators()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb := boot.InitDb()
	svc := newServices(gdb, mailer.FromConfig(), common.Publishers()...)
	boot.InitScheduler(gdb, svc.engine)
	defer boot.StopScheduler()
	go boot.InitBroker(ctx)

	router := setupRouter(svc, corsMiddleware(apiEnv))

	srv := &http.Server{Addr: ":9090", Handler: router}
	go func() {
		certpath := os.Getenv("TLS_CERT_PATH")
		keypath := os.Getenv("TLS_KEY_PATH")
		var err error
		if certpath != "" && keypath != "" {
			err = srv.ListenAndServeTLS(certpath, keypath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %s\n", err.Error())
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %s\n", err.Error())
	}
	svc.notifier.Wait()
}
