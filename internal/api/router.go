package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"campusevents/internal/auth"
	"campusevents/internal/campus"
	"campusevents/internal/cloudinary"
	"campusevents/internal/httpmiddleware"
	"campusevents/internal/metrics"
	"campusevents/internal/validate"
)

// Uploader stores poster images and returns their public URL.
type Uploader interface {
	UploadBase64(ctx context.Context, data string) (*cloudinary.UploadResult, error)
	UploadBytes(ctx context.Context, data []byte, filename string) (*cloudinary.UploadResult, error)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Options wires the router. Limiter, Uploader and StaticDir are optional.
type Options struct {
	Service   *campus.Service
	Logger    zerolog.Logger
	Guard     auth.Guard
	TokenTTL  time.Duration
	Limiter   httpmiddleware.Limiter
	Uploader  Uploader
	Checks    map[string]HealthCheck
	StaticDir string
}

type handler struct {
	svc      *campus.Service
	log      zerolog.Logger
	guard    auth.Guard
	tokenTTL time.Duration
	uploader Uploader
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(o Options) *gin.Engine {
	h := &handler{
		svc:      o.Service,
		log:      o.Logger.With().Str("component", "api").Logger(),
		guard:    o.Guard,
		tokenTTL: o.TokenTTL,
		uploader: o.Uploader,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(o.Logger, "/healthz", "/metrics"))
	r.Use(metrics.Gin())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))
	r.Use(httpmiddleware.SecurityHeaders())
	if o.Limiter != nil {
		r.Use(httpmiddleware.RateLimit(o.Limiter, o.Logger))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", healthz(o.Service, o.Checks))

	g := o.Guard
	anyUser := g.Require()
	admin := g.Require(campus.RoleAdmin)
	organizer := g.Require(campus.RoleOrganizer, campus.RoleAdmin)
	student := g.Require(campus.RoleStudent, campus.RoleAdmin)

	api := r.Group("/api", g.Attach())

	api.POST("/students/signup", h.signupStudent)
	api.POST("/organizers/signup", h.signupOrganizer)
	api.POST("/login", h.login)
	api.POST("/auth/forgot-password/find", h.findAccount)
	api.POST("/auth/forgot-password/reset", h.resetPassword)

	api.GET("/events", h.listEvents)
	api.POST("/events", organizer, h.createEvent)
	api.PUT("/events/:id", organizer, h.updateEvent)
	api.DELETE("/events/:id", organizer, h.deleteEvent)
	api.POST("/events/register", student, h.register)

	api.GET("/students/:id/events", student, h.studentEvents)
	api.GET("/student/:id/stats", student, h.studentStats)
	api.GET("/registrations/:regId/ticket", anyUser, h.ticket)

	api.GET("/organizer/events/:id/participants", organizer, h.participants)
	api.PUT("/organizer/participants/:regId", organizer, h.setParticipantStatus)
	api.GET("/organizer/:id/stats", organizer, h.organizerStats)
	api.GET("/organizer/export/:eventId", organizer, h.exportParticipants)
	api.POST("/uploads/poster", organizer, h.uploadPoster)

	adm := api.Group("/admin", admin)
	adm.PUT("/events/:id/status", h.setEventStatus)
	adm.GET("/events/all", h.listAllEvents)
	adm.DELETE("/users/:role/:id", h.deleteUser)
	adm.GET("/users", h.users)
	adm.GET("/stats", h.adminStats)
	adm.GET("/logs", h.logs)
	adm.GET("/export/students", h.exportStudents)

	api.POST("/feedback", h.submitFeedback)
	api.POST("/contact", h.submitContact)
	api.GET("/meta", h.meta)

	r.NoRoute(notFound(o.StaticDir))
	return r
}

func healthz(svc *campus.Service, checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"store": svc.Ping(ctx) == nil}
		status := http.StatusOK
		if !body["store"].(bool) {
			status = http.StatusServiceUnavailable
		}
		for name, check := range checks {
			ok := check(ctx)
			body[name] = ok
			if !ok {
				status = http.StatusServiceUnavailable
			}
		}
		body["status"] = "ok"
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}

// notFound answers unknown /api paths with JSON and serves the client app
// for everything else when a static directory is configured.
func notFound(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || staticDir == "" || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"message": "API endpoint not found"})
			return
		}
		file := filepath.Join(staticDir, filepath.Clean("/"+path))
		if fi, err := os.Stat(file); err == nil && !fi.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}

// bind decodes the JSON body into dst and validates it. It writes the 400
// response itself and reports false on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		badRequest(c, err.Error())
		return false
	}
	return true
}
