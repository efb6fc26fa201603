package handler

import (
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portal/internal/notify"
	"portal/internal/store"
)

// Handler owns the HTTP surface. All state is injected once at startup; the
// handlers themselves keep nothing between requests.
type Handler struct {
	store    store.Store
	notifier notify.Sender
	fs       *firestore.Client // nil when Firestore is not configured
	log      zerolog.Logger
}

// New creates a handler over the given store and notification sender.
func New(s store.Store, n notify.Sender, fs *firestore.Client, logger zerolog.Logger) *Handler {
	return &Handler{store: s, notifier: n, fs: fs, log: logger}
}

// Register mounts all routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")

	users := api.Group("/users")
	users.GET("", h.GetAllUsers)
	users.GET("/pending", h.GetPendingUsers)
	users.GET("/attendance", h.GetUsersAttendance)
	users.GET("/:code", h.GetUserByCode)
	users.POST("", h.CreateUser)
	users.PUT("/:code", h.UpdateUser)
	users.DELETE("/:code", h.DeleteUser)

	api.POST("/notify", h.SendNotification)

	if h.fs != nil {
		fs := api.Group("/firestore")
		fs.GET("/:collection", h.ListDocuments)
		fs.GET("/:collection/:id", h.GetDocument)
		fs.POST("/:collection", h.CreateDocument)
		fs.PUT("/:collection/:id", h.SetDocument)
		fs.DELETE("/:collection/:id", h.DeleteDocument)
	}
}

// Root is the liveness check existing deployments probe.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Firebase Portal API is running")
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
