package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"eduportal/internal/config"
	"eduportal/internal/events"
	"eduportal/internal/metrics"
	"eduportal/internal/middleware"
	"eduportal/internal/modules/content"
	"eduportal/internal/modules/counselor"
	"eduportal/internal/modules/intake"
	"eduportal/internal/modules/lead"
	"eduportal/internal/pkg/response"
	"eduportal/internal/storage"
)

const healthTimeout = 3 * time.Second

// Deps are the long-lived components the HTTP layer is built from.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Store     *Store
	Disk      *storage.Disk
	Publisher events.Publisher
	Hub       http.Handler
	Metrics   *metrics.Metrics
}

// NewRouter wires every module onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(d.Log),
		middleware.RequestLogger(d.Log),
		middleware.CORS(d.Config.AllowedOrigins),
		middleware.Metrics(d.Metrics),
	)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "✅ The bd server is running")
	})
	r.GET("/healthz", healthz(d.Store))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	r.GET("/uploads/:name", serveUpload(d.Disk))
	if d.Hub != nil {
		r.GET("/ws/leads", gin.WrapH(d.Hub))
	}

	leadService := lead.NewService(d.Store.Leads, d.Disk, d.Publisher, d.Log.Named("lead"))
	lead.NewHandler(leadService).RegisterRoutes(r)

	intakeService := intake.NewService(d.Store.Leads, d.Store.Counselors, d.Disk, d.Publisher, d.Metrics, d.Log.Named("intake"))
	intake.NewHandler(intakeService).RegisterRoutes(r)

	counselorService := counselor.NewService(d.Store.Counselors, d.Log.Named("counselor"))
	counselor.NewHandler(counselorService).RegisterRoutes(r)

	content.NewModule(d.Store.Content, d.Log.Named("content")).RegisterRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "route not found")
	})
	return r
}

func healthz(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "store unavailable: "+err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// serveUpload streams a stored file. Range requests are honored.
func serveUpload(disk *storage.Disk) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, contentType, err := disk.Open(c.Param("name"))
		switch {
		case errors.Is(err, os.ErrNotExist), errors.Is(err, storage.ErrInvalidName):
			response.Error(c, http.StatusNotFound, "File not found")
			return
		case err != nil:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.Header("Content-Type", contentType)
		http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	}
}
