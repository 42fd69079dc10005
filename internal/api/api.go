package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mohamedhussein2626/backend-part/internal/auth"
	"github.com/mohamedhussein2626/backend-part/internal/config"
	"github.com/mohamedhussein2626/backend-part/internal/logging"
	"github.com/mohamedhussein2626/backend-part/internal/models"
	"github.com/mohamedhussein2626/backend-part/internal/ratelimit"
	"github.com/mohamedhussein2626/backend-part/internal/storage"
	"github.com/mohamedhussein2626/backend-part/internal/usage"
)

const shutdownTimeout = 10 * time.Second

// Accounts registers and authenticates one kind of account.
type Accounts interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.Session, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.Session, error)
	Role() models.Role
}

// StatsReader serves the usage aggregates.
type StatsReader interface {
	UserStats(ctx context.Context, userID string) (models.UsageStats, error)
	GlobalStats(ctx context.Context) (models.GlobalUsageStats, error)
	UserSummaries(ctx context.Context, since time.Time) ([]models.UserSummary, error)
}

// PDFRasterizer renders PDF pages to JPEG. page 0 means every page.
type PDFRasterizer interface {
	ToJPG(ctx context.Context, data []byte, page int) ([][]byte, error)
}

// DocumentConverter converts between PDF and DOCX.
type DocumentConverter interface {
	ToWord(ctx context.Context, data []byte) ([]byte, error)
	FromWord(data []byte) ([]byte, error)
}

type PDFCompressor interface {
	Compress(ctx context.Context, data []byte) ([]byte, bool)
}

// Recognizer finds the text in an image.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte) (string, error)
}

// Archiver keeps a copy of a conversion output and returns a download URL.
type Archiver interface {
	ArchiveOutput(ctx context.Context, filename string, data []byte) (*storage.UploadResult, error)
}

// Deps are the collaborators of the HTTP layer. Tracker, Archiver and
// Limiter may be nil.
type Deps struct {
	Users      Accounts
	Admins     Accounts
	Tokens     *auth.TokenManager
	Stats      StatsReader
	Tracker    *usage.Tracker
	Rasterizer PDFRasterizer
	Documents  DocumentConverter
	Compressor PDFCompressor
	OCR        Recognizer
	Archiver   Archiver
	Limiter    *ratelimit.Limiter
}

type Api struct {
	Config config.Config
	Router *chi.Mux
	deps   Deps
	log    logging.Logger
}

func NewApi(cfg config.Config, deps Deps, log logging.Logger) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, errors.New("Must have at least a port to start API")
	}
	if deps.Users == nil || deps.Admins == nil || deps.Tokens == nil {
		return nil, errors.New("account services and token manager are required")
	}
	if deps.Stats == nil || deps.Rasterizer == nil || deps.Documents == nil || deps.Compressor == nil || deps.OCR == nil {
		return nil, errors.New("missing conversion or stats dependency")
	}

	api := &Api{
		Config: cfg,
		Router: chi.NewRouter(),
		deps:   deps,
		log:    log,
	}
	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/heartbeat"))
	r.Use(auth.Identity(api.deps.Tokens, auth.UserCookie))
	r.Use(auth.Identity(api.deps.Tokens, auth.AdminCookie))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, failure{Message: "Not found"})
	})

	r.Get("/", api.Welcome)

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", api.RegisterHandler(api.deps.Users))
		r.Post("/user/login", api.LoginHandler(api.deps.Users))
		r.Post("/admin/register", api.RegisterHandler(api.deps.Admins))
		r.Post("/admin/login", api.LoginHandler(api.deps.Admins))

		r.Route("/image", func(r chi.Router) {
			r.Use(api.deps.Limiter.Middleware)
			r.Post("/resize", api.ResizeImage)
			r.Post("/crop", api.CropImage)
			r.Post("/compress", api.CompressImage)
			r.Post("/convert", api.ConvertImage)
			r.Post("/jpg-to-word", api.JPGToWord)
			r.Post("/image-text-converter", api.ImageToText)
			r.Post("/word-counter", api.WordCounter)
		})

		r.Route("/pdf", func(r chi.Router) {
			r.Use(api.deps.Limiter.Middleware)
			r.Post("/pdf-to-jpg", api.PDFToJPG)
			r.Post("/pdf-to-word", api.PDFToWord)
			r.Post("/metadata", api.PDFMetadata)
			r.Post("/word-to-pdf", api.WordToPDF)
			r.Post("/compress", api.CompressPDF)
		})

		r.Get("/usage/user", api.UserUsage)
		// TODO: restrict to admin sessions once the dashboard sends the admin cookie here
		r.Get("/usage/admin/all", api.AllUsage)

		r.With(api.RequireAdmin).Get("/admin/users/all", api.ListUsers)
	})
}

// Serve listens on the configured port until ctx is cancelled, then shuts
// the server down gracefully.
func (api *Api) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort),
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		api.log.Info(ctx, "starting API server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	api.log.Info(shutdownCtx, "shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

var endpoints = map[string]map[string]string{
	"user": {
		"register": "POST /api/user/register",
		"login":    "POST /api/user/login",
	},
	"admin": {
		"register": "POST /api/admin/register",
		"login":    "POST /api/admin/login",
		"users":    "GET /api/admin/users/all",
	},
	"image": {
		"compress":           "POST /api/image/compress",
		"convert":            "POST /api/image/convert",
		"resize":             "POST /api/image/resize",
		"crop":               "POST /api/image/crop",
		"jpgToWord":          "POST /api/image/jpg-to-word",
		"imageTextConverter": "POST /api/image/image-text-converter",
		"wordCounter":        "POST /api/image/word-counter",
	},
	"pdf": {
		"pdfToJpg":  "POST /api/pdf/pdf-to-jpg",
		"compress":  "POST /api/pdf/compress",
		"pdfToWord": "POST /api/pdf/pdf-to-word",
		"metadata":  "POST /api/pdf/metadata",
		"wordToPdf": "POST /api/pdf/word-to-pdf",
	},
	"usage": {
		"user":  "GET /api/usage/user",
		"admin": "GET /api/usage/admin/all",
	},
}

func (api *Api) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome to Toolur Backend API",
		"version":   "1.0.0",
		"endpoints": endpoints,
	})
}
