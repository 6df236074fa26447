package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"steamtrends/internal/config"
	"steamtrends/internal/logger"
	"steamtrends/internal/models"
	"steamtrends/internal/reports"
)

// Server represents the main application server
type Server struct {
	Config  *config.Config
	Charts  reports.ChartSet
	Dataset *models.Dataset
	Builder *reports.HTMLBuilder
	Files   *FileManager

	log    *logger.Logger
	router chi.Router
}

// NewServer creates a server over already constructed charts
func NewServer(cfg *config.Config, set reports.ChartSet, dataset *models.Dataset, files *FileManager) (*Server, error) {
	builder, err := reports.NewHTMLBuilder()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Config:  cfg,
		Charts:  set,
		Dataset: dataset,
		Builder: builder,
		Files:   files,
		log:     logger.GetGlobalLogger().WithComponent("server"),
	}
	s.router = s.setupRoutes()
	return s, nil
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the middleware stack and HTTP routes
func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log.Zap()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.HandleRoot)
	r.Get("/health", s.HandleHealth)
	r.Get("/api/genres", s.HandleGenres)
	r.Get("/api/charts/{id}", s.HandleChartData)
	r.Post(reports.FilterEndpoint, s.HandlePlaytimeFilter)
	r.Get("/charts/{file}", s.HandleChartPNG)
	r.Get("/static/*", s.HandleStatic)

	return r
}

// requestLogger logs one line per request through zap
func requestLogger(zl *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				zl.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Files != nil {
		return s.Files.Close()
	}
	return nil
}
