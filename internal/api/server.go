package api

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/config"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/dataset"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/enrich"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/models"
	enricherrors "github.com/razstvien01/pbi-top-ph-youtubers-2024/pkg/errors"
	"go.uber.org/zap"
)

// maxUploadBytes caps the CSV accepted by POST /enrich.
const maxUploadBytes = 10 << 20

// Archive is the run archive as seen by the server.
type Archive interface {
	enrich.Archiver
	GetLatestStats(channelID string) (*models.StatsRecord, error)
	GetStatsHistory(channelID string, limit int) ([]models.ArchivedStats, error)
}

// Server represents the API server
type Server struct {
	router   *gin.Engine
	fetcher  enrich.Fetcher
	pipeline *enrich.Pipeline
	archive  Archive
	logger   *zap.Logger
}

// NewServer creates a new API server. archive may be nil.
func NewServer(cfg config.ServerConfig, fetcher enrich.Fetcher, archive Archive, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	server := &Server{
		router:   router,
		fetcher:  fetcher,
		pipeline: enrich.NewPipeline(fetcher, nil, logger),
		archive:  archive,
		logger:   logger,
	}
	server.setupRoutes()
	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.GET("/channel/:id/stats", s.getChannelStats)
	s.router.GET("/channel/:id/stats/latest", s.getLatestStats)
	s.router.GET("/channel/:id/stats/history", s.getStatsHistory)
	s.router.POST("/enrich", s.enrichCSV)
}

// getChannelStats fetches live statistics for one channel
func (s *Server) getChannelStats(c *gin.Context) {
	result := s.fetcher.Fetch(c.Request.Context(), c.Param("id"))

	switch result.Status {
	case models.FetchStatusFound:
		c.JSON(http.StatusOK, result)
	case models.FetchStatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found", "channel_id": result.ChannelID})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": result.ErrorText(), "channel_id": result.ChannelID})
	}
}

// getLatestStats returns the newest archived record for a channel
func (s *Server) getLatestStats(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Run archive is not configured"})
		return
	}

	record, err := s.archive.GetLatestStats(c.Param("id"))
	if err != nil {
		s.logger.Error("Failed to read archive", zap.String("channelID", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read archive"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No archived statistics for channel"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// getStatsHistory lists archived results for a channel, newest first
func (s *Server) getStatsHistory(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Run archive is not configured"})
		return
	}

	limit := models.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	history, err := s.archive.GetStatsHistory(c.Param("id"), limit)
	if err != nil {
		s.logger.Error("Failed to read archive", zap.String("channelID", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read archive"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel_id": c.Param("id"), "history": history})
}

// enrichCSV accepts a CSV either as multipart field "file" or as the raw
// body and responds with the enriched CSV.
func (s *Server) enrichCSV(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var body io.Reader = c.Request.Body
	filename := "upload.csv"
	// Any other content type, urlencoded included, is the CSV itself.
	if isMultipart(c.GetHeader("Content-Type")) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart upload: " + err.Error()})
			return
		}
		defer file.Close()
		body = file
		filename = header.Filename
	}

	table, err := dataset.Decode(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid CSV: " + err.Error()})
		return
	}

	report, err := s.pipeline.Enrich(c.Request.Context(), table)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, enricherrors.ErrMissingColumn) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if s.archive != nil {
		if err := s.archive.StoreRun(report.RunID, report.Results); err != nil {
			s.logger.Error("Failed to archive run", zap.String("runID", report.RunID), zap.Error(err))
		}
	}

	var out bytes.Buffer
	if err := dataset.Encode(&out, report.Table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode CSV"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="updated_`+sanitizeFilename(filename)+`"`)
	c.Header("X-Run-ID", report.RunID)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out.Bytes())
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

// corsConfig allows the configured origins with credentials, or any
// origin without credentials when the list is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Run-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func isMultipart(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "multipart/form-data"
}

func sanitizeFilename(name string) string {
	cleaned := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r == '"' || r == '\\' || r == '/' || r < 0x20:
			cleaned = append(cleaned, '_')
		default:
			cleaned = append(cleaned, r)
		}
	}
	return string(cleaned)
}
