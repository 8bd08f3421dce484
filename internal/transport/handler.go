package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anime-shed/image-enhancer-go/internal/config"
	apperrors "github.com/anime-shed/image-enhancer-go/internal/errors"
	"github.com/anime-shed/image-enhancer-go/internal/logger"
	"github.com/anime-shed/image-enhancer-go/internal/observer"
	"github.com/anime-shed/image-enhancer-go/internal/service"
	"github.com/anime-shed/image-enhancer-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// uploadField is the multipart form field carrying an uploaded image
const uploadField = "image"

func NewHandler(svc service.EnhancementService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/metrics", metricsHandler(metrics))
	r.POST("/enhance", enhanceImage(svc, cfg))
	r.POST("/enhance/batch", enhanceBatch(svc, cfg))
	r.POST("/enhance/upload", enhanceUpload(svc, cfg))

	return r
}

func enhanceImage(svc service.EnhancementService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequest(c, "Processing image enhancement request")

		var req models.EnhanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		report, err := svc.EnhanceLocation(ctx, req.Location)
		if err != nil {
			_ = c.Error(err)
			return
		}

		logger.WithFields(logrus.Fields{
			"location":           req.Location,
			"output":             report.Output,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
			"median":             report.Filters.Median,
			"unsharp":            report.Filters.Unsharp,
			"stretch":            report.Filters.Stretch,
		}).Info("Image enhancement completed successfully")

		c.JSON(http.StatusOK, report)
	}
}

func enhanceBatch(svc service.EnhancementService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequest(c, "Processing batch enhancement request")

		var req models.BatchEnhanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		result := svc.EnhanceBatch(ctx, req.Locations)

		logger.WithFields(logrus.Fields{
			"images":    len(req.Locations),
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
		}).Info("Batch enhancement finished")

		c.JSON(http.StatusOK, result)
	}
}

func enhanceUpload(svc service.EnhancementService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequest(c, "Processing image upload")

		fileHeader, err := c.FormFile(uploadField)
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("missing %q form file", uploadField), err)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "unreadable upload", err)
			return
		}
		defer file.Close()

		report, err := svc.EnhanceUpload(ctx, fileHeader.Filename, file)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

func metricsHandler(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.GetMetrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func logRequest(c *gin.Context, msg string) {
	logger.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"ip":         c.ClientIP(),
	}).Info(msg)
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			respondError(c, determineStatusCode(err), "enhancement failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
