package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/BarkinBalci/storefront-analytics/docs"
	"github.com/BarkinBalci/storefront-analytics/internal/dto"
	"github.com/BarkinBalci/storefront-analytics/internal/service"
)

const healthCheckTimeout = 2 * time.Second

type Handler struct {
	eventService     service.EventServicer
	analyticsService service.AnalyticsServicer
	router           *gin.Engine
	log              *zap.Logger
}

func NewHandler(eventService service.EventServicer, analyticsService service.AnalyticsServicer, log *zap.Logger) *Handler {
	h := &Handler{
		eventService:     eventService,
		analyticsService: analyticsService,
		router:           gin.New(),
		log:              log,
	}

	h.router.Use(gin.Recovery(), h.requestLogger())
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/events", h.trackEvent)
	h.router.POST("/events/bulk", h.trackEventsBulk)
	h.router.GET("/analytics", h.getAnalytics)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// requestLogger logs each request through zap
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check that the service is running and the event store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} dto.ErrorResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.analyticsService.Ping(ctx); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "unavailable",
			Message: "event store unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// trackEvent handles POST /events
// @Summary Track a single event
// @Description Record one storefront interaction. Recording is fire-and-forget.
// @Tags events
// @Accept json
// @Produce json
// @Param event body dto.TrackEventRequest true "Event data"
// @Success 202 {object} dto.TrackEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /events [post]
func (h *Handler) trackEvent(c *gin.Context) {
	var req dto.TrackEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid event request",
			zap.Error(err),
			zap.String("type", req.Type))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	h.fillClientInfo(c, &req)
	h.eventService.Track(c.Request.Context(), &req)

	c.JSON(http.StatusAccepted, dto.TrackEventResponse{
		Status: "accepted",
	})
}

// trackEventsBulk handles POST /events/bulk
// @Summary Track multiple events
// @Description Record up to 1000 storefront interactions in one request
// @Tags events
// @Accept json
// @Produce json
// @Param events body dto.TrackEventsBulkRequest true "Bulk events data"
// @Success 202 {object} dto.TrackEventsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /events/bulk [post]
func (h *Handler) trackEventsBulk(c *gin.Context) {
	var bulkRequest dto.TrackEventsBulkRequest

	if err := c.ShouldBindJSON(&bulkRequest); err != nil {
		h.log.Warn("Invalid bulk event request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	for i := range bulkRequest.Events {
		h.fillClientInfo(c, &bulkRequest.Events[i])
	}

	accepted := h.eventService.TrackBatch(c.Request.Context(), bulkRequest.Events)

	h.log.Info("Bulk events accepted",
		zap.Int("accepted", accepted),
		zap.Int("total", len(bulkRequest.Events)))

	c.JSON(http.StatusAccepted, dto.TrackEventsResponse{
		Accepted: accepted,
	})
}

// fillClientInfo defaults userAgent and ipAddress from the HTTP request
func (h *Handler) fillClientInfo(c *gin.Context, req *dto.TrackEventRequest) {
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}
	if req.IPAddress == "" {
		req.IPAddress = c.ClientIP()
	}
}

// getAnalytics handles GET /analytics
// @Summary Query aggregated analytics
// @Description Run one of the four aggregations over a time window.
// @Description page_views returns [{date, views, uniqueUsers}], top_products returns [{productId, product, views, uniqueUsers}],
// @Description conversion_funnel returns {page_views, product_views, add_to_cart, purchases}, search_analytics returns [{query, count, uniqueUsers}].
// @Tags analytics
// @Produce json
// @Param type query string true "Aggregation type" Enums(page_views, top_products, conversion_funnel, search_analytics)
// @Param startDate query string true "Window start (RFC 3339 or YYYY-MM-DD)" example:"2024-01-01"
// @Param endDate query string true "Window end (RFC 3339 or YYYY-MM-DD, a bare date covers the whole day)" example:"2024-01-31"
// @Param limit query int false "top_products only, 1 to 100" default(10)
// @Success 200 {object} any
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics [get]
func (h *Handler) getAnalytics(c *gin.Context) {
	var req dto.AnalyticsQueryRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid analytics request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	result, err := h.analyticsService.Query(c.Request.Context(), &req)
	if err != nil {
		if isValidationError(err) {
			h.log.Warn("Rejected analytics request",
				zap.Error(err),
				zap.String("type", req.Type))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
			return
		}

		h.log.Error("Failed to run analytics query",
			zap.Error(err),
			zap.String("type", req.Type),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to compute analytics",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrInvalidQueryType) ||
		errors.Is(err, service.ErrInvalidTimeRange) ||
		errors.Is(err, service.ErrTimeRangeTooLarge) ||
		errors.Is(err, service.ErrInvalidLimit)
}
