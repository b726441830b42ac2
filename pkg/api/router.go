package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rideadmin/pkg/logger"
	"rideadmin/service"
)

const requestIDKey = "request_id"

type Handler struct {
	svc service.IServiceManager
	log logger.ILogger
	now func() time.Time
}

// NewRouter wires the admin API. now defaults to time.Now.
func NewRouter(svc service.IServiceManager, log logger.ILogger, now func() time.Time) *gin.Engine {
	if now == nil {
		now = time.Now
	}
	log = log.With(logger.String("component", "http"))
	h := &Handler{svc: svc, log: log, now: now}

	r := gin.New()
	r.Use(requestID(), requestLogger(log), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "path": c.Request.URL.Path})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/dashboard", h.dashboard)

		cities := api.Group("/cities")
		cities.GET("", h.listCities)
		cities.POST("", h.createCity)
		cities.GET("/:id", h.getCity)
		cities.PUT("/:id", h.updateCity)
		cities.DELETE("/:id", h.deleteCity)
		cities.POST("/:id/toggle", h.toggleCity)
		cities.GET("/:id/quote", h.quoteCity)

		cats := api.Group("/vehicle-categories")
		cats.GET("", h.listCategories)
		cats.POST("", h.createCategory)
		cats.GET("/:id", h.getCategory)
		cats.PUT("/:id", h.updateCategory)
		cats.DELETE("/:id", h.deleteCategory)
		cats.POST("/:id/toggle", h.toggleCategory)
		cats.GET("/:id/quote", h.quoteCategory)

		bookings := api.Group("/bookings")
		bookings.GET("", h.listBookings)
		bookings.POST("", h.createBooking)
		bookings.GET("/estimate", h.estimateBooking)
		bookings.GET("/:id", h.getBooking)
		bookings.PUT("/:id", h.updateBooking)
		bookings.DELETE("/:id", h.deleteBooking)
		bookings.POST("/:id/confirm", h.confirmBooking)
		bookings.POST("/:id/complete", h.completeBooking)
		bookings.POST("/:id/cancel", h.cancelBooking)

		txs := api.Group("/transactions")
		txs.GET("", h.listTransactions)
		txs.POST("", h.recordPayment)
		txs.GET("/export", h.exportTransactions)
		txs.GET("/:id", h.getTransaction)
		txs.GET("/:id/refund-quote", h.refundQuote)
		txs.POST("/:id/refund", h.requestRefund)
		txs.POST("/:id/approve", h.approveRefund)
		txs.POST("/:id/reject", h.rejectRefund)
		txs.POST("/:id/fail", h.failTransaction)

		customers := api.Group("/customers")
		customers.GET("", h.listCustomers)
		customers.POST("", h.createCustomer)
		customers.GET("/:id", h.getCustomer)
		customers.PUT("/:id", h.updateCustomer)
		customers.DELETE("/:id", h.deleteCustomer)
		customers.POST("/:id/suspend", h.suspendCustomer)
		customers.POST("/:id/activate", h.activateCustomer)
		customers.POST("/:id/ban", h.banCustomer)

		notes := api.Group("/notifications")
		notes.GET("", h.listNotifications)
		notes.POST("", h.sendNotification)
		notes.GET("/stats", h.notificationStats)
		notes.POST("/read-all", h.markAllNotificationsRead)
		notes.POST("/:id/read", h.markNotificationRead)
	}

	return r
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func requestLogger(log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("request_id", c.GetString(requestIDKey)),
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
			logger.String("ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("http request", fields...)
			return
		}
		log.Debug("http request", fields...)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) dashboard(c *gin.Context) {
	o, err := h.svc.Dashboard().Overview(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
