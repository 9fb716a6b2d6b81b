package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catering-service/internal/service"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	store       *store.Store
	auth        *service.AuthService
	events      *service.EventService
	orders      *service.OrderService
	procurement *service.ProcurementService
	reception   *service.ReceptionService
	economato   *service.EconomatoService
	recipes     *service.RecipeService
	classrooms  *service.ClassroomService
	backup      *service.BackupService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	st *store.Store,
	auth *service.AuthService,
	events *service.EventService,
	orders *service.OrderService,
	procurement *service.ProcurementService,
	reception *service.ReceptionService,
	economato *service.EconomatoService,
	recipes *service.RecipeService,
	classrooms *service.ClassroomService,
	backup *service.BackupService,
) *Handler {
	return &Handler{
		store:       st,
		auth:        auth,
		events:      events,
		orders:      orders,
		procurement: procurement,
		reception:   reception,
		economato:   economato,
		recipes:     recipes,
		classrooms:  classrooms,
		backup:      backup,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/api/v1/auth/login", h.login)

	v1 := router.Group("/api/v1", h.authMiddleware())
	{
		v1.POST("/auth/impersonate", h.impersonate)

		v1.GET("/suppliers", h.listSuppliers)
		v1.POST("/suppliers", h.createSupplier)
		v1.PUT("/suppliers/:id", h.updateSupplier)
		v1.DELETE("/suppliers/:id", h.deleteSupplier)

		v1.GET("/products", h.listProducts)
		v1.POST("/products", h.createProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.GET("/families", h.listFamilies)
		v1.POST("/families", h.createFamily)
		v1.DELETE("/families/:id", h.deleteFamily)
		v1.GET("/categories", h.listCategories)
		v1.POST("/categories", h.createCategory)
		v1.DELETE("/categories/:id", h.deleteCategory)
		v1.GET("/product-states", h.listProductStates)
		v1.POST("/product-states", h.createProductState)
		v1.DELETE("/product-states/:id", h.deleteProductState)

		v1.GET("/events", h.listEvents)
		v1.POST("/events", h.createExtraordinaryEvent)
		v1.POST("/events/generate", h.generateEvents)
		v1.PUT("/events/:id/status", h.transitionEvent)

		v1.POST("/orders", h.createOrder)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/orders/:id/submit", h.submitOrder)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.GET("/events/:id/aggregation", h.aggregateEvent)
		v1.GET("/events/:id/supplier-summary", h.supplierSummary)
		v1.POST("/events/:id/process", h.processEvent)

		v1.POST("/events/:id/reception", h.startReception)
		v1.GET("/events/:id/reception", h.getReception)
		v1.PUT("/events/:id/reception/lines/:productId/received", h.setReceived)
		v1.POST("/events/:id/reception/lines/:productId/ok", h.markLineOK)
		v1.POST("/events/:id/reception/lines/:productId/incident", h.markLineIncident)
		v1.POST("/events/:id/reception/finalize", h.finalizeReception)

		v1.GET("/incidents", h.listIncidents)

		v1.GET("/economato", h.listStock)
		v1.GET("/economato/low-stock", h.listLowStock)
		v1.PUT("/economato/:productId", h.setStock)
		v1.POST("/economato/expense", h.assignExpense)

		v1.GET("/recipes", h.listRecipes)
		v1.POST("/recipes", h.createRecipe)
		v1.PUT("/recipes/:id", h.updateRecipe)
		v1.DELETE("/recipes/:id", h.deleteRecipe)
		v1.GET("/recipes/:id/cost", h.costRecipe)

		v1.GET("/services", h.listServices)
		v1.POST("/services", h.createService)
		v1.GET("/service-groups", h.listServiceGroups)
		v1.POST("/service-groups", h.createServiceGroup)

		v1.GET("/messages", h.listMessages)
		v1.POST("/messages", h.sendMessage)
		v1.POST("/messages/:id/read", h.markMessageRead)
		v1.GET("/notifications", h.listNotifications)
		v1.POST("/notifications/:id/read", h.markNotificationRead)

		v1.GET("/classrooms", h.listClassrooms)
		v1.POST("/classrooms", h.createClassroom)
		v1.GET("/classrooms/:id", h.getClassroom)
		v1.POST("/classrooms/:id/reset", h.resetClassroom)
		v1.PUT("/classrooms/:id/data", h.updateClassroomData)
		v1.DELETE("/classrooms/:id", h.deleteClassroom)

		v1.GET("/users", h.listUsers)
		v1.POST("/users", h.createUser)
		v1.PUT("/users/:id", h.updateUser)
		v1.DELETE("/users/:id", h.deleteUser)

		v1.GET("/company", h.getCompanyInfo)
		v1.PUT("/company", h.setCompanyInfo)

		v1.POST("/backup/export", h.exportBackup)
		v1.POST("/backup/restore", h.restoreBackup)
		v1.GET("/backup/history", h.backupHistory)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

const claimsKey = "claims"

// authMiddleware validates the bearer token and stores its claims
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing bearer token",
			})
			return
		}
		claims, err := h.auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func currentClaims(c *gin.Context) *service.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*service.Claims); ok {
			return claims
		}
	}
	return nil
}

// respondError maps domain errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, store.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrBusinessRule):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
