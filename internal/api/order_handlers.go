package api

import (
	"net/http"

	"catering-service/internal/models"
	"catering-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listEvents(c *gin.Context) {
	if teacherID := c.Query("teacher_id"); teacherID != "" {
		c.JSON(http.StatusOK, gin.H{"events": h.events.EventsVisibleToTeacher(teacherID)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": h.store.Events()})
}

func (h *Handler) createExtraordinaryEvent(c *gin.Context) {
	var e models.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.events.CreateExtraordinaryEvent(c.Request.Context(), e)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) generateEvents(c *gin.Context) {
	generated, err := h.events.EnsureUpcomingEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated": generated, "count": len(generated)})
}

func (h *Handler) transitionEvent(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	event, err := h.events.TransitionEvent(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	order, err := h.orders.CreateDraft(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, items, err := h.orders.GetOrder(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

func (h *Handler) submitOrder(c *gin.Context) {
	order, err := h.orders.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.store.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) aggregateEvent(c *gin.Context) {
	agg, err := h.procurement.AggregateEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"aggregation": agg,
		"assignments": service.DefaultAssignments(agg),
	})
}

func (h *Handler) supplierSummary(c *gin.Context) {
	agg, err := h.procurement.AggregateEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": service.SupplierSummary(agg, service.DefaultAssignments(agg)),
	})
}

func (h *Handler) processEvent(c *gin.Context) {
	var req service.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	result, err := h.procurement.ProcessEvent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) startReception(c *gin.Context) {
	session, err := h.reception.StartSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) getReception(c *gin.Context) {
	session, err := h.reception.Session(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) setReceived(c *gin.Context) {
	var req struct {
		Quantity float64 `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	line, err := h.reception.SetReceived(c.Param("id"), c.Param("productId"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *Handler) markLineOK(c *gin.Context) {
	line, err := h.reception.MarkOK(c.Param("id"), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *Handler) markLineIncident(c *gin.Context) {
	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	line, err := h.reception.MarkIncident(c.Param("id"), c.Param("productId"), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, line)
}

func (h *Handler) finalizeReception(c *gin.Context) {
	status, incidents, err := h.reception.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"final_status": status, "incidents": incidents})
}

func (h *Handler) listIncidents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"incidents": h.store.Incidents()})
}

func (h *Handler) listStock(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stock": h.economato.Stock()})
}

func (h *Handler) listLowStock(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stock": h.economato.LowStock()})
}

func (h *Handler) setStock(c *gin.Context) {
	var item models.MiniEconomatoItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	item.ProductID = c.Param("productId")
	if err := h.economato.SetStock(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) assignExpense(c *gin.Context) {
	var req service.AssignExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	order, err := h.economato.AssignExpense(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
