package api

import (
	"io"
	"net/http"

	"catering-service/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) impersonate(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing claims"})
		return
	}
	token, err := h.auth.Impersonate(claims, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) listRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recipes": h.store.Recipes()})
}

func (h *Handler) createRecipe(c *gin.Context) {
	var r models.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddRecipe(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateRecipe(c *gin.Context) {
	var r models.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	r.ID = c.Param("id")
	if err := h.store.UpdateRecipe(c.Request.Context(), r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) deleteRecipe(c *gin.Context) {
	if err := h.store.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) costRecipe(c *gin.Context) {
	cost, err := h.recipes.Cost(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cost)
}

func (h *Handler) listServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.store.Services()})
}

func (h *Handler) createService(c *gin.Context) {
	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddService(c.Request.Context(), svc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listServiceGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service_groups": h.store.ServiceGroups()})
}

func (h *Handler) createServiceGroup(c *gin.Context) {
	var g models.ServiceGroup
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddServiceGroup(c.Request.Context(), g)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listMessages(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing claims"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": h.store.MessagesForUser(claims.UserID)})
}

func (h *Handler) sendMessage(c *gin.Context) {
	var m models.Message
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if claims := currentClaims(c); claims != nil && m.SenderID == "" {
		m.SenderID = claims.UserID
	}
	created, err := h.store.AddMessage(c.Request.Context(), m)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) markMessageRead(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing claims"})
		return
	}
	if err := h.store.MarkMessageRead(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listNotifications(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing claims"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": h.store.NotificationsForUser(claims.UserID)})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	if err := h.store.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listClassrooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"classrooms": h.store.Classrooms()})
}

func (h *Handler) createClassroom(c *gin.Context) {
	var req struct {
		Name       string   `json:"name" binding:"required"`
		TeacherID  string   `json:"teacher_id" binding:"required"`
		StudentIDs []string `json:"student_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	classroom, err := h.classrooms.Create(c.Request.Context(), req.Name, req.TeacherID, req.StudentIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, classroom)
}

func (h *Handler) getClassroom(c *gin.Context) {
	classroom, err := h.classrooms.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classroom)
}

func (h *Handler) resetClassroom(c *gin.Context) {
	classroom, err := h.classrooms.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classroom)
}

func (h *Handler) updateClassroomData(c *gin.Context) {
	var data models.ClassroomData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.classrooms.UpdateData(c.Request.Context(), c.Param("id"), data); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteClassroom(c *gin.Context) {
	if err := h.store.DeleteClassroom(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.store.Users()})
}

func (h *Handler) createUser(c *gin.Context) {
	var req struct {
		models.User
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddUser(c.Request.Context(), req.User)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Password != "" {
		if err := h.auth.SetPassword(c.Request.Context(), created.ID, created.Email, req.Password); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateUser(c *gin.Context) {
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	u.ID = c.Param("id")
	if err := h.store.UpdateUser(c.Request.Context(), u); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.store.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getCompanyInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.CompanyInfo())
}

func (h *Handler) setCompanyInfo(c *gin.Context) {
	var info models.CompanyInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.store.SetCompanyInfo(c.Request.Context(), info); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) exportBackup(c *gin.Context) {
	var createdBy string
	if claims := currentClaims(c); claims != nil {
		createdBy = claims.UserID
	}
	backup, err := h.backup.Export(c.Request.Context(), createdBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, backup)
}

func (h *Handler) restoreBackup(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if err := h.backup.Restore(c.Request.Context(), raw); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

func (h *Handler) backupHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.store.BackupHistory()})
}
