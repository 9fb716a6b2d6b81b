package api

import (
	"net/http"

	"catering-service/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listSuppliers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suppliers": h.store.Suppliers()})
}

func (h *Handler) createSupplier(c *gin.Context) {
	var sup models.Supplier
	if err := c.ShouldBindJSON(&sup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddSupplier(c.Request.Context(), sup)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateSupplier(c *gin.Context) {
	var sup models.Supplier
	if err := c.ShouldBindJSON(&sup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	sup.ID = c.Param("id")
	if err := h.store.UpdateSupplier(c.Request.Context(), sup); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	if err := h.store.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.store.Products()})
}

func (h *Handler) createProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddProduct(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	p.ID = c.Param("id")
	if err := h.store.UpdateProduct(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.store.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listFamilies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"families": h.store.Families()})
}

func (h *Handler) createFamily(c *gin.Context) {
	var f models.Family
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddFamily(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteFamily(c *gin.Context) {
	if err := h.store.DeleteFamily(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.store.Categories()})
}

func (h *Handler) createCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddCategory(c.Request.Context(), cat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.store.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listProductStates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"product_states": h.store.ProductStates()})
}

func (h *Handler) createProductState(c *gin.Context) {
	var ps models.ProductState
	if err := c.ShouldBindJSON(&ps); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	created, err := h.store.AddProductState(c.Request.Context(), ps)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) deleteProductState(c *gin.Context) {
	if err := h.store.DeleteProductState(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
