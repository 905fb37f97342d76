package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxpay/taxpay/backend/go-services/internal/allocations"
	"github.com/taxpay/taxpay/backend/go-services/pkg/middleware"
)

// SaveAllocationRequest is the POST /allocations body
type SaveAllocationRequest struct {
	Sectors map[string]float64 `json:"sectors" binding:"required"`
}

type AllocationHandler struct {
	svc *allocations.Service
}

func NewAllocationHandler(s *allocations.Service) *AllocationHandler {
	return &AllocationHandler{svc: s}
}

// Register mounts the allocation routes; rg must already be authenticated.
func (h *AllocationHandler) Register(rg gin.IRouter) {
	rg.GET("/allocations", h.Get)
	rg.POST("/allocations", h.Save)
}

func (h *AllocationHandler) Get(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	sectors, err := h.svc.Get(c.Request.Context(), u.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}

func (h *AllocationHandler) Save(c *gin.Context) {
	var req SaveAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, _ := middleware.CurrentUser(c)
	if err := h.svc.Save(c.Request.Context(), u.Email, req.Sectors); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Allocation saved"})
}
