package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/routes
func (h *Handler) ListRoutes(c *gin.Context) {
	out, err := h.Catalog.Routes(c.Request.Context())
	if err != nil {
		h.fail(c, "catalog", "routes", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/buses/route/:routeId
func (h *Handler) ListBusesByRoute(c *gin.Context) {
	routeID, ok := idParam(c, "routeId")
	if !ok {
		return
	}
	out, err := h.Catalog.BusesByRoute(c.Request.Context(), routeID)
	if err != nil {
		h.fail(c, "catalog", "buses_by_route", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/buses/:busId
func (h *Handler) GetBus(c *gin.Context) {
	busID, ok := idParam(c, "busId")
	if !ok {
		return
	}
	b, err := h.Catalog.Bus(c.Request.Context(), busID)
	if err != nil {
		h.fail(c, "catalog", "bus", err)
		return
	}
	c.JSON(http.StatusOK, b)
}
