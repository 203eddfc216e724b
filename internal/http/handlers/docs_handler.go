package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/pnr/:pnr/e-ticket returns the e-ticket PDF inline.
func (h *Handler) GetETicketPDF(c *gin.Context) {
	pdfBytes, filename, err := h.Tickets.GenerateETicket(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		h.fail(c, "docs", "eticket", err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
