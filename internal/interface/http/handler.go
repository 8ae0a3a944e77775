package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/vpd-calculator/internal/domain/vpdcalc"
	"github.com/yanqian/vpd-calculator/internal/infra/render"
	apperrors "github.com/yanqian/vpd-calculator/pkg/errors"
)

// Handler wires the HTTP transport to the calculator service.
type Handler struct {
	calc   vpdcalc.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(calc vpdcalc.Service, logger *slog.Logger) *Handler {
	return &Handler{
		calc:   calc,
		logger: logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Calculate derives VPD, dew point and zone for the queried operating point.
func (h *Handler) Calculate(c *gin.Context) {
	var req vpdcalc.Request
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, badRequest("", err))
		return
	}

	resp, err := h.calc.Calculate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Zones lists the growth-stage reference panel.
func (h *Handler) Zones(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"zones": h.calc.Zones(c.Request.Context())})
}

// Chart renders the heatmap as a JSON frame, PNG or SVG depending on ?format=.
func (h *Handler) Chart(c *gin.Context) {
	var req vpdcalc.ChartRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, badRequest("", err))
		return
	}
	format := c.DefaultQuery("format", "json")
	var encoder render.Format
	if format != "json" {
		f, ok := render.Lookup(format)
		if !ok {
			abortWithError(c, badRequest("format must be json, png or svg", nil))
			return
		}
		encoder = f
	}

	frame, err := h.calc.Chart(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if encoder.Encode == nil {
		c.JSON(http.StatusOK, frame)
		return
	}
	if frame.Empty() {
		c.Status(http.StatusNoContent)
		return
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, frame); err != nil {
		abortWithError(c, apperrors.Wrap(apperrors.CodeRenderFailed, "failed to encode chart", err))
		return
	}
	c.Data(http.StatusOK, encoder.ContentType, buf.Bytes())
}

// Click translates a pointer position on the chart into a new operating point.
func (h *Handler) Click(c *gin.Context) {
	var req vpdcalc.ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest("", err))
		return
	}

	resp, err := h.calc.Click(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Convert switches a temperature between units.
func (h *Handler) Convert(c *gin.Context) {
	var req vpdcalc.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest("", err))
		return
	}

	resp, err := h.calc.Convert(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
