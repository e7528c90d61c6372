package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// exchangeRateHandler handles exchange rate requests.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(rateService portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{rateService: rateService}
}

func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createRate)
		rates.GET("", h.listRates)
		rates.GET("/effective", h.getEffectiveRate)
	}
}

// createRate godoc
// @Summary Record an exchange rate
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param rate body dto.CreateExchangeRateRequest true "Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	rate, err := h.rateService.CreateRate(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create exchange rate")
		return
	}

	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// listRates godoc
// @Summary List exchange rates for a currency pair
// @Tags exchange-rates
// @Produce json
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to query parameters are required"})
		return
	}

	rates, err := h.rateService.ListRates(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list exchange rates")
		return
	}

	responses := make([]dto.ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = dto.ToExchangeRateResponse(&rates[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getEffectiveRate godoc
// @Summary Get the effective rate for a currency pair on a date
// @Description Returns the most recent rate effective on or before the date. Defaults to today.
// @Tags exchange-rates
// @Produce json
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Param date query string false "Date (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No rate on record"
// @Security BearerAuth
// @Router /exchange-rates/effective [get]
func (h *exchangeRateHandler) getEffectiveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to query parameters are required"})
		return
	}

	onDate := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date parameter"})
				return
			}
		}
		onDate = parsed
	}

	rate, err := h.rateService.GetEffectiveRate(c.Request.Context(), from, to, onDate)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve exchange rate")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": from,
		"to":   to,
		"date": onDate.Format("2006-01-02"),
		"rate": rate.String(),
	})
}
