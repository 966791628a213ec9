package v1

import (
	"net/http"
	"time"

	"github.com/eldolucas/orcy-backend/internal/forecast"
	"github.com/eldolucas/orcy-backend/internal/httputil"
	"github.com/eldolucas/orcy-backend/internal/types"
	"github.com/gin-gonic/gin"
)

// RegisterForecastRoutes registers the routes for forecasts with
// the RouterGroup that is passed.
func RegisterForecastRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsForecast)
	r.POST("", CreateForecast)
}

// ForecastRequest is the historical series and the projection parameters.
type ForecastRequest struct {
	HistoricalValues []float64   `json:"historicalValues" example:"100,120,140"`     // The historical series, ordered from oldest to newest
	Method           string      `json:"method" example:"linear" default:"linear"`   // One of linear, exponential, seasonal, regression
	Horizon          int         `json:"horizon" example:"3" default:"1"`            // Number of future periods to project
	PeriodUnit       string      `json:"periodUnit" example:"monthly" default:"monthly"` // One of monthly, quarterly, yearly
	Start            types.Month `json:"start" example:"2026-06"`                    // Period of the newest historical value. Defaults to the current month.
}

type ForecastResponse struct {
	Data  []forecast.Point `json:"data"`                                                               // The projected periods
	Error *string          `json:"error" example:"at least one historical data point is required"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Forecasts
// @Success		204
// @Router			/v1/forecasts [options]
func OptionsForecast(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Create forecast
// @Description	Projects the historical series into future periods. Forecasts are computed on the fly and not stored.
// @Tags			Forecasts
// @Accept			json
// @Produce		json
// @Success		200			{object}	ForecastResponse
// @Failure		400			{object}	ForecastResponse
// @Param			forecast	body		ForecastRequest	true	"Forecast parameters"
// @Router			/v1/forecasts [post]
func CreateForecast(c *gin.Context) {
	var request ForecastRequest

	err := httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ForecastResponse{
			Error: &s,
		})
		return
	}

	method, err := forecast.ParseMethod(request.Method)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ForecastResponse{
			Error: &s,
		})
		return
	}

	unit, err := types.ParsePeriod(request.PeriodUnit)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ForecastResponse{
			Error: &s,
		})
		return
	}

	horizon := request.Horizon
	if horizon == 0 {
		horizon = 1
	}

	startMonth := request.Start
	if startMonth.IsZero() {
		startMonth = types.MonthOf(time.Now())
	}
	start := time.Time(startMonth)

	points, err := forecast.Project(request.HistoricalValues, method, horizon, unit, start)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ForecastResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ForecastResponse{Data: points})
}
