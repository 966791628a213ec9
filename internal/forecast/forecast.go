// Package forecast projects a historical value series into future periods.
//
// All methods produce one point per future period with a lower and upper
// bound and a confidence score that decays with the distance from the last
// historical value, floored per method.
package forecast

import (
	"errors"
	"math"
	"time"

	"github.com/eldolucas/orcy-backend/internal/types"
)

// Method selects the projection algorithm.
type Method string

const (
	MethodLinear      Method = "linear"
	MethodExponential Method = "exponential"
	MethodSeasonal    Method = "seasonal"
	MethodRegression  Method = "regression"
)

var (
	ErrInvalidMethod  = errors.New("the forecast method must be one of linear, exponential, seasonal, regression")
	ErrNoHistory      = errors.New("at least one historical data point is required")
	ErrInvalidHorizon = errors.New("the forecast horizon must be larger than zero")
)

// ParseMethod parses a method string. An empty string defaults to linear.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "":
		return MethodLinear, nil
	case MethodLinear, MethodExponential, MethodSeasonal, MethodRegression:
		return Method(s), nil
	}

	return "", ErrInvalidMethod
}

// Point is a single projected period.
type Point struct {
	Period     string  `json:"period" example:"2027-01"` // Label of the projected period
	Projected  float64 `json:"projected" example:"160"`  // Projected value
	LowerBound float64 `json:"lowerBound" example:"144"` // Lower bound of the projection
	UpperBound float64 `json:"upperBound" example:"176"` // Upper bound of the projection
	Confidence int     `json:"confidence" example:"88"`  // Confidence in percent, decaying with distance
}

// Seasonal factors for one calendar year, applied cyclically to
// projections of the seasonal method.
var seasonalFactors = [12]float64{0.8, 0.85, 0.95, 1.0, 1.05, 1.1, 1.15, 1.1, 1.05, 1.0, 0.95, 1.0}

// Default growth rate for the exponential method when no rate can be
// derived from the series.
const defaultGrowthRate = 0.05

// Project generates horizon future points for the series.
//
// Period labels are generated by advancing the calendar from start by the
// period unit, independent of the labels the historical series carried.
func Project(series []float64, method Method, horizon int, unit types.Period, start time.Time) ([]Point, error) {
	if len(series) == 0 {
		return nil, ErrNoHistory
	}

	if horizon <= 0 {
		return nil, ErrInvalidHorizon
	}

	var value func(i int) float64
	var lower, upper float64
	var confidence func(i int) int

	switch method {
	case MethodLinear:
		trend := linearTrend(series)
		last := series[len(series)-1]
		value = func(i int) float64 { return clamp(last + trend*float64(i+1)) }
		lower, upper = 0.9, 1.1
		confidence = confidenceDecay(90, 2, 60)

	case MethodExponential:
		rate := growthRate(series)
		last := series[len(series)-1]
		value = func(i int) float64 { return last * math.Pow(1+rate, float64(i+1)) }
		lower, upper = 0.85, 1.15
		confidence = confidenceDecay(85, 3, 50)

	case MethodSeasonal:
		base := mean(series)
		value = func(i int) float64 { return base * seasonalFactors[i%12] * 1.05 }
		lower, upper = 0.8, 1.2
		confidence = confidenceDecay(80, 2, 60)

	case MethodRegression:
		slope, intercept := leastSquares(series)
		n := float64(len(series))
		value = func(i int) float64 { return clamp(slope*(n+float64(i)) + intercept) }
		lower, upper = 0.88, 1.12
		confidence = confidenceDecay(88, 2, 65)

	default:
		return nil, ErrInvalidMethod
	}

	points := make([]Point, 0, horizon)
	for i := 0; i < horizon; i++ {
		projected := value(i)
		points = append(points, Point{
			Period:     unit.Label(unit.Advance(start, i+1)),
			Projected:  projected,
			LowerBound: projected * lower,
			UpperBound: projected * upper,
			Confidence: confidence(i),
		})
	}

	return points, nil
}

// linearTrend is the average change per period between the first and the
// last value of the series.
func linearTrend(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	return (series[len(series)-1] - series[0]) / float64(len(series)-1)
}

// growthRate derives the per-period compound growth rate from the first
// and last value. When the series is too short or starts at zero, the
// default growth rate is used instead.
func growthRate(series []float64) float64 {
	if len(series) < 2 || series[0] == 0 {
		return defaultGrowthRate
	}

	return math.Pow(series[len(series)-1]/series[0], 1/float64(len(series)-1)) - 1
}

func mean(series []float64) float64 {
	var sum float64
	for _, v := range series {
		sum += v
	}

	return sum / float64(len(series))
}

// leastSquares fits an ordinary least squares line over the series with
// the zero based index as x value.
func leastSquares(series []float64) (slope, intercept float64) {
	n := float64(len(series))

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n
	return
}

// confidenceDecay returns a confidence function over the zero based
// future period offset. Confidence starts at initial, decreases by decay
// for every period of distance and never falls below floor.
func confidenceDecay(initial, decay, floor int) func(i int) int {
	return func(i int) int {
		confidence := initial - decay*(i+1)
		if confidence < floor {
			return floor
		}

		return confidence
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}

	return v
}
