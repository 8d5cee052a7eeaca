package view

import (
	"fmt"
	"time"

	"github.com/kjstillabower/wind-dashboard/internal/dataset"
	"github.com/kjstillabower/wind-dashboard/internal/forecast"
)

const (
	// HistoricalYear is the reference year the monthly samples are plotted against.
	HistoricalYear = 2023
	// ForecastYear is the year whose first months the forecast covers.
	ForecastYear = HistoricalYear + 1
)

const (
	labelMonth         = "Month"
	labelWindSpeed     = "Wind Speed (m/s)"
	labelForecastSpeed = "Forecasted Wind Speed (m/s)"
	labelPower         = "Estimated Power Output (kW)"
)

// MonthlyPoint pairs a month-end date with a wind speed in m/s.
type MonthlyPoint struct {
	Month     time.Time
	WindSpeed float64
}

// MonthlySeries is a labelled wind-speed series over consecutive months.
type MonthlySeries struct {
	Title  string
	XLabel string
	YLabel string
	Points []MonthlyPoint
}

// PowerCurveSeries is the labelled turbine power curve.
type PowerCurveSeries struct {
	Title  string
	XLabel string
	YLabel string
	Points []dataset.PowerCurvePoint
}

// Charts is everything the dashboard draws for one selected location.
type Charts struct {
	Location   dataset.LocationKey
	Historical MonthlySeries
	Forecast   MonthlySeries
	PowerCurve PowerCurveSeries
}

// View derives chart data from an immutable dataset. The noise source is the
// only non-deterministic input.
type View struct {
	data  *dataset.Dataset
	noise forecast.Source
}

// New returns a View over data. A nil noise source falls back to the unseeded
// process-wide generator.
func New(data *dataset.Dataset, noise forecast.Source) *View {
	if noise == nil {
		noise = forecast.NewSource(nil)
	}
	return &View{data: data, noise: noise}
}

// Locations returns the selectable locations in display order.
func (v *View) Locations() []dataset.LocationKey {
	return v.data.Locations()
}

// ParseLocation maps user input to a location key, ignoring case and surrounding whitespace.
func (v *View) ParseLocation(s string) (dataset.LocationKey, error) {
	return v.data.ParseLocation(s)
}

// DeriveCharts builds the historical, forecast and power-curve series for loc.
// The forecast is recomputed with fresh noise on every call. The only error is
// an unknown location, which matches dataset.ErrUnknownLocation.
func (v *View) DeriveCharts(loc dataset.LocationKey) (Charts, error) {
	speeds, err := v.data.SeriesFor(loc)
	if err != nil {
		return Charts{}, fmt.Errorf("derive charts: %w", err)
	}

	hist := MonthlySeries{
		Title:  fmt.Sprintf("Historical Wind Speeds - %s", loc),
		XLabel: labelMonth,
		YLabel: labelWindSpeed,
		Points: make([]MonthlyPoint, 0, len(speeds)),
	}
	for i, s := range speeds {
		hist.Points = append(hist.Points, MonthlyPoint{Month: MonthEnd(HistoricalYear, i), WindSpeed: s})
	}

	predicted := forecast.Naive(speeds, v.noise)
	fc := MonthlySeries{
		Title:  fmt.Sprintf("Forecasted Wind Speeds - %s", loc),
		XLabel: labelMonth,
		YLabel: labelForecastSpeed,
		Points: make([]MonthlyPoint, 0, len(predicted)),
	}
	for i, s := range predicted {
		fc.Points = append(fc.Points, MonthlyPoint{Month: MonthEnd(ForecastYear, i), WindSpeed: s})
	}

	return Charts{
		Location:   loc,
		Historical: hist,
		Forecast:   fc,
		PowerCurve: PowerCurveSeries{
			Title:  "Wind Turbine Power Curve",
			XLabel: labelWindSpeed,
			YLabel: labelPower,
			Points: v.data.PowerCurve(),
		},
	}, nil
}

// MonthEnd returns the last day of the month at offset (0 = January) in year, UTC.
// Offsets past December roll into following years.
func MonthEnd(year, offset int) time.Time {
	return time.Date(year, time.Month(offset+2), 0, 0, 0, 0, 0, time.UTC)
}
