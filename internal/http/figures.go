package http

import (
	"github.com/kjstillabower/wind-dashboard/internal/view"
)

// ModeLinesMarkers is the only chart kind the dashboard draws.
const ModeLinesMarkers = "lines+markers"

const monthLayout = "2006-01-02"

// Figure is a chart descriptor for the browser-side plotting library. X holds
// YYYY-MM-DD strings for monthly series and integer speeds for the power curve.
type Figure struct {
	Title      string        `json:"title"`
	XAxisTitle string        `json:"xAxisTitle"`
	YAxisTitle string        `json:"yAxisTitle"`
	Mode       string        `json:"mode"`
	X          []interface{} `json:"x"`
	Y          []float64     `json:"y"`
}

// ChartSet is the three figures drawn for one location.
type ChartSet struct {
	Historical Figure `json:"historical"`
	Forecast   Figure `json:"forecast"`
	PowerCurve Figure `json:"powerCurve"`
}

// ChartsResponse is the body of GET /api/charts/{location}.
type ChartsResponse struct {
	Location string   `json:"location"`
	Charts   ChartSet `json:"charts"`
}

func newChartsResponse(c view.Charts) ChartsResponse {
	return ChartsResponse{
		Location: string(c.Location),
		Charts: ChartSet{
			Historical: monthlyFigure(c.Historical),
			Forecast:   monthlyFigure(c.Forecast),
			PowerCurve: powerCurveFigure(c.PowerCurve),
		},
	}
}

func monthlyFigure(s view.MonthlySeries) Figure {
	f := Figure{
		Title:      s.Title,
		XAxisTitle: s.XLabel,
		YAxisTitle: s.YLabel,
		Mode:       ModeLinesMarkers,
		X:          make([]interface{}, 0, len(s.Points)),
		Y:          make([]float64, 0, len(s.Points)),
	}
	for _, p := range s.Points {
		f.X = append(f.X, p.Month.Format(monthLayout))
		f.Y = append(f.Y, p.WindSpeed)
	}
	return f
}

func powerCurveFigure(s view.PowerCurveSeries) Figure {
	f := Figure{
		Title:      s.Title,
		XAxisTitle: s.XLabel,
		YAxisTitle: s.YLabel,
		Mode:       ModeLinesMarkers,
		X:          make([]interface{}, 0, len(s.Points)),
		Y:          make([]float64, 0, len(s.Points)),
	}
	for _, p := range s.Points {
		f.X = append(f.X, p.SpeedMS)
		f.Y = append(f.Y, p.PowerKW)
	}
	return f
}
