package view

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/kjstillabower/wind-dashboard/internal/dataset"
	"github.com/kjstillabower/wind-dashboard/internal/forecast"
)

type fixedSource struct {
	samples []float64
	i       int
}

func (f *fixedSource) NormFloat64() float64 {
	v := f.samples[f.i%len(f.samples)]
	f.i++
	return v
}

func TestDeriveCharts_ChennaiHistorical(t *testing.T) {
	// Arrange
	v := New(dataset.Default(), forecast.Zero)
	want := []float64{5.1, 5.3, 5.7, 6.0, 6.2, 6.1, 5.9, 5.8, 5.5, 5.3, 5.2, 5.0}

	// Act
	charts, err := v.DeriveCharts(dataset.Chennai)

	// Assert
	if err != nil {
		t.Fatalf("DeriveCharts() error = %v", err)
	}
	if len(charts.Historical.Points) != 12 {
		t.Fatalf("historical len = %d, want 12", len(charts.Historical.Points))
	}
	for i, p := range charts.Historical.Points {
		if p.WindSpeed != want[i] {
			t.Errorf("historical[%d] = %v, want %v", i, p.WindSpeed, want[i])
		}
		if p.Month.Year() != 2023 || p.Month.Month() != time.Month(i+1) {
			t.Errorf("historical[%d].Month = %v, want 2023 month %d", i, p.Month, i+1)
		}
	}
	if charts.Historical.Title != "Historical Wind Speeds - Chennai" {
		t.Errorf("historical title = %q", charts.Historical.Title)
	}
}

func TestDeriveCharts_HistoricalMonthsAreMonthEnds(t *testing.T) {
	charts, err := New(dataset.Default(), forecast.Zero).DeriveCharts(dataset.Hyderabad)
	if err != nil {
		t.Fatalf("DeriveCharts() error = %v", err)
	}
	first := charts.Historical.Points[0].Month
	last := charts.Historical.Points[11].Month
	if got := first.Format("2006-01-02"); got != "2023-01-31" {
		t.Errorf("first month = %s, want 2023-01-31", got)
	}
	if got := last.Format("2006-01-02"); got != "2023-12-31" {
		t.Errorf("last month = %s, want 2023-12-31", got)
	}
}

func TestDeriveCharts_ForecastZeroNoise(t *testing.T) {
	d := dataset.Default()
	v := New(d, forecast.Zero)
	for _, loc := range d.Locations() {
		speeds, _ := d.SeriesFor(loc)
		charts, err := v.DeriveCharts(loc)
		if err != nil {
			t.Fatalf("DeriveCharts(%q) error = %v", loc, err)
		}
		if len(charts.Forecast.Points) != 6 {
			t.Fatalf("forecast len = %d, want 6", len(charts.Forecast.Points))
		}
		for i, p := range charts.Forecast.Points {
			if want := speeds[(i+6)%12]; p.WindSpeed != want {
				t.Errorf("%s forecast[%d] = %v, want %v", loc, i, p.WindSpeed, want)
			}
		}
	}
}

func TestDeriveCharts_ForecastMinusNoiseEqualsRotation(t *testing.T) {
	samples := []float64{0.3, -1.2, 2.0, 0, -0.4, 1.1}
	v := New(dataset.Default(), &fixedSource{samples: samples})
	speeds, _ := dataset.Default().SeriesFor(dataset.Jaipur)

	charts, err := v.DeriveCharts(dataset.Jaipur)
	if err != nil {
		t.Fatalf("DeriveCharts() error = %v", err)
	}
	for i, p := range charts.Forecast.Points {
		noise := forecast.NoiseStdDev * samples[i]
		if math.Abs(p.WindSpeed-noise-speeds[(i+6)%12]) > 1e-12 {
			t.Errorf("forecast[%d] - noise = %v, want %v", i, p.WindSpeed-noise, speeds[(i+6)%12])
		}
	}
}

func TestDeriveCharts_ForecastMonths(t *testing.T) {
	charts, err := New(dataset.Default(), forecast.Zero).DeriveCharts(dataset.Chennai)
	if err != nil {
		t.Fatalf("DeriveCharts() error = %v", err)
	}
	want := []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30", "2024-05-31", "2024-06-30"}
	for i, p := range charts.Forecast.Points {
		if got := p.Month.Format("2006-01-02"); got != want[i] {
			t.Errorf("forecast[%d].Month = %s, want %s", i, got, want[i])
		}
	}
}

func TestDeriveCharts_PowerCurve(t *testing.T) {
	charts, err := New(dataset.Default(), forecast.Zero).DeriveCharts(dataset.Chennai)
	if err != nil {
		t.Fatalf("DeriveCharts() error = %v", err)
	}
	pc := charts.PowerCurve.Points
	if len(pc) != 25 {
		t.Fatalf("power curve len = %d, want 25", len(pc))
	}
	if pc[3].PowerKW != 0 {
		t.Errorf("power at 3 m/s = %v, want 0", pc[3].PowerKW)
	}
	if math.Abs(pc[10].PowerKW-58.8) > 1e-9 {
		t.Errorf("power at 10 m/s = %v, want 58.8", pc[10].PowerKW)
	}
	if pc[24].SpeedMS != 24 {
		t.Errorf("last speed = %d, want 24", pc[24].SpeedMS)
	}
	if charts.PowerCurve.XLabel != "Wind Speed (m/s)" || charts.PowerCurve.YLabel != "Estimated Power Output (kW)" {
		t.Errorf("power curve labels = %q / %q", charts.PowerCurve.XLabel, charts.PowerCurve.YLabel)
	}
}

func TestDeriveCharts_IdempotentUnderZeroNoise(t *testing.T) {
	v := New(dataset.Default(), forecast.Zero)
	a, err := v.DeriveCharts(dataset.Hyderabad)
	if err != nil {
		t.Fatalf("DeriveCharts() error = %v", err)
	}
	b, _ := v.DeriveCharts(dataset.Hyderabad)
	if !reflect.DeepEqual(a, b) {
		t.Error("two zero-noise derivations differ")
	}
}

func TestDeriveCharts_SeededReproducible(t *testing.T) {
	seed := uint64(7)
	a, _ := New(dataset.Default(), forecast.NewSource(&seed)).DeriveCharts(dataset.Chennai)
	b, _ := New(dataset.Default(), forecast.NewSource(&seed)).DeriveCharts(dataset.Chennai)
	if !reflect.DeepEqual(a.Forecast, b.Forecast) {
		t.Error("same seed produced different forecasts")
	}
}

func TestDeriveCharts_UnknownLocation(t *testing.T) {
	_, err := New(dataset.Default(), forecast.Zero).DeriveCharts("Mumbai")
	if !errors.Is(err, dataset.ErrUnknownLocation) {
		t.Errorf("DeriveCharts(Mumbai) error = %v, want ErrUnknownLocation", err)
	}
}

func TestNew_NilNoiseDefaults(t *testing.T) {
	v := New(dataset.Default(), nil)
	if _, err := v.DeriveCharts(dataset.Jaipur); err != nil {
		t.Fatalf("DeriveCharts() error = %v", err)
	}
}

func TestMonthEnd(t *testing.T) {
	tests := []struct {
		year, offset int
		want         string
	}{
		{2023, 0, "2023-01-31"},
		{2023, 1, "2023-02-28"},
		{2024, 1, "2024-02-29"},
		{2023, 11, "2023-12-31"},
		{2023, 12, "2024-01-31"},
	}
	for _, tt := range tests {
		if got := MonthEnd(tt.year, tt.offset).Format("2006-01-02"); got != tt.want {
			t.Errorf("MonthEnd(%d, %d) = %s, want %s", tt.year, tt.offset, got, tt.want)
		}
	}
}
