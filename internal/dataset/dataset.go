package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// MonthsPerYear is the fixed length of every location's wind-speed series.
const MonthsPerYear = 12

// LocationKey names one of the locations in a Dataset.
type LocationKey string

const (
	Chennai   LocationKey = "Chennai"
	Hyderabad LocationKey = "Hyderabad"
	Jaipur    LocationKey = "Jaipur"
)

// ErrUnknownLocation is matched by UnknownLocationError via errors.Is.
var ErrUnknownLocation = errors.New("unknown location")

// UnknownLocationError is returned when a location is not part of the dataset.
type UnknownLocationError struct {
	Location string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("unknown location %q", e.Location)
}

func (e *UnknownLocationError) Is(target error) bool {
	return target == ErrUnknownLocation
}

// LocationSeries holds monthly average wind speeds in m/s; index 0 is January.
type LocationSeries struct {
	Location LocationKey
	Speeds   [MonthsPerYear]float64
}

// Dataset is the read-only wind-speed table and turbine power curve.
// It is safe for concurrent use; nothing mutates it after New returns.
type Dataset struct {
	order   []LocationKey
	series  map[LocationKey][MonthsPerYear]float64
	turbine Turbine
	curve   []PowerCurvePoint
}

// New builds a Dataset from the given series (in display order) and turbine model.
func New(series []LocationSeries, turbine Turbine) (*Dataset, error) {
	if len(series) == 0 {
		return nil, errors.New("dataset: at least one location required")
	}
	if turbine.MaxSpeed < 0 {
		return nil, fmt.Errorf("dataset: turbine max speed must not be negative, got %d", turbine.MaxSpeed)
	}
	d := &Dataset{
		order:   make([]LocationKey, 0, len(series)),
		series:  make(map[LocationKey][MonthsPerYear]float64, len(series)),
		turbine: turbine,
		curve:   turbine.Curve(),
	}
	for _, s := range series {
		key := LocationKey(strings.TrimSpace(string(s.Location)))
		if key == "" {
			return nil, errors.New("dataset: location key is required")
		}
		if _, dup := d.series[key]; dup {
			return nil, fmt.Errorf("dataset: duplicate location %q", key)
		}
		d.order = append(d.order, key)
		d.series[key] = s.Speeds
	}
	return d, nil
}

// Default returns the built-in three-city table with the default turbine.
func Default() *Dataset {
	d, err := New(defaultSeries, DefaultTurbine)
	if err != nil {
		panic(fmt.Sprintf("dataset: default table invalid: %v", err))
	}
	return d
}

var defaultSeries = []LocationSeries{
	{Chennai, [MonthsPerYear]float64{5.1, 5.3, 5.7, 6.0, 6.2, 6.1, 5.9, 5.8, 5.5, 5.3, 5.2, 5.0}},
	{Hyderabad, [MonthsPerYear]float64{4.2, 4.3, 4.6, 5.0, 5.3, 5.5, 5.1, 4.9, 4.7, 4.5, 4.4, 4.3}},
	{Jaipur, [MonthsPerYear]float64{3.9, 4.0, 4.2, 4.6, 5.0, 5.2, 5.1, 4.8, 4.6, 4.4, 4.2, 4.0}},
}

// Locations returns the location keys in display order.
func (d *Dataset) Locations() []LocationKey {
	out := make([]LocationKey, len(d.order))
	copy(out, d.order)
	return out
}

// SeriesFor returns the 12 monthly wind speeds for loc.
// Returns *UnknownLocationError when loc is not in the dataset.
func (d *Dataset) SeriesFor(loc LocationKey) ([MonthsPerYear]float64, error) {
	s, ok := d.series[loc]
	if !ok {
		return [MonthsPerYear]float64{}, &UnknownLocationError{Location: string(loc)}
	}
	return s, nil
}

// ParseLocation maps user input to a canonical key. Matching ignores case and
// surrounding whitespace.
func (d *Dataset) ParseLocation(s string) (LocationKey, error) {
	s = strings.TrimSpace(s)
	if _, ok := d.series[LocationKey(s)]; ok {
		return LocationKey(s), nil
	}
	for _, key := range d.order {
		if strings.EqualFold(string(key), s) {
			return key, nil
		}
	}
	return "", &UnknownLocationError{Location: s}
}

// Turbine returns the turbine model the power curve was sampled from.
func (d *Dataset) Turbine() Turbine {
	return d.turbine
}

// PowerCurve returns the precomputed power curve, one point per integer speed.
func (d *Dataset) PowerCurve() []PowerCurvePoint {
	out := make([]PowerCurvePoint, len(d.curve))
	copy(out, d.curve)
	return out
}
