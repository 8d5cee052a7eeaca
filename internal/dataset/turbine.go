package dataset

import "math"

// Turbine is a simplified power model: zero below cut-in, then a quadratic
// in (speed - cut-in) capped at the rated power.
type Turbine struct {
	CutInSpeed   int     // m/s
	Coefficient  float64 // kW per (m/s)^2 above cut-in
	RatedPowerKW float64 // output cap
	MaxSpeed     int     // highest sampled speed, inclusive
}

// DefaultTurbine samples speeds 0..24 with a 3 m/s cut-in and 1500 kW cap.
var DefaultTurbine = Turbine{
	CutInSpeed:   3,
	Coefficient:  1.2,
	RatedPowerKW: 1500,
	MaxSpeed:     24,
}

// PowerCurvePoint is the estimated output at one integer wind speed.
type PowerCurvePoint struct {
	SpeedMS int     `json:"speed"`
	PowerKW float64 `json:"power"`
}

// PowerAt returns the estimated output in kW at the given wind speed.
func (t Turbine) PowerAt(speed int) float64 {
	if speed < t.CutInSpeed {
		return 0
	}
	d := float64(speed - t.CutInSpeed)
	return math.Min(t.Coefficient*d*d, t.RatedPowerKW)
}

// Curve samples PowerAt at every integer speed from 0 to MaxSpeed.
func (t Turbine) Curve() []PowerCurvePoint {
	if t.MaxSpeed < 0 {
		return nil
	}
	out := make([]PowerCurvePoint, 0, t.MaxSpeed+1)
	for v := 0; v <= t.MaxSpeed; v++ {
		out = append(out, PowerCurvePoint{SpeedMS: v, PowerKW: t.PowerAt(v)})
	}
	return out
}
