package action

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// StabilityType classifies the radial effective potential.
type StabilityType int

const (
	// TypeI is a metastable minimum behind a barrier: the potential rises
	// before descending into the minimum.
	TypeI StabilityType = iota
	// TypeII is a stable minimum reached downhill from small radius.
	TypeII
	// TypeIII covers unstable or degenerate potentials: no interior
	// minimum, non-convex minimum, or failed numerics.
	TypeIII
)

func (s StabilityType) String() string {
	switch s {
	case TypeI:
		return "Type I"
	case TypeII:
		return "Type II"
	case TypeIII:
		return "Type III"
	default:
		return fmt.Sprintf("StabilityType(%d)", int(s))
	}
}

// StabilityResult describes the located minimum, when one exists.
type StabilityResult struct {
	Type StabilityType
	// R0 is the minimizing radius; zero for Type III.
	R0 float64
	// VMin is the potential at R0.
	VMin float64
	// Barrier is the height of the potential barrier protecting the
	// minimum (Type I) or the drop from small radius into it (Type II).
	Barrier float64
	// Reason explains Type III verdicts.
	Reason string
}

// StabilityConfig bounds the radial search.
type StabilityConfig struct {
	RMin float64
	RMax float64
	// BoundaryThreshold is the relative margin treating a minimum at the
	// search boundary as no interior minimum.
	BoundaryThreshold float64
}

// DefaultStabilityConfig matches the pipeline's analysis window.
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{RMin: 0.01, RMax: 1e6, BoundaryThreshold: 0.02}
}

// AnalyzeStability classifies the radial potential v:
//
//	Type I:   interior convex minimum with a positive slope at small radius
//	Type II:  interior convex minimum reached downhill
//	Type III: everything else, including numeric failure
//
// All numeric pathologies degrade to Type III rather than erroring.
func AnalyzeStability(v func(float64) float64, cfg StabilityConfig) StabilityResult {
	typeIII := func(reason string) StabilityResult {
		return StabilityResult{Type: TypeIII, Reason: reason}
	}

	if cfg.RMin <= 0 || cfg.RMax <= cfg.RMin {
		return typeIII("invalid search bounds")
	}

	r0, vMin, ok := goldenSection(v, cfg.RMin, cfg.RMax)
	if !ok || !isFinite(vMin) {
		return typeIII("minimization failed")
	}
	if r0 < cfg.RMin*(1+cfg.BoundaryThreshold) || r0 > cfg.RMax*(1-cfg.BoundaryThreshold) {
		return typeIII("minimum at search boundary")
	}

	// Convexity at the minimum by central difference.
	const h = 1e-5
	d2v := (v(r0+h) - 2*v(r0) + v(r0-h)) / (h * h)
	if !isFinite(d2v) || d2v <= 0 {
		return typeIII("minimum is not convex")
	}

	// Slope just above the inner boundary decides barrier vs downhill.
	rTest := 2 * cfg.RMin
	dr := 0.1 * cfg.RMin
	slope := (v(rTest+dr) - v(rTest-dr)) / (2 * dr)
	if !isFinite(slope) {
		return typeIII("slope evaluation failed")
	}

	samples := make([]float64, 30)
	floats.Span(samples, cfg.RMin, r0)
	vSamples := make([]float64, len(samples))
	for i, r := range samples {
		vSamples[i] = v(r)
		if !isFinite(vSamples[i]) {
			return typeIII("potential not finite on sample grid")
		}
	}
	vMaxBefore := floats.Max(vSamples)

	if slope > 0 {
		return StabilityResult{
			Type:    TypeI,
			R0:      r0,
			VMin:    vMin,
			Barrier: vMaxBefore - vMin,
		}
	}

	drop := vSamples[0] - vMin
	if drop < 0 {
		drop = math.Abs(vMin)
	}
	return StabilityResult{
		Type:    TypeII,
		R0:      r0,
		VMin:    vMin,
		Barrier: drop,
	}
}

// goldenSection minimizes v on [a, b] to a relative tolerance of about 1e-10.
func goldenSection(v func(float64) float64, a, b float64) (x, fx float64, ok bool) {
	const (
		invPhi  = 0.6180339887498949
		maxIter = 200
	)
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := v(c), v(d)
	if !isFinite(fc) || !isFinite(fd) {
		return 0, 0, false
	}
	for i := 0; i < maxIter && (b-a) > 1e-10*(1+math.Abs(a)+math.Abs(b)); i++ {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = v(c)
			if !isFinite(fc) {
				return 0, 0, false
			}
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = v(d)
			if !isFinite(fd) {
				return 0, 0, false
			}
		}
	}
	x = (a + b) / 2
	fx = v(x)
	return x, fx, isFinite(fx)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
