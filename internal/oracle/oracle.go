// Package oracle decides whether symbolic expressions are identically zero.
//
// The decision runs in three levels: a staged simplification cascade that can
// prove zero exactly, a high-precision numeric witness search that can prove
// nonzero at a concrete point, and an UNPROVED verdict when neither side
// succeeds. UNPROVED is heuristic evidence only, never a proof of zero.
package oracle

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"time"

	"dppu/internal/symbolic"
)

// Verdict classifies an expression after both proof levels have run.
type Verdict int

const (
	// VerdictProvedZero means a simplification stage reduced the expression
	// to the literal zero.
	VerdictProvedZero Verdict = iota
	// VerdictWitnessNonzero means a sample point evaluated above the
	// nonzero threshold.
	VerdictWitnessNonzero
	// VerdictUnproved means neither a zero proof nor a witness was found.
	VerdictUnproved
)

func (v Verdict) String() string {
	switch v {
	case VerdictProvedZero:
		return "PROVED_ZERO"
	case VerdictWitnessNonzero:
		return "WITNESS_NONZERO"
	case VerdictUnproved:
		return "UNPROVED"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// ZeroProof is the outcome of the simplification cascade.
type ZeroProof struct {
	Proved bool
	// Method names the stage that reached zero: trivial, simplify, expand,
	// factor, cancel, together, trigsimp, or "combined pipeline".
	Method string
}

func (p ZeroProof) String() string {
	if p.Proved {
		return "PROVED_ZERO (via " + p.Method + ")"
	}
	return "UNPROVED"
}

// Witness is a concrete evaluation showing an expression is nonzero.
type Witness struct {
	// Point maps symbol names to the sampled values. Empty for
	// parameter-free expressions, whose constant value is its own witness.
	Point map[string]float64
	// Value is the high-precision evaluation at Point.
	Value *big.Float
}

// Config tunes the witness search.
type Config struct {
	// NumPoints is the number of random sample points tried.
	NumPoints int
	// Precision is the working precision in decimal digits. The nonzero
	// threshold is 10^(-Precision+10).
	Precision int
	// Seed fixes the sampling sequence; 0 keeps the default source.
	Seed int64
}

// DefaultConfig matches the pipeline's verification settings.
func DefaultConfig() Config {
	return Config{NumPoints: 10, Precision: 50}
}

// Oracle runs zero proofs and witness searches. Not safe for concurrent use;
// each worker should own its own Oracle.
type Oracle struct {
	cfg Config
	rng *rand.Rand
}

func New(cfg Config) *Oracle {
	if cfg.NumPoints <= 0 {
		cfg.NumPoints = 10
	}
	if cfg.Precision <= 10 {
		cfg.Precision = 50
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Oracle{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// ProveZero runs the simplification cascade, cheapest stage first, stopping
// at the first stage that reduces e to the literal zero.
func (o *Oracle) ProveZero(e symbolic.Expr) ZeroProof {
	if symbolic.IsZero(e) {
		return ZeroProof{Proved: true, Method: "trivial"}
	}
	stages := []struct {
		name string
		fn   func(symbolic.Expr) symbolic.Expr
	}{
		{"simplify", symbolic.Simplify},
		{"expand", symbolic.Expand},
		{"factor", symbolic.Factor},
		{"cancel", symbolic.Cancel},
		{"together", symbolic.Together},
		{"trigsimp", symbolic.TrigSimp},
		{"combined pipeline", func(x symbolic.Expr) symbolic.Expr {
			return symbolic.TrigSimp(symbolic.Simplify(symbolic.Factor(symbolic.Together(x))))
		}},
	}
	for _, s := range stages {
		if symbolic.IsZero(s.fn(e)) {
			return ZeroProof{Proved: true, Method: s.name}
		}
	}
	return ZeroProof{}
}

// FindNonzeroWitness samples random points and returns the first whose
// high-precision value exceeds the nonzero threshold, or nil when no witness
// is found. Points where evaluation fails (singularities) are skipped.
// Positive symbols are sampled in (0.1, 10), unrestricted ones in (-10, 10).
func (o *Oracle) FindNonzeroWitness(e symbolic.Expr) *Witness {
	prec := bitsFor(o.cfg.Precision)
	threshold := o.threshold(prec)
	syms := symbolic.FreeSymbols(e)

	if len(syms) == 0 {
		val, err := symbolic.EvalBig(e, nil, prec)
		if err != nil {
			return nil
		}
		if new(big.Float).Abs(val).Cmp(threshold) > 0 {
			return &Witness{Point: map[string]float64{}, Value: val}
		}
		return nil
	}

	for i := 0; i < o.cfg.NumPoints; i++ {
		point := o.samplePoint(syms)
		env := make(map[string]*big.Float, len(point))
		for name, v := range point {
			env[name] = new(big.Float).SetPrec(prec).SetFloat64(v)
		}
		val, err := symbolic.EvalBig(e, env, prec)
		if err != nil {
			continue
		}
		if new(big.Float).Abs(val).Cmp(threshold) > 0 {
			return &Witness{Point: point, Value: val}
		}
	}
	return nil
}

// Classify combines both proof levels into a final verdict.
func (o *Oracle) Classify(e symbolic.Expr) (Verdict, *Witness) {
	if p := o.ProveZero(e); p.Proved {
		return VerdictProvedZero, nil
	}
	if w := o.FindNonzeroWitness(e); w != nil {
		return VerdictWitnessNonzero, w
	}
	return VerdictUnproved, nil
}

func (o *Oracle) samplePoint(syms []symbolic.Symbol) map[string]float64 {
	point := make(map[string]float64, len(syms))
	for _, s := range syms {
		if s.Positive {
			point[s.Name] = o.draw(0.1, 10)
		} else {
			point[s.Name] = o.draw(-10, 10)
		}
	}
	return point
}

// degenerateMargin keeps samples away from 0 and ±1, where factors can
// vanish or collapse by accident and mask a nonzero expression.
const degenerateMargin = 0.05

func (o *Oracle) draw(lo, hi float64) float64 {
	for {
		v := lo + o.rng.Float64()*(hi-lo)
		if math.Abs(v) < degenerateMargin {
			continue
		}
		if math.Abs(math.Abs(v)-1) < degenerateMargin {
			continue
		}
		return v
	}
}

// threshold is 10^(-Precision+10), generous enough to absorb accumulated
// rounding at the working precision.
func (o *Oracle) threshold(prec uint) *big.Float {
	s := fmt.Sprintf("1e%d", -o.cfg.Precision+10)
	f, _, err := big.ParseFloat(s, 10, prec, big.ToNearestEven)
	if err != nil {
		panic("oracle: bad threshold: " + err.Error())
	}
	return f
}

// bitsFor converts decimal digits to mantissa bits with headroom.
func bitsFor(decimalDigits int) uint {
	return uint(float64(decimalDigits)*3.33) + 16
}
