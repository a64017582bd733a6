// Package torsion builds the torsion ansatz, its scalar invariants and the
// Nieh-Yan densities.
package torsion

import "fmt"

// Mode selects which irreducible torsion components the ansatz carries.
type Mode int

const (
	// ModeAxial carries only the totally antisymmetric (axial) part,
	// parameterized by eta.
	ModeAxial Mode = iota
	// ModeVectorTrace carries only the vector-trace part, parameterized
	// by V.
	ModeVectorTrace
	// ModeMixed carries both parts.
	ModeMixed
)

func (m Mode) String() string {
	switch m {
	case ModeAxial:
		return "axial"
	case ModeVectorTrace:
		return "vector_trace"
	case ModeMixed:
		return "mixed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "axial":
		return ModeAxial, nil
	case "vector_trace":
		return ModeVectorTrace, nil
	case "mixed":
		return ModeMixed, nil
	default:
		return 0, fmt.Errorf("unknown torsion mode %q (want axial, vector_trace or mixed)", s)
	}
}

// HasAxial reports whether the ansatz includes the axial component.
func (m Mode) HasAxial() (bool, error) {
	switch m {
	case ModeAxial, ModeMixed:
		return true, nil
	case ModeVectorTrace:
		return false, nil
	default:
		return false, fmt.Errorf("unknown torsion mode %d", int(m))
	}
}

// HasVectorTrace reports whether the ansatz includes the vector-trace
// component.
func (m Mode) HasVectorTrace() (bool, error) {
	switch m {
	case ModeVectorTrace, ModeMixed:
		return true, nil
	case ModeAxial:
		return false, nil
	default:
		return false, fmt.Errorf("unknown torsion mode %d", int(m))
	}
}

// Variant selects which Nieh-Yan density enters the Lagrangian.
type Variant int

const (
	// VariantFull is the torsion-torsion term minus the curvature term.
	VariantFull Variant = iota
	// VariantTT keeps only the torsion-torsion term.
	VariantTT
	// VariantRee keeps only the curvature term.
	VariantRee
)

func (v Variant) String() string {
	switch v {
	case VariantFull:
		return "full"
	case VariantTT:
		return "tt"
	case VariantRee:
		return "ree"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant maps a config string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "full":
		return VariantFull, nil
	case "tt":
		return VariantTT, nil
	case "ree":
		return VariantRee, nil
	default:
		return 0, fmt.Errorf("unknown Nieh-Yan variant %q (want full, tt or ree)", s)
	}
}
