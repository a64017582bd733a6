// Package engine orchestrates the full derivation: a fixed, ordered list of
// symbolic steps from frame construction to stability classification, with
// checkpointing between steps and numeric evaluation of the results.
package engine

import (
	"encoding/json"
	"fmt"

	"dppu/internal/action"
	"dppu/internal/geometry"
	"dppu/internal/symbolic"
	"dppu/internal/tensor"
)

// State carries every derived object of a run. Each pipeline step fills its
// own fields exactly once and never rewrites earlier ones; resuming from a
// checkpoint restores all fields written by the completed steps.
type State struct {
	Topology string
	Dim      int
	Params   geometry.Params
	Derived  map[string]symbolic.Expr

	MetricFrame        *tensor.Matrix
	TotalVolume        symbolic.Expr
	StructureConstants *tensor.Tensor3

	// Levi-Civita sector.
	ConnectionLC  *tensor.Tensor3
	RiemannLC     *tensor.Tensor4
	RiemannAbcdLC *tensor.Tensor4
	RicciLC       *tensor.Matrix
	RicciScalarLC symbolic.Expr
	WeylTensor    *tensor.Tensor4
	WeylScalar    symbolic.Expr

	// Einstein-Cartan sector.
	TorsionTensor *tensor.Tensor3
	Contortion    *tensor.Tensor3
	ConnectionEC  *tensor.Tensor3
	Riemann       *tensor.Tensor4
	RiemannAbcd   *tensor.Tensor4
	RicciScalar   symbolic.Expr

	// Invariants and action.
	TorsionScalar  symbolic.Expr
	NYDensityTT    symbolic.Expr
	NYDensityRee   symbolic.Expr
	NYDensityFull  symbolic.Expr
	NiehYanDensity symbolic.Expr
	Lagrangian     symbolic.Expr
	Action         symbolic.Expr
	Potential      symbolic.Expr

	Equilibria *action.StabilityResult
}

// stateDoc is the JSON shape of a serialized State. Expressions travel as
// their canonical strings; symbol positivity travels separately because the
// textual form does not carry assumptions.
type stateDoc struct {
	Topology    string                   `json:"topology"`
	Dim         int                      `json:"dim"`
	Assumptions map[string]bool          `json:"assumptions"`
	Derived     map[string]string        `json:"derived,omitempty"`
	Scalars     map[string]string        `json:"scalars,omitempty"`
	Matrices    map[string][][]string    `json:"matrices,omitempty"`
	Rank3       map[string][][][]string  `json:"rank3,omitempty"`
	Rank4       map[string][][][][]string `json:"rank4,omitempty"`
	Equilibria  *action.StabilityResult  `json:"equilibria,omitempty"`
}

// MarshalState serializes a state for checkpointing.
func MarshalState(s *State) ([]byte, error) {
	doc := stateDoc{
		Topology:    s.Topology,
		Dim:         s.Dim,
		Assumptions: s.Params.Assumptions(),
		Derived:     map[string]string{},
		Scalars:     map[string]string{},
		Matrices:    map[string][][]string{},
		Rank3:       map[string][][][]string{},
		Rank4:       map[string][][][][]string{},
		Equilibria:  s.Equilibria,
	}

	for name, e := range s.Derived {
		doc.Derived[name] = e.String()
	}
	for name, e := range map[string]symbolic.Expr{
		"total_volume":     s.TotalVolume,
		"ricci_scalar_lc":  s.RicciScalarLC,
		"weyl_scalar":      s.WeylScalar,
		"ricci_scalar":     s.RicciScalar,
		"torsion_scalar":   s.TorsionScalar,
		"ny_tt":            s.NYDensityTT,
		"ny_ree":           s.NYDensityRee,
		"ny_full":          s.NYDensityFull,
		"nieh_yan_density": s.NiehYanDensity,
		"lagrangian":       s.Lagrangian,
		"action":           s.Action,
		"potential":        s.Potential,
	} {
		if e != nil {
			doc.Scalars[name] = e.String()
		}
	}
	for name, m := range map[string]*tensor.Matrix{
		"metric_frame": s.MetricFrame,
		"ricci_lc":     s.RicciLC,
	} {
		if m != nil {
			doc.Matrices[name] = encodeMatrix(m)
		}
	}
	for name, t := range map[string]*tensor.Tensor3{
		"structure_constants": s.StructureConstants,
		"connection_lc":       s.ConnectionLC,
		"torsion":             s.TorsionTensor,
		"contortion":          s.Contortion,
		"connection_ec":       s.ConnectionEC,
	} {
		if t != nil {
			doc.Rank3[name] = encodeTensor3(t)
		}
	}
	for name, t := range map[string]*tensor.Tensor4{
		"riemann_lc":      s.RiemannLC,
		"riemann_abcd_lc": s.RiemannAbcdLC,
		"weyl_tensor":     s.WeylTensor,
		"riemann":         s.Riemann,
		"riemann_abcd":    s.RiemannAbcd,
	} {
		if t != nil {
			doc.Rank4[name] = encodeTensor4(t)
		}
	}

	return json.Marshal(doc)
}

// UnmarshalState restores a serialized state, rebuilding symbols with their
// recorded positivity.
func UnmarshalState(data []byte) (*State, error) {
	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding checkpoint: %w", err)
	}

	params := geometry.Params{}
	for name, positive := range doc.Assumptions {
		if positive {
			params[name] = symbolic.PosSym(name)
		} else {
			params[name] = symbolic.Sym(name)
		}
	}

	s := &State{
		Topology:   doc.Topology,
		Dim:        doc.Dim,
		Params:     params,
		Derived:    map[string]symbolic.Expr{},
		Equilibria: doc.Equilibria,
	}

	parse := func(text string) (symbolic.Expr, error) {
		return symbolic.ParseWith(text, doc.Assumptions)
	}

	for name, text := range doc.Derived {
		e, err := parse(text)
		if err != nil {
			return nil, fmt.Errorf("derived %q: %w", name, err)
		}
		s.Derived[name] = e
	}

	for name, text := range doc.Scalars {
		e, err := parse(text)
		if err != nil {
			return nil, fmt.Errorf("scalar %q: %w", name, err)
		}
		switch name {
		case "total_volume":
			s.TotalVolume = e
		case "ricci_scalar_lc":
			s.RicciScalarLC = e
		case "weyl_scalar":
			s.WeylScalar = e
		case "ricci_scalar":
			s.RicciScalar = e
		case "torsion_scalar":
			s.TorsionScalar = e
		case "ny_tt":
			s.NYDensityTT = e
		case "ny_ree":
			s.NYDensityRee = e
		case "ny_full":
			s.NYDensityFull = e
		case "nieh_yan_density":
			s.NiehYanDensity = e
		case "lagrangian":
			s.Lagrangian = e
		case "action":
			s.Action = e
		case "potential":
			s.Potential = e
		default:
			return nil, fmt.Errorf("unknown scalar field %q", name)
		}
	}

	for name, rows := range doc.Matrices {
		m, err := decodeMatrix(rows, doc.Assumptions)
		if err != nil {
			return nil, fmt.Errorf("matrix %q: %w", name, err)
		}
		switch name {
		case "metric_frame":
			s.MetricFrame = m
		case "ricci_lc":
			s.RicciLC = m
		default:
			return nil, fmt.Errorf("unknown matrix field %q", name)
		}
	}

	for name, data := range doc.Rank3 {
		t, err := decodeTensor3(data, doc.Assumptions)
		if err != nil {
			return nil, fmt.Errorf("rank-3 %q: %w", name, err)
		}
		switch name {
		case "structure_constants":
			s.StructureConstants = t
		case "connection_lc":
			s.ConnectionLC = t
		case "torsion":
			s.TorsionTensor = t
		case "contortion":
			s.Contortion = t
		case "connection_ec":
			s.ConnectionEC = t
		default:
			return nil, fmt.Errorf("unknown rank-3 field %q", name)
		}
	}

	for name, data := range doc.Rank4 {
		t, err := decodeTensor4(data, doc.Assumptions)
		if err != nil {
			return nil, fmt.Errorf("rank-4 %q: %w", name, err)
		}
		switch name {
		case "riemann_lc":
			s.RiemannLC = t
		case "riemann_abcd_lc":
			s.RiemannAbcdLC = t
		case "weyl_tensor":
			s.WeylTensor = t
		case "riemann":
			s.Riemann = t
		case "riemann_abcd":
			s.RiemannAbcd = t
		default:
			return nil, fmt.Errorf("unknown rank-4 field %q", name)
		}
	}

	return s, nil
}

func encodeMatrix(m *tensor.Matrix) [][]string {
	dim := m.Dim()
	out := make([][]string, dim)
	for i := 0; i < dim; i++ {
		out[i] = make([]string, dim)
		for j := 0; j < dim; j++ {
			out[i][j] = m.At(i, j).String()
		}
	}
	return out
}

func decodeMatrix(rows [][]string, assumptions map[string]bool) (*tensor.Matrix, error) {
	dim := len(rows)
	m := tensor.NewMatrix(dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("ragged matrix row %d", i)
		}
		for j, text := range row {
			e, err := symbolic.ParseWith(text, assumptions)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, e)
		}
	}
	return m, nil
}

func encodeTensor3(t *tensor.Tensor3) [][][]string {
	dim := t.Dim()
	out := make([][][]string, dim)
	for a := 0; a < dim; a++ {
		out[a] = make([][]string, dim)
		for b := 0; b < dim; b++ {
			out[a][b] = make([]string, dim)
			for c := 0; c < dim; c++ {
				out[a][b][c] = t.At(a, b, c).String()
			}
		}
	}
	return out
}

func decodeTensor3(data [][][]string, assumptions map[string]bool) (*tensor.Tensor3, error) {
	dim := len(data)
	t := tensor.NewTensor3(dim)
	for a := range data {
		if len(data[a]) != dim {
			return nil, fmt.Errorf("ragged rank-3 tensor at index %d", a)
		}
		for b := range data[a] {
			if len(data[a][b]) != dim {
				return nil, fmt.Errorf("ragged rank-3 tensor at index %d,%d", a, b)
			}
			for c, text := range data[a][b] {
				e, err := symbolic.ParseWith(text, assumptions)
				if err != nil {
					return nil, err
				}
				t.Set(a, b, c, e)
			}
		}
	}
	return t, nil
}

func encodeTensor4(t *tensor.Tensor4) [][][][]string {
	dim := t.Dim()
	out := make([][][][]string, dim)
	for a := 0; a < dim; a++ {
		out[a] = make([][][]string, dim)
		for b := 0; b < dim; b++ {
			out[a][b] = make([][]string, dim)
			for c := 0; c < dim; c++ {
				out[a][b][c] = make([]string, dim)
				for d := 0; d < dim; d++ {
					out[a][b][c][d] = t.At(a, b, c, d).String()
				}
			}
		}
	}
	return out
}

func decodeTensor4(data [][][][]string, assumptions map[string]bool) (*tensor.Tensor4, error) {
	dim := len(data)
	t := tensor.NewTensor4(dim)
	for a := range data {
		for b := range data[a] {
			for c := range data[a][b] {
				if len(data[a]) != dim || len(data[a][b]) != dim || len(data[a][b][c]) != dim {
					return nil, fmt.Errorf("ragged rank-4 tensor at index %d,%d,%d", a, b, c)
				}
				for d, text := range data[a][b][c] {
					e, err := symbolic.ParseWith(text, assumptions)
					if err != nil {
						return nil, err
					}
					t.Set(a, b, c, d, e)
				}
			}
		}
	}
	return t, nil
}
