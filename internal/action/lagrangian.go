// Package action assembles the gravitational Lagrangian and effective
// potential, and classifies the stability of the radial potential.
package action

import (
	"fmt"

	"dppu/internal/symbolic"
)

// Lagrangian assembles the Einstein-Cartan Lagrangian density,
//
//	L = R / (2*kappa^2) + theta_NY * N + alpha * C^2,
//
// from the Ricci scalar, the adopted Nieh-Yan density and the Weyl scalar.
func Lagrangian(ricciScalar, niehYan, weylScalar symbolic.Expr, kappa, thetaNY, alpha symbolic.Symbol) symbolic.Expr {
	return symbolic.Add(
		symbolic.Mul(symbolic.Rat(1, 2), ricciScalar, symbolic.PowInt(kappa, -2)),
		symbolic.Mul(thetaNY, niehYan),
		symbolic.Mul(alpha, weylScalar),
	)
}

// Action integrates the constant density over the compact background,
// S = L * Vol.
func Action(lagrangian, volume symbolic.Expr) symbolic.Expr {
	return symbolic.Simplify(symbolic.Mul(lagrangian, volume))
}

// EffectivePotential is minus the action for static backgrounds.
func EffectivePotential(action symbolic.Expr) symbolic.Expr {
	return symbolic.Simplify(symbolic.Neg(action))
}

// DecomposePotential splits the expanded potential into radial power
// sectors, mapping each integer power k to the r-free coefficient of r^k.
// Terms whose radial power is not an integer are rejected.
func DecomposePotential(v symbolic.Expr, radius symbolic.Symbol) (map[int64]symbolic.Expr, error) {
	sectors := map[int64][]symbolic.Expr{}

	addTerm := func(t symbolic.Expr) error {
		power := int64(0)
		rest := []symbolic.Expr{}

		var split func(f symbolic.Expr) error
		split = func(f symbolic.Expr) error {
			switch fv := f.(type) {
			case symbolic.Symbol:
				if fv.Name == radius.Name {
					power++
					return nil
				}
			case symbolic.Power:
				if base, ok := fv.Base().(symbolic.Symbol); ok && base.Name == radius.Name {
					exp := fv.Exp()
					if !exp.IsInt() {
						return fmt.Errorf("non-integer radial power %s in term %s", exp.RatString(), t)
					}
					power += exp.Num().Int64()
					return nil
				}
			}
			rest = append(rest, f)
			return nil
		}

		switch tv := t.(type) {
		case symbolic.Product:
			rest = append(rest, symbolic.FromRat(tv.Coeff()))
			for _, f := range tv.Factors() {
				if err := split(f); err != nil {
					return err
				}
			}
		default:
			if err := split(t); err != nil {
				return err
			}
		}

		sectors[power] = append(sectors[power], symbolic.Mul(rest...))
		return nil
	}

	expanded := symbolic.Expand(v)
	if s, ok := expanded.(symbolic.Sum); ok {
		for _, t := range s.Terms() {
			if err := addTerm(t); err != nil {
				return nil, err
			}
		}
	} else if !symbolic.IsZero(expanded) {
		if err := addTerm(expanded); err != nil {
			return nil, err
		}
	}

	out := make(map[int64]symbolic.Expr, len(sectors))
	for k, parts := range sectors {
		c := symbolic.Simplify(symbolic.Add(parts...))
		if symbolic.IsZero(c) {
			continue
		}
		out[k] = c
	}
	return out, nil
}

// Recompose rebuilds a potential from its radial sectors; the exact inverse
// of DecomposePotential up to expansion.
func Recompose(sectors map[int64]symbolic.Expr, radius symbolic.Symbol) symbolic.Expr {
	parts := make([]symbolic.Expr, 0, len(sectors))
	for k, c := range sectors {
		parts = append(parts, symbolic.Mul(c, symbolic.PowInt(radius, k)))
	}
	return symbolic.Add(parts...)
}
