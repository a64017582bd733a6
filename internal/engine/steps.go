package engine

import (
	"fmt"

	"dppu/internal/action"
	"dppu/internal/connection"
	"dppu/internal/curvature"
	"dppu/internal/geometry"
	"dppu/internal/torsion"
)

func (p *Pipeline) stepSetupFrame() error {
	f := p.frame
	p.state.Topology = f.Name
	p.state.Dim = f.Dim
	p.state.Params = f.Params
	p.state.Derived = f.Derived
	p.state.MetricFrame = f.Metric
	p.state.TotalVolume = f.Volume
	p.state.StructureConstants = f.StructureConstants
	p.log.Info("frame ready",
		"topology", f.Name,
		"params", f.Params.Names(),
		"nonzero_structure_constants", f.StructureConstants.NonZeroCount())
	return nil
}

func (p *Pipeline) stepConnectionLC() error {
	lc := connection.LeviCivita(p.state.StructureConstants)
	for _, v := range geometry.VerifyMetricCompatibility(lc, p.state.MetricFrame, p.oracle) {
		p.log.Warning("metric compatibility violation", "component", v.String())
	}
	for _, v := range connection.CheckTorsionFree(lc, p.state.StructureConstants, p.oracle) {
		p.log.Warning("Levi-Civita torsion violation", "component", v.String())
	}
	p.state.ConnectionLC = lc
	return nil
}

func (p *Pipeline) stepRiemannLC() error {
	p.state.RiemannLC = curvature.Riemann(p.state.ConnectionLC, p.state.StructureConstants)
	return nil
}

func (p *Pipeline) stepLowerRiemannLC() error {
	lowered := curvature.LowerFirstIndex(p.state.RiemannLC, p.state.MetricFrame)
	if err := curvature.VerifyAntisymmetryStrict(lowered, p.oracle); err != nil {
		return err
	}
	p.state.RiemannAbcdLC = lowered
	return nil
}

func (p *Pipeline) stepRicciLC() error {
	p.state.RicciLC = curvature.Ricci(p.state.RiemannLC)
	p.state.RicciScalarLC = curvature.RicciScalar(p.state.RiemannLC)
	return nil
}

func (p *Pipeline) stepWeyl() error {
	w, err := curvature.Weyl(p.state.RiemannAbcdLC, p.state.RicciLC, p.state.RicciScalarLC, p.state.MetricFrame)
	if err != nil {
		return err
	}
	ws, err := curvature.WeylScalar(w, p.state.MetricFrame)
	if err != nil {
		return err
	}
	p.state.WeylTensor = w
	p.state.WeylScalar = ws
	return nil
}

func (p *Pipeline) stepTorsion() error {
	t, err := torsion.Construct(p.frame, p.cfg.Mode)
	if err != nil {
		return err
	}
	radius, err := p.frame.Radius()
	if err != nil {
		return err
	}
	eta, v := torsion.ExtractParameters(t, radius)
	p.log.Info("torsion ansatz built",
		"mode", p.cfg.Mode.String(),
		"eta", eta.String(),
		"V", v.String(),
		"nonzero_components", t.NonZeroCount())
	p.state.TorsionTensor = t
	return nil
}

func (p *Pipeline) stepContortion() error {
	p.state.Contortion = connection.Contortion(p.state.TorsionTensor)
	return nil
}

func (p *Pipeline) stepConnectionEC() error {
	ec := connection.EinsteinCartan(p.state.ConnectionLC, p.state.Contortion)
	violations := connection.VerifyTorsion(ec, p.state.StructureConstants, p.state.TorsionTensor, p.oracle)
	if len(violations) > 0 {
		return fmt.Errorf("Einstein-Cartan connection does not reproduce the torsion ansatz in %d component(s), first %s",
			len(violations), violations[0])
	}
	p.state.ConnectionEC = ec
	return nil
}

func (p *Pipeline) stepRiemannEC() error {
	p.state.Riemann = curvature.Riemann(p.state.ConnectionEC, p.state.StructureConstants)
	return nil
}

func (p *Pipeline) stepLowerRiemannEC() error {
	lowered := curvature.LowerFirstIndex(p.state.Riemann, p.state.MetricFrame)
	if err := curvature.VerifyAntisymmetryStrict(lowered, p.oracle); err != nil {
		return err
	}
	p.state.RiemannAbcd = lowered
	return nil
}

func (p *Pipeline) stepRicciScalarEC() error {
	p.state.RicciScalar = curvature.RicciScalar(p.state.Riemann)
	return nil
}

func (p *Pipeline) stepTorsionScalar() error {
	p.state.TorsionScalar = torsion.Scalar(p.state.TorsionTensor)
	return nil
}

func (p *Pipeline) stepNiehYan() error {
	ny := torsion.ComputeNiehYan(p.state.TorsionTensor, p.state.RiemannAbcd)
	adopted, err := ny.Select(p.cfg.Variant)
	if err != nil {
		return err
	}
	p.state.NYDensityTT = ny.TT
	p.state.NYDensityRee = ny.Ree
	p.state.NYDensityFull = ny.Full
	p.state.NiehYanDensity = adopted
	p.log.Info("Nieh-Yan density computed",
		"variant", p.cfg.Variant.String(),
		"tt", ny.TT.String(),
		"ree", ny.Ree.String())
	return nil
}

func (p *Pipeline) stepLagrangian() error {
	kappa, err := p.state.Params.Symbol("kappa")
	if err != nil {
		return err
	}
	theta, err := p.state.Params.Symbol("theta_NY")
	if err != nil {
		return err
	}
	alpha, err := p.state.Params.Symbol("alpha")
	if err != nil {
		return err
	}
	p.state.Lagrangian = action.Lagrangian(
		p.state.RicciScalar, p.state.NiehYanDensity, p.state.WeylScalar,
		kappa, theta, alpha)
	return nil
}

func (p *Pipeline) stepActionPotential() error {
	p.state.Action = action.Action(p.state.Lagrangian, p.state.TotalVolume)
	p.state.Potential = action.EffectivePotential(p.state.Action)
	return nil
}

func (p *Pipeline) stepStability() error {
	fn, err := NewPotentialFunc(p.state)
	if err != nil {
		return err
	}
	v := p.cfg.ParamValues
	radial := func(r float64) float64 {
		return fn(r, v["V"], v["eta"], v["theta_NY"], v["L"], v["kappa"], v["epsilon"], v["alpha"])
	}
	res := action.AnalyzeStability(radial, p.cfg.Stability)
	p.state.Equilibria = &res
	p.log.Info("stability classified",
		"type", res.Type.String(),
		"r0", res.R0,
		"v_min", res.VMin,
		"barrier", res.Barrier,
		"reason", res.Reason)
	return nil
}
