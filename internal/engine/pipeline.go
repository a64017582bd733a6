package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"dppu/internal/action"
	"dppu/internal/geometry"
	"dppu/internal/oracle"
	"dppu/internal/topology"
	"dppu/internal/torsion"
)

// Config selects what to derive. Invalid selections fail at construction,
// never mid-run.
type Config struct {
	// Topology is one of the names returned by topology.Names.
	Topology string
	// Mode selects the torsion ansatz components.
	Mode torsion.Mode
	// Variant selects the adopted Nieh-Yan density.
	Variant torsion.Variant
	// Oracle tunes the zero-proof and witness search.
	Oracle oracle.Config
	// Stability bounds the radial stability analysis.
	Stability action.StabilityConfig
	// ParamValues gives the numeric benchmark point for the stability
	// analysis; missing parameters take DefaultParamValues.
	ParamValues map[string]float64
	// RunID names the run for checkpointing; empty generates a fresh id.
	RunID string
}

// DefaultParamValues is the benchmark point used when Config.ParamValues
// leaves a parameter unset.
func DefaultParamValues() map[string]float64 {
	return map[string]float64{
		"eta": 1, "V": 1, "theta_NY": 1, "L": 1, "kappa": 1, "epsilon": 0, "alpha": 1,
	}
}

// Pipeline runs the full derivation as a fixed ordered list of steps.
type Pipeline struct {
	cfg    Config
	frame  *geometry.Frame
	oracle *oracle.Oracle
	log    StepLogger
	store  CheckpointStore
	state  *State
}

// New validates the configuration and prepares a pipeline. A nil logger
// means NullLogger; a nil store disables checkpointing.
func New(cfg Config, log StepLogger, store CheckpointStore) (*Pipeline, error) {
	switch cfg.Variant {
	case torsion.VariantFull, torsion.VariantTT, torsion.VariantRee:
	default:
		return nil, fmt.Errorf("invalid Nieh-Yan variant %d", int(cfg.Variant))
	}
	if _, err := cfg.Mode.HasAxial(); err != nil {
		return nil, err
	}
	frame, err := topology.ForName(cfg.Topology, cfg.Mode)
	if err != nil {
		return nil, err
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if log == nil {
		log = NullLogger{}
	}
	if store == nil {
		store = DisabledStore{}
	}

	values := DefaultParamValues()
	for k, v := range cfg.ParamValues {
		values[k] = v
	}
	cfg.ParamValues = values

	if cfg.Stability == (action.StabilityConfig{}) {
		cfg.Stability = action.DefaultStabilityConfig()
	}

	return &Pipeline{
		cfg:    cfg,
		frame:  frame,
		oracle: oracle.New(cfg.Oracle),
		log:    log,
		store:  store,
	}, nil
}

// RunID returns the identifier under which checkpoints are stored.
func (p *Pipeline) RunID() string { return p.cfg.RunID }

type step struct {
	name string
	run  func(*Pipeline) error
}

var pipelineSteps = []step{
	{"setup_frame", (*Pipeline).stepSetupFrame},
	{"connection_lc", (*Pipeline).stepConnectionLC},
	{"riemann_lc", (*Pipeline).stepRiemannLC},
	{"lower_riemann_lc", (*Pipeline).stepLowerRiemannLC},
	{"ricci_lc", (*Pipeline).stepRicciLC},
	{"weyl", (*Pipeline).stepWeyl},
	{"torsion_ansatz", (*Pipeline).stepTorsion},
	{"contortion", (*Pipeline).stepContortion},
	{"connection_ec", (*Pipeline).stepConnectionEC},
	{"riemann_ec", (*Pipeline).stepRiemannEC},
	{"lower_riemann_ec", (*Pipeline).stepLowerRiemannEC},
	{"ricci_scalar_ec", (*Pipeline).stepRicciScalarEC},
	{"torsion_scalar", (*Pipeline).stepTorsionScalar},
	{"nieh_yan", (*Pipeline).stepNiehYan},
	{"lagrangian", (*Pipeline).stepLagrangian},
	{"action_potential", (*Pipeline).stepActionPotential},
	{"stability", (*Pipeline).stepStability},
}

// NumSteps is the length of the fixed step list.
const NumSteps = 17

// StepNames returns the ordered step names.
func StepNames() []string {
	out := make([]string, len(pipelineSteps))
	for i, s := range pipelineSteps {
		out[i] = s.name
	}
	return out
}

// Run executes the pipeline from startStep (1-based). Starting past 1 loads
// the checkpoint written after step startStep-1 and fails if it is missing.
// The first failing step aborts the run.
func (p *Pipeline) Run(startStep int) (*State, error) {
	if startStep < 1 || startStep > NumSteps {
		return nil, fmt.Errorf("start step %d out of range [1, %d]", startStep, NumSteps)
	}

	began := time.Now()
	if startStep == 1 {
		p.state = &State{}
	} else {
		data, err := p.store.Load(p.cfg.RunID, startStep-1)
		if err != nil {
			return nil, fmt.Errorf("resuming from step %d: %w", startStep, err)
		}
		st, err := UnmarshalState(data)
		if err != nil {
			return nil, fmt.Errorf("resuming from step %d: %w", startStep, err)
		}
		p.state = st
	}

	for i := startStep - 1; i < len(pipelineSteps); i++ {
		s := pipelineSteps[i]
		num := i + 1
		p.log.Step(num, NumSteps, s.name)
		stepBegan := time.Now()

		if err := s.run(p); err != nil {
			p.log.Error("step failed", "step", num, "name", s.name, "error", err.Error())
			p.log.Finalize(false, time.Since(began))
			return nil, fmt.Errorf("step %d (%s): %w", num, s.name, err)
		}
		p.log.Success(s.name, time.Since(stepBegan))

		if data, err := MarshalState(p.state); err != nil {
			p.log.Warning("checkpoint serialization failed", "step", num, "error", err.Error())
		} else if err := p.store.Save(p.cfg.RunID, num, s.name, data); err != nil {
			p.log.Warning("checkpoint save failed", "step", num, "error", err.Error())
		}
	}

	p.log.Finalize(true, time.Since(began))
	return p.state, nil
}
