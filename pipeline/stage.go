package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/errors"
)

// Stage is one node of the build graph. After names the stages that
// must complete before this one runs.
type Stage struct {
	ID    string
	After []string
	Run   func(ctx context.Context) error
}

// Plan is a dependency-ordered arrangement of stages for one build
// invocation. Execution is sequential; the graph exists to make the
// ordering constraints explicit rather than implied by declaration
// order.
type Plan struct {
	stages []Stage
}

// newPlan orders stages so every dependency precedes its dependents.
// Declaration order is preserved among stages whose dependencies allow
// it.
func newPlan(stages []Stage) (*Plan, error) {
	byID := make(map[string]int, len(stages))
	for i, s := range stages {
		if _, dup := byID[s.ID]; dup {
			return nil, errors.InvalidInput(errors.PhaseTool, fmt.Sprintf("duplicate stage %q", s.ID))
		}
		byID[s.ID] = i
	}
	for _, s := range stages {
		for _, dep := range s.After {
			if _, ok := byID[dep]; !ok {
				return nil, errors.InvalidInput(errors.PhaseTool,
					fmt.Sprintf("stage %q depends on unknown stage %q", s.ID, dep))
			}
		}
	}

	ordered := make([]Stage, 0, len(stages))
	done := make(map[string]bool, len(stages))
	for len(ordered) < len(stages) {
		progressed := false
		for _, s := range stages {
			if done[s.ID] {
				continue
			}
			ready := true
			for _, dep := range s.After {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				ordered = append(ordered, s)
				done[s.ID] = true
				progressed = true
			}
		}
		if !progressed {
			return nil, errors.InvalidInput(errors.PhaseTool, "stage dependency cycle")
		}
	}

	return &Plan{stages: ordered}, nil
}

// StageIDs returns the execution order. Useful for dry-run inspection.
func (p *Plan) StageIDs() []string {
	out := make([]string, len(p.stages))
	for i, s := range p.stages {
		out[i] = s.ID
	}
	return out
}

// run executes the stages in order. The first failure aborts; every
// not-yet-run stage is reported as skipped.
func (p *Plan) run(ctx context.Context, log *zap.Logger) error {
	for i, s := range p.stages {
		log.Info("stage started", zap.String("stage", s.ID))
		if err := s.Run(ctx); err != nil {
			log.Error("stage failed", zap.String("stage", s.ID), zap.Error(err))
			for _, skipped := range p.stages[i+1:] {
				log.Warn("stage skipped", zap.String("stage", skipped.ID),
					zap.String("failed_dependency", s.ID))
			}
			return err
		}
		log.Info("stage completed", zap.String("stage", s.ID))
	}
	return nil
}
