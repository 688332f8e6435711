package location

import (
	"context"
	"errors"

	"mission-tracker-service/internal/domain"
	"mission-tracker-service/internal/ports"
)

// A single scripted provider step: the status to report and, when
// running, the position to serve.
type Step struct {
	Status ports.ProviderStatus
	Reason string
	Pos    domain.Coordinate
}

// ScriptedProvider replays a fixed status/position sequence. The last
// step repeats once the script is exhausted. Intended for tests and
// headless demos.
type ScriptedProvider struct {
	steps []Step
	idx   int
}

func NewScriptedProvider(steps []Step) *ScriptedProvider {
	return &ScriptedProvider{steps: steps}
}

func (p *ScriptedProvider) current() Step {
	if len(p.steps) == 0 {
		return Step{Status: ports.StatusNotStarted}
	}
	if p.idx >= len(p.steps) {
		return p.steps[len(p.steps)-1]
	}
	return p.steps[p.idx]
}

// Status reports the current step's status. Each Status call advances
// the script by one step, modeling one host tick.
func (p *ScriptedProvider) Status(ctx context.Context) (ports.ProviderStatus, string) {
	s := p.current()
	p.idx++
	return s.Status, s.Reason
}

func (p *ScriptedProvider) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	// Status has already advanced past the step being served.
	i := p.idx - 1
	if i < 0 {
		i = 0
	}
	if i >= len(p.steps) {
		i = len(p.steps) - 1
	}
	if len(p.steps) == 0 || p.steps[i].Status != ports.StatusRunning {
		return domain.Coordinate{}, errors.New("scripted provider: no position at current step")
	}
	return p.steps[i].Pos, nil
}
