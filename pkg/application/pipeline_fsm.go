package application

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Pipeline stage states. Items are mutated once by enrichment and once
// by date resolution; the FSM keeps a report run from re-entering a
// stage out of order.
const (
	StageIdle        = "idle"
	StageEnriching   = "enriching"
	StageCalculating = "calculating"
	StagePublished   = "published"
)

// pipelineFSM sequences one report generation run.
type pipelineFSM struct {
	interpreter *statekit.Interpreter[struct{}]
}

func newPipelineFSM() (*pipelineFSM, error) {
	builder := statekit.NewMachine[struct{}]("report-pipeline").
		WithInitial(statekit.StateID(StageIdle))

	builder.State(StageIdle).
		On("enrich").Target(StageEnriching).
		Done()

	builder.State(StageEnriching).
		On("calculate").Target(StageCalculating).
		Done()

	builder.State(StageCalculating).
		On("publish").Target(StagePublished).
		Done()

	builder.State(StagePublished).
		On("reset").Target(StageIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &pipelineFSM{interpreter: interpreter}, nil
}

// Advance fires an event and fails when the event is not valid for the
// current stage. statekit keeps the state unchanged on an invalid
// event, so a no-op send is the rejection signal.
func (p *pipelineFSM) Advance(event string) error {
	before := p.Current()
	p.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := p.Current()
	if before == after {
		return fmt.Errorf("pipeline stage %q does not accept %q", before, event)
	}
	return nil
}

func (p *pipelineFSM) Current() string {
	return string(p.interpreter.State().Value)
}
