package editor

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Override editing states.
const (
	StateDisplaying      = "displaying"
	StateEditingOverride = "editing_override"
)

// Override editing events.
const (
	EventEdit   = "edit"
	EventSave   = "save"
	EventCancel = "cancel"
)

type overrideContext struct{}

// OverrideMachine tracks whether the preview is being edited by hand.
// Automatic recomputation only runs while it is displaying.
type OverrideMachine struct {
	interpreter *statekit.Interpreter[overrideContext]
}

// NewOverrideMachine creates a machine in the displaying state
func NewOverrideMachine() (*OverrideMachine, error) {
	builder := statekit.NewMachine[overrideContext]("preview-override").
		WithInitial(statekit.StateID(StateDisplaying)).
		WithContext(overrideContext{})

	builder.State(StateDisplaying).
		On(EventEdit).Target(StateEditingOverride).
		Done()

	builder.State(StateEditingOverride).
		On(EventSave).Target(StateDisplaying).
		On(EventCancel).Target(StateDisplaying).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build override machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &OverrideMachine{interpreter: interpreter}, nil
}

// Send applies an event. Events with no transition from the current state
// leave it unchanged and return an error.
func (m *OverrideMachine) Send(event string) error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.Current() != before {
		return nil
	}
	return fmt.Errorf("event %q not allowed in state %q", event, before)
}

func (m *OverrideMachine) Current() string {
	return string(m.interpreter.State().Value)
}

func (m *OverrideMachine) Editing() bool {
	return m.Current() == StateEditingOverride
}
