// Package fsm is a small flat state machine: states with guarded transitions and entry/exit
// actions, driven synchronously by Send. It carries no goroutines or locks; callers own the
// thread it runs on.
package fsm

import (
	"errors"
	"fmt"
)

type StateID int
type EventID int

type Action func(evt EventID, from StateID, to StateID)
type Guard func(evt EventID, from StateID, to StateID) bool

type State struct {
	ID          StateID
	Transitions []*Transition
	EntryAction Action
	ExitAction  Action
	Initial     bool
	// Final states ignore every event.
	Final bool
}

type Transition struct {
	Event  EventID
	Source *State
	Target *State // nil --> internal transition
	Guard  Guard  // nil --> always taken
	Action Action // nil --> do nothing
}

// Machine tracks the current state of a set of flat states.
type Machine struct {
	states  map[StateID]*State
	initial *State
	current *State
}

// On registers a transition from s to target on evt.
func (s *State) On(evt EventID, target *State, guard Guard, action Action) *State {
	s.Transitions = append(s.Transitions, &Transition{
		Event:  evt,
		Source: s,
		Target: target,
		Guard:  guard,
		Action: action,
	})
	return s
}

// NewMachine builds a machine over states. The state marked Initial (or the first one) is
// current on return; its entry action is not run.
func NewMachine(states ...*State) (*Machine, error) {
	if len(states) == 0 {
		return nil, errors.New("no states provided")
	}
	m := &Machine{states: make(map[StateID]*State, len(states))}
	for _, s := range states {
		if s == nil {
			return nil, errors.New("nil state")
		}
		if _, exists := m.states[s.ID]; exists {
			return nil, fmt.Errorf("duplicate state ID %d", s.ID)
		}
		m.states[s.ID] = s
		if s.Initial {
			if m.initial != nil {
				return nil, errors.New("more than one initial state")
			}
			m.initial = s
		}
	}
	if m.initial == nil {
		m.initial = states[0]
	}
	m.current = m.initial

	for _, s := range states {
		for _, t := range s.Transitions {
			if t == nil {
				continue
			}
			if t.Source == nil {
				t.Source = s
			}
			if t.Target != nil {
				if _, ok := m.states[t.Target.ID]; !ok {
					return nil, fmt.Errorf("state %d: transition target %d not registered", s.ID, t.Target.ID)
				}
			}
		}
	}
	return m, nil
}

// Current returns the active state ID.
func (m *Machine) Current() StateID {
	return m.current.ID
}

// In reports whether id is the active state.
func (m *Machine) In(id StateID) bool {
	return m.current.ID == id
}

// Send delivers evt to the current state and reports whether a transition was taken.
// The first transition in declaration order whose guard passes wins.
func (m *Machine) Send(evt EventID) bool {
	if m.current.Final {
		return false
	}
	t := m.pickTransition(m.current, evt)
	if t == nil {
		return false
	}
	m.current = t.do(evt)
	return true
}

func (m *Machine) pickTransition(s *State, evt EventID) *Transition {
	for _, t := range s.Transitions {
		if t == nil || t.Event != evt {
			continue
		}
		if t.Guard != nil && !t.Guard(evt, s.ID, t.targetID()) {
			continue
		}
		return t
	}
	return nil
}

func (t *Transition) targetID() StateID {
	if t.Target == nil {
		return t.Source.ID
	}
	return t.Target.ID
}

// do runs exit, transition action and entry in that order and returns the new state.
func (t *Transition) do(evt EventID) *State {
	to := t.targetID()
	if t.Target == nil {
		if t.Action != nil {
			t.Action(evt, t.Source.ID, to)
		}
		return t.Source
	}
	if t.Source.ExitAction != nil {
		t.Source.ExitAction(evt, t.Source.ID, to)
	}
	if t.Action != nil {
		t.Action(evt, t.Source.ID, to)
	}
	if t.Target.EntryAction != nil {
		t.Target.EntryAction(evt, t.Source.ID, to)
	}
	return t.Target
}
