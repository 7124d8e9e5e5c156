package workflow

import (
	"encoding/json"
	"fmt"
)

// ParseDefinition parses a workflow definition from its wire form,
// dispatching on shape: a definition either arrives fully spelled out
// ("states"-shaped) or as the linear
// shorthand ("stages"-shaped) used by simple sequential approval chains
// like the built-in seed workflow.
func ParseDefinition(raw []byte) (Definition, error) {
	var detector struct {
		States []json.RawMessage `json:"states"`
		Stages []string          `json:"stages"`
	}
	if err := json.Unmarshal(raw, &detector); err != nil {
		return Definition{}, fmt.Errorf("workflow: detect shape: %w", err)
	}

	switch {
	case len(detector.States) > 0:
		return parseFullDefinition(raw)
	case len(detector.Stages) > 0:
		return parseLinearDefinition(raw)
	default:
		return Definition{}, fmt.Errorf("workflow: definition has neither states nor stages")
	}
}

func parseFullDefinition(raw []byte) (Definition, error) {
	var def Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return Definition{}, fmt.Errorf("workflow: parse states-shaped definition: %w", err)
	}
	if len(def.States) == 0 {
		return Definition{}, fmt.Errorf("workflow: definition has no states")
	}
	return def, nil
}

// linearDefinitionWire is the shorthand input shape: an ordered list of
// stage names. The initial stage advances on "submit", every later
// stage advances on "approve", and each non-initial stage carries a
// "reject" transition back to RejectTo (the first stage when RejectTo is
// empty), exactly the shape of the
// built-in Draft->ManagerReview->FinanceReview->Approved workflow.
type linearDefinitionWire struct {
	UUID          string   `json:"uuid"`
	Title         string   `json:"title"`
	Stages        []string `json:"stages"`
	GroupsAllowed []string `json:"groupsAllowed,omitempty"`
	RejectTo      string   `json:"rejectTo,omitempty"`
}

func parseLinearDefinition(raw []byte) (Definition, error) {
	var wire linearDefinitionWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Definition{}, fmt.Errorf("workflow: parse stages-shaped definition: %w", err)
	}
	return BuildLinearChain(wire.UUID, wire.Title, wire.Stages, wire.RejectTo, wire.GroupsAllowed), nil
}

// BuildLinearChain constructs a Definition that walks stages in order:
// the initial stage advances on "submit", every later stage on
// "approve", with a "reject" signal from every non-initial stage back
// to rejectTo (or the first stage, if rejectTo is empty). The last
// stage is final.
func BuildLinearChain(uuid, title string, stages []string, rejectTo string, groupsAllowed []string) Definition {
	if rejectTo == "" && len(stages) > 0 {
		rejectTo = stages[0]
	}
	names := make([]string, len(stages))
	copy(names, stages)

	states := make([]State, 0, len(stages))
	for i, name := range stages {
		st := State{Name: name, IsInitial: i == 0, IsFinal: i == len(stages)-1}
		if i < len(stages)-1 {
			signal := "approve"
			if i == 0 {
				signal = "submit"
			}
			st.Transitions = append(st.Transitions, Transition{Signal: signal, TargetState: stages[i+1]})
		}
		if i > 0 {
			st.Transitions = append(st.Transitions, Transition{Signal: "reject", TargetState: rejectTo})
		}
		states = append(states, st)
	}
	return Definition{
		UUID: uuid, Title: title, States: states,
		AvailableStateNames: names, GroupsAllowed: groupsAllowed,
	}
}
