package splits

import "github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"

// Action is an operation the dashboard may offer on a split
type Action string

const (
	ActionView         Action = "view"
	ActionMarkReady    Action = "mark_ready"
	ActionCreatePayout Action = "create_payout"
)

// actionsByStatus gates what each split status allows. Gating lives in this
// one table; handlers and view-models read it, they never re-derive it.
var actionsByStatus = map[string][]Action{
	upstream.SplitStatusPendingEvent: {ActionView, ActionMarkReady},
	upstream.SplitStatusReadyToPay:   {ActionView, ActionCreatePayout},
}

// ActionsFor returns the allowed actions for a split status. Unknown or
// terminal statuses allow viewing only.
func ActionsFor(status string) []Action {
	if actions, ok := actionsByStatus[status]; ok {
		out := make([]Action, len(actions))
		copy(out, actions)
		return out
	}
	return []Action{ActionView}
}

// Allows reports whether a status permits an action
func Allows(status string, action Action) bool {
	for _, a := range ActionsFor(status) {
		if a == action {
			return true
		}
	}
	return false
}
