package cluster

import (
	"fmt"
	"strings"
)

// Action is a muchos command.
type Action int

const (
	ActionLaunch Action = iota
	ActionStatus
	ActionSync
	ActionSetup
	ActionSSH
	ActionWipe
	ActionKill
	ActionCancelShutdown
	ActionTerminate
)

var actionNames = [...]string{
	ActionLaunch:         "launch",
	ActionStatus:         "status",
	ActionSync:           "sync",
	ActionSetup:          "setup",
	ActionSSH:            "ssh",
	ActionWipe:           "wipe",
	ActionKill:           "kill",
	ActionCancelShutdown: "cancel_shutdown",
	ActionTerminate:      "terminate",
}

// Actions lists every action in declaration order.
func Actions() []Action {
	actions := make([]Action, len(actionNames))
	for i := range actionNames {
		actions[i] = Action(i)
	}
	return actions
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction maps a command name to an Action. Dashes and underscores are
// interchangeable, so cancel-shutdown is accepted.
func ParseAction(name string) (Action, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range actionNames {
		if n == normalized {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action: %s", name)
}

// Playbook names the playbook run by maintenance actions, or "" for
// actions that do not map to a single playbook.
func (a Action) Playbook() string {
	switch a {
	case ActionWipe, ActionKill, ActionCancelShutdown:
		return a.String() + ".yml"
	}
	return ""
}

// Supported reports whether the action can be performed on an existing
// cluster. Instance lifecycle actions cannot.
func (a Action) Supported() bool {
	switch a {
	case ActionLaunch, ActionStatus, ActionTerminate:
		return false
	}
	return a >= 0 && int(a) < len(actionNames)
}
