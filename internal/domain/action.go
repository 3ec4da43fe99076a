package domain

import (
	"fmt"
	"strings"
)

// ActionKind names what a guest does to an article.
type ActionKind string

const (
	ActionNone         ActionKind = "none"
	ActionExternal     ActionKind = "external"
	ActionContributing ActionKind = "contributing"
)

// ParseActionKind maps the wire value onto an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	switch k := ActionKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ActionNone, ActionExternal, ActionContributing:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
	}
}

// Action is a guest action on an article. Amount is only meaningful for ActionContributing;
// build values with NoneAction, ExternalAction or ContributeAction.
type Action struct {
	Kind   ActionKind
	Amount Money
}

// NoneAction withdraws the acting user's own contributions and marks.
func NoneAction() Action { return Action{Kind: ActionNone} }

// ExternalAction claims the article as purchased outside the platform.
func ExternalAction() Action { return Action{Kind: ActionExternal} }

// ContributeAction pledges amount toward the article.
func ContributeAction(amount Money) Action {
	return Action{Kind: ActionContributing, Amount: amount}
}

// Validate checks the action is well formed on its own.
func (a Action) Validate() error {
	switch a.Kind {
	case ActionNone, ActionExternal:
		return nil
	case ActionContributing:
		if !a.Amount.IsPositive() {
			return fmt.Errorf("%w: contribution amount must be positive", ErrInvalidInput)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, a.Kind)
	}
}
