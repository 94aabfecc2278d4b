package guard

import "homeflow/auth"

// Fallback routes for denied gates. The asymmetry (agent gate falls back to
// sign-in, admin gate to home) is deliberate and mirrors the navigation the
// product wants for each audience.
const (
	SignInRoute = "/auth"
	HomeRoute   = "/"
)

// Decision is the outcome of evaluating a gate.
type Decision int

const (
	// DecisionPending means the role is still being resolved; the caller
	// should hold rendering rather than deny.
	DecisionPending Decision = iota
	DecisionGranted
	DecisionDenied
)

// Result pairs a decision with the route to fall back to when denied.
type Result struct {
	Decision Decision
	Fallback string
}

// RoleState carries the resolution state a gate depends on. Decisions are
// pure functions of (session presence, role state); they are re-evaluated on
// every dependency change and never cached across a session change.
type RoleState struct {
	Pending bool
	Role    auth.Role
}

// EvaluateAuth gates on session presence alone.
func EvaluateAuth(hasSession bool) Result {
	if !hasSession {
		return Result{Decision: DecisionDenied, Fallback: SignInRoute}
	}
	return Result{Decision: DecisionGranted}
}

// EvaluateAgent grants only a present session with the agent role.
func EvaluateAgent(hasSession bool, state RoleState) Result {
	if !hasSession {
		return Result{Decision: DecisionDenied, Fallback: SignInRoute}
	}
	if state.Pending {
		return Result{Decision: DecisionPending}
	}

	switch state.Role {
	case auth.RoleAgent:
		return Result{Decision: DecisionGranted}
	case auth.RoleNone, auth.RoleUser, auth.RoleAdmin:
		return Result{Decision: DecisionDenied, Fallback: SignInRoute}
	default:
		return Result{Decision: DecisionDenied, Fallback: SignInRoute}
	}
}

// EvaluateAdmin grants only a present session with the admin role. Unlike
// the agent gate it falls back to home.
func EvaluateAdmin(hasSession bool, state RoleState) Result {
	if !hasSession {
		return Result{Decision: DecisionDenied, Fallback: SignInRoute}
	}
	if state.Pending {
		return Result{Decision: DecisionPending}
	}

	switch state.Role {
	case auth.RoleAdmin:
		return Result{Decision: DecisionGranted}
	case auth.RoleNone, auth.RoleUser, auth.RoleAgent:
		return Result{Decision: DecisionDenied, Fallback: HomeRoute}
	default:
		return Result{Decision: DecisionDenied, Fallback: HomeRoute}
	}
}
