// internal/pkg/guard/guard.go
package guard

import "jiudi-console/internal/domain/auth"

// Outcome is what a navigation should do.
type Outcome int

const (
	Render Outcome = iota
	Wait
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of Decide. Location is set only for Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide gates a route. An empty required role admits any identity.
// The checks run in order: still loading, no identity, first login,
// wrong role.
func Decide(identity *auth.Identity, loading bool, required auth.Role, route string) Decision {
	if loading {
		return Decision{Outcome: Wait}
	}
	if identity == nil {
		return redirect(auth.LoginPath)
	}
	if identity.IsFirstLogin && route != auth.ChangePasswordPath {
		return redirect(auth.ChangePasswordPath)
	}
	if required != "" && identity.Role != required {
		return redirect(identity.Role.Home())
	}
	return Decision{Outcome: Render}
}

func redirect(to string) Decision {
	return Decision{Outcome: Redirect, Location: to}
}
