package domain

// Actor is the identity a core operation runs on behalf of. Admin actors may
// cancel or complete any request, but are still bound by the state machine.
type Actor struct {
	ID    string
	Admin bool
}

// Authorize decides whether actor may perform action on req, judged against
// the stored state that was just loaded, never caller-supplied state.
//
// The state machine is checked first: an action that no longer applies fails
// ErrInvalidState regardless of who asks. Only then is the actor matched
// against the role the action requires, failing ErrForbidden on mismatch.
func Authorize(actor Actor, req SwapRequest, action SwapAction) error {
	if _, ok := NextStatus(req.Status, action); !ok {
		return ErrInvalidState
	}

	if actor.Admin && (action == SwapActionCancel || action == SwapActionComplete) {
		return nil
	}

	switch action {
	case SwapActionAccept, SwapActionReject:
		if actor.ID != req.ToUser {
			return ErrForbidden
		}
	case SwapActionCancel:
		if actor.ID != req.FromUser {
			return ErrForbidden
		}
	case SwapActionComplete:
		if !req.Involves(actor.ID) {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
	return nil
}
