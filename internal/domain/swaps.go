package domain

import "time"

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusCompleted SwapStatus = "completed"
)

// SwapStatuses lists every status in display order.
var SwapStatuses = []SwapStatus{
	SwapStatusPending,
	SwapStatusAccepted,
	SwapStatusRejected,
	SwapStatusCancelled,
	SwapStatusCompleted,
}

func (s SwapStatus) Valid() bool {
	switch s {
	case SwapStatusPending, SwapStatusAccepted, SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted:
		return true
	}
	return false
}

type SwapAction string

const (
	SwapActionAccept   SwapAction = "accept"
	SwapActionReject   SwapAction = "reject"
	SwapActionCancel   SwapAction = "cancel"
	SwapActionComplete SwapAction = "complete"
)

// SwapRequest is a proposal by FromUser to exchange skills with ToUser.
// The skill lists are a snapshot chosen at creation and are never edited
// afterwards; only Status, Version, and UpdatedAt change, and only through
// the swaps service.
type SwapRequest struct {
	ID              string
	FromUser        string
	ToUser          string
	Message         string
	SkillsOffered   []string
	SkillsRequested []string
	Status          SwapStatus
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r SwapRequest) Involves(userID string) bool {
	return userID != "" && (userID == r.FromUser || userID == r.ToUser)
}

// OtherParticipant returns the counterpart of userID on this request.
func (r SwapRequest) OtherParticipant(userID string) (string, bool) {
	switch userID {
	case r.FromUser:
		return r.ToUser, true
	case r.ToUser:
		return r.FromUser, true
	}
	return "", false
}

// transitions is the full state machine. Statuses absent from the outer map
// are terminal.
var transitions = map[SwapStatus]map[SwapAction]SwapStatus{
	SwapStatusPending: {
		SwapActionAccept: SwapStatusAccepted,
		SwapActionReject: SwapStatusRejected,
		SwapActionCancel: SwapStatusCancelled,
	},
	SwapStatusAccepted: {
		SwapActionComplete: SwapStatusCompleted,
	},
}

// NextStatus reports the status action leads to from cur, and whether the
// transition is permitted at all.
func NextStatus(cur SwapStatus, action SwapAction) (SwapStatus, bool) {
	next, ok := transitions[cur][action]
	return next, ok
}
