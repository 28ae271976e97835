package domain

import "testing"

var allActions = []SwapAction{SwapActionAccept, SwapActionReject, SwapActionCancel, SwapActionComplete}

func TestNextStatusTable(t *testing.T) {
	valid := map[SwapStatus]map[SwapAction]SwapStatus{
		SwapStatusPending: {
			SwapActionAccept: SwapStatusAccepted,
			SwapActionReject: SwapStatusRejected,
			SwapActionCancel: SwapStatusCancelled,
		},
		SwapStatusAccepted: {
			SwapActionComplete: SwapStatusCompleted,
		},
	}

	for _, status := range SwapStatuses {
		for _, action := range allActions {
			next, ok := NextStatus(status, action)
			want, wantOK := valid[status][action]
			if ok != wantOK {
				t.Errorf("NextStatus(%s, %s): ok = %v, want %v", status, action, ok, wantOK)
				continue
			}
			if ok && next != want {
				t.Errorf("NextStatus(%s, %s) = %s, want %s", status, action, next, want)
			}
			if ok && !next.Valid() {
				t.Errorf("NextStatus(%s, %s) produced invalid status %q", status, action, next)
			}
		}
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, status := range []SwapStatus{SwapStatusRejected, SwapStatusCancelled, SwapStatusCompleted} {
		for _, action := range allActions {
			if _, ok := NextStatus(status, action); ok {
				t.Errorf("terminal status %s permits %s", status, action)
			}
		}
	}
}

func TestOtherParticipant(t *testing.T) {
	req := SwapRequest{FromUser: "u1", ToUser: "u2"}

	if other, ok := req.OtherParticipant("u1"); !ok || other != "u2" {
		t.Fatalf("OtherParticipant(u1) = %q, %v", other, ok)
	}
	if other, ok := req.OtherParticipant("u2"); !ok || other != "u1" {
		t.Fatalf("OtherParticipant(u2) = %q, %v", other, ok)
	}
	if _, ok := req.OtherParticipant("u3"); ok {
		t.Fatal("OtherParticipant should reject non-participants")
	}
	if req.Involves("u3") {
		t.Fatal("Involves should reject non-participants")
	}
}
