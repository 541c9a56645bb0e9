package domain

import "testing"

func TestCanTransitionForward(t *testing.T) {
	allowed := [][2]string{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusShipped},
		{StatusConfirmed, StatusPreparing},
		{StatusPreparing, StatusShipped},
		{StatusShipped, StatusDelivered},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCancelled},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}
}

func TestCanTransitionRejected(t *testing.T) {
	rejected := [][2]string{
		{StatusConfirmed, StatusPending},
		{StatusShipped, StatusConfirmed},
		{StatusDelivered, StatusCancelled},
		{StatusDelivered, StatusShipped},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusCancelled},
		{StatusPreparing, StatusCancelled},
		{StatusPending, StatusPending},
		{StatusPending, "bogus"},
	}
	for _, pair := range rejected {
		if CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}

func TestCancellable(t *testing.T) {
	if !Cancellable(StatusPending) || !Cancellable(StatusConfirmed) {
		t.Fatalf("pending and confirmed orders must be cancellable")
	}
	for _, s := range []string{StatusPreparing, StatusShipped, StatusDelivered, StatusCancelled} {
		if Cancellable(s) {
			t.Errorf("status %s must not be cancellable", s)
		}
	}
}
