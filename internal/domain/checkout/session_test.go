package checkout

import "testing"

func newSubmittingSession() *Session {
	return &Session{
		ID:            "chk-1",
		CartSessionID: "cart-1",
		WalletAddress: "0xabc",
		Status:        StatusSubmitting,
	}
}

func TestSessionHappyPath(t *testing.T) {
	session := newSubmittingSession()

	if err := session.MarkSubmitted("0xdead"); err != nil {
		t.Fatalf("MarkSubmitted: %v", err)
	}
	if session.Status != StatusAwaitingConfirmation {
		t.Errorf("status = %q, want %q", session.Status, StatusAwaitingConfirmation)
	}
	if session.TxHash != "0xdead" {
		t.Errorf("tx hash = %q, want 0xdead", session.TxHash)
	}

	if err := session.MarkConfirmed(); err != nil {
		t.Fatalf("MarkConfirmed: %v", err)
	}
	if session.Status != StatusConfirmed {
		t.Errorf("status = %q, want %q", session.Status, StatusConfirmed)
	}
	if session.ErrorKind != ErrorKindNone {
		t.Errorf("error kind = %q, want none", session.ErrorKind)
	}
}

func TestSessionRejection(t *testing.T) {
	session := newSubmittingSession()

	if err := session.MarkRejected(); err != nil {
		t.Fatalf("MarkRejected: %v", err)
	}
	if session.Status != StatusFailed {
		t.Errorf("status = %q, want %q", session.Status, StatusFailed)
	}
	if session.ErrorKind != ErrorKindUserRejected {
		t.Errorf("error kind = %q, want %q", session.ErrorKind, ErrorKindUserRejected)
	}
}

func TestSessionFailureFromRevert(t *testing.T) {
	session := newSubmittingSession()
	if err := session.MarkSubmitted("0xdead"); err != nil {
		t.Fatalf("MarkSubmitted: %v", err)
	}

	if err := session.MarkFailed(ErrorKindInsufficientStock, "Not enough quantity"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if session.Status != StatusFailed {
		t.Errorf("status = %q, want %q", session.Status, StatusFailed)
	}
	if session.ErrorMessage != "Not enough quantity" {
		t.Errorf("message = %q", session.ErrorMessage)
	}
}

func TestSessionFailedDefaultsMessage(t *testing.T) {
	session := newSubmittingSession()

	if err := session.MarkFailed(ErrorKindNone, ""); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if session.ErrorKind != ErrorKindUnknown {
		t.Errorf("error kind = %q, want unknown", session.ErrorKind)
	}
	if session.ErrorMessage == "" {
		t.Error("message should default to the kind's message")
	}
}

func TestSessionInvalidTransitions(t *testing.T) {
	t.Run("submit without hash", func(t *testing.T) {
		if err := newSubmittingSession().MarkSubmitted(""); err == nil {
			t.Error("expected error for empty tx hash")
		}
	})

	t.Run("confirm before submission", func(t *testing.T) {
		if err := newSubmittingSession().MarkConfirmed(); err == nil {
			t.Error("expected error confirming a session that was never submitted")
		}
	})

	t.Run("double submit", func(t *testing.T) {
		session := newSubmittingSession()
		if err := session.MarkSubmitted("0x1"); err != nil {
			t.Fatalf("MarkSubmitted: %v", err)
		}
		if err := session.MarkSubmitted("0x2"); err == nil {
			t.Error("expected error on second submission")
		}
	})

	t.Run("fail after confirmed", func(t *testing.T) {
		session := newSubmittingSession()
		if err := session.MarkSubmitted("0x1"); err != nil {
			t.Fatalf("MarkSubmitted: %v", err)
		}
		if err := session.MarkConfirmed(); err != nil {
			t.Fatalf("MarkConfirmed: %v", err)
		}
		if err := session.MarkFailed(ErrorKindUnknown, "late revert"); err == nil {
			t.Error("expected error failing a confirmed session")
		}
	})

	t.Run("reject after submission", func(t *testing.T) {
		session := newSubmittingSession()
		if err := session.MarkSubmitted("0x1"); err != nil {
			t.Fatalf("MarkSubmitted: %v", err)
		}
		if err := session.MarkRejected(); err == nil {
			t.Error("expected error rejecting after submission")
		}
	})
}

func TestStatusPredicates(t *testing.T) {
	if !StatusSubmitting.InFlight() || !StatusAwaitingConfirmation.InFlight() {
		t.Error("submitting and awaiting confirmation should be in flight")
	}
	if StatusConfirmed.InFlight() || StatusFailed.InFlight() {
		t.Error("terminal statuses should not be in flight")
	}
	if !StatusConfirmed.Terminal() || !StatusFailed.Terminal() {
		t.Error("confirmed and failed should be terminal")
	}
	if StatusSubmitting.Terminal() {
		t.Error("submitting should not be terminal")
	}
}
