package sockit

import (
	"errors"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindSetup, "setup"},
		{KindResolve, "resolve"},
		{KindBind, "bind"},
		{KindConnect, "connect"},
		{KindAccept, "accept"},
		{KindTimeout, "timeout"},
		{KindArgument, "argument"},
		{KindClosed, "closed"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	wrapped := errors.New("boom")
	err := newError(KindConnect, "Dial", 111, "connection refused", wrapped)

	if !errors.Is(err, wrapped) {
		t.Errorf("errors.Is(err, wrapped) = false, want true")
	}
	if got := err.Error(); got == "" {
		t.Error("Error() returned empty string")
	}
}

func TestArgError(t *testing.T) {
	err := argError("NewTCPSocket", "hostname must not be empty")
	if err.Kind != KindArgument {
		t.Errorf("Kind = %v, want KindArgument", err.Kind)
	}
	if err.Code != 0 {
		t.Errorf("Code = %d, want 0", err.Code)
	}
	if err.Err != nil {
		t.Errorf("Err = %v, want nil", err.Err)
	}
}

func TestIsHelpers(t *testing.T) {
	timeoutErr := newError(KindTimeout, "Accept", 0, "no pending connection", nil)
	closedErr := newError(KindClosed, "Send", 0, "descriptor closed", nil)
	otherErr := newError(KindBind, "Bind", 0, "address in use", nil)

	if !IsTimeout(timeoutErr) {
		t.Error("IsTimeout(timeoutErr) = false, want true")
	}
	if IsTimeout(otherErr) {
		t.Error("IsTimeout(otherErr) = true, want false")
	}
	if !IsClosed(closedErr) {
		t.Error("IsClosed(closedErr) = false, want true")
	}
	if !Is(otherErr, KindBind) {
		t.Error("Is(otherErr, KindBind) = false, want true")
	}
	if Is(errors.New("plain"), KindBind) {
		t.Error("Is(plain error, KindBind) = true, want false")
	}
}
