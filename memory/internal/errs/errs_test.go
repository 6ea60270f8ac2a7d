package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorStringIncludesKindAndStatus(t *testing.T) {
	e := API("list memories", 503, "upstream down")
	got := e.Error()
	if want := "[api] HTTP 503"; len(got) < len(want) || got[:len(want)] != want {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUnwrapPreservesChain(t *testing.T) {
	sentinel := errors.New("boom")
	e := Connection("health check", sentinel)
	if !errors.Is(e, sentinel) {
		t.Fatalf("expected errors.Is to find sentinel through %v", e)
	}
}

func TestIsIdentity(t *testing.T) {
	if !IsIdentity(Identity("resolve user", fmt.Errorf("no such user"))) {
		t.Fatalf("identity error not recognised")
	}
	if IsIdentity(Network("search", errors.New("refused"))) {
		t.Fatalf("network error misclassified as identity")
	}
	if IsIdentity(errors.New("plain")) {
		t.Fatalf("plain error misclassified")
	}
}
