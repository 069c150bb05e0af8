package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindSentinels(t *testing.T) {
	inv := InvalidArgument("bad", "")
	if !stderrors.Is(inv, ErrInvalidArgument) {
		t.Fatalf("expected InvalidArgument to match ErrInvalidArgument")
	}
	if stderrors.Is(inv, ErrRemoteFetchFailed) {
		t.Fatalf("InvalidArgument should not match ErrRemoteFetchFailed")
	}
	wrapped := fmt.Errorf("outer: %w", HTTPStatusError("https://example.com/x.js", 404))
	if !stderrors.Is(wrapped, ErrRemoteFetchFailed) {
		t.Fatalf("expected wrapped status error to match ErrRemoteFetchFailed")
	}
	if KindOf(wrapped) != KindRemoteFetchFailed {
		t.Fatalf("KindOf=%v", KindOf(wrapped))
	}
	if KindOf(stderrors.New("plain")) != KindUnknown {
		t.Fatalf("plain error should be KindUnknown")
	}
}

func TestHTTPStatusErrorMessage(t *testing.T) {
	e := HTTPStatusError("https://raw.githubusercontent.com/a/b/main/c.js", 500)
	if !strings.Contains(e.Message, "HTTP 500") || !strings.Contains(e.Message, "URL: https://raw.githubusercontent.com/a/b/main/c.js") {
		t.Fatalf("unexpected message: %q", e.Message)
	}
	if !strings.Contains(e.Error(), "How to fix:") {
		t.Fatalf("expected suggestion block in %q", e.Error())
	}
}

func TestNetworkErrorWrapsTransport(t *testing.T) {
	base := stderrors.New("dial tcp: lookup raw.githubusercontent.com: no such host")
	e := NetworkError(base)
	if !stderrors.Is(e, base) {
		t.Fatalf("expected Unwrap to expose transport error")
	}
	if !strings.Contains(e.Message, "no such host") {
		t.Fatalf("message should carry transport text: %q", e.Message)
	}
	if !strings.Contains(e.Suggestion, "DNS") {
		t.Fatalf("expected DNS suggestion, got %q", e.Suggestion)
	}
}
