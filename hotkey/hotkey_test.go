package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleTokenIsPortalSafe(t *testing.T) {
	// The portal rejects tokens with anything outside [A-Za-z0-9_].
	for i := 0; i < 20; i++ {
		token := handleToken()
		assert.Regexp(t, `^[A-Za-z0-9_]+$`, token)
	}
}

func TestHandleTokensAreUnique(t *testing.T) {
	a, b := handleToken(), handleToken()
	assert.NotEqual(t, a, b)
}

func TestStopWithoutStart(t *testing.T) {
	l := NewListener(nil)
	l.Stop() // must not panic
}

func TestRequestsChannelBuffered(t *testing.T) {
	l := NewListener(nil)
	select {
	case l.requests <- Request{SeedText: "from clipboard"}:
	default:
		t.Fatal("requests channel should accept without a consumer")
	}
	req := <-l.Requests()
	assert.Equal(t, "from clipboard", req.SeedText)
}
