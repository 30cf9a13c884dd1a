/*
Package randx provides unique identifiers for sessions and users.

Session tokens are opaque UUID-based strings with no embedded claims. Numeric
user ids come from an in-process monotonic counter rather than wall-clock
time, so rapid registrations cannot collide.
*/
package randx

import (
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	// sessionTokenPrefix marks tokens minted by the gateway.
	sessionTokenPrefix = "tok-"

	// demoTokenPrefix marks tokens minted client-side in demo mode.
	demoTokenPrefix = "demo-"
)

// SessionToken mints an opaque session token. Tokens carry no claims and the
// gateway never validates them; they exist so clients have something to
// store and send back.
func SessionToken() string {
	return sessionTokenPrefix + uuid.NewString()
}

// DemoToken mints an opaque token for an offline-synthesized session. The
// distinct prefix makes demo sessions recognizable in logs.
func DemoToken() string {
	return demoTokenPrefix + uuid.NewString()
}

// IDSource hands out monotonically increasing numeric ids. Safe for
// concurrent use.
type IDSource struct {
	last atomic.Int64
}

// NewIDSource returns an IDSource whose first Next call yields start.
func NewIDSource(start int64) *IDSource {
	s := &IDSource{}
	s.last.Store(start - 1)
	return s
}

// Next returns the next id in the sequence.
func (s *IDSource) Next() int64 {
	return s.last.Add(1)
}
