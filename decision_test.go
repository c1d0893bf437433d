package sfncallback

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		msg  InboundMessage
		want Decision
	}{
		{"even suffix", InboundMessage{BusinessKey: "order-42"}, Decision{ShouldReexecute: true}},
		{"odd suffix", InboundMessage{BusinessKey: "order-43", RetryCount: 1}, Decision{RetryCount: 1}},
		{"ceiling before parity", InboundMessage{BusinessKey: "order-2", RetryCount: 2}, Decision{RetryCount: 2}},
		{"above ceiling", InboundMessage{BusinessKey: "order-2", RetryCount: 7}, Decision{RetryCount: 7}},
		{"zero suffix", InboundMessage{BusinessKey: "order-0"}, Decision{ShouldReexecute: true}},
		{"no key", InboundMessage{}, Decision{}},
		{"no hyphen", InboundMessage{BusinessKey: "order42"}, Decision{}},
		{"trailing text", InboundMessage{BusinessKey: "order-42a"}, Decision{}},
		{"hyphen only", InboundMessage{BusinessKey: "order-"}, Decision{}},
		{"only suffix", InboundMessage{BusinessKey: "-8"}, Decision{ShouldReexecute: true}},
		{"last hyphen wins", InboundMessage{BusinessKey: "a-3-10"}, Decision{ShouldReexecute: true}},
		{"trailing newline", InboundMessage{BusinessKey: "order-4\n"}, Decision{}},
		{"huge suffix", InboundMessage{BusinessKey: "order-123456789012345678901234567890"}, Decision{ShouldReexecute: true}},
		{"negative retry", InboundMessage{BusinessKey: "order-4", RetryCount: -1}, Decision{ShouldReexecute: true, RetryCount: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.msg))
		})
	}
}

func FuzzDecide_ParityBelowCeiling(f *testing.F) {
	for _, tc := range []uint64{0, 1, 2, 41, 42} {
		f.Add("order", tc, 0)
	}
	f.Fuzz(func(t *testing.T, prefix string, n uint64, retries int) {
		m := InboundMessage{BusinessKey: fmt.Sprintf("%s-%d", prefix, n), RetryCount: retries}
		d := Decide(m)

		if retries >= RetryCeiling && d.ShouldReexecute {
			t.Errorf("re-execution above ceiling for %+v", m)
		}
		// A newline in the prefix breaks the full-key match.
		if retries < RetryCeiling && !containsNewline(prefix) && d.ShouldReexecute != (n%2 == 0) {
			t.Errorf("wrong parity for %+v: %v", m, d.ShouldReexecute)
		}
		if d != Decide(m) {
			t.Errorf("decision is not deterministic for %+v", m)
		}
	})
}

func containsNewline(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
	}
	return false
}
