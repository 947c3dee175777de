package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashIPStableAndOneWay(t *testing.T) {
	h := NewHasher("test-key")

	a := h.HashIP("203.0.113.7")
	b := h.HashIP("203.0.113.7")
	assert.Equal(t, a, b, "same input must hash identically")
	assert.NotContains(t, a, "203", "digest must not leak address bytes")
	assert.Len(t, a, 64)

	other := h.HashIP("203.0.113.8")
	assert.NotEqual(t, a, other)
}

func TestHashIPKeyChangesDigest(t *testing.T) {
	a := NewHasher("key-one").HashIP("203.0.113.7")
	b := NewHasher("key-two").HashIP("203.0.113.7")
	assert.NotEqual(t, a, b, "rotating the key must unlink identities")
}

func TestHashIPUnknownInputs(t *testing.T) {
	h := NewHasher("test-key")
	assert.Equal(t, "unknown", h.HashIP(""))
	assert.Equal(t, "unknown", h.HashIP("unknown"))
}

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ipv4", "192.168.1.47", "192.168.1.0"},
		{"ipv4 boundary", "10.0.0.255", "10.0.0.0"},
		{"ipv6", "2001:db8:85a3::8a2e:370:7334", "2001:0db8:85a3::"},
		{"empty", "", "unknown"},
		{"unknown", "unknown", "unknown"},
		{"garbage", "not-an-ip", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnonymizeIP(tt.in))
		})
	}
}
