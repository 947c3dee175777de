// Package privacy handles personally identifiable information: submission
// metadata stores a one-way hash of the client IP, and log output only ever
// sees a truncated prefix. The raw address is never retained.
package privacy

import (
	"encoding/hex"
	"fmt"
	"net"

	"golang.org/x/crypto/blake2b"
)

// Hasher produces stable one-way hashes of client IPs using a keyed BLAKE2b
// digest. The key prevents offline dictionary reversal of the small IPv4
// space; rotating it unlinks historical submissions from future ones.
type Hasher struct {
	key []byte
}

// NewHasher creates a Hasher with the given key. The key may be empty, in
// which case hashes are unkeyed (acceptable for development only).
func NewHasher(key string) *Hasher {
	return &Hasher{key: []byte(key)}
}

// HashIP returns a hex digest identifying the client without retaining the
// address. Empty and "unknown" inputs map to "unknown" so rate limiting and
// storage treat all unidentifiable clients as one identity.
func (h *Hasher) HashIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	digest, err := blake2b.New256(h.key)
	if err != nil {
		// Only reachable with a key longer than 64 bytes; fall back to unkeyed.
		digest, _ = blake2b.New256(nil)
	}
	digest.Write([]byte(ip))
	return hex.EncodeToString(digest.Sum(nil))
}

// AnonymizeIP truncates an IP address for log output. IPv4 addresses lose the
// last octet (/24); IPv6 addresses keep only the /48 prefix. The result can
// identify a network neighbourhood but not an individual host.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}
