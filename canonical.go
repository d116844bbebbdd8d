package lsys

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stateHashDomain separates state hashes from any other SHA-256 use.
// Version suffix allows evolving the canonical form without silent
// collisions against old hashes.
const stateHashDomain = "lsys/state/v1"

// CanonicalState renders a module sequence in canonical text form: one
// module per line as kind|name|attr=value..., attributes sorted by name
// and rendered at the bounded display precision, the whole encoding
// NFC-normalized. Equal canonical forms define state equality for
// determinism and replay checks.
func CanonicalState(seq []Module) string {
	var b strings.Builder
	for i, m := range seq {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeCanonicalModule(&b, m)
	}
	return norm.NFC.String(b.String())
}

func writeCanonicalModule(b *strings.Builder, m Module) {
	b.WriteString(string(m.Kind()))
	b.WriteByte('|')
	b.WriteString(DisplayName(m))
	for _, name := range attrNames(m) {
		v, _ := attrValue(m, name)
		b.WriteByte('|')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(v)
	}
}

// HashState returns the hex SHA-256 of the canonical state form under the
// state hash domain. The domain prefix and zero-byte separator keep state
// hashes disjoint from hashes of any other content.
func HashState(seq []Module) string {
	h := sha256.New()
	h.Write([]byte(stateHashDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(CanonicalState(seq)))
	return hex.EncodeToString(h.Sum(nil))
}
