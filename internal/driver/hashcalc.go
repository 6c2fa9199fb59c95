package driver

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 value.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports an unset digest.
func (d Digest) IsZero() bool { return d == Digest{} }

// combineDigest: H(content || part1 || part2 ...). Части в фиксированном порядке.
func combineDigest(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		// длина отделяет части друг от друга: "ab"+"c" != "a"+"bc"
		var n [4]byte
		l := len(p)
		n[0], n[1], n[2], n[3] = byte(l>>24), byte(l>>16), byte(l>>8), byte(l)
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// resultKey identifies one analysis result: the file content and path, the
// language it was parsed as, the settings and the build that produced it.
func resultKey(content Digest, path string, kind FileKind, fingerprint, filter, build string) Digest {
	return combineDigest(content, path, kind.String(), fingerprint, filter, build)
}

func (k FileKind) String() string {
	switch {
	case k.Language == LangJS && k.JS.IsModule():
		return "js:module"
	case k.Language == LangJS:
		return "js:script"
	case k.JSONC:
		return "json:c"
	}
	return k.Language.String()
}
