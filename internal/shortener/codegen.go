package shortener

import (
	"crypto/sha256"
	"net/url"

	"github.com/mr-tron/base58"
)

// CodeLength is the number of base58 characters kept from the encoded digest.
const CodeLength = 8

// Generate derives the short code for a long URL.
// The code is the first CodeLength characters of the base58-encoded SHA-256
// digest of the raw URL bytes, so identical input always yields the same code.
//
// Two different URLs may share a prefix. The store keeps the first writer and
// the second caller still receives the same code, which then resolves to the
// first URL.
func Generate(longURL string) Code {
	sum := sha256.Sum256([]byte(longURL))

	return Code(base58.Encode(sum[:])[:CodeLength])
}

// ValidLongURL reports whether s is an absolute URL with a scheme and a host.
// The host is not resolved.
func ValidLongURL(s string) bool {
	if s == "" {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return u.IsAbs() && u.Host != ""
}

// ValidCode reports whether s could have been produced by Generate:
// exactly CodeLength characters, all from the base58 alphabet.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}

	_, err := base58.Decode(s)

	return err == nil
}
