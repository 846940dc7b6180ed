package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	refSuffixSize     = 5
	refSuffixAlphabet = "0123456789"
)

// RefID returns a human-readable reference id: a 3-letter family prefix
// followed by exactly five random digits. There is no uniqueness check;
// a collision is an accepted risk of the scheme.
func RefID(prefix string) string {
	return prefix + gonanoid.MustGenerate(refSuffixAlphabet, refSuffixSize)
}
