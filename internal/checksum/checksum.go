// Package checksum computes content digests used as entity tags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/starford/fieldkit/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Component returns the digest of c's JSON form. Any stored change to c
// changes the digest.
func Component(c models.Component) string {
	data, err := json.Marshal(c)
	if err != nil {
		// Component holds only strings, a slice and a time; Marshal cannot fail.
		panic(err)
	}
	return Sum(data)
}
