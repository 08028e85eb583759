// Package shorturl derives aliases from destination URLs.
package shorturl

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/itchyny/base58-go"
)

// Generate produces an alias from the destination URL.
// The same URL always yields the same alias. It utilizes base 58
// algorithm to reduce confusion in character output (0OIl+/ are not used).
func Generate(s string) string {
	sum := sha256.Sum256([]byte(s))
	generatedNumber := binary.BigEndian.Uint64(sum[:])
	return string(base58.BitcoinEncoding.EncodeUint64(generatedNumber))
}
