package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainRecord separates record digests from any other hash in the system.
const DomainRecord = "saucereport/record/v1"

// IdentityKey is the serialized (source, subject, scenario) tuple.
type IdentityKey string

// NewIdentityKey builds the canonical key for the triple.
// The tuple is encoded as a canonical JSON array, so no separator choice can
// make two different triples collide.
func NewIdentityKey(source, subject, scenario string) IdentityKey {
	b, err := MarshalCanonicalStrings(source, subject, scenario)
	if err != nil {
		// Encoding a string never fails; keep the key usable regardless.
		return IdentityKey(source + "\x00" + subject + "\x00" + scenario)
	}
	return IdentityKey(b)
}

// Digest returns a fixed-width hex digest of the key, used as the journal
// primary key.
func (k IdentityKey) Digest() string {
	return hashWithDomain(DomainRecord, []byte(k))
}

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
