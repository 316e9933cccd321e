// Package hashing binds the three dimensions of a record together.
//
// Every payload is serialized with deterministic CBOR and hashed with BLAKE3
// in keyed mode. Each dimension uses its own domain key, so identical bytes
// in two dimensions never produce the same digest. The combined digest is the
// keyed hash of the three dimension digests concatenated in canonical order.
package hashing

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"triad/internal/record/models"
	"triad/pkg/platform/codec"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses a 64-character hex string.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(d) {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(d))
	}
	copy(d[:], decoded)
	return d, nil
}

type domainKey [32]byte

// Domain keys are the ASCII domain name zero-padded to 32 bytes. Changing
// one invalidates every stored hash in that domain.
var (
	techKey     = newDomainKey("triad.record.tech")
	peopleKey   = newDomainKey("triad.record.people")
	spiritKey   = newDomainKey("triad.record.spirit")
	combinedKey = newDomainKey("triad.record.combined")
	printKey    = newDomainKey("triad.sentinel.fingerprint")
)

func newDomainKey(name string) domainKey {
	var k domainKey
	if len(name) > len(k) {
		panic("hashing: domain name longer than key: " + name)
	}
	copy(k[:], name)
	return k
}

func keyFor(d models.Dimension) (domainKey, bool) {
	switch d {
	case models.DimensionTech:
		return techKey, true
	case models.DimensionPeople:
		return peopleKey, true
	case models.DimensionSpirit:
		return spiritKey, true
	}
	return domainKey{}, false
}

func keyedHash(key domainKey, data []byte) Digest {
	// NewKeyed only fails on a key that is not 32 bytes.
	h, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("hashing: BLAKE3 keyed init failed: " + err.Error())
	}
	_, _ = h.Write(data)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func hashValue(key domainKey, v any) (Digest, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return Digest{}, err
	}
	return keyedHash(key, data), nil
}

func HashTech(p models.TechPayload) (Digest, error) {
	return hashValue(techKey, p)
}

func HashPeople(p models.PeoplePayload) (Digest, error) {
	return hashValue(peopleKey, p)
}

func HashSpirit(p models.SpiritPayload) (Digest, error) {
	return hashValue(spiritKey, p)
}

// HashDimension hashes the named payload of r.
func HashDimension(r models.EncodingRecord, d models.Dimension) (Digest, error) {
	key, ok := keyFor(d)
	if !ok {
		return Digest{}, fmt.Errorf("unknown dimension %q", d)
	}
	return hashValue(key, r.Payload(d))
}

// Combine derives the record-level digest from the three dimension digests.
func Combine(tech, people, spirit Digest) Digest {
	var buf [96]byte
	copy(buf[0:32], tech[:])
	copy(buf[32:64], people[:])
	copy(buf[64:96], spirit[:])
	return keyedHash(combinedKey, buf[:])
}

// Compute returns the four hashes of r's current payloads.
func Compute(r models.EncodingRecord) (models.DimensionHashes, error) {
	t, err := HashTech(r.Tech)
	if err != nil {
		return models.DimensionHashes{}, fmt.Errorf("hash tech: %w", err)
	}
	p, err := HashPeople(r.People)
	if err != nil {
		return models.DimensionHashes{}, fmt.Errorf("hash people: %w", err)
	}
	s, err := HashSpirit(r.Spirit)
	if err != nil {
		return models.DimensionHashes{}, fmt.Errorf("hash spirit: %w", err)
	}
	return models.DimensionHashes{
		Tech:     t.String(),
		People:   p.String(),
		Spirit:   s.String(),
		Combined: Combine(t, p, s).String(),
	}, nil
}

// Enrich attaches freshly computed hashes to a copy of r and re-seals its
// integrity hash. Enriching an enriched record overwrites the old hashes.
func Enrich(r models.EncodingRecord) (models.EnrichedRecord, error) {
	hashes, err := Compute(r)
	if err != nil {
		return models.EnrichedRecord{}, err
	}
	out := r.Clone()
	out.IntegrityHash = hashes.Combined
	return models.EnrichedRecord{EncodingRecord: out, Hashes: hashes}, nil
}

// Seal returns a copy of r with IntegrityHash recomputed.
func Seal(r models.EncodingRecord) (models.EncodingRecord, error) {
	enriched, err := Enrich(r)
	if err != nil {
		return models.EncodingRecord{}, err
	}
	return enriched.EncodingRecord, nil
}

// Detect reports whether r's payloads no longer match the integrity hash
// fixed at creation.
func Detect(r models.EncodingRecord) (bool, error) {
	hashes, err := Compute(r)
	if err != nil {
		return false, err
	}
	return hashes.Combined != r.IntegrityHash, nil
}

// Fingerprint hashes an arbitrary value in its own domain. Equal values
// always produce equal fingerprints.
func Fingerprint(v any) (Digest, error) {
	return hashValue(printKey, v)
}
