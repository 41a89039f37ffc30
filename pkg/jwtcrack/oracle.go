package jwtcrack

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Verifier decides whether a candidate secret is the one that produced a
// signature. A mismatch is reported as (false, nil); errors are reserved for
// failures that should abort the whole search.
type Verifier interface {
	Verify(candidate []byte) (bool, error)
}

// Oracle checks candidates against an HS256 signature. It holds no mutable
// state and is safe for concurrent use.
type Oracle struct {
	material SignatureMaterial
}

// NewOracle creates an Oracle for the given signature material.
func NewOracle(material SignatureMaterial) *Oracle {
	return &Oracle{material: material}
}

// Verify computes HMAC-SHA256 over the signed segment keyed with candidate and
// compares it with the expected signature over the full MAC length.
func (o *Oracle) Verify(candidate []byte) (bool, error) {
	mac := hmac.New(sha256.New, candidate)
	mac.Write(o.material.SignedSegment)
	return hmac.Equal(mac.Sum(nil), o.material.Signature), nil
}

// SignatureSize reports whether the expected signature has the length of an
// HMAC-SHA256 tag. A token failing this check can never be matched.
func (o *Oracle) SignatureSize() (got int, ok bool) {
	return len(o.material.Signature), len(o.material.Signature) == sha256.Size
}
