package jwtcrack

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// SignatureMaterial is the part of a token the oracle needs: the bytes the MAC
// was computed over and the decoded MAC itself. It is never mutated after
// Parse returns, so it can be shared by any number of verifiers.
type SignatureMaterial struct {
	SignedSegment []byte
	Signature     []byte
}

// Parse splits token on its last '.' into the signed segment and the
// signature, and decodes the signature from base64url. Padding is tolerated.
//
// Both failure modes wrap ErrInvalidFormat.
func Parse(token string) (SignatureMaterial, error) {
	idx := strings.LastIndexByte(token, '.')
	if idx < 0 {
		return SignatureMaterial{}, fmt.Errorf("%w: no '.' separator before signature", ErrInvalidFormat)
	}

	sig, err := jwt.DecodeSegment(strings.TrimRight(token[idx+1:], "="))
	if err != nil {
		return SignatureMaterial{}, fmt.Errorf("%w: signature is not base64url: %v", ErrInvalidFormat, err)
	}

	return SignatureMaterial{
		SignedSegment: []byte(token[:idx]),
		Signature:     sig,
	}, nil
}

// DescribeHeader reads the "alg" header of token without verifying anything.
// ok is false when token is not a three-part JWT with a decodable header.
func DescribeHeader(token string) (alg string, ok bool) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", false
	}
	alg, ok = parsed.Header["alg"].(string)
	return alg, ok
}
