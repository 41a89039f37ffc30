package jwtcrack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

// testToken is a token with a known secret, computed outside this package.
type testToken struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
	Token  string `json:"token"`
}

// loadTestTokens reads testdata/tokens.json.
func loadTestTokens(t *testing.T) map[string]testToken {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "tokens.json"))
	require.NoError(t, err, "failed to read token fixtures")

	var list []testToken
	require.NoError(t, json.Unmarshal(data, &list), "failed to parse token fixtures")

	byName := make(map[string]testToken, len(list))
	for _, tok := range list {
		byName[tok.Name] = tok
	}
	return byName
}

// signToken mints an HS256 token signed with secret.
func signToken(t *testing.T, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1234567890",
		"name": "John Doe",
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// collect drains up to limit candidates from e.
func collect(e *Enumerator, limit int) []string {
	var out []string
	for len(out) < limit {
		c, ok := e.Next()
		if !ok {
			break
		}
		out = append(out, string(c))
	}
	return out
}
