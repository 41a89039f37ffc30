// Package jwtcrack recovers weak HMAC-SHA256 secrets from signed tokens by
// exhaustively trying every string over an alphabet, shortest first.
//
// WARNING: This package is for security research and testing purposes only.
// Only use it against tokens you own or are explicitly authorised to test.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/jwtcrack/pkg/jwtcrack"
//
//	client := jwtcrack.NewClient().
//	    WithAlphabet("abcdefghijklmnopqrstuvwxyz").
//	    WithMaxLength(5)
//
//	outcome, err := client.Crack(ctx, token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if outcome.Status == jwtcrack.StatusFound {
//	    fmt.Printf("Recovered secret: %s\n", outcome.Secret)
//	}
//
// # Building blocks
//
// The Client wires three pieces that can also be used directly:
//
//	material, err := jwtcrack.Parse(token)             // ErrInvalidFormat on bad input
//	oracle := jwtcrack.NewOracle(material)             // HMAC-SHA256 check
//	enum := jwtcrack.NewEnumerator(jwtcrack.NewAlphabet("ab"), 3)
//
//	coordinator := jwtcrack.NewCoordinator(jwtcrack.SearchConfig{
//	    Workers:       8,
//	    QueueCapacity: 32,
//	}, logger)
//	outcome, err := coordinator.Search(ctx, enum, oracle)
//
// Any type with a Next() ([]byte, bool) method can feed a Coordinator, and any
// Verifier can replace the Oracle.
package jwtcrack
