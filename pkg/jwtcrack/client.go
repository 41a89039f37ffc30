package jwtcrack

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxLength is the longest secret tried when no limit is configured.
const DefaultMaxLength = 6

// Client provides a high-level API for recovering HS256 secrets.
type Client struct {
	alphabet  Alphabet
	maxLength int
	search    SearchConfig
	logger    *zap.Logger
}

// NewClient creates a new client with default settings.
func NewClient() *Client {
	return &Client{
		alphabet:  NewAlphabet(DefaultAlphabet),
		maxLength: DefaultMaxLength,
		search:    DefaultSearchConfig(),
		logger:    zap.NewNop(),
	}
}

// WithAlphabet sets the symbols candidates are built from.
func (c *Client) WithAlphabet(symbols string) *Client {
	c.alphabet = NewAlphabet(symbols)
	return c
}

// WithMaxLength sets the longest candidate tried. Unbounded removes the limit.
func (c *Client) WithMaxLength(maxLength int) *Client {
	c.maxLength = maxLength
	return c
}

// WithSearchConfig replaces the worker, queue and progress settings at once.
func (c *Client) WithSearchConfig(config SearchConfig) *Client {
	c.search = config
	return c
}

// WithWorkers sets the number of concurrent verifiers (0 = auto-detect).
func (c *Client) WithWorkers(workers int) *Client {
	c.search.Workers = workers
	return c
}

// WithQueueCapacity sets the bound of the candidate queue (0 = 4 per worker).
func (c *Client) WithQueueCapacity(capacity int) *Client {
	c.search.QueueCapacity = capacity
	return c
}

// WithProgressInterval sets how often progress is logged (0 disables it).
func (c *Client) WithProgressInterval(interval time.Duration) *Client {
	c.search.ProgressInterval = interval
	return c
}

// WithLogger sets the logger used for the run.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
	return c
}

// Crack searches for the secret that signed token.
//
// Args:
//   - ctx: Context for cancellation.
//   - token: A JWS compact token (or any "payload.signature" string).
//
// Returns:
//   - Outcome with StatusFound or StatusExhausted.
//   - An error wrapping ErrInvalidFormat if the token cannot be parsed; in
//     that case no candidate is generated.
//   - A *SearchError or context error if the search was aborted.
func (c *Client) Crack(ctx context.Context, token string) (*Outcome, error) {
	material, err := Parse(token)
	if err != nil {
		return nil, err
	}

	logger := c.logger.With(zap.String("run_id", uuid.NewString()))

	if alg, ok := DescribeHeader(token); ok && alg != "HS256" {
		logger.Warn("token header does not declare HS256", zap.String("alg", alg))
	}

	oracle := NewOracle(material)
	if got, ok := oracle.SignatureSize(); !ok {
		logger.Warn("signature length does not match HMAC-SHA256, no candidate can match",
			zap.Int("bytes", got))
	}

	coordinator := NewCoordinator(c.search, logger)
	keyspace := "unbounded"
	if size := KeyspaceSize(c.alphabet.Size(), c.maxLength); size != nil {
		keyspace = humanize.BigComma(size)
	}
	logger.Info("starting search",
		zap.Int("alphabet_size", c.alphabet.Size()),
		zap.Int("max_length", c.maxLength),
		zap.String("keyspace", keyspace),
		zap.Int("workers", coordinator.Config().Workers),
		zap.Int("queue_capacity", coordinator.Config().QueueCapacity))

	outcome, err := coordinator.Search(ctx, NewEnumerator(c.alphabet, c.maxLength), oracle)
	if err != nil {
		return nil, fmt.Errorf("failed to crack token: %w", err)
	}
	return outcome, nil
}
