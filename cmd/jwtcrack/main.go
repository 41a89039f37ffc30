package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/jwtcrack/internal/config"
	"github.com/mahdiidarabi/jwtcrack/internal/logging"
	"github.com/mahdiidarabi/jwtcrack/pkg/jwtcrack"
)

// Process exit codes.
const (
	exitFound        = 0
	exitExhausted    = 1
	exitInvalidInput = 2
	exitInternal     = 3
	exitInterrupted  = 130
)

// exitError carries the exit code for a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type options struct {
	configPath       string
	saveConfigPath   string
	maxLength        int
	alphabet         string
	workers          int
	queueCapacity    int
	progressInterval time.Duration
	logFormat        string
	verbose          bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command and maps its result to a process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := exitFound
	cmd := newRootCmd(&code)
	if args == nil {
		// cobra falls back to os.Args on a nil slice
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		// Flag and argument errors from cobra.
		return exitInvalidInput
	}
	return code
}

func newRootCmd(code *int) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "jwtcrack [flags] <token>",
		Short: "Brute force the secret of an HS256 JWT",
		Long: `jwtcrack recovers weak HMAC-SHA256 secrets by trying every string over an
alphabet, shortest first, until one reproduces the token's signature.

Exit codes: 0 found, 1 exhausted, 2 invalid input, 3 internal error, 130 interrupted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := run(cmd, args[0], opts)
			*code = c
			if err != nil {
				return &exitError{code: c, err: err}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&opts.saveConfigPath, "save-config", "", "write the effective configuration to this YAML file before searching")
	flags.IntVarP(&opts.maxLength, "max-length", "l", jwtcrack.DefaultMaxLength, "the maximum number of characters")
	flags.StringVarP(&opts.alphabet, "alphabet", "a", jwtcrack.DefaultAlphabet, "the alphabet to use")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "number of parallel verifiers (0 = number of CPUs)")
	flags.IntVarP(&opts.queueCapacity, "queue-capacity", "q", 0, "candidate queue bound (0 = 4 per worker)")
	flags.DurationVar(&opts.progressInterval, "progress", 5*time.Second, "progress log interval (0 disables)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log encoding: console or json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

// run performs one crack and returns the exit code together with any error.
func run(cmd *cobra.Command, token string, opts *options) (int, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return exitInvalidInput, err
	}

	if opts.saveConfigPath != "" {
		if err := cfg.Save(opts.saveConfigPath); err != nil {
			return exitInternal, err
		}
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: opts.verbose,
	})
	if err != nil {
		return exitInvalidInput, err
	}
	defer func() { _ = logger.Sync() }()

	client := jwtcrack.NewClient().
		WithAlphabet(cfg.Alphabet).
		WithMaxLength(cfg.MaxLength).
		WithSearchConfig(cfg.SearchConfig()).
		WithLogger(logger)

	outcome, err := client.Crack(cmd.Context(), token)
	switch {
	case errors.Is(err, jwtcrack.ErrInvalidFormat):
		return exitInvalidInput, err
	case errors.Is(err, context.Canceled):
		return exitInterrupted, err
	case err != nil:
		return exitInternal, err
	}

	if outcome.Status == jwtcrack.StatusFound {
		fmt.Fprintf(cmd.OutOrStdout(), "Key is %s\n", outcome.Secret)
		return exitFound, nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "No secret found within %d characters (%d candidates tested)\n",
		cfg.MaxLength, outcome.Tested)
	return exitExhausted, nil
}

// loadConfig merges defaults, the config file, the environment and any flag
// the user set explicitly, in that order.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-length") {
		cfg.MaxLength = opts.maxLength
	}
	if flags.Changed("alphabet") {
		cfg.Alphabet = opts.alphabet
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("queue-capacity") {
		cfg.QueueCapacity = opts.queueCapacity
	}
	if flags.Changed("progress") {
		cfg.ProgressInterval = opts.progressInterval
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
