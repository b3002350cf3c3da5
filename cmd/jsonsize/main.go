package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	jsonsize "github.com/dariaag/json-size"
	"github.com/dariaag/json-size/source"
)

// errOverLimit is returned when at least one input is estimated above the
// --limit quota.
var errOverLimit = errors.New("input exceeds size limit")

type options struct {
	limit       string
	concurrency int
	retries     int
	timeout     time.Duration
	human       bool
	verbose     bool
}

func main() {
	err := run(os.Args, os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errOverLimit):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := loadEnvFile(); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}

	var opts options

	app := cli.NewApp()
	app.Name = "jsonsize"
	app.Usage = "Estimate the in-memory size of JSON documents"
	app.ArgsUsage = "INPUT... (file path, http(s) URL, or - for stdin)"
	app.Writer = stdout
	app.ErrWriter = stderr

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "limit",
			Usage:       "Fail when an input is estimated above this size, e.g. 64KB",
			EnvVar:      "JSONSIZE_LIMIT",
			Destination: &opts.limit,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of inputs processed in parallel",
			EnvVar:      "JSONSIZE_CONCURRENCY",
			Value:       4,
			Destination: &opts.concurrency,
		},
		&cli.IntFlag{
			Name:        "retries",
			Usage:       "Retries for failed HTTP fetches",
			EnvVar:      "JSONSIZE_RETRIES",
			Value:       source.DefaultMaxRetries,
			Destination: &opts.retries,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout of a single HTTP fetch",
			EnvVar:      "JSONSIZE_TIMEOUT",
			Value:       source.DefaultTimeout,
			Destination: &opts.timeout,
		},
		&cli.BoolFlag{
			Name:        "human",
			Usage:       "Print sizes in human-readable units",
			EnvVar:      "JSONSIZE_HUMAN",
			Destination: &opts.human,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "Enable debug logging",
			EnvVar:      "JSONSIZE_VERBOSE",
			Destination: &opts.verbose,
		},
	}

	app.Action = func(c *cli.Context) error {
		inputs := []string(c.Args())
		if len(inputs) == 0 {
			return errors.New("no inputs given, use - to read standard input")
		}
		return estimate(context.Background(), inputs, opts, stdin, stdout, stderr)
	}

	return app.Run(args)
}

type result struct {
	size int
	err  error
}

func estimate(ctx context.Context, inputs []string, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	var limit datasize.ByteSize
	if opts.limit != "" {
		if err := limit.UnmarshalText([]byte(opts.limit)); err != nil {
			return fmt.Errorf("invalid limit %q: %w", opts.limit, err)
		}
	}

	logger := jsonsize.StdLogger(log.New(stderr, "jsonsize ", log.LstdFlags), opts.verbose)

	loader, err := source.New(source.Config{
		Timeout:    opts.timeout,
		MaxRetries: source.Ptr(opts.retries),
		Stdin:      stdin,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	results := make([]result, len(inputs))
	exec := newExecutor(opts.concurrency)
	for i, name := range inputs {
		i, name := i, name
		ok := exec.do(ctx, func() {
			v, err := loader.Load(ctx, name)
			if err != nil {
				results[i].err = err
				return
			}
			results[i].size = jsonsize.SizeOf(v)
			logger.Debugf("%s: %s value, %d bytes", name, v.Kind(), results[i].size)
		})
		if !ok {
			results[i].err = ctx.Err()
		}
	}
	exec.close()

	var failed, over int
	for i, r := range results {
		if r.err != nil {
			logger.Errorf("%s", r.err)
			failed++
			continue
		}

		fmt.Fprintf(stdout, "%s\t%s\n", formatSize(r.size, opts.human), inputs[i])

		if limit > 0 && uint64(r.size) > limit.Bytes() {
			logger.Warnf("%s: %d bytes is above the limit of %d", inputs[i], r.size, limit.Bytes())
			over++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(inputs))
	}
	if over > 0 {
		return fmt.Errorf("%w: %d of %d inputs above %s", errOverLimit, over, len(inputs), humanize.IBytes(limit.Bytes()))
	}
	return nil
}

func formatSize(size int, human bool) string {
	if human {
		return humanize.IBytes(uint64(size))
	}
	return strconv.Itoa(size)
}
