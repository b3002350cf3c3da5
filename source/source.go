// Package source reads JSON documents from files, standard input or HTTP
// endpoints so their size can be estimated.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	jsonsize "github.com/dariaag/json-size"
)

// Stdin is the input name that reads from the loader's standard input.
const Stdin = "-"

const (
	DefaultMaxRetries = 3
	DefaultTimeout    = 30 * time.Second

	maxRetriesLimit = 9
)

// Config configures a Loader. The zero value is valid.
type Config struct {
	// Transport used for HTTP inputs. Defaults to http.DefaultTransport.
	Transport http.RoundTripper

	// Timeout for a single HTTP attempt. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Number of retries after a failed HTTP attempt, in [0,9]. Nil means
	// DefaultMaxRetries.
	MaxRetries *int

	// RetryAfter returns the delay before retry number attempt. Defaults to
	// DefaultBackoff().Duration.
	RetryAfter func(attempt int) time.Duration

	// Stdin is read for the "-" input. Defaults to os.Stdin.
	Stdin io.Reader

	Logger jsonsize.Logger
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return jsonsize.ConfigError{
			Reason: "negative timeout",
			Field:  "Timeout",
			Value:  c.Timeout,
		}
	}

	if c.MaxRetries != nil && (*c.MaxRetries < 0 || *c.MaxRetries > maxRetriesLimit) {
		return jsonsize.ConfigError{
			Reason: fmt.Sprintf("max retries out of range [0,%d]", maxRetriesLimit),
			Field:  "MaxRetries",
			Value:  *c.MaxRetries,
		}
	}

	return nil
}

func makeConfig(c Config) Config {
	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.RetryAfter == nil {
		c.RetryAfter = DefaultBackoff().Duration
	}

	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}

	if c.Logger == nil {
		c.Logger = jsonsize.DefaultLogger(false)
	}

	return c
}

// Loader reads JSON inputs by name.
type Loader struct {
	config      Config
	http        http.Client
	maxAttempts int
}

// New returns a Loader configured by config, or an error if config is
// invalid.
func New(config Config) (*Loader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	maxRetries := DefaultMaxRetries
	if config.MaxRetries != nil {
		maxRetries = *config.MaxRetries
	}
	config = makeConfig(config)

	return &Loader{
		config:      config,
		http:        http.Client{Transport: config.Transport},
		maxAttempts: maxRetries + 1,
	}, nil
}

// Load reads the named input and parses it.
func (l *Loader) Load(ctx context.Context, name string) (jsonsize.Value, error) {
	data, err := l.Read(ctx, name)
	if err != nil {
		return jsonsize.Value{}, err
	}

	v, err := jsonsize.Parse(data)
	if err != nil {
		return jsonsize.Value{}, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// Read returns the raw bytes of the named input: "-" is standard input,
// http:// and https:// names are fetched, anything else is a file path.
func (l *Loader) Read(ctx context.Context, name string) ([]byte, error) {
	switch {
	case name == Stdin:
		data, err := io.ReadAll(l.config.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	case isURL(name):
		return l.fetch(ctx, name)
	default:
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		return data, nil
	}
}

func isURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// StatusError is returned for HTTP responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// temporary reports whether a retry may succeed.
func (e *StatusError) temporary() bool {
	return e.StatusCode >= 500
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	var err error
	for i := 0; i < l.maxAttempts; i++ {
		var data []byte
		if data, err = l.get(ctx, url); err == nil {
			return data, nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.temporary() {
			return nil, err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetching %s: %w", url, ctx.Err())
		}

		if i == l.maxAttempts-1 {
			break
		}

		delay := l.config.RetryAfter(i)
		if delay < 0 {
			break
		}
		l.config.Logger.Debugf("retrying %s in %s after attempt %d: %s", url, delay, i+1, err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("fetching %s: %w", url, ctx.Err())
		}
	}

	l.config.Logger.Errorf("giving up on %s: %s", url, err)
	return nil, err
}

func (l *Loader) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	res, err := l.http.Do(req)
	if err != nil {
		l.config.Logger.Warnf("sending request - %s", err)
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, &StatusError{URL: url, StatusCode: res.StatusCode}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return data, nil
}

// Ptr returns a pointer to v, for optional config fields such as
// Config.MaxRetries.
func Ptr[T any](v T) *T {
	return &v
}
