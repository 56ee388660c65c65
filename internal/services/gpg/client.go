package gpg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"papeterie/internal/logging"
	"papeterie/internal/services"
)

// DefaultBinary is the gpg executable name.
const DefaultBinary = "gpg2"

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger routes gpg output to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "gpg")
	}
}

// Client wraps gpg CLI interactions.
type Client struct {
	binary  string
	homedir string
	exec    services.Executor
	logger  *slog.Logger
}

// New constructs a gpg client. An empty homedir lets gpg use its default.
func New(binary, homedir string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("gpg binary required")
	}
	client := &Client{
		binary:  binary,
		homedir: strings.TrimSpace(homedir),
		exec:    services.CommandExecutor{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Homedir returns the configured gpg home directory, empty for gpg's default.
func (c *Client) Homedir() string {
	return c.homedir
}

// SignFile clearsigns path with keyID and returns the path of the armored
// output, which gpg writes next to the input with an .asc suffix.
func (c *Client) SignFile(ctx context.Context, path, keyID string) (string, error) {
	if strings.TrimSpace(keyID) == "" {
		return "", services.Wrap(services.ErrConfiguration, "gpg", "sign", "key id required", nil)
	}
	args := c.baseArgs("--yes", "--armor", "--clearsign", "--local-user", keyID, path)
	if err := c.run(ctx, args); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "gpg", "sign", fmt.Sprintf("signing %s with key %s failed", path, keyID), err)
	}
	return path + ".asc", nil
}

// Verify checks the signature embedded in path.
func (c *Client) Verify(ctx context.Context, path string) error {
	if err := c.run(ctx, c.baseArgs("--verify", path)); err != nil {
		return services.Wrap(services.ErrExternalTool, "gpg", "verify", fmt.Sprintf("signature of %s could not be verified", path), err)
	}
	return nil
}

// HasSecretKey checks that keyID names a secret key in the keyring.
func (c *Client) HasSecretKey(ctx context.Context, keyID string) error {
	if strings.TrimSpace(keyID) == "" {
		return services.Wrap(services.ErrConfiguration, "gpg", "list keys", "key id required", nil)
	}
	if err := c.run(ctx, c.baseArgs("--batch", "--list-secret-keys", keyID)); err != nil {
		return services.Wrap(services.ErrConfiguration, "gpg", "list keys", fmt.Sprintf("no secret key %s", keyID), err)
	}
	return nil
}

func (c *Client) baseArgs(args ...string) []string {
	if c.homedir == "" {
		return args
	}
	return append([]string{"--homedir=" + c.homedir}, args...)
}

func (c *Client) run(ctx context.Context, args []string) error {
	c.logger.Info("running gpg", logging.String("binary", c.binary), logging.Strings("args", args))
	return c.exec.Run(ctx, c.binary, args, func(line string) {
		c.logger.Debug(line)
	})
}
