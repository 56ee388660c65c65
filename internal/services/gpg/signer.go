package gpg

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/muesli/reflow/wrap"

	"papeterie/internal/services"
)

// SignatureWidth is the column width text is wrapped to before signing.
const SignatureWidth = 64

// Signer clearsigns text with one key, staging files in a working directory.
type Signer struct {
	client *Client
	keyID  string
	dir    string
	verify bool
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithVerification makes the signer check every signature it produces.
func WithVerification(enabled bool) SignerOption {
	return func(s *Signer) {
		s.verify = enabled
	}
}

// NewSigner returns a Signer using keyID and writing temporary files to dir.
func NewSigner(client *Client, keyID, dir string, opts ...SignerOption) (*Signer, error) {
	if client == nil {
		return nil, services.Wrap(services.ErrConfiguration, "gpg", "signer", "client required", nil)
	}
	keyID = strings.TrimSpace(keyID)
	if keyID == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gpg", "signer", "key id required", nil)
	}
	signer := &Signer{client: client, keyID: keyID, dir: dir}
	for _, opt := range opts {
		opt(signer)
	}
	return signer, nil
}

// Wrap breaks text at SignatureWidth columns, keeping existing line breaks.
// Lines break at whitespace first; words longer than the width are split.
func Wrap(text string) string {
	return wrap.String(wordwrap.WrapString(text, SignatureWidth), SignatureWidth)
}

// Sign returns the clearsigned form of text.
func (s *Signer) Sign(ctx context.Context, text string) (string, error) {
	file, err := os.CreateTemp(s.dir, "sign-*.txt")
	if err != nil {
		return "", fmt.Errorf("create signing input: %w", err)
	}
	inPath := file.Name()
	if _, err := file.WriteString(Wrap(text)); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write signing input: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close signing input: %w", err)
	}
	defer os.Remove(inPath)

	outPath, err := s.client.SignFile(ctx, inPath, s.keyID)
	if err != nil {
		return "", err
	}
	defer os.Remove(outPath)

	if s.verify {
		if err := s.client.Verify(ctx, outPath); err != nil {
			return "", err
		}
	}

	signed, err := os.ReadFile(outPath)
	if err != nil {
		return "", services.Wrap(services.ErrArtifactMissing, "gpg", "sign", "read signed output", err)
	}
	return string(signed), nil
}
