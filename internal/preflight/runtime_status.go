package preflight

import (
	"context"
	"time"

	"papeterie/internal/config"
	"papeterie/internal/services/gpg"
)

// KeyLister is the part of the gpg client CheckSigningKey needs.
type KeyLister interface {
	HasSecretKey(ctx context.Context, keyID string) error
}

// CheckSigningKey verifies that the configured signing key is available. A
// nil lister uses a gpg client built from cfg.
func CheckSigningKey(ctx context.Context, cfg *config.Config, lister KeyLister) Result {
	const name = "Signing key"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if cfg.GPG.Key == "" {
		return Result{Name: name, Passed: true, Optional: true, Detail: "Not configured"}
	}
	if lister == nil {
		client, err := gpg.New(cfg.GPG.Binary, cfg.GPG.Homedir)
		if err != nil {
			return Result{Name: name, Detail: err.Error()}
		}
		lister = client
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := lister.HasSecretKey(checkCtx, cfg.GPG.Key); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: cfg.GPG.Key}
}
