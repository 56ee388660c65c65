package gpg_test

import (
	"context"
	"errors"
	"os"
	"slices"
	"strings"
	"testing"

	"papeterie/internal/services"
	"papeterie/internal/services/gpg"
)

type stubExecutor struct {
	calls  [][]string
	signed string
	err    error
	// failVerify makes --verify calls fail.
	failVerify bool
	// knownKeys lists the secret keys --list-secret-keys finds.
	knownKeys []string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.calls = append(s.calls, append([]string(nil), args...))
	if s.err != nil {
		return s.err
	}
	if slices.Contains(args, "--list-secret-keys") {
		if !slices.Contains(s.knownKeys, args[len(args)-1]) {
			return errors.New("exit status 2")
		}
		return nil
	}
	if slices.Contains(args, "--verify") {
		if s.failVerify {
			return errors.New("BAD signature")
		}
		return nil
	}
	input := args[len(args)-1]
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	s.signed = string(data)
	armored := "-----BEGIN PGP SIGNED MESSAGE-----\n\n" + string(data) + "\n-----BEGIN PGP SIGNATURE-----\n"
	return os.WriteFile(input+".asc", []byte(armored), 0o644)
}

func newSigner(t *testing.T, exec *stubExecutor, opts ...gpg.SignerOption) (*gpg.Signer, string) {
	t.Helper()
	client, err := gpg.New("gpg2", "/tmp/gnupg-test", gpg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	dir := t.TempDir()
	signer, err := gpg.NewSigner(client, "ABCDEF12", dir, opts...)
	if err != nil {
		t.Fatalf("NewSigner returned error: %v", err)
	}
	return signer, dir
}

func TestSignWrapsAndClearsigns(t *testing.T) {
	exec := &stubExecutor{}
	signer, dir := newSigner(t, exec)
	text := strings.Repeat("word ", 40)

	signed, err := signer.Sign(context.Background(), text)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	if !strings.HasPrefix(signed, "-----BEGIN PGP SIGNED MESSAGE-----") {
		t.Fatalf("unexpected signed output %q", signed)
	}
	for _, line := range strings.Split(exec.signed, "\n") {
		if len(line) > gpg.SignatureWidth {
			t.Fatalf("line exceeds signature width: %q", line)
		}
	}

	want := []string{"--homedir=/tmp/gnupg-test", "--yes", "--armor", "--clearsign", "--local-user", "ABCDEF12"}
	if len(exec.calls) != 1 || !slices.Equal(exec.calls[0][:len(want)], want) {
		t.Fatalf("unexpected gpg invocation: %v", exec.calls)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected signing files to be removed, found %d", len(entries))
	}
}

func TestSignPropagatesToolFailure(t *testing.T) {
	signer, _ := newSigner(t, &stubExecutor{err: errors.New("exit status 2")})
	if _, err := signer.Sign(context.Background(), "text"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestSignVerifiesWhenRequested(t *testing.T) {
	exec := &stubExecutor{failVerify: true}
	signer, _ := newSigner(t, exec, gpg.WithVerification(true))
	if _, err := signer.Sign(context.Background(), "text"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected verification failure, got %v", err)
	}
	if len(exec.calls) != 2 {
		t.Fatalf("expected sign and verify calls, got %v", exec.calls)
	}
}

func TestNewSignerRequiresKey(t *testing.T) {
	client, _ := gpg.New("gpg2", "")
	if _, err := gpg.NewSigner(client, " ", t.TempDir()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestWrapKeepsLineBreaks(t *testing.T) {
	got := gpg.Wrap("short\n" + strings.Repeat("a ", 40))
	lines := strings.Split(got, "\n")
	if lines[0] != "short" {
		t.Fatalf("expected first line preserved, got %q", lines[0])
	}
	if len(lines) < 3 {
		t.Fatalf("expected long line to be wrapped, got %q", got)
	}
}

func TestWrapSplitsWordsLongerThanWidth(t *testing.T) {
	url := "https://example.org/" + strings.Repeat("x", 90)
	got := gpg.Wrap("See " + url + " for details")
	for _, line := range strings.Split(got, "\n") {
		if width := len([]rune(line)); width > gpg.SignatureWidth {
			t.Fatalf("line of %d columns survives wrapping: %q", width, line)
		}
	}
	if joined := strings.ReplaceAll(got, "\n", ""); !strings.Contains(joined, url) {
		t.Fatalf("expected the long word to be kept in order, got %q", got)
	}
}

func TestHomedirOmittedWhenEmpty(t *testing.T) {
	exec := &stubExecutor{}
	client, _ := gpg.New("gpg", "", gpg.WithExecutor(exec))
	if err := client.Verify(context.Background(), "file.asc"); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !slices.Equal(exec.calls[0], []string{"--verify", "file.asc"}) {
		t.Fatalf("unexpected args %v", exec.calls[0])
	}
}

func TestHasSecretKey(t *testing.T) {
	exec := &stubExecutor{knownKeys: []string{"ABCDEF12"}}
	client, _ := gpg.New("gpg2", "/tmp/gnupg-test", gpg.WithExecutor(exec))

	if err := client.HasSecretKey(context.Background(), "ABCDEF12"); err != nil {
		t.Fatalf("HasSecretKey returned error: %v", err)
	}
	want := []string{"--homedir=/tmp/gnupg-test", "--batch", "--list-secret-keys", "ABCDEF12"}
	if !slices.Equal(exec.calls[0], want) {
		t.Fatalf("unexpected args %v", exec.calls[0])
	}
	if err := client.HasSecretKey(context.Background(), "UNKNOWN"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown key, got %v", err)
	}
	if err := client.HasSecretKey(context.Background(), " "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for empty key, got %v", err)
	}
}
