package commands_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/fcrypt/internal/commands"
	"github.com/idelchi/fcrypt/internal/config"
	"github.com/idelchi/fcrypt/internal/dispatch"
	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/envelope"
	"github.com/idelchi/fcrypt/internal/kdf"
	"github.com/idelchi/fcrypt/internal/logic"
)

// fakeTerminal answers password prompts from a fixed list.
type fakeTerminal struct {
	tty     bool
	answers []string
}

func (f *fakeTerminal) IsTerminal() bool {
	return f.tty
}

func (f *fakeTerminal) ReadPassword() ([]byte, error) {
	if len(f.answers) == 0 {
		return nil, errors.New("no more answers")
	}

	answer := f.answers[0]
	f.answers = f.answers[1:]

	return []byte(answer), nil
}

type output struct {
	stdout, stderr string
}

func run(t *testing.T, terminal commands.Terminal, args ...string) (output, error) {
	t.Helper()

	options := logic.Options{
		Dispatch: []dispatch.Option{
			dispatch.WithKDF(kdf.Params{Function: kdf.Argon2id, Cost: 1, Memory: 64, Parallelism: 1}),
		},
	}

	if terminal == nil {
		terminal = &fakeTerminal{}
	}

	var stdout, stderr bytes.Buffer

	root := commands.NewRootCommand("test", options, terminal)
	root.SetArgs(append([]string{}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return output{stdout: stdout.String(), stderr: stderr.String()}, err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := writeFile(t, dir, "plain.txt", "hello")
	sealed := filepath.Join(dir, "plain.fcr")
	opened := filepath.Join(dir, "opened.txt")

	out, err := run(t, nil, "encrypt", "-i", plain, "-o", sealed, "-p", "correct-horse", "-a", "aes256", "-m", "gcm")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if !strings.Contains(out.stderr, "Encrypted") {
		t.Errorf("encrypt logged %q, want a summary", out.stderr)
	}

	if _, err := run(t, nil, "decrypt", "-i", sealed, "-o", opened, "-p", "correct-horse"); err != nil {
		t.Fatalf("decrypt: %v", err)
	}

	got, err := os.ReadFile(opened)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "hello" {
		t.Errorf("decrypted %q, want %q", got, "hello")
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := writeFile(t, dir, "plain.txt", "hello")
	sealed := filepath.Join(dir, "plain.fcr")
	opened := filepath.Join(dir, "opened.txt")

	if _, err := run(t, nil, "encrypt", "-i", plain, "-o", sealed, "-p", "correct-horse"); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, nil, "decrypt", "-i", sealed, "-o", opened, "-p", "wrong-horse")
	if !errors.Is(err, encryption.ErrAuthenticationFailed) {
		t.Fatalf("decrypt error = %v, want %v", err, encryption.ErrAuthenticationFailed)
	}

	if msg := commands.Describe(err); !strings.Contains(msg, "wrong password") {
		t.Errorf("Describe() = %q, want a wrong password hint", msg)
	}

	if _, err := os.Stat(opened); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output written after failed decryption: %v", err)
	}
}

func TestEncryptModeOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{args: nil, want: encryption.DefaultName},
		{args: []string{"-m", "cbc"}, want: "aes256-cbc"},
		{args: []string{"-m", "siv"}, want: "aes256-siv"},
		{args: []string{"-a", "chacha20"}, want: "chacha20-poly1305"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			plain := writeFile(t, dir, "plain.txt", "hello")
			sealed := filepath.Join(dir, "plain.fcr")

			args := append([]string{"encrypt", "-i", plain, "-o", sealed, "-p", "pw"}, tc.args...)
			if _, err := run(t, nil, args...); err != nil {
				t.Fatalf("encrypt %v: %v", tc.args, err)
			}

			data, err := os.ReadFile(sealed)
			if err != nil {
				t.Fatal(err)
			}

			container, err := envelope.Decode(data)
			if err != nil {
				t.Fatal(err)
			}

			desc, err := container.Descriptor()
			if err != nil {
				t.Fatal(err)
			}

			if desc.Name != tc.want {
				t.Errorf("encrypt %v used %q, want %q", tc.args, desc.Name, tc.want)
			}
		})
	}
}

func TestEncryptFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := writeFile(t, dir, "plain.txt", "hello")
	sealed := filepath.Join(dir, "plain.fcr")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "missing password without terminal",
			args: []string{"encrypt", "-i", plain, "-o", sealed},
			want: config.ErrInvalidConfig,
		},
		{
			name: "missing output",
			args: []string{"encrypt", "-i", plain, "-p", "pw"},
			want: config.ErrInvalidConfig,
		},
		{
			name: "unknown kdf",
			args: []string{"encrypt", "-i", plain, "-o", sealed, "-p", "pw", "--kdf", "md5"},
			want: config.ErrInvalidConfig,
		},
		{
			name: "unknown algorithm",
			args: []string{"encrypt", "-i", plain, "-o", sealed, "-p", "pw", "-a", "rot13"},
			want: encryption.ErrUnknownAlgorithm,
		},
		{
			name: "unsupported mode",
			args: []string{"encrypt", "-i", plain, "-o", sealed, "-p", "pw", "-a", "aes256", "-m", "ecb"},
			want: encryption.ErrInvalidParameters,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := run(t, nil, tc.args...); !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}

			if _, err := os.Stat(sealed); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("output written by a failed run: %v", err)
			}
		})
	}
}

func TestPasswordPrompt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := writeFile(t, dir, "plain.txt", "prompted")
	sealed := filepath.Join(dir, "plain.fcr")

	_, err := run(t, &fakeTerminal{tty: true, answers: []string{"one", "two"}}, "encrypt", "-i", plain, "-o", sealed)
	if !errors.Is(err, commands.ErrPasswordMismatch) {
		t.Fatalf("mismatched confirmation error = %v, want %v", err, commands.ErrPasswordMismatch)
	}

	out, err := run(t, &fakeTerminal{tty: true, answers: []string{"same", "same"}}, "encrypt", "-i", plain, "-o", sealed)
	if err != nil {
		t.Fatalf("encrypt with prompted password: %v", err)
	}

	if !strings.Contains(out.stderr, "Confirm password: ") {
		t.Errorf("stderr = %q, want a confirmation prompt", out.stderr)
	}

	if _, err := run(t, &fakeTerminal{tty: true, answers: []string{"same"}}, "verify", sealed); err != nil {
		t.Errorf("verify with prompted password: %v", err)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var sealed []string

	for _, name := range []string{"a", "b"} {
		plain := writeFile(t, dir, name+".txt", "content of "+name)
		out := filepath.Join(dir, name+".fcr")

		if _, err := run(t, nil, "encrypt", "-i", plain, "-o", out, "-p", "pw", "-a", "xchacha20"); err != nil {
			t.Fatal(err)
		}

		sealed = append(sealed, out)
	}

	out, err := run(t, nil, append([]string{"verify", "-p", "pw", "-j", "2"}, sealed...)...)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	for _, file := range sealed {
		if !strings.Contains(out.stdout, "OK   "+file) {
			t.Errorf("stdout = %q, want OK for %s", out.stdout, file)
		}
	}

	bogus := writeFile(t, dir, "bogus.fcr", "not a container")

	out, err = run(t, nil, "verify", "-p", "pw", sealed[0], bogus)
	if !errors.Is(err, logic.ErrVerificationFailed) {
		t.Fatalf("verify error = %v, want %v", err, logic.ErrVerificationFailed)
	}

	if !strings.Contains(out.stderr, "FAIL "+bogus) {
		t.Errorf("stderr = %q, want a failure for %s", out.stderr, bogus)
	}

	if !strings.Contains(out.stdout, "OK   "+sealed[0]) {
		t.Errorf("stdout = %q, want OK for %s", out.stdout, sealed[0])
	}
}

func TestShowConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sealed := filepath.Join(dir, "never.fcr")

	out, err := run(t, nil, "encrypt", "--show", "-i", "in.txt", "-o", sealed, "-p", "secret")
	if err != nil {
		t.Fatalf("encrypt --show: %v", err)
	}

	if strings.Contains(out.stdout, "secret") || !strings.Contains(out.stdout, "in.txt") {
		t.Errorf("stdout = %q, want the configuration with a masked password", out.stdout)
	}

	if _, err := os.Stat(sealed); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("--show wrote output: %v", err)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	t.Parallel()

	_, err := run(t, nil, "encrpyt")
	if err == nil {
		t.Fatal("unknown subcommand succeeded")
	}

	for _, want := range []string{`unknown subcommand "encrpyt"`, "Did you mean this?", "encrypt"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error = %q, want it to contain %q", err, want)
		}
	}

	out, err := run(t, nil)
	if err != nil {
		t.Fatalf("no subcommand: %v", err)
	}

	if !strings.Contains(out.stdout, "Available Commands:") {
		t.Errorf("stdout = %q, want the help text", out.stdout)
	}
}

func TestAlgorithms(t *testing.T) {
	t.Parallel()

	out, err := run(t, nil, "algorithms")
	if err != nil {
		t.Fatal(err)
	}

	for _, desc := range encryption.Descriptors() {
		if !strings.Contains(out.stdout, desc.Name) {
			t.Errorf("algorithms output is missing %s:\n%s", desc.Name, out.stdout)
		}
	}
}

func TestBenchmark(t *testing.T) {
	t.Parallel()

	out, err := run(t, nil, "benchmark", "--size", "4KiB", "-a", "aes256-gcm", "-a", "chacha20", "--kdf", "scrypt")
	if err != nil {
		t.Fatalf("benchmark: %v", err)
	}

	for _, want := range []string{"aes256-gcm", "chacha20-poly1305", "4.0 KiB", "Key derivation: scrypt"} {
		if !strings.Contains(out.stdout, want) {
			t.Errorf("benchmark output is missing %q:\n%s", want, out.stdout)
		}
	}

	if _, err := run(t, nil, "benchmark", "--size", "lots"); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("benchmark with a bad size error = %v, want %v", err, config.ErrInvalidConfig)
	}
}
