package encryption

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"booth-go/internal/config"
)

func newTestAgeEncryptor(t *testing.T) *AgeEncryptor {
	t.Helper()
	dir := t.TempDir()
	return NewAgeEncryptor(config.OriginalsConfig{
		PublicKeyPath:  filepath.Join(dir, "keys", "booth.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "booth.key"),
	})
}

func TestAgeEncryptor_Setup(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)

	if e.IsConfigured() {
		t.Fatal("IsConfigured() = true before Setup")
	}
	if err := e.Setup("correct horse"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false after Setup")
	}

	info, err := os.Stat(e.identityPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("private key perm = %o, want 600", perm)
	}
}

func TestAgeEncryptor_SetupRefusesOverwrite(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)

	if err := e.Setup("first"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	pub, _ := os.ReadFile(e.recipientPath)

	if err := e.Setup("second"); !errors.Is(err, ErrKeysExist) {
		t.Errorf("second Setup() error = %v, want ErrKeysExist", err)
	}
	after, _ := os.ReadFile(e.recipientPath)
	if !bytes.Equal(pub, after) {
		t.Error("public key replaced by second Setup")
	}
}

func TestAgeEncryptor_EmptyPassphrase(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)

	if err := e.Setup(""); !errors.Is(err, ErrEmptyPassphrase) {
		t.Errorf("Setup(\"\") error = %v, want ErrEmptyPassphrase", err)
	}
	if _, err := e.Unlock(""); !errors.Is(err, ErrEmptyPassphrase) {
		t.Errorf("Unlock(\"\") error = %v, want ErrEmptyPassphrase", err)
	}
}

func TestAgeEncryptor_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "jpeg header", input: []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}},
		{name: "empty", input: []byte{}},
		{name: "large", input: bytes.Repeat([]byte("photo"), 20000)},
	}

	e := newTestAgeEncryptor(t)
	if err := e.Setup("booth-pass"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	dc, err := e.Unlock("booth-pass")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sealed bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &sealed); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(tt.input) > 0 && bytes.Contains(sealed.Bytes(), tt.input) {
				t.Error("ciphertext contains plaintext")
			}

			var plain bytes.Buffer
			if err := dc.Decrypt(&sealed, &plain); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(plain.Bytes(), tt.input) {
				t.Error("round trip mismatch")
			}
		})
	}
}

func TestAgeEncryptor_WrongPassphrase(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)
	if err := e.Setup("right"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if _, err := e.Unlock("wrong"); err == nil {
		t.Error("Unlock() with wrong passphrase succeeded")
	}
}

func TestAgeEncryptor_EncryptWithoutKeys(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)

	var out bytes.Buffer
	if err := e.Encrypt(bytes.NewReader([]byte("x")), &out); err == nil {
		t.Error("Encrypt() without keys succeeded")
	}
}
