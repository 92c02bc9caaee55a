package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"booth-go/internal/booth"
)

var fakeMagic = []byte("BOOTHFAKE\n")

// ErrNotSealed is returned when data was not produced by FakeEncryptor.
var ErrNotSealed = errors.New("data is not fake-sealed")

// FakeEncryptor is a reversible stand-in for AgeEncryptor. It frames the
// data with a marker so sealed output never equals the plaintext. Selected
// with originals.type = "test".
type FakeEncryptor struct {
	Passphrase string
}

func NewFakeEncryptor() *FakeEncryptor {
	return &FakeEncryptor{}
}

func (e *FakeEncryptor) Setup(passphrase string) error {
	e.Passphrase = passphrase
	return nil
}

func (e *FakeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(fakeMagic); err != nil {
		return fmt.Errorf("writing marker: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

// Unlock succeeds for any passphrase unless Setup recorded one, in which case
// it must match.
func (e *FakeEncryptor) Unlock(passphrase string) (booth.DecryptionContext, error) {
	if e.Passphrase != "" && passphrase != e.Passphrase {
		return nil, fmt.Errorf("wrong passphrase")
	}
	return fakeDecryptor{}, nil
}

func (e *FakeEncryptor) IsConfigured() bool { return true }

type fakeDecryptor struct{}

func (fakeDecryptor) Decrypt(r io.Reader, w io.Writer) error {
	marker := make([]byte, len(fakeMagic))
	if _, err := io.ReadFull(r, marker); err != nil || !bytes.Equal(marker, fakeMagic) {
		return ErrNotSealed
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

var _ booth.Encryptor = (*FakeEncryptor)(nil)
