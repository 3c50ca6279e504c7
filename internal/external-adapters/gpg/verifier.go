// Package gpg provides detached signature verification for submission archives.
package gpg

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// armoredSignaturePrefix identifies ASCII-armored signatures
const armoredSignaturePrefix = "-----BEGIN PGP SIGNATURE---"

// maxSignatureSize caps a detached signature file (signatures are typically < 1KB)
const maxSignatureSize = 64 * 1024

// Verifier checks detached OpenPGP signatures against a local keyring
// using ProtonMail's maintained fork of golang.org/x/crypto/openpgp.
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier with an empty keyring
func NewVerifier() *Verifier {
	return &Verifier{
		keyring: make(openpgp.EntityList, 0),
	}
}

// NewVerifierFromKeyring creates a verifier holding the keys in keyPath
func NewVerifierFromKeyring(keyPath string) (*Verifier, error) {
	v := NewVerifier()
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		return nil, err
	}
	return v, nil
}

// ImportKeyFromFile imports keys from an armored or binary keyring file
func (v *Verifier) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is the user-supplied keyring
	f, err := os.Open(keyPath)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as binary
		if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("failed to reset file: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entities) == 0 {
		return fmt.Errorf("no keys found in file")
	}

	v.keyring = append(v.keyring, entities...)
	return nil
}

// VerifySignatureFromFile verifies a detached signature from a local file
func (v *Verifier) VerifySignatureFromFile(filePath, sigPath string) error {
	if len(v.keyring) == 0 {
		return errors.New("no GPG keys imported")
	}

	//nolint:gosec // G304: sigPath sits next to an archive from the input directory
	sigFile, err := os.Open(sigPath)
	if err != nil {
		return fmt.Errorf("failed to open signature file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer sigFile.Close()

	sigData, err := io.ReadAll(io.LimitReader(sigFile, maxSignatureSize+1))
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}
	if len(sigData) > maxSignatureSize {
		return fmt.Errorf("signature file too large: %s", sigPath)
	}
	if len(sigData) < 10 {
		return fmt.Errorf("signature file too small to be valid GPG signature")
	}

	//nolint:gosec // G304: filePath is an archive from the input directory
	dataFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer dataFile.Close()

	isArmored := len(sigData) >= len(armoredSignaturePrefix) &&
		string(sigData[:len(armoredSignaturePrefix)]) == armoredSignaturePrefix

	sig := &sigReader{data: sigData}
	var verifyErr error
	if isArmored {
		_, verifyErr = openpgp.CheckArmoredDetachedSignature(v.keyring, dataFile, sig, nil)
	} else {
		_, verifyErr = openpgp.CheckDetachedSignature(v.keyring, dataFile, sig, nil)
	}

	if verifyErr != nil {
		return fmt.Errorf("signature verification failed: %w", verifyErr)
	}

	return nil
}

// GetKeyringSize returns the number of keys in the keyring
func (v *Verifier) GetKeyringSize() int {
	return len(v.keyring)
}

// sigReader is a helper to read signature data
type sigReader struct {
	data []byte
	pos  int
}

func (r *sigReader) Read(p []byte) (n int, err error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}

	n = copy(p, r.data[r.pos:])
	r.pos += n

	if r.pos >= len(r.data) {
		return n, io.EOF
	}

	return n, nil
}
