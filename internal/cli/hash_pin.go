package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/daybloom/internal/security"
)

const generatedPINAlphabet = "0123456789"

const generatedPINLength = 6

var errPINMismatch = errors.New("pins do not match")

// RunHashPINCommand prints the LOCK_PIN_HASH value for a PIN read from the
// terminal without echo. With generate set a random six digit PIN is used
// and printed once.
func RunHashPINCommand(stdin *os.File, stdout io.Writer, generate bool) error {
	var pin string
	if generate {
		generated, err := generatePIN()
		if err != nil {
			return fmt.Errorf("generate pin: %w", err)
		}
		pin = generated
	} else {
		read, err := promptPIN(stdout, func() ([]byte, error) { return readPINNoEcho(stdin) })
		if err != nil {
			return err
		}
		pin = read
	}

	hash, err := security.HashPIN(pin)
	if err != nil {
		return err
	}

	if generate {
		fmt.Fprintf(stdout, "PIN: %s\n", pin)
	}
	fmt.Fprintf(stdout, "LOCK_PIN_HASH=%s\n", hash)
	return nil
}

func promptPIN(stdout io.Writer, read func() ([]byte, error)) (string, error) {
	fmt.Fprint(stdout, "PIN: ")
	first, err := read()
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("read pin: %w", err)
	}
	if err := security.ValidatePIN(string(first)); err != nil {
		return "", err
	}

	fmt.Fprint(stdout, "Repeat PIN: ")
	second, err := read()
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("read pin: %w", err)
	}
	if string(first) != string(second) {
		return "", errPINMismatch
	}
	return string(first), nil
}

func generatePIN() (string, error) {
	return security.RandomString(generatedPINLength, generatedPINAlphabet)
}
