// Command keygen generates the RSA key pair used for token signing and
// writes it as PEM files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/portcullis-auth/portcullis/internal/token"
)

func main() {
	var (
		outDir = flag.String("out", "certs", "directory to write private.pem and public.pem into")
		bits   = flag.Int("bits", 2048, "RSA key size in bits")
	)
	flag.Parse()

	if err := run(*outDir, *bits); err != nil {
		fmt.Fprintln(os.Stderr, "keygen:", err)
		os.Exit(1)
	}
}

func run(outDir string, bits int) error {
	keys, err := token.GenerateKeyPair(bits)
	if err != nil {
		return err
	}

	privPEM, pubPEM, err := keys.EncodePEM()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	privPath := filepath.Join(outDir, "private.pem")
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}

	pubPath := filepath.Join(outDir, "public.pem")
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	fmt.Printf("wrote %s and %s (%d bits)\n", privPath, pubPath, bits)
	return nil
}
