// Package circuits manages the identity verifier circuit artifacts: the
// compiled circom circuit, the Groth16 proving key and the verification key.
// Artifacts are versioned and read-only; they are cached locally by their
// sha256 hash and downloaded from the pinned remote URL when missing.
package circuits

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/zkidlabs/stellar-zkid/log"
)

// CheckHashes determines if the hashes of the artifacts are verified when
// loaded or downloaded. It can be disabled by setting the ZKID_CHECK_HASHES
// environment variable to false or 0.
var CheckHashes = true

// BaseDir is the path of the local artifact cache. Defaults to the
// ZKID_ARTIFACTS_DIR env var or ~/.cache/zkid-artifacts.
var BaseDir string

func init() {
	if checkHashes := os.Getenv("ZKID_CHECK_HASHES"); checkHashes != "" {
		if strings.ToLower(checkHashes) == "false" || checkHashes == "0" {
			CheckHashes = false
		}
	}
	if dir := os.Getenv("ZKID_ARTIFACTS_DIR"); dir != "" {
		BaseDir = dir
	} else {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			BaseDir = filepath.Join(os.TempDir(), "zkid-artifacts")
		} else {
			BaseDir = filepath.Join(home, ".cache", "zkid-artifacts")
		}
	}
}

// Artifact holds the remote URL, the expected sha256 of the content and the
// content itself once loaded.
type Artifact struct {
	RemoteURL string
	Hash      []byte
	Content   []byte
}

// Load makes the artifact content available in memory. It tries the local
// cache first and falls back to downloading from the remote URL. The content
// hash is verified in both cases.
func (a *Artifact) Load(ctx context.Context) error {
	if len(a.Content) != 0 {
		return nil
	}
	if len(a.Hash) == 0 {
		return fmt.Errorf("artifact hash not provided")
	}
	content, err := load(a.Hash)
	if err != nil {
		return err
	}
	if content == nil {
		if err := a.download(ctx); err != nil {
			return err
		}
		if content, err = load(a.Hash); err != nil {
			return err
		}
		if content == nil {
			return fmt.Errorf("artifact not found after download")
		}
	}
	a.Content = content
	return nil
}

// download fetches the artifact from the remote URL and stores it in the
// local cache under its hash.
func (a *Artifact) download(ctx context.Context) error {
	if a.RemoteURL == "" {
		return fmt.Errorf("artifact not cached and remote url not provided")
	}
	return downloadAndStore(ctx, a.Hash, a.RemoteURL)
}

// CircuitArtifacts bundles the artifacts of the identity verifier circuit:
// the circuit definition (wasm), the proving key (zkey) and the verification
// key (json).
type CircuitArtifacts struct {
	circuitDefinition *Artifact
	provingKey        *Artifact
	verificationKey   *Artifact
}

// NewCircuitArtifacts creates a CircuitArtifacts with the artifacts provided.
func NewCircuitArtifacts(circuit, provingKey, verificationKey *Artifact) *CircuitArtifacts {
	return &CircuitArtifacts{
		circuitDefinition: circuit,
		provingKey:        provingKey,
		verificationKey:   verificationKey,
	}
}

// LoadAll loads the three circuit artifacts into memory, downloading the
// missing ones.
func (ca *CircuitArtifacts) LoadAll(ctx context.Context) error {
	if err := ca.circuitDefinition.Load(ctx); err != nil {
		return fmt.Errorf("error loading circuit definition: %w", err)
	}
	if err := ca.provingKey.Load(ctx); err != nil {
		return fmt.Errorf("error loading proving key: %w", err)
	}
	if err := ca.verificationKey.Load(ctx); err != nil {
		return fmt.Errorf("error loading verification key: %w", err)
	}
	return nil
}

// CircuitDefinition returns the compiled circom circuit, or nil if not loaded.
func (ca *CircuitArtifacts) CircuitDefinition() []byte {
	if ca.circuitDefinition == nil {
		return nil
	}
	return ca.circuitDefinition.Content
}

// ProvingKey returns the Groth16 proving key, or nil if not loaded.
func (ca *CircuitArtifacts) ProvingKey() []byte {
	if ca.provingKey == nil {
		return nil
	}
	return ca.provingKey.Content
}

// VerificationKey returns the verification key, or nil if not loaded.
func (ca *CircuitArtifacts) VerificationKey() []byte {
	if ca.verificationKey == nil {
		return nil
	}
	return ca.verificationKey.Content
}

func load(hash []byte) ([]byte, error) {
	if _, err := os.Stat(BaseDir); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(BaseDir, 0o755); err != nil {
				return nil, fmt.Errorf("error creating the base directory: %w", err)
			}
		} else {
			return nil, fmt.Errorf("error checking the base directory: %w", err)
		}
	}
	path := filepath.Join(BaseDir, hex.EncodeToString(hash))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error checking file %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	if CheckHashes {
		fileHash := sha256.Sum256(content)
		if !bytes.Equal(fileHash[:], hash) {
			return nil, fmt.Errorf("hash mismatch for file %s: expected %x, got %x", path, hash, fileHash)
		}
	}
	return content, nil
}

// downloadAndStore downloads a file from a URL and stores it in the local
// cache, verifying its hash before the final rename.
func downloadAndStore(ctx context.Context, expectedHash []byte, fileURL string) error {
	if _, err := url.Parse(fileURL); err != nil {
		return fmt.Errorf("error parsing the artifact URL provided: %w", err)
	}
	path := filepath.Join(BaseDir, hex.EncodeToString(expectedHash))
	partialPath := path + ".partial"
	if err := os.MkdirAll(BaseDir, 0o755); err != nil {
		return fmt.Errorf("error creating the base directory: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("error creating the artifact request: %w", err)
	}
	log.Infow("downloading circuit artifact", "url", fileURL)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("error performing the request: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Warnw("failed to close response body", "error", err)
		}
	}()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("error downloading artifact %s: http status: %d", fileURL, res.StatusCode)
	}
	fd, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("error opening artifact file: %w", err)
	}
	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(fd, hasher), res.Body); err != nil {
		_ = fd.Close()
		return fmt.Errorf("error writing artifact file: %w", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("error closing artifact file: %w", err)
	}
	if CheckHashes {
		if downloadedHash := hasher.Sum(nil); !bytes.Equal(downloadedHash, expectedHash) {
			_ = os.Remove(partialPath)
			return fmt.Errorf("hash mismatch for %s: expected %x, got %x", fileURL, expectedHash, downloadedHash)
		}
	}
	if err := os.Rename(partialPath, path); err != nil {
		return fmt.Errorf("error renaming downloaded artifact: %w", err)
	}
	return nil
}
