package file

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	storeDirMode   = 0o700
	secretFileMode = 0o600

	masterKeyFile = "master.key"
	dataDir       = "data"
	tempPattern   = ".secret-*.tmp"
	hkdfInfo      = "trae-accounts secret v1"
)

var fileMagic = []byte("TAS1")

// Store keeps one encrypted file per key under root/data. Each secret is
// sealed with XChaCha20-Poly1305 under a key derived from root/master.key,
// with the secret key name as associated data.
type Store struct {
	root string
	mu   sync.Mutex
	key  []byte
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sealKey, err := s.loadKeyLocked(true)
	if err != nil {
		return err
	}

	sealed, err := seal(sealKey, key, []byte(value))
	if err != nil {
		return fmt.Errorf("encrypt file secret %q: %w", key, err)
	}

	if err := writeAtomic(path, sealed); err != nil {
		return fmt.Errorf("write file secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file secret %q: %w", key, domain.ErrSecretNotFound)
		}
		return "", fmt.Errorf("read file secret %q: %w", key, err)
	}

	sealKey, err := s.loadKeyLocked(false)
	if err != nil {
		return "", err
	}

	plain, err := open(sealKey, key, data)
	if err != nil {
		return "", fmt.Errorf("decrypt file secret %q: %w", key, err)
	}

	return string(plain), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) pathForKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("secret key is empty")
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return "", fmt.Errorf("invalid secret key %q", key)
	}

	return filepath.Join(s.root, dataDir, cleaned), nil
}

// loadKeyLocked returns the derived sealing key, creating the master key
// on first write.
func (s *Store) loadKeyLocked(create bool) ([]byte, error) {
	if s.key != nil {
		return s.key, nil
	}

	path := filepath.Join(s.root, masterKeyFile)
	master, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && create:
		master = make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(rand.Reader, master); err != nil {
			return nil, fmt.Errorf("generate master key: %w", err)
		}
		if err := writeAtomic(path, master); err != nil {
			return nil, fmt.Errorf("write master key: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("master key %s is missing", path)
	default:
		return nil, fmt.Errorf("read master key: %w", err)
	}

	if len(master) < chacha20poly1305.KeySize {
		return nil, fmt.Errorf("master key %s is too short", path)
	}

	derived := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(hkdfInfo)), derived); err != nil {
		return nil, fmt.Errorf("derive secret key: %w", err)
	}

	s.key = derived
	return derived, nil
}

func seal(key []byte, name string, plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := append([]byte{}, fileMagic...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plain, []byte(name)), nil
}

func open(key []byte, name string, data []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(data, fileMagic) || len(data) < len(fileMagic)+aead.NonceSize()+aead.Overhead() {
		return nil, errors.New("secret file is corrupted")
	}
	data = data[len(fileMagic):]

	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, []byte(name))
	if err != nil {
		return nil, errors.New("secret file failed authentication")
	}

	return plain, nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create secret directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return fmt.Errorf("create temp secret file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp secret file: %w", err)
	}
	if err := tempFile.Chmod(secretFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp secret file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp secret file: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace secret file: %w", err)
	}

	cleanup = false
	return nil
}
