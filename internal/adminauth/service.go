// Package adminauth verifies the operator bearer token against an argon2id
// hash supplied via configuration. The plaintext token never touches disk.
package adminauth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
)

// VerdictCache stores the outcome of a token check so the argon2 derivation
// is not recomputed on every admin request.
type VerdictCache interface {
	GetVerdict(ctx context.Context, tokenHash string) (bool, bool, error)
	SetVerdict(ctx context.Context, tokenHash string, verdict bool, ttl time.Duration) error
}

type params struct {
	version int
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	hash    []byte
}

// Verifier checks presented tokens against a single configured hash.
type Verifier struct {
	params *params // nil when no hash is configured
	cache  VerdictCache
	ttl    time.Duration
}

// NewVerifier parses the PHC-encoded hash once up front. An empty hash
// disables the admin surface: every token is rejected.
func NewVerifier(encodedHash string, cache VerdictCache, ttl time.Duration) (*Verifier, error) {
	v := &Verifier{cache: cache, ttl: ttl}
	if encodedHash == "" {
		return v, nil
	}

	p, err := parseHash(encodedHash)
	if err != nil {
		return nil, fmt.Errorf("parse admin token hash: %w", err)
	}
	v.params = p
	return v, nil
}

// Enabled reports whether an admin token hash is configured.
func (v *Verifier) Enabled() bool {
	return v.params != nil
}

// Verify reports whether token matches the configured hash. Cache failures
// degrade to recomputing the hash, never to letting a token through.
func (v *Verifier) Verify(ctx context.Context, token string) bool {
	if v.params == nil || token == "" {
		return false
	}

	cacheKey := tokenCacheKey(token)
	if v.cache != nil {
		if verdict, found, err := v.cache.GetVerdict(ctx, cacheKey); err == nil && found {
			return verdict
		} else if err != nil {
			log.Printf("adminauth: verdict cache read: %v", err)
		}
	}

	derived := argon2.IDKey([]byte(token), v.params.salt, v.params.time, v.params.memory, v.params.threads, uint32(len(v.params.hash)))
	verdict := subtle.ConstantTimeCompare(derived, v.params.hash) == 1

	if v.cache != nil {
		if err := v.cache.SetVerdict(ctx, cacheKey, verdict, v.ttl); err != nil {
			log.Printf("adminauth: verdict cache write: %v", err)
		}
	}
	return verdict
}

// tokenCacheKey hashes the token before it is used as a cache key so the
// plaintext never reaches Redis.
func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// parseHash decodes a PHC string of the form
// $argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>.
func parseHash(encoded string) (*params, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("malformed hash string")
	}
	if parts[1] != "argon2id" {
		return nil, fmt.Errorf("unsupported variant %q", parts[1])
	}

	p := &params{}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &p.version); err != nil {
		return nil, fmt.Errorf("parse version: %w", err)
	}
	if p.version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", p.version)
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &threads); err != nil {
		return nil, fmt.Errorf("parse parameters: %w", err)
	}
	p.threads = uint8(threads)

	var err error
	p.salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	p.hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, fmt.Errorf("decode hash: %w", err)
	}
	if len(p.salt) == 0 || len(p.hash) == 0 {
		return nil, errors.New("empty salt or hash")
	}
	return p, nil
}

// EncodeHash derives an argon2id hash of token and returns the PHC string
// NewVerifier accepts. Used by the token hashing tool.
func EncodeHash(token string, salt []byte) string {
	const (
		hashTime    = 2
		hashMemory  = 19 * 1024
		hashThreads = 1
		hashLen     = 32
	)
	hash := argon2.IDKey([]byte(token), salt, hashTime, hashMemory, hashThreads, hashLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, hashMemory, hashTime, hashThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}
