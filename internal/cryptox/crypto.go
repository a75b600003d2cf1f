// Package cryptox turns plaintext passwords into stored credentials and back
// into a yes/no answer. Credentials use argon2id in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// with salt and key in unpadded standard base64.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/imgbox/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash is returned by VerifyPassword for a credential it cannot parse.
var ErrInvalidHash = errors.New("invalid password hash")

const (
	saltLen = 16
	keyLen  = 32

	defaultTime    = 1
	defaultMemory  = 64 * 1024
	defaultThreads = 4
)

// Params are the argon2id cost parameters recorded in every credential.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams match the KDF settings used for master keys elsewhere.
var DefaultParams = Params{Time: defaultTime, Memory: defaultMemory, Threads: defaultThreads}

// HashPassword hashes secret with DefaultParams and a fresh random salt.
func HashPassword(secret []byte) (string, error) {
	return HashPasswordWithParams(secret, DefaultParams)
}

// HashPasswordWithParams is HashPassword with explicit costs.
func HashPasswordWithParams(secret []byte, p Params) (string, error) {
	salt, err := common.GenerateRandByteArray(saltLen)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey(secret, salt, p.Time, p.Memory, p.Threads, keyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword reports whether secret matches the encoded credential.
// The comparison is constant time.
func VerifyPassword(secret []byte, encoded string) (bool, error) {
	p, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(secret, salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func decode(encoded string) (Params, []byte, []byte, error) {
	var p Params

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrInvalidHash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrInvalidHash
	}

	return p, salt, key, nil
}
