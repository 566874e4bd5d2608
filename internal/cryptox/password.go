// Package cryptox produces and parses the password hashes the Hub stores.
//
// Hashes are PHC strings of the form
//
//	$argon2id$v=19$m=65536,t=1,p=1$<salt>$<key>
//
// with unpadded standard base64 for salt and key. The cost parameters are
// fixed: the Hub's verifier reads them back out of the string, and a hash
// written with anything else will not authenticate through the Hub's login.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/cozy-creator/hubuser/internal/shared"
)

// HashAlgorithm is the tag stored alongside the hash in user_passwords.hash_algo.
const HashAlgorithm = "argon2id"

// Parameters shared with the Hub. These are not configuration.
const (
	TimeCost    uint32 = 1
	MemoryCost  uint32 = 64 * 1024
	Parallelism uint8  = 1
	SaltLength         = 16
	KeyLength   uint32 = 32
)

var (
	ErrInvalidHash         = errors.New("invalid password hash")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrUnsupportedHash     = errors.New("unsupported hash algorithm")
)

// Params are the cost parameters embedded in an encoded hash.
type Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// HubParams returns the parameter set the Hub verifies against.
func HubParams() Params {
	return Params{
		Memory:      MemoryCost,
		Time:        TimeCost,
		Parallelism: Parallelism,
		SaltLength:  SaltLength,
		KeyLength:   KeyLength,
	}
}

// Argon2idHasher hashes passwords with HubParams and a fresh salt per call.
type Argon2idHasher struct{}

// Hash returns the PHC encoding of password. It does not validate the
// password; callers run the validation rules first.
func (Argon2idHasher) Hash(password string) (string, error) {
	return HashPassword(password)
}

// Algorithm returns the tag written next to the hash.
func (Argon2idHasher) Algorithm() string { return HashAlgorithm }

// HashPassword hashes password with HubParams.
func HashPassword(password string) (string, error) {
	p := HubParams()

	salt, err := shared.RandomBytes(int(p.SaltLength))
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLength)
	return encode(p, salt, key), nil
}

func encode(p Params, salt, key []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		HashAlgorithm,
		argon2.Version,
		p.Memory, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// DecodeHash parses a PHC argon2id string into its parameters, salt and key.
func DecodeHash(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if parts[1] != HashAlgorithm {
		return Params{}, nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: version: %v", ErrInvalidHash, err)
	}
	if version != argon2.Version {
		return Params{}, nil, nil, ErrIncompatibleVersion
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Parallelism); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: params: %v", ErrInvalidHash, err)
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: salt: %v", ErrInvalidHash, err)
	}
	key, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: key: %v", ErrInvalidHash, err)
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}

// VerifyPassword recomputes the key with the parameters embedded in encoded
// and compares in constant time, the way the Hub's login path does.
func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, key, err := DecodeHash(encoded)
	if err != nil {
		return false, err
	}
	candidate := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}
