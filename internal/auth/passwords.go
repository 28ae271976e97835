package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2id with the defaults recommended for interactive logins.
const (
	argonMemory      uint32 = 64 * 1024
	argonIterations  uint32 = 3
	argonParallelism uint8  = 2
	argonSaltLen            = 16
	argonKeyLen      uint32 = 32
)

var errBadHash = errors.New("invalid argon2id hash")

func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, argonIterations, argonMemory, argonParallelism, argonKeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory,
		argonIterations,
		argonParallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

func VerifyPassword(hash, plaintext string) (bool, error) {
	memory, iterations, parallelism, salt, key, err := decodeHash(hash)
	if err != nil {
		return false, err
	}

	other := argon2.IDKey([]byte(plaintext), salt, iterations, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func decodeHash(hash string) (memory, iterations uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return 0, 0, 0, nil, nil, errBadHash
	}

	for _, kv := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return 0, 0, 0, nil, nil, errBadHash
		}
		switch k {
		case "m":
			n, perr := strconv.ParseUint(v, 10, 32)
			if perr != nil {
				return 0, 0, 0, nil, nil, errBadHash
			}
			memory = uint32(n)
		case "t":
			n, perr := strconv.ParseUint(v, 10, 32)
			if perr != nil {
				return 0, 0, 0, nil, nil, errBadHash
			}
			iterations = uint32(n)
		case "p":
			n, perr := strconv.ParseUint(v, 10, 8)
			if perr != nil {
				return 0, 0, 0, nil, nil, errBadHash
			}
			parallelism = uint8(n)
		default:
			return 0, 0, 0, nil, nil, errBadHash
		}
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, errBadHash
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, errBadHash
	}
	if len(salt) == 0 || len(key) == 0 {
		return 0, 0, 0, nil, nil, errBadHash
	}
	return memory, iterations, parallelism, salt, key, nil
}
