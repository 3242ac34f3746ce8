package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// API keys look like pb_live_<keyid>_<secret>. The key id is stored in plain
// text and indexed so authentication is a single row lookup; only the secret
// half is bcrypt-compared. Keys are returned to the merchant exactly once at
// mint time and are not recoverable afterwards.

const apiKeyPrefix = "pb_live"

const keyIDLength = 8

var ErrMalformedAPIKey = errors.New("malformed api key")

// APIKey is the result of minting a new key. Plaintext is handed to the
// merchant; KeyID and SecretHash are what gets persisted.
type APIKey struct {
	Plaintext  string
	KeyID      string
	SecretHash string
}

func GenerateAPIKey() (*APIKey, error) {
	keyID := strings.ReplaceAll(uuid.NewString(), "-", "")[:keyIDLength]
	secret := strings.ReplaceAll(uuid.NewString(), "-", "")
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &APIKey{
		Plaintext:  fmt.Sprintf("%s_%s_%s", apiKeyPrefix, keyID, secret),
		KeyID:      keyID,
		SecretHash: string(hash),
	}, nil
}

// SplitAPIKey extracts the key id and secret from a plaintext key.
func SplitAPIKey(plaintext string) (keyID, secret string, err error) {
	rest, ok := strings.CutPrefix(plaintext, apiKeyPrefix+"_")
	if !ok {
		return "", "", ErrMalformedAPIKey
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || len(parts[0]) != keyIDLength || parts[1] == "" {
		return "", "", ErrMalformedAPIKey
	}
	return parts[0], parts[1], nil
}

func VerifyAPIKeySecret(secretHash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)) == nil
}
