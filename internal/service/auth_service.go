package service

import (
	"errors"

	"github.com/muhammadfahaddev/PayBridge/config"
	"github.com/muhammadfahaddev/PayBridge/internal/auth"
	"github.com/muhammadfahaddev/PayBridge/internal/models"
	"github.com/muhammadfahaddev/PayBridge/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists   = errors.New("merchant already exists with this email")
	ErrInvalidCreds  = errors.New("invalid credentials")
	ErrInactive      = errors.New("account is inactive")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

type AuthService struct {
	cfg       *config.Config
	merchants *repository.MerchantRepository
}

func NewAuthService(cfg *config.Config, merchants *repository.MerchantRepository) *AuthService {
	return &AuthService{cfg: cfg, merchants: merchants}
}

// Signup creates a merchant and returns the plaintext api key exactly once;
// only the key id and secret hash are persisted.
func (s *AuthService) Signup(name, email, password string) (*models.Merchant, string, string, error) {
	_, err := s.merchants.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, "", "", err
	}
	m := &models.Merchant{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		APIKeyID:     key.KeyID,
		APIKeyHash:   key.SecretHash,
		IsActive:     true,
	}
	// Sign the token before persisting so a signing failure cannot leave a
	// merchant row behind with its one-time api key already lost.
	token, err := auth.GenerateToken(&s.cfg.JWT, m.ID, m.Email)
	if err != nil {
		return nil, "", "", err
	}
	if err := s.merchants.Create(m); err != nil {
		return nil, "", "", err
	}
	return m, key.Plaintext, token, nil
}

func (s *AuthService) Login(email, password string) (*models.Merchant, string, error) {
	m, err := s.merchants.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCreds
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCreds
	}
	if !m.IsActive {
		return nil, "", ErrInactive
	}
	token, err := auth.GenerateToken(&s.cfg.JWT, m.ID, m.Email)
	if err != nil {
		return nil, "", err
	}
	return m, token, nil
}

func (s *AuthService) ChangePassword(merchantID, currentPassword, newPassword string) error {
	m, err := s.merchants.GetByID(merchantID)
	if err != nil {
		return ErrInvalidCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hash)
	return s.merchants.Update(m)
}

// RotateAPIKey replaces the merchant's api key after password verification.
// The returned plaintext is never recoverable afterwards.
func (s *AuthService) RotateAPIKey(merchantID, password string) (string, error) {
	m, err := s.merchants.GetByID(merchantID)
	if err != nil {
		return "", ErrInvalidCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCreds
	}
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return "", err
	}
	m.APIKeyID = key.KeyID
	m.APIKeyHash = key.SecretHash
	if err := s.merchants.Update(m); err != nil {
		return "", err
	}
	return key.Plaintext, nil
}

// VerifyAPIKey authenticates a plaintext api key: the key id segment resolves
// the merchant in one indexed lookup, then only that merchant's secret hash
// is compared.
func (s *AuthService) VerifyAPIKey(plaintext string) (*models.Merchant, error) {
	keyID, secret, err := auth.SplitAPIKey(plaintext)
	if err != nil {
		return nil, ErrInvalidAPIKey
	}
	m, err := s.merchants.GetByKeyID(keyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	if !auth.VerifyAPIKeySecret(m.APIKeyHash, secret) {
		return nil, ErrInvalidAPIKey
	}
	if !m.IsActive {
		return nil, ErrInactive
	}
	return m, nil
}
