package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// TokenService issues and resolves the opaque session credential. The
// credential is a sign-then-encrypt composition: claims are signed as a
// compact HS256 JWT, then the whole signed artifact is sealed inside an
// AES-256-GCM envelope. Resolve reverses both layers and then re-fetches
// the live user record; the credential itself is never the source of
// truth for identity state.
type TokenService interface {
	Issue(userID, email string) (string, error)
	Resolve(ctx context.Context, credential string) (*model.User, error)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type tokenService struct {
	userRepo      repository.UserRepository
	signingKey    []byte
	encryptionKey []byte
}

func NewTokenService(userRepo repository.UserRepository, signingKey, encryptionKey string) (TokenService, error) {
	if len(encryptionKey) != 32 {
		return nil, fmt.Errorf("token encryption key must be 32 bytes, got %d", len(encryptionKey))
	}
	return &tokenService{
		userRepo:      userRepo,
		signingKey:    []byte(signingKey),
		encryptionKey: []byte(encryptionKey),
	}, nil
}

// Issue signs the claims and seals the signed token. Credentials carry
// no expiry; rotating the keys invalidates everything outstanding.
func (s *tokenService) Issue(userID, email string) (string, error) {
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	sealed, err := s.seal([]byte(signed))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Resolve decrypts the envelope, verifies the inner signature, and
// re-fetches the user by the embedded id. Any decode or signature
// problem collapses to the same invalid-credential error.
func (s *tokenService) Resolve(ctx context.Context, credential string) (*model.User, error) {
	if credential == "" {
		return nil, invalidCredential()
	}

	sealed, err := base64.RawURLEncoding.DecodeString(credential)
	if err != nil {
		return nil, invalidCredential()
	}

	signed, err := s.open(sealed)
	if err != nil {
		return nil, invalidCredential()
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(string(signed), &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, invalidCredential()
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(http.StatusUnauthorized, "user not found", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	return user, nil
}

func invalidCredential() error {
	return apperror.New(http.StatusUnauthorized, "invalid token", apperror.ErrUnauthorized)
}

func (s *tokenService) seal(plaintext []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *tokenService) open(sealed []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (s *tokenService) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
