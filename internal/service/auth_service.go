package service

import (
	"context"
	"fmt"
	"time"

	"catering-service/internal/models"
	"catering-service/internal/store"
	"catering-service/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService resolves credentials and issues role-bearing tokens
type AuthService struct {
	store    *store.Store
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:    st,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   util.GetLogger(),
	}
}

// Claims carries the identity and role of a session. ActingAs is set
// when an admin impersonates another user.
type Claims struct {
	UserID   string `json:"uid"`
	Role     string `json:"role"`
	ActingAs string `json:"acting_as,omitempty"`
	jwt.RegisteredClaims
}

// Login checks credentials against the stored bcrypt hash and issues a token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	_, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	auth, err := s.store.AuthByEmail(email)
	if err != nil {
		return "", models.User{}, fmt.Errorf("invalid credentials: %w", store.ErrValidation)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(auth.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, fmt.Errorf("invalid credentials: %w", store.ErrValidation)
	}
	user, err := s.store.UserByID(auth.UserID)
	if err != nil {
		return "", models.User{}, err
	}

	token, err := s.issue(user, "")
	if err != nil {
		return "", models.User{}, err
	}
	s.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return token, user, nil
}

// Impersonate issues a token acting as another user. Admin only.
func (s *AuthService) Impersonate(adminClaims *Claims, targetUserID string) (string, error) {
	if adminClaims.Role != models.RoleAdmin {
		return "", fmt.Errorf("only admins can impersonate: %w", store.ErrBusinessRule)
	}
	target, err := s.store.UserByID(targetUserID)
	if err != nil {
		return "", err
	}
	return s.issue(target, adminClaims.UserID)
}

// SetPassword stores a bcrypt hash for a user's credentials
func (s *AuthService) SetPassword(ctx context.Context, userID, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.SetAuth(ctx, models.UserAuth{
		UserID:       userID,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// ParseToken validates a token and returns its claims
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *AuthService) issue(user models.User, actingAs string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Role:     user.Role,
		ActingAs: actingAs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    "catering-service",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
