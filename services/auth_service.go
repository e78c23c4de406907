package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
)

// AuthUser is the identity the external provider vouches for.
type AuthUser struct {
	SupabaseID string `json:"id"`
	Email      string `json:"email"`
}

type AuthSession struct {
	AccessToken string   `json:"accessToken"`
	User        AuthUser `json:"user"`
}

// AuthService delegates identity to Supabase. Access tokens are verified
// locally with the project's shared JWT secret; signup and signin are
// proxied to the GoTrue REST API.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	baseURL   string
	anonKey   string
	client    *http.Client
}

func NewAuthService(db *gorm.DB, jwtSecret, baseURL, anonKey string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyToken validates a bearer token (HS256) and extracts the
// provider id and email claims.
func (s *AuthService) VerifyToken(tokenString string) (*AuthUser, error) {
	if len(s.jwtSecret) == 0 {
		return nil, errors.New("server misconfigured: SUPABASE_JWT_SECRET not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, errors.New("token missing identity claims")
	}

	return &AuthUser{SupabaseID: sub, Email: email}, nil
}

// GetOrLinkUser resolves the local user for a verified identity: by
// provider id first, then by email (linking accounts created through
// email-only subscriptions), creating the row when neither exists.
func (s *AuthService) GetOrLinkUser(authUser *AuthUser) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "supabase_id = ?", authUser.SupabaseID).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	err = s.db.First(&user, "email = ?", authUser.Email).Error
	switch {
	case err == nil:
		user.SupabaseID = &authUser.SupabaseID
		if err := s.db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to link user: %w", err)
		}
		return &user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Email: authUser.Email, SupabaseID: &authUser.SupabaseID}
		if err := s.db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a concurrent create; use whoever won.
				if err := s.db.First(&user, "email = ?", authUser.Email).Error; err != nil {
					return nil, fmt.Errorf("failed to load existing user: %w", err)
				}
				return &user, nil
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &user, nil

	default:
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
}

type gotrueResponse struct {
	AccessToken string `json:"access_token"`
	ID          string `json:"id"`
	Email       string `json:"email"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*AuthSession, error) {
	return s.tokenRequest(ctx, "/auth/v1/signup", email, password)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	return s.tokenRequest(ctx, "/auth/v1/token?grant_type=password", email, password)
}

func (s *AuthService) tokenRequest(ctx context.Context, path, email, password string) (*AuthSession, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.anonKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call auth provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth provider error %d: %s", resp.StatusCode, string(body))
	}

	var gr gotrueResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}

	// Signup without a session returns the user at the top level.
	authUser := AuthUser{SupabaseID: gr.User.ID, Email: gr.User.Email}
	if authUser.SupabaseID == "" {
		authUser = AuthUser{SupabaseID: gr.ID, Email: gr.Email}
	}
	if authUser.SupabaseID == "" || authUser.Email == "" {
		return nil, errors.New("auth provider returned no user")
	}

	if _, err := s.GetOrLinkUser(&authUser); err != nil {
		return nil, err
	}

	return &AuthSession{AccessToken: gr.AccessToken, User: authUser}, nil
}
