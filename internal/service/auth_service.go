package service

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/repository"
	"github.com/inkgenius/inkgenius-backend/pkg/bcrypt"
	"github.com/inkgenius/inkgenius-backend/pkg/email"
	jwtPkg "github.com/inkgenius/inkgenius-backend/pkg/jwt"
)

const (
	// Token süreleri
	TokenExpiryEmailVerify = 24 * time.Hour
)

type AuthService struct {
	userRepo     *repository.UserRepository
	creditsRepo  *repository.UserCreditsRepository
	emailService *email.EmailService
	jwtSecret    []byte
}

func NewAuthService(userRepo *repository.UserRepository, creditsRepo *repository.UserCreditsRepository, emailService *email.EmailService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		creditsRepo:  creditsRepo,
		emailService: emailService,
		jwtSecret:    []byte(os.Getenv("JWT_SECRET")),
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   hashedPassword,
		IsVerified: false,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Bakiye satırını kayıtta aç; ilk satın almada yarış olmasın
	if err := s.creditsRepo.EnsureAccount(user.ID, user.Email); err != nil {
		return nil, err
	}

	verificationToken, err := s.generateVerificationToken(user.Email)
	if err != nil {
		return nil, err
	}

	go s.emailService.SendVerificationEmail(user.Email, user.FullName, verificationToken)
	go s.emailService.SendWelcomeEmail(user.Email, user.FullName)

	token, err := jwtPkg.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, err := jwtPkg.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) VerifyEmail(req models.VerifyEmailRequest) error {
	token, err := jwt.Parse(req.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return errors.New("invalid or expired verification token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return errors.New("invalid verification token")
	}
	if purpose, _ := claims["purpose"].(string); purpose != "email_verify" {
		return errors.New("invalid verification token")
	}

	emailClaim, _ := claims["email"].(string)
	user, err := s.userRepo.GetByEmail(emailClaim)
	if err != nil {
		return errors.New("user not found")
	}

	return s.userRepo.MarkVerified(user.ID)
}

func (s *AuthService) generateVerificationToken(userEmail string) (string, error) {
	claims := jwt.MapClaims{
		"email":   userEmail,
		"purpose": "email_verify",
		"exp":     time.Now().Add(TokenExpiryEmailVerify).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
