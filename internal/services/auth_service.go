package services

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/repositories"
	"busbooking/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type AuthService struct {
	Users  repositories.UserRepo
	Secret []byte
	TTL    time.Duration
	Cost   int
	Now    func() time.Time
	Log    *zap.Logger
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) cost() int {
	if s.Cost > 0 {
		return s.Cost
	}
	return bcrypt.DefaultCost
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	name := utils.NormalizeSpace(in.Name)
	email := utils.NormalizeEmail(in.Email)
	if name == "" {
		return models.User{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "invalid email address"}
	}
	if len(in.Password) < minPasswordLen {
		return models.User{}, domain.ValidationError{Field: "password", Msg: fmt.Sprintf("must be at least %d characters", minPasswordLen)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return models.User{}, domain.InternalError{Err: fmt.Errorf("hash password: %w", err)}
	}

	u := models.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return models.User{}, storageErr(err)
	}
	u.ID = id
	utils.OrNop(s.Log).Info("user registered", zap.Int64("user_id", id))
	return u, nil
}

// Login checks the credentials and returns a signed token.
func (s AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := s.Users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if domain.IsNotFound(err) {
		return "", models.User{}, domain.UnauthorizedError{Msg: "invalid email or password"}
	}
	if err != nil {
		return "", models.User{}, storageErr(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, domain.UnauthorizedError{Msg: "invalid email or password"}
	}

	token, err := s.Sign(u)
	if err != nil {
		return "", models.User{}, err
	}
	return token, u, nil
}

func (s AuthService) Sign(u models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: u.ID,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Err: fmt.Errorf("sign token: %w", err)}
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s AuthService) ParseToken(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid token"}
	}
	if claims.UserID <= 0 {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid token"}
	}
	return claims, nil
}
