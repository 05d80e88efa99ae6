package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/intersection-backend/internal/logger"
	"github.com/yungbote/intersection-backend/internal/repos"
	"github.com/yungbote/intersection-backend/internal/types"
)

type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) (*types.User, error)
	Login(ctx context.Context, email, password string) (string, *types.User, error)
	ParseToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo

	jwtSecretKey   string
	accessTokenTTL time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTokenTTL time.Duration) AuthService {
	return &authService{
		db:             db,
		log:            log.With("service", "AuthService"),
		userRepo:       userRepo,
		jwtSecretKey:   jwtSecretKey,
		accessTokenTTL: accessTokenTTL,
	}
}

func (as *authService) Register(ctx context.Context, email, password, nickname string) (*types.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	nickname = strings.TrimSpace(nickname)
	if email == "" || password == "" || nickname == "" {
		return nil, fmt.Errorf("email, password and nickname are required")
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Email:    email,
		Password: string(hashed),
		Nickname: nickname,
		Status:   types.UserStatusActive,
	}
	return as.userRepo.Create(ctx, nil, user)
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || user.IsDeleted || user.Status != types.UserStatusActive {
		return "", nil, fmt.Errorf("incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("incorrect email or password")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, user, nil
}

func (as *authService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject claim")
	}
	return userID, nil
}
