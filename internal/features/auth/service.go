package auth

import (
	"context"
	"errors"
	"time"

	"go-retail/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*Operator, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	OperatorRepo OperatorRepository
}

func NewAuthService(operatorRepo OperatorRepository) AuthService {
	return &AuthServiceImpl{OperatorRepo: operatorRepo}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email string) (*Operator, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	if existing, err := s.OperatorRepo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, errors.New("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	operator := &Operator{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Roles:        []string{"viewer"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.OperatorRepo.Create(ctx, operator); err != nil {
		return nil, err
	}
	return operator, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	operator, err := s.OperatorRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateToken(operator.ID, operator.Roles)
}
