package services

import (
	"context"
	"ecopoints/internal/datastore/redis_store"
	"ecopoints/internal/interfaces"
	"ecopoints/internal/models"
	"ecopoints/internal/points"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrStudentIDTaken = errors.New("student id already registered")

const minPasswordLength = 6

type SignUpInput struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Course    string `json:"course"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Student   *models.Student `json:"student"`
}

type ServiceAuth struct {
	container      *do.Injector
	redisDB        redis.UniversalClient
	accounts       AccountStore
	readonlyRepo   points.Repository
	limiter        interfaces.Limiter
	authentication *Authentication
	logger         *zap.Logger
	policy         *bluemonday.Policy

	serviceStudent *ServiceStudent
}

func NewServiceAuth(container *do.Injector) (*ServiceAuth, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	accounts, err := do.Invoke[AccountStore](container)
	if err != nil {
		return nil, err
	}

	readonlyRepo, err := do.InvokeNamed[points.Repository](container, "repository-readonly")
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	authentication, err := do.Invoke[*Authentication](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	serviceStudent, err := NewServiceStudent(container)
	if err != nil {
		return nil, err
	}

	return &ServiceAuth{container, db, accounts, readonlyRepo, limiter, authentication, logger, bluemonday.StrictPolicy(), serviceStudent}, nil
}

func (service *ServiceAuth) sanitize(s string) string {
	return strings.TrimSpace(service.policy.Sanitize(strings.TrimSpace(s)))
}

func (service *ServiceAuth) validateSignUp(input *SignUpInput) error {
	input.Name = service.sanitize(input.Name)
	input.Course = service.sanitize(input.Course)
	input.StudentID = strings.TrimSpace(input.StudentID)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	switch {
	case input.Name == "":
		return errors.New("name is required")
	case input.StudentID == "":
		return errors.New("student id is required")
	case input.Course == "":
		return errors.New("course is required")
	case len(input.Password) < minPasswordLength:
		return errors.New("password is too short")
	}

	address, err := mail.ParseAddress(input.Email)
	if err != nil || address.Address != input.Email {
		return errors.New("invalid email")
	}
	return nil
}

func (service *ServiceAuth) SignUp(ctx context.Context, input SignUpInput, ip string) (*AuthResult, error) {
	if err := service.limiter.Allow(ctx, LimitKeySignUp(ip), redis_rate.PerHour(SIGNUP_RATE_LIMIT_PER_HOUR)); err != nil {
		return nil, toErrorx(err)
	}

	if err := service.validateSignUp(&input); err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}

	if _, err := service.accounts.FindAccountByEmail(ctx, input.Email); err == nil {
		return nil, toErrorx(ErrEmailTaken)
	} else if !errors.Is(err, points.ErrNotFound) {
		return nil, toErrorx(err)
	}

	if _, err := service.readonlyRepo.FindStudent(ctx, input.StudentID); err == nil {
		return nil, errorx.Wrap(ErrStudentIDTaken, errorx.Validation)
	} else if !errors.Is(err, points.ErrNotFound) {
		return nil, toErrorx(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, toErrorx(err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	student := &models.Student{
		StudentID: input.StudentID,
		AuthID:    account.ID,
		Name:      input.Name,
		Email:     input.Email,
		Course:    input.Course,
	}
	if err := service.accounts.CreateAccount(ctx, account, student); err != nil {
		return nil, toErrorx(err)
	}

	service.logger.Info("student signed up", zap.String("student_id", student.StudentID))
	return service.issue(ctx, account, student)
}

func (service *ServiceAuth) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	limitKey := LimitKeySignIn(email)
	if err := service.limiter.Allow(ctx, limitKey, redis_rate.PerMinute(SIGNIN_RATE_LIMIT_PER_MINUTE)); err != nil {
		return nil, toErrorx(err)
	}

	account, err := service.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, points.ErrNotFound) {
			return nil, toErrorx(ErrInvalidCredentials)
		}
		return nil, toErrorx(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, toErrorx(ErrInvalidCredentials)
	}

	student, err := service.serviceStudent.FindStudentByAuthID(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	// nolint:errcheck
	service.limiter.Reset(ctx, limitKey)

	return service.issue(ctx, account, student)
}

// issue signs a token and warms the session snapshot for the dashboard.
func (service *ServiceAuth) issue(ctx context.Context, account *models.Account, student *models.Student) (*AuthResult, error) {
	token, claims, err := service.authentication.CreateToken(account, student)
	if err != nil {
		return nil, toErrorx(err)
	}

	if _, err := service.serviceStudent.RefreshSession(ctx, student.StudentID); err != nil {
		service.logger.Warn("warm session", zap.String("student_id", student.StudentID), zap.Error(err))
	}

	return &AuthResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, Student: student}, nil
}

// SignOut revokes the token for the rest of its lifetime and drops the snapshot.
func (service *ServiceAuth) SignOut(ctx context.Context, claims *AuthClaims) error {
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := redis_store.RevokeToken(ctx, service.redisDB, claims.ID, ttl); err != nil {
		return toErrorx(err)
	}
	if err := service.serviceStudent.DropSession(ctx, claims.StudentID); err != nil {
		return toErrorx(err)
	}
	return nil
}

func (service *ServiceAuth) Validate(ctx context.Context, token string) (*AuthClaims, error) {
	claims, err := service.authentication.Validate(token)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Authn)
	}

	revoked, err := redis_store.IsTokenRevoked(ctx, service.redisDB, claims.ID)
	if err != nil {
		return nil, toErrorx(err)
	}
	if revoked {
		return nil, toErrorx(ErrTokenRevoked)
	}

	return claims, nil
}
