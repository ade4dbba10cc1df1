package usecase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/business-nexus/backend/internal/domain/apperror"
	"github.com/business-nexus/backend/internal/domain/models"
	"github.com/business-nexus/backend/internal/domain/output"
	"github.com/business-nexus/backend/internal/infra/adapters/memory"
	postrepo "github.com/business-nexus/backend/internal/infra/adapters/postgres/repository"
)

type UserUsecase interface {
	CreateUser(ctx context.Context, name, email, password, role string) (*models.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	ValidateCredentials(ctx context.Context, email, password string) (*models.User, error)
	GenerateJWT(user *models.User) (string, error)

	GetOnlineUsers(ctx context.Context) ([]output.OnlineUserInfo, error)
}

type userUsecase struct {
	jwtSecret []byte

	userRepo     postrepo.UserRepository
	presenceRepo memory.PresenceRepository
}

func NewUserUsecase(
	jwtSecret []byte,
	userRepo postrepo.UserRepository,
	presenceRepo memory.PresenceRepository,
) UserUsecase {
	return &userUsecase{
		jwtSecret:    jwtSecret,
		userRepo:     userRepo,
		presenceRepo: presenceRepo,
	}
}

func (uc *userUsecase) CreateUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if role != models.RoleEntrepreneur && role != models.RoleInvestor {
		return nil, apperror.NewValidationError("role", "must be entrepreneur or investor")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.NewUser()
	user.Name = name
	user.Email = email
	user.Password = string(hashedPassword)
	user.Role = role

	if err = uc.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (uc *userUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return uc.userRepo.GetUserByID(ctx, id)
}

func (uc *userUsecase) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (uc *userUsecase) GenerateJWT(user *models.User) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.jwtSecret)
}

func (uc *userUsecase) GetOnlineUsers(ctx context.Context) ([]output.OnlineUserInfo, error) {
	onlineUserIDs := uc.presenceRepo.OnlineUserIDs()

	result := make([]output.OnlineUserInfo, 0, len(onlineUserIDs))

	for _, userID := range onlineUserIDs {
		user, err := uc.userRepo.GetUserByID(ctx, userID)
		if err != nil {
			continue // skip users we cannot resolve
		}

		result = append(result, output.OnlineUserInfo{
			ID:   user.ID.String(),
			Name: user.Name,
			Role: user.Role,
		})
	}

	return result, nil
}
