package usecase

import (
	"context"

	"lendly/internal/domain/entity"
	"lendly/internal/domain/repository"
	"lendly/internal/infrastructure/firebase"
	"lendly/pkg/errors"
	"lendly/pkg/logger"
)

type UserUseCase struct {
	userRepo   repository.UserRepository
	authClient *firebase.FirebaseAuthClient
}

func NewUserUseCase(userRepo repository.UserRepository, authClient *firebase.FirebaseAuthClient) *UserUseCase {
	return &UserUseCase{
		userRepo:   userRepo,
		authClient: authClient,
	}
}

type UpdateProfileInput struct {
	DisplayName    string            `json:"display_name" validate:"omitempty,min=2,max=100"`
	ContactMethods map[string]string `json:"contact_methods" validate:"omitempty,dive,keys,min=1,endkeys,min=1"`
}

// EnsureProfile returns the user's profile, creating it from the identity
// provider's record on first sign-in.
func (uc *UserUseCase) EnsureProfile(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	record, err := uc.authClient.GetUser(ctx, uid)
	if err != nil {
		logger.Error("Failed to fetch auth record for %s: %v", uid, err)
		return nil, errors.Internal("Failed to fetch identity record", err)
	}

	user = &entity.User{
		ID:          uid,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	}
	if user.DisplayName == "" {
		user.DisplayName = record.Email
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

// UpdateProfile lets the owning user change the mutable profile fields.
// The identity id and email stay as the provider issued them.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.ContactMethods != nil {
		user.ContactMethods = input.ContactMethods
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
