package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/storage"
	"github.com/yukikurage/project-management-api/internal/utils"
	"go.uber.org/zap"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// UserService handles user registration, lookup and profile updates.
type UserService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
	images   storage.BlobStore
	log      *zap.Logger
	now      func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, images storage.BlobStore, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		images:   images,
		log:      log,
		now:      time.Now,
	}
}

// ImageUpload is a profile image received with a request.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// RegisterInput represents the information needed to create a user.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Mobile    string
	Gender    string
	BirthDate string
	Image     *ImageUpload
}

// Register validates input, hashes the password and stores a new user.
// Registration is unauthenticated, so every new user starts as MEMBER.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, validationError("email is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, validationError("password must be at least %d characters", constants.MinPasswordLength)
	}

	user := &models.User{
		Name:  name,
		Email: email,
		Role:  models.RoleMember,
	}

	if err := s.applyProfile(user, &input.Mobile, &input.Gender, &input.BirthDate); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if input.Image != nil {
		ref, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		user.ImageRef = ref
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsersInput represents pagination and filters for listing users.
type ListUsersInput struct {
	Pagination      utils.PaginationParams
	IncludeArchived bool
}

// List returns one page of users and the total number of matches.
func (s *UserService) List(ctx context.Context, input ListUsersInput) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, repository.UserFilter{
		IncludeArchived: input.IncludeArchived,
		Offset:          input.Pagination.Offset,
		Limit:           input.Pagination.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateUserInput represents a partial profile update. Nil fields are left untouched.
type UpdateUserInput struct {
	Name      *string
	Email     *string
	Password  *string
	Mobile    *string
	Gender    *string
	BirthDate *string
	Role      *string
	Archived  *bool
	Image     *ImageUpload
}

func (in UpdateUserInput) empty() bool {
	return in.Name == nil && in.Email == nil && in.Password == nil && in.Mobile == nil &&
		in.Gender == nil && in.BirthDate == nil && in.Role == nil && in.Archived == nil && in.Image == nil
}

// Update applies a partial update to user id on behalf of actorID. Users may
// edit themselves; OWNER and ADMIN users may edit anyone and are the only
// ones allowed to change roles or the archived flag. A password can only be
// changed by its owner.
func (s *UserService) Update(ctx context.Context, actorID, id string, input UpdateUserInput) (*models.User, error) {
	if input.empty() {
		return nil, ErrNoFieldsToUpdate
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: unknown actor", ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find actor: %w", err)
	}
	privileged := actor.Role.CanManage()
	if actorID != id && !privileged {
		return nil, ErrNotSelf
	}
	if (input.Role != nil || input.Archived != nil) && !privileged {
		return nil, fmt.Errorf("%w: only OWNER or ADMIN users may change role or archived", ErrUnauthorized)
	}
	if input.Password != nil && actorID != id {
		return nil, ErrForeignPassword
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, validationError("email cannot be empty")
		}
		if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing.ID != user.ID {
			return nil, ErrEmailTaken
		} else if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = email
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, validationError("password must be at least %d characters", constants.MinPasswordLength)
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if err := s.applyProfile(user, input.Mobile, input.Gender, input.BirthDate); err != nil {
		return nil, err
	}
	if input.Role != nil {
		role, err := models.ParseRole(*input.Role)
		if err != nil {
			return nil, validationError("%v", err)
		}
		user.Role = role
	}
	if input.Archived != nil {
		user.Archived = *input.Archived
	}
	if input.Image != nil {
		ref, err := s.storeImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		user.ImageRef = ref
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Info("user updated", zap.String("user_id", user.ID), zap.String("actor_id", actorID))
	return user, nil
}

// applyProfile validates and sets the optional profile fields. Age is
// always recomputed from the birth date so the two cannot drift.
func (s *UserService) applyProfile(user *models.User, mobile, gender, birthDate *string) error {
	if mobile != nil && *mobile != "" {
		if !mobilePattern.MatchString(*mobile) {
			return validationError("mobile must be a 10 digit number")
		}
		user.Mobile = *mobile
	}
	if gender != nil && *gender != "" {
		g, err := models.ParseGender(*gender)
		if err != nil {
			return validationError("%v", err)
		}
		user.Gender = g
	}
	if birthDate != nil && *birthDate != "" {
		age, err := utils.CalculateAge(*birthDate, s.now())
		if err != nil {
			return validationError("%v", err)
		}
		user.BirthDate = *birthDate
		user.Age = age
	}
	return nil
}

func (s *UserService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	ref, err := s.images.Put(ctx, img.Filename, img.Data)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) || errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrEmpty) {
			return "", validationError("%v", err)
		}
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}
