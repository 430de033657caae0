package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
)

// Error variables
var (
	ErrEmailRequired     = errors.New("user must have an email address")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
	ErrUserNotFound      = errors.New("user does not exist")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID int64) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	// Save persists a new user, or returns nil when the email is
	// already taken.
	Save(ctx context.Context, email, passwordHash, name string, isStaff, isSuperuser bool) (*models.UserDB, error)
	Update(ctx context.Context, userID int64, name, passwordHash *string) (*models.UserDB, error)
}

// UserService handles registration and profile management.
type UserService struct {
	reader UserReader
	writer UserWriter
}

// NewUserService creates a new UserService instance.
func NewUserService(reader UserReader, writer UserWriter) *UserService {
	return &UserService{reader: reader, writer: writer}
}

// NormalizeEmail lower-cases the domain segment of an email address,
// leaving the local part untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// Register creates a regular user with a hashed password.
func (svc *UserService) Register(ctx context.Context, email, password, name string) (*models.UserDB, error) {
	return svc.create(ctx, email, password, name, false, false)
}

// CreateSuperuser creates a user with the staff and superuser flags set.
func (svc *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.UserDB, error) {
	return svc.create(ctx, email, password, "", true, true)
}

func (svc *UserService) create(ctx context.Context, email, password, name string, isStaff, isSuperuser bool) (*models.UserDB, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmailRequired
	}
	email = NormalizeEmail(email)

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("user already exists", "email", email)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Save(ctx, email, string(hashedPassword), name, isStaff, isSuperuser)
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}
	if user == nil {
		// insert lost a race with a concurrent registration
		logger.Log.Errorw("user already exists", "email", email)
		return nil, ErrUserAlreadyExists
	}

	return user, nil
}

// Profile returns the user record for an authenticated user ID.
func (svc *UserService) Profile(ctx context.Context, userID int64) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial profile update. A non-nil password is
// re-hashed before persisting; other fields are stored as given.
func (svc *UserService) UpdateProfile(ctx context.Context, userID int64, name, password *string) (*models.UserDB, error) {
	var passwordHash *string
	if password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		s := string(hashed)
		passwordHash = &s
	}

	user, err := svc.writer.Update(ctx, userID, name, passwordHash)
	if err != nil {
		logger.Log.Errorw("failed to update user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}
