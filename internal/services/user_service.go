package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doviland/gestionale/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserStore interface {
	List() ([]models.User, error)
	FindByID(userID uint) (models.User, error)
	ExistsByEmail(email string) (bool, error)
	Create(user *models.User) error
	UpdateByID(userID uint, updates map[string]any) error
	Delete(userID uint) error
}

// UserService is the admin-facing account management surface.
type UserService struct {
	users    UserStore
	activity ActivityRecorder
}

func NewUserService(users UserStore, activity ActivityRecorder) *UserService {
	return &UserService{users: users, activity: activity}
}

// UserInput carries the writable account fields for creation.
type UserInput struct {
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	Name        string             `json:"name"`
	Role        string             `json:"role"`
	Permissions models.Permissions `json:"permissions"`
}

// UserPatch is the sparse field set accepted by account updates.
type UserPatch struct {
	Email       PatchField[string]             `json:"email"`
	Password    PatchField[string]             `json:"password"`
	Name        PatchField[string]             `json:"name"`
	Role        PatchField[string]             `json:"role"`
	Permissions PatchField[models.Permissions] `json:"permissions"`
	IsActive    PatchField[bool]               `json:"is_active"`
}

func (patch UserPatch) empty() bool {
	return !patch.Email.Set &&
		!patch.Password.Set &&
		!patch.Name.Set &&
		!patch.Role.Set &&
		!patch.Permissions.Set &&
		!patch.IsActive.Set
}

func (service *UserService) List(actor *models.User) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin only", ErrForbidden)
	}
	return service.users.List()
}

func (service *UserService) Get(actor *models.User, userID uint) (models.User, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		return models.User{}, fmt.Errorf("%w: admin only", ErrForbidden)
	}
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return user, err
}

func (service *UserService) Create(actor *models.User, input UserInput) (models.User, error) {
	if !actor.IsAdmin() {
		return models.User{}, fmt.Errorf("%w: admin only", ErrForbidden)
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return models.User{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if input.Name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Role == "" {
		input.Role = models.RoleCollaborator
	}
	if !models.IsValidRole(input.Role) {
		return models.User{}, fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}
	if err := ValidatePasswordStrength(input.Password); err != nil {
		return models.User{}, err
	}

	taken, err := service.users.ExistsByEmail(input.Email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	permissions := input.Permissions
	if input.Role == models.RoleAdmin {
		permissions = models.AllPermissions()
	}
	user := models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Role:         input.Role,
		Permissions:  permissions,
		IsActive:     true,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}

	service.activity.Record(actor.ID, models.EntityUser, user.ID, models.ActionCreated,
		fmt.Sprintf("Created user %s", user.Email))
	return user, nil
}

func (service *UserService) Update(actor *models.User, userID uint, patch UserPatch) (models.User, error) {
	if !actor.IsAdmin() {
		return models.User{}, fmt.Errorf("%w: admin only", ErrForbidden)
	}
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return models.User{}, err
	}
	if patch.empty() {
		return models.User{}, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	updates := make(map[string]any)
	if patch.Email.Set {
		if !patch.Email.Valid {
			return models.User{}, fmt.Errorf("%w: email cannot be null", ErrInvalidInput)
		}
		email := strings.ToLower(strings.TrimSpace(patch.Email.Value))
		if email == "" || !strings.Contains(email, "@") {
			return models.User{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		if email != user.Email {
			taken, err := service.users.ExistsByEmail(email)
			if err != nil {
				return models.User{}, err
			}
			if taken {
				return models.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
			}
		}
		updates["email"] = email
	}
	if patch.Password.Set {
		if !patch.Password.Valid {
			return models.User{}, fmt.Errorf("%w: password cannot be null", ErrInvalidInput)
		}
		if err := ValidatePasswordStrength(patch.Password.Value); err != nil {
			return models.User{}, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(patch.Password.Value), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		updates["password_hash"] = string(hash)
	}
	if patch.Name.Set {
		if !patch.Name.Valid || strings.TrimSpace(patch.Name.Value) == "" {
			return models.User{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		updates["name"] = strings.TrimSpace(patch.Name.Value)
	}
	role := user.Role
	if patch.Role.Set {
		if !patch.Role.Valid || !models.IsValidRole(patch.Role.Value) {
			return models.User{}, fmt.Errorf("%w: invalid role", ErrInvalidInput)
		}
		role = patch.Role.Value
		updates["role"] = role
	}
	permissions := user.Permissions
	if patch.Permissions.Set {
		if !patch.Permissions.Valid {
			return models.User{}, fmt.Errorf("%w: permissions cannot be null", ErrInvalidInput)
		}
		permissions = patch.Permissions.Value
	}
	if role == models.RoleAdmin {
		permissions = models.AllPermissions()
	}
	if patch.Permissions.Set || patch.Role.Set {
		updates["perm_copywriting"] = permissions.Copywriting
		updates["perm_video"] = permissions.Video
		updates["perm_adv"] = permissions.Adv
		updates["perm_grafica"] = permissions.Grafica
	}
	if patch.IsActive.Set {
		if !patch.IsActive.Valid {
			return models.User{}, fmt.Errorf("%w: is_active cannot be null", ErrInvalidInput)
		}
		if !patch.IsActive.Value && actor.ID == userID {
			return models.User{}, fmt.Errorf("%w: cannot deactivate yourself", ErrInvalidInput)
		}
		updates["is_active"] = patch.IsActive.Value
	}

	if err := service.users.UpdateByID(userID, updates); err != nil {
		return models.User{}, err
	}

	service.activity.Record(actor.ID, models.EntityUser, userID, models.ActionUpdated,
		fmt.Sprintf("Updated user %s", user.Email))
	return service.users.FindByID(userID)
}

// Delete removes an account. Admins cannot delete themselves; demoting or
// removing the last admin is their own responsibility.
func (service *UserService) Delete(actor *models.User, userID uint) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", ErrForbidden)
	}
	if actor.ID == userID {
		return fmt.Errorf("%w: cannot delete yourself", ErrInvalidInput)
	}
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return err
	}
	if err := service.users.Delete(userID); err != nil {
		return err
	}
	service.activity.Record(actor.ID, models.EntityUser, userID, models.ActionDeleted,
		fmt.Sprintf("Deleted user %s", user.Email))
	return nil
}
