package domain

import "context"

// User represents an account of the shop.
type User struct {
	BaseModel
	UserName     string `gorm:"column:user_name;size:100;not null" json:"userName"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Verified     bool   `gorm:"column:verify;not null;default:false" json:"verify"`
}

// UserInput carries the fields of a new user. Password is plaintext.
type UserInput struct {
	UserName string `validate:"required,max=100" json:"userName"`
	Email    string `validate:"required,email,max=255" json:"email"`
	Password string `validate:"required,min=6,max=72" json:"password"`
}

// UserPatch carries the fields to change on an existing user.
type UserPatch struct {
	UserName *string `validate:"omitnil,min=1,max=100" json:"userName"`
	Email    *string `validate:"omitnil,email,max=255" json:"email"`
	Password *string `validate:"omitnil,min=6,max=72" json:"password"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	// Delete removes the user and every product link it owns.
	Delete(ctx context.Context, id uint) error
}

// UserService defines the business logic interface for users.
type UserService interface {
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	Create(ctx context.Context, in UserInput) (*User, error)
	Update(ctx context.Context, id uint, patch UserPatch) (*User, error)
	Delete(ctx context.Context, id uint) (*User, error)
}
