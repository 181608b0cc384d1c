package user

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

const entity = "user"

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository backed by the given GORM database.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// List returns every user ordered by id.
func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	if err := pkg.Conn(ctx, r.db).Order("id").Find(&users).Error; err != nil {
		return nil, pkg.MapDBError(err, entity)
	}
	return users, nil
}

// GetByID retrieves a user by its primary key.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := pkg.Conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, pkg.MapDBError(err, entity)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := pkg.Conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, pkg.MapDBError(err, entity)
	}
	return &user, nil
}

// ExistsByEmail reports whether a user with the given email is stored.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := pkg.Conn(ctx, r.db).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, pkg.MapDBError(err, entity)
	}
	return count > 0, nil
}

// Create inserts a new user into the database.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return pkg.MapDBError(pkg.Conn(ctx, r.db).Create(user).Error, entity)
}

// Update saves changes to an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return pkg.MapDBError(pkg.Conn(ctx, r.db).Save(user).Error, entity)
}

// Delete removes a user and its product links. Run it inside a TxManager
// transaction to make both deletes atomic.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	conn := pkg.Conn(ctx, r.db)
	if err := conn.Where("user_id = ?", id).Delete(&domain.UserProduct{}).Error; err != nil {
		return pkg.MapDBError(err, entity)
	}
	result := conn.Delete(&domain.User{}, id)
	if result.Error != nil {
		return pkg.MapDBError(result.Error, entity)
	}
	if result.RowsAffected == 0 {
		return domain.NewAppError(domain.CodeNotFound, "user not found", nil)
	}
	return nil
}
