package repositories

import (
	"time"

	"gorm.io/gorm"

	"presenceHub/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// SetUserOnlineStatus mirrors a presence transition into the users table so
// clients that poll instead of holding a socket see is_online and last_seen.
func (ur *UserRepository) SetUserOnlineStatus(userID uint, online bool) error {
	now := time.Now()
	return ur.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_online": online,
			"last_seen": &now,
		}).Error
}
