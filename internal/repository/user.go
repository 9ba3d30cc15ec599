package repository

import (
	"go-arsip/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindByEmails(emails []string) ([]*model.User, error)
	EmailExists(email string) (bool, error)
	Update(user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmails используется для разрешения отображаемых имён в журнале активности
func (r *userRepository) FindByEmails(emails []string) ([]*model.User, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	var users []*model.User
	err := r.db.Where("email IN ?", emails).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}
