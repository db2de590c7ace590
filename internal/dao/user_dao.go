package dao

import (
	"errors"

	"gorm.io/gorm"

	"threatlens/internal/models"
	apperrors "threatlens/pkg/errors"
)

type UserDAO interface {
	FindByToken(token string) (*models.User, error)
}

type userDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) UserDAO {
	return &userDAO{db: db}
}

func (dao *userDAO) FindByToken(token string) (*models.User, error) {
	var user models.User
	if err := dao.db.Where("api_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("find user by token", err)
	}
	return &user, nil
}
