package dao

import (
	"gorm.io/gorm"

	"threatlens/internal/models"
	apperrors "threatlens/pkg/errors"
)

type ContactDAO interface {
	Save(message *models.ContactMessage) error
}

type contactDAO struct {
	db *gorm.DB
}

func NewContactDAO(db *gorm.DB) ContactDAO {
	return &contactDAO{db: db}
}

func (dao *contactDAO) Save(message *models.ContactMessage) error {
	if err := dao.db.Create(message).Error; err != nil {
		return apperrors.NewStorageError("save contact message", err)
	}
	return nil
}
