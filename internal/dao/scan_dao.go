package dao

import (
	"errors"

	"gorm.io/gorm"

	"threatlens/internal/models"
	apperrors "threatlens/pkg/errors"
)

// ScanRecordDAO is the persistence boundary for scan history. Insert is
// append-only: duplicate targets are expected and each insert produces a
// distinct record.
type ScanRecordDAO interface {
	Insert(record *models.ScanRecord) error
	FindByID(id string) (*models.ScanRecord, error)
	FindLatestByTarget(target string) (*models.ScanRecord, error)
	ListByOwner(owner string) ([]models.ScanRecord, error)
}

type scanRecordDAO struct {
	db *gorm.DB
}

func NewScanRecordDAO(db *gorm.DB) ScanRecordDAO {
	return &scanRecordDAO{db: db}
}

func (dao *scanRecordDAO) Insert(record *models.ScanRecord) error {
	if err := dao.db.Create(record).Error; err != nil {
		return apperrors.NewStorageError("insert scan record", err)
	}
	return nil
}

func (dao *scanRecordDAO) FindByID(id string) (*models.ScanRecord, error) {
	var record models.ScanRecord
	if err := dao.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("find scan record", err)
	}
	return &record, nil
}

func (dao *scanRecordDAO) FindLatestByTarget(target string) (*models.ScanRecord, error) {
	var record models.ScanRecord
	if err := dao.db.Where("target = ?", target).Order("created_at desc").First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("find scan record by target", err)
	}
	return &record, nil
}

func (dao *scanRecordDAO) ListByOwner(owner string) ([]models.ScanRecord, error) {
	var records []models.ScanRecord
	if err := dao.db.Where("owner = ?", owner).Order("created_at desc").Find(&records).Error; err != nil {
		return nil, apperrors.NewStorageError("list scan records", err)
	}
	return records, nil
}
