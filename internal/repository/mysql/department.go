package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

type departmentRepository struct {
	DB *gorm.DB
}

var _ domain.DepartmentRepository = (*departmentRepository)(nil)

func NewDepartmentRepository(db *gorm.DB) *departmentRepository {
	return &departmentRepository{DB: db}
}

func (m *departmentRepository) Fetch(ctx context.Context) ([]domain.Department, error) {
	var rows []model.Department
	if err := m.DB.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Department, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *departmentRepository) GetByID(ctx context.Context, id int64) (domain.Department, error) {
	var row model.Department
	if err := m.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return domain.Department{}, translateError(err)
	}
	return row.ToDomain(), nil
}

func (m *departmentRepository) Store(ctx context.Context, d *domain.Department) error {
	row := model.Department{Name: d.Name}
	if err := m.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return translateError(err)
	}
	d.ID = row.ID
	return nil
}

type managerRepository struct {
	DB *gorm.DB
}

var _ domain.ManagerRepository = (*managerRepository)(nil)

func NewManagerRepository(db *gorm.DB) *managerRepository {
	return &managerRepository{DB: db}
}

func (m *managerRepository) GetByUserID(ctx context.Context, userID int64) (domain.Manager, error) {
	var row model.ManagerWithName
	err := m.DB.WithContext(ctx).
		Model(&model.Manager{}).
		Select("managers.*, users.full_name").
		Joins("JOIN users ON users.id = managers.user_id").
		Where("managers.user_id = ?", userID).
		Take(&row).Error
	if err != nil {
		return domain.Manager{}, translateError(err)
	}
	return row.ToDomain(), nil
}

func (m *managerRepository) Store(ctx context.Context, mgr *domain.Manager) error {
	row := model.Manager{UserID: mgr.UserID, DepartmentID: mgr.DepartmentID}
	if err := m.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return translateError(err)
	}
	mgr.ID = row.ID
	return nil
}
