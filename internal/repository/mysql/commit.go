package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

type commitRepository struct {
	DB *gorm.DB
}

var _ domain.CommitRepository = (*commitRepository)(nil)

func NewCommitRepository(db *gorm.DB) *commitRepository {
	return &commitRepository{DB: db}
}

func (m *commitRepository) Store(ctx context.Context, c *domain.Commit) error {
	row := model.NewCommitFromDomain(c)
	if err := m.DB.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	c.ID = row.ID
	c.CreatedAt = row.CreatedAt
	return nil
}

func (m *commitRepository) FetchByPost(ctx context.Context, postID int64) ([]domain.Commit, error) {
	return m.fetch(ctx, "commits.post_id = ?", postID)
}

func (m *commitRepository) FetchByManager(ctx context.Context, managerID int64) ([]domain.Commit, error) {
	return m.fetch(ctx, "commits.manager_id = ?", managerID)
}

func (m *commitRepository) fetch(ctx context.Context, cond string, arg int64) ([]domain.Commit, error) {
	var rows []model.CommitWithManager
	err := m.DB.WithContext(ctx).
		Model(&model.Commit{}).
		Select("commits.*, users.full_name").
		Joins("JOIN managers ON managers.id = commits.manager_id").
		Joins("JOIN users ON users.id = managers.user_id").
		Where(cond, arg).
		Order("commits.created_at DESC").
		Order("commits.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Commit, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}
