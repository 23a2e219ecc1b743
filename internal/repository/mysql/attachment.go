package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

type attachmentRepository struct {
	DB *gorm.DB
}

var _ domain.AttachmentRepository = (*attachmentRepository)(nil)

func NewAttachmentRepository(db *gorm.DB) *attachmentRepository {
	return &attachmentRepository{DB: db}
}

func (m *attachmentRepository) Store(ctx context.Context, a *domain.Attachment) error {
	row := model.NewAttachmentFromDomain(a)
	if err := m.DB.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	a.ID = row.ID
	a.UploadedAt = row.UploadedAt
	return nil
}

func (m *attachmentRepository) FetchByPost(ctx context.Context, postID int64) ([]domain.Attachment, error) {
	var rows []model.Attachment
	err := m.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]domain.Attachment, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}
