package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/repository/mysql/model"
)

type voteRepository struct {
	DB *gorm.DB
}

var _ domain.VoteRepository = (*voteRepository)(nil)

func NewVoteRepository(db *gorm.DB) *voteRepository {
	return &voteRepository{DB: db}
}

// scope narrows a query to the single reference of target.
func scope(q *gorm.DB, target domain.VoteTarget) *gorm.DB {
	if target.PostID != nil {
		return q.Where("post_id = ?", *target.PostID)
	}
	return q.Where("comment_id = ?", *target.CommentID)
}

func (m *voteRepository) Get(ctx context.Context, userID int64, target domain.VoteTarget) (domain.Vote, error) {
	if err := target.Validate(); err != nil {
		return domain.Vote{}, err
	}
	var row model.Vote
	err := scope(m.DB.WithContext(ctx).Where("user_id = ?", userID), target).Take(&row).Error
	if err != nil {
		return domain.Vote{}, translateError(err)
	}
	return row.ToDomain(), nil
}

func (m *voteRepository) Store(ctx context.Context, v *domain.Vote) error {
	row := model.NewVoteFromDomain(v)
	if err := m.DB.WithContext(ctx).Create(row).Error; err != nil {
		return translateError(err)
	}
	v.ID = row.ID
	v.CreatedAt = row.CreatedAt
	return nil
}

func (m *voteRepository) UpdateType(ctx context.Context, v *domain.Vote) error {
	v.CreatedAt = time.Now()
	result := m.DB.WithContext(ctx).
		Model(&model.Vote{}).
		Where("id = ?", v.ID).
		Updates(map[string]any{
			"vote_type":  string(v.Type),
			"created_at": v.CreatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *voteRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Vote{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *voteRepository) Count(ctx context.Context, target domain.VoteTarget) (domain.VoteCounts, error) {
	if err := target.Validate(); err != nil {
		return domain.VoteCounts{}, err
	}
	var rows []struct {
		VoteType string
		Total    int64
	}
	err := scope(m.DB.WithContext(ctx).Model(&model.Vote{}), target).
		Select("vote_type, COUNT(*) AS total").
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return domain.VoteCounts{}, err
	}

	var res domain.VoteCounts
	for _, r := range rows {
		switch domain.VoteType(r.VoteType) {
		case domain.Upvote:
			res.Upvotes = r.Total
		case domain.Downvote:
			res.Downvotes = r.Total
		}
	}
	return res, nil
}

func (m *voteRepository) CountByComments(ctx context.Context, commentIDs []int64) (map[int64]domain.VoteCounts, error) {
	res := make(map[int64]domain.VoteCounts, len(commentIDs))
	if len(commentIDs) == 0 {
		return res, nil
	}
	var rows []model.VoteCountRow
	err := m.DB.WithContext(ctx).
		Model(&model.Vote{}).
		Select("comment_id AS target_id, vote_type, COUNT(*) AS total").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id, vote_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		c := res[r.TargetID]
		switch domain.VoteType(r.VoteType) {
		case domain.Upvote:
			c.Upvotes = r.Total
		case domain.Downvote:
			c.Downvotes = r.Total
		}
		res[r.TargetID] = c
	}
	return res, nil
}

func (m *voteRepository) UserVotesByComments(ctx context.Context, userID int64, commentIDs []int64) (map[int64]domain.VoteType, error) {
	res := make(map[int64]domain.VoteType, len(commentIDs))
	if len(commentIDs) == 0 {
		return res, nil
	}
	var rows []model.Vote
	err := m.DB.WithContext(ctx).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if r.CommentID != nil {
			res[*r.CommentID] = domain.VoteType(r.VoteType)
		}
	}
	return res, nil
}
