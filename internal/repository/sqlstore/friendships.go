package sqlstore

import (
	"context"

	"gymbros/fitness-tracker/internal/domain"
	"gymbros/fitness-tracker/internal/repository"

	"gorm.io/gorm"
)

type friendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) repository.FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create relies on the unique pair_key index to reject a second row for a pair.
func (r *friendshipRepository) Create(ctx context.Context, f *domain.Friendship) error {
	row := newFriendshipRow(f)
	f.PairKey = row.PairKey
	return translate(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *friendshipRepository) first(ctx context.Context, query string, arg interface{}) (*domain.Friendship, error) {
	var row friendshipRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	f := row.toDomain()
	return &f, nil
}

func (r *friendshipRepository) GetByID(ctx context.Context, id string) (*domain.Friendship, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *friendshipRepository) GetByPair(ctx context.Context, a, b string) (*domain.Friendship, error) {
	return r.first(ctx, "pair_key = ?", domain.PairKey(a, b))
}

func (r *friendshipRepository) Update(ctx context.Context, f *domain.Friendship) error {
	return affected(r.db.WithContext(ctx).Model(&friendshipRow{}).
		Where("id = ?", f.ID).
		Updates(map[string]interface{}{
			"requester_id": f.RequesterID,
			"addressee_id": f.AddresseeID,
			"status":       string(f.Status),
			"created_at":   f.CreatedAt,
			"responded_at": f.RespondedAt,
		}))
}

func (r *friendshipRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&friendshipRow{}))
}

func (r *friendshipRepository) ListByUser(ctx context.Context, userID string, status domain.FriendshipStatus) ([]domain.Friendship, error) {
	var rows []friendshipRow
	err := r.db.WithContext(ctx).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", string(status), userID, userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	friendships := make([]domain.Friendship, 0, len(rows))
	for _, row := range rows {
		friendships = append(friendships, row.toDomain())
	}
	return friendships, nil
}
