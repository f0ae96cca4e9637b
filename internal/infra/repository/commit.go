package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/infra/database/models"
	"github.com/totegamma/filmpulse/internal/usecase"
)

type CommitRepository struct {
	db *gorm.DB
}

func NewCommitRepository(db *gorm.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

func (r *CommitRepository) Reserve(ctx context.Context, commit domain.Commit) error {
	ctx, span := tracer.Start(ctx, "Commit.Repository.Reserve")
	defer span.End()

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&models.CommitLog{
		ID:       commit.ID,
		Signer:   commit.Signer.String(),
		Schema:   commit.Schema,
		Document: commit.Document,
		Proof:    commit.Proof,
		CreateAt: commit.CreateAt,
	})
	if result.Error != nil {
		span.RecordError(result.Error)
		return errors.Wrap(result.Error, "reserve commit")
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(domain.ErrDuplicateCommit, "commit %s", commit.ID)
	}
	return nil
}

func (r *CommitRepository) Release(ctx context.Context, id string) error {
	return errors.Wrap(
		r.db.WithContext(ctx).Delete(&models.CommitLog{}, "id = ?", id).Error,
		"release commit",
	)
}

var _ usecase.CommitRepository = (*CommitRepository)(nil)
