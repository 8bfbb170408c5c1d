package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// SequenceRepository issues gapless, strictly increasing integers per named
// counter. Concurrent callers for the same name are serialized by the row
// lock the upsert takes; no interleaving can produce a duplicate value.
//
// When called through NextTx, the increment commits or rolls back with the
// surrounding transaction: a rolled-back sale does not burn a value. A crash
// after commit but before the caller uses the value surfaces as a gap, never
// a duplicate.
type SequenceRepository interface {
	// Next issues the next value for name in its own atomic statement.
	Next(ctx context.Context, name string) (int64, error)
	// NextTx issues the next value inside the given transaction.
	NextTx(ctx context.Context, tx *gorm.DB, name string) (int64, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

// Single atomic read-modify-write: the insert creates the row with value 1 on
// first use; on conflict the row is locked and incremented. No window exists
// between read and write for another caller to observe the same value.
const nextValueSQL = `
INSERT INTO sequences (name, value) VALUES (?, 1)
ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
RETURNING value`

func (r *sequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	return next(r.db.WithContext(ctx), name)
}

func (r *sequenceRepo) NextTx(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	return next(tx.WithContext(ctx), name)
}

func next(db *gorm.DB, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("sequence name must not be empty")
	}
	var value int64
	if err := db.Raw(nextValueSQL, name).Scan(&value).Error; err != nil {
		return 0, TranslateError(err)
	}
	return value, nil
}
