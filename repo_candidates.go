package referrals

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Candidates persists referred candidates. Every read and mutation that
// targets a single record goes through FindOwned so the ownership filter
// cannot be skipped by a new call site.
type Candidates interface {
	Create(ctx context.Context, record *Candidate) (*Candidate, error)
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*Candidate, error)
	FindOwned(ctx context.Context, id, referrerID uuid.UUID) (*Candidate, error)
	UpdateStatus(ctx context.Context, id, referrerID uuid.UUID, status CandidateStatus) (*Candidate, error)
	DeleteOwned(ctx context.Context, id, referrerID uuid.UUID) error
}

type candidates struct {
	db *bun.DB
}

var _ Candidates = (*candidates)(nil)

func NewCandidatesRepository(db *bun.DB) Candidates {
	return &candidates{db: db}
}

// Create persists a new referral. Status defaults to Pending and the
// referrer reference is taken from the record as-is; it is never written
// again after this point.
func (r *candidates) Create(ctx context.Context, record *Candidate) (*Candidate, error) {
	prepareCandidateDefaults(record)

	_, err := r.db.NewInsert().
		Model(record).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListByReferrer returns the caller's candidates, newest first
func (r *candidates) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*Candidate, error) {
	var records []*Candidate
	err := r.db.NewSelect().
		Model(&records).
		Where("referred_by = ?", referrerID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Candidate{}, nil
		}
		return nil, err
	}

	if records == nil {
		records = []*Candidate{}
	}

	return records, nil
}

// FindOwned fetches a candidate by id scoped to its referrer. A missing
// record and a record owned by someone else both come back as
// ErrCandidateNotFound.
func (r *candidates) FindOwned(ctx context.Context, id, referrerID uuid.UUID) (*Candidate, error) {
	record := &Candidate{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ? AND referred_by = ?", id, referrerID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}

	return record, nil
}

// UpdateStatus moves an owned candidate to a new workflow status
func (r *candidates) UpdateStatus(ctx context.Context, id, referrerID uuid.UUID, status CandidateStatus) (*Candidate, error) {
	record, err := r.FindOwned(ctx, id, referrerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record.Status = status
	record.UpdatedAt = &now

	_, err = r.db.NewUpdate().
		Model(record).
		Column("status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteOwned removes an owned candidate. Deleting a record that is
// already gone reports ErrCandidateNotFound, same as never existed.
func (r *candidates) DeleteOwned(ctx context.Context, id, referrerID uuid.UUID) error {
	if _, err := r.FindOwned(ctx, id, referrerID); err != nil {
		return err
	}

	_, err := r.db.NewDelete().
		Model((*Candidate)(nil)).
		Where("id = ? AND referred_by = ?", id, referrerID).
		Exec(ctx)
	return err
}
