package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/repository"
	"github.com/osse101/xpscale/internal/scaled"
)

const (
	queryGetProfile = `
		SELECT user_id, level, total_mantissa, total_exponent, legacy_snapshot, snapshot_version, updated_at
		FROM progression_profiles
		WHERE user_id = $1`

	querySaveProfile = `
		INSERT INTO progression_profiles (user_id, level, total_mantissa, total_exponent, legacy_snapshot, snapshot_version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			level = EXCLUDED.level,
			total_mantissa = EXCLUDED.total_mantissa,
			total_exponent = EXCLUDED.total_exponent,
			legacy_snapshot = EXCLUDED.legacy_snapshot,
			snapshot_version = EXCLUDED.snapshot_version,
			updated_at = EXCLUDED.updated_at
		RETURNING updated_at`

	queryInsertLevelUp = `
		INSERT INTO level_ups (level_up_id, user_id, level, source, reached_at)
		VALUES ($1, $2, $3, $4, $5)`

	queryGetLevelUps = `
		SELECT level_up_id, user_id, level, source, reached_at
		FROM level_ups
		WHERE user_id = $1
		ORDER BY reached_at DESC, level DESC
		LIMIT $2`

	queryGetBoostLevel = `
		SELECT level FROM profile_boosts WHERE user_id = $1 AND boost_key = $2`

	querySetBoostLevel = `
		INSERT INTO profile_boosts (user_id, boost_key, level, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, boost_key) DO UPDATE SET
			level = EXCLUDED.level,
			updated_at = EXCLUDED.updated_at`

	queryGetBoostLevels = `
		SELECT user_id, boost_key, level FROM profile_boosts WHERE user_id = $1 ORDER BY boost_key`
)

// ProfileRepository implements repository.Profile for PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetProfile retrieves a user's progression row
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*repository.ProfileRecord, error) {
	var (
		rec      repository.ProfileRecord
		mantissa float64
		exponent int64
		legacy   []byte
		updated  pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, queryGetProfile, userID).Scan(
		&rec.UserID, &rec.State.Level, &mantissa, &exponent, &legacy, &rec.SnapshotVersion, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetProfile, err)
	}

	rec.State.Total = scaled.New(mantissa, int(exponent))
	rec.LegacySnapshot = legacy
	rec.UpdatedAt = updated.Time
	return &rec, nil
}

// SaveProfile upserts the whole progression row
func (r *ProfileRepository) SaveProfile(ctx context.Context, record *repository.ProfileRecord) error {
	if record == nil || record.UserID == "" {
		return domain.ErrInvalidInput
	}

	var legacy []byte
	if record.HasLegacySnapshot() {
		legacy = record.LegacySnapshot
	}

	var updated time.Time
	err := r.pool.QueryRow(ctx, querySaveProfile,
		record.UserID,
		record.State.Level,
		record.State.Total.Mantissa(),
		int64(record.State.Total.Exponent()),
		legacy,
		record.SnapshotVersion,
	).Scan(&updated)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveProfile, err)
	}
	record.UpdatedAt = updated
	return nil
}

// RecordLevelUps inserts level-up history in a single transaction
func (r *ProfileRepository) RecordLevelUps(ctx context.Context, records []domain.LevelUpRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	defer SafeRollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, rec := range records {
		reachedAt := rec.ReachedAt
		if reachedAt.IsZero() {
			reachedAt = time.Now().UTC()
		}
		batch.Queue(queryInsertLevelUp, rec.ID, rec.UserID, rec.Level, textOrNull(rec.Source), reachedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRecordLevelUps, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTx, err)
	}
	return nil
}

// GetLevelUps returns the most recent level-ups first
func (r *ProfileRepository) GetLevelUps(ctx context.Context, userID string, limit int) ([]domain.LevelUpRecord, error) {
	if limit <= 0 {
		limit = DefaultLevelUpHistoryLimit
	}

	rows, err := r.pool.Query(ctx, queryGetLevelUps, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLevelUps, err)
	}
	defer rows.Close()

	out := make([]domain.LevelUpRecord, 0)
	for rows.Next() {
		var (
			rec    domain.LevelUpRecord
			source pgtype.Text
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Level, &source, &rec.ReachedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLevelUps, err)
		}
		rec.Source = source.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLevelUps, err)
	}
	return out, nil
}

// GetBoostLevel returns 0 when the user never leveled the boost
func (r *ProfileRepository) GetBoostLevel(ctx context.Context, userID, boostKey string) (int, error) {
	var level int
	err := r.pool.QueryRow(ctx, queryGetBoostLevel, userID, boostKey).Scan(&level)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoostLevel, err)
	}
	return level, nil
}

// SetBoostLevel upserts a user's level in a boost
func (r *ProfileRepository) SetBoostLevel(ctx context.Context, userID, boostKey string, level int) error {
	if level < 0 {
		return domain.ErrInvalidInput
	}
	if _, err := r.pool.Exec(ctx, querySetBoostLevel, userID, boostKey, level); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetBoostLevel, err)
	}
	return nil
}

// GetBoostLevels returns all boost levels of a user sorted by key
func (r *ProfileRepository) GetBoostLevels(ctx context.Context, userID string) ([]domain.BoostLevel, error) {
	rows, err := r.pool.Query(ctx, queryGetBoostLevels, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoostLevel, err)
	}
	levels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BoostLevel, error) {
		var b domain.BoostLevel
		err := row.Scan(&b.UserID, &b.BoostKey, &b.Level)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoostLevel, err)
	}
	return levels, nil
}

var _ repository.Profile = (*ProfileRepository)(nil)

