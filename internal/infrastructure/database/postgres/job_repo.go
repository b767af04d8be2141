package postgres

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/pkg/errors"
	"github.com/turtacn/hbond-engine/pkg/types/common"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

// List limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// JobFilter narrows List.  An empty Status matches every job.
type JobFilter struct {
	Status string
	Limit  int
}

// JobRepository records batch job outcomes in the detection_jobs table.
type JobRepository struct {
	db     DB
	logger logging.Logger
}

// NewJobRepository returns a repository over conn.
func NewJobRepository(conn *Connection, log logging.Logger) *JobRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &JobRepository{db: conn.DB(), logger: log.Named("jobs")}
}

const upsertJobSQL = `
INSERT INTO detection_jobs (job_id, status, object_key, result_key, error_code, record, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (job_id) DO UPDATE SET
	status       = EXCLUDED.status,
	object_key   = EXCLUDED.object_key,
	result_key   = EXCLUDED.result_key,
	error_code   = EXCLUDED.error_code,
	record       = EXCLUDED.record,
	completed_at = EXCLUDED.completed_at,
	attempts     = detection_jobs.attempts + 1,
	updated_at   = now()`

// Record upserts the outcome of res.JobID.
func (r *JobRepository) Record(ctx context.Context, res *types.JobResult) error {
	if res == nil || res.JobID == "" {
		return errors.InvalidParam("job result requires a job id")
	}
	record, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode job record")
	}
	errorCode := ""
	if res.Error != nil {
		errorCode = res.Error.Code
	}
	completed := time.Time(res.CompletedAt)
	if completed.IsZero() {
		completed = time.Now().UTC()
	}

	if _, err := r.db.Exec(ctx, upsertJobSQL,
		res.JobID, res.Status, res.ObjectKey, res.ResultKey, errorCode, record, completed,
	); err != nil {
		r.logger.Error("record job failed", logging.String("job_id", res.JobID), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to record job").WithDetail(res.JobID)
	}
	return nil
}

const selectJobSQL = `SELECT record, attempts, updated_at FROM detection_jobs WHERE job_id = $1`

// Get returns the recorded outcome of jobID, or ErrCodeNotFound.
func (r *JobRepository) Get(ctx context.Context, jobID string) (*types.JobRecord, error) {
	rec, err := scanJob(r.db.QueryRow(ctx, selectJobSQL, jobID))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeNotFound, "job not found").WithDetail(jobID)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load job").WithDetail(jobID)
	}
	return rec, nil
}

const listJobsSQL = `
SELECT record, attempts, updated_at FROM detection_jobs
WHERE ($1::text = '' OR status = $1)
ORDER BY completed_at DESC, job_id
LIMIT $2`

// List returns the most recently completed jobs, newest first.
func (r *JobRepository) List(ctx context.Context, f JobFilter) ([]*types.JobRecord, error) {
	limit := f.Limit
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	rows, err := r.db.Query(ctx, listJobsSQL, f.Status, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list jobs")
	}
	defer rows.Close()

	out := make([]*types.JobRecord, 0)
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan job")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list jobs")
	}
	return out, nil
}

func scanJob(row pgx.Row) (*types.JobRecord, error) {
	var (
		record   []byte
		attempts int
		updated  time.Time
	)
	if err := row.Scan(&record, &attempts, &updated); err != nil {
		return nil, err
	}
	rec := &types.JobRecord{Attempts: attempts, RecordedAt: common.Timestamp(updated.UTC())}
	if err := json.Unmarshal(record, &rec.JobResult); err != nil {
		return nil, err
	}
	return rec, nil
}

//Personal.AI order the ending
