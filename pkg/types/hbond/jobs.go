package hbond

import "github.com/turtacn/hbond-engine/pkg/types/common"

// JobRequest is a batch detection job.  Exactly one of PDB or ObjectKey
// names the structure; ObjectKey refers to the worker's structure bucket.
type JobRequest struct {
	JobID           string   `json:"job_id"`
	Name            string   `json:"name,omitempty"`
	PDB             string   `json:"pdb,omitempty"`
	ObjectKey       string   `json:"object_key,omitempty"`
	Preset          string   `json:"preset,omitempty"`
	Filter          string   `json:"filter,omitempty"`
	MaxBondsPerAtom *int     `json:"max_bonds_per_atom,omitempty"`
	Intra           *bool    `json:"intra,omitempty"`
	Contexts        []string `json:"contexts,omitempty"`
	// StoreResult asks the worker to write the full response to object
	// storage even when it does not do so by default.
	StoreResult bool `json:"store_result,omitempty"`
}

// Job outcomes.
const (
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
)

// JobResult reports the outcome of a batch job.  When the full response was
// written to object storage, ResultKey names it and Result is omitted.
type JobResult struct {
	JobID       string              `json:"job_id"`
	Status      string              `json:"status"`
	ObjectKey   string              `json:"object_key,omitempty"`
	ResultKey   string              `json:"result_key,omitempty"`
	Summary     *Summary            `json:"summary,omitempty"`
	Result      *DetectResponse     `json:"result,omitempty"`
	Error       *common.ErrorDetail `json:"error,omitempty"`
	CompletedAt common.Timestamp    `json:"completed_at"`
}

// JobRecord is a job outcome as kept in the job ledger.  Attempts counts
// how many times the outcome was recorded; redelivered jobs record again.
type JobRecord struct {
	JobResult
	Attempts   int              `json:"attempts"`
	RecordedAt common.Timestamp `json:"recorded_at"`
}

//Personal.AI order the ending
