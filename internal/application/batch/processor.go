// Package batch runs detection jobs delivered over Kafka.  A job names a
// structure inline or by object key; the outcome is published to the result
// topic and, optionally, the full response is written to object storage.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hbond-engine/pkg/errors"
	"github.com/turtacn/hbond-engine/pkg/types/common"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

const contentTypeJSON = "application/json"

// ObjectStore reads structures and stores results; *minio.Client satisfies it.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	ResultKey(id string) string
}

// JobLedger records job outcomes; *postgres.JobRepository satisfies it.
type JobLedger interface {
	Record(ctx context.Context, r *types.JobResult) error
}

// Config tunes the processor.
type Config struct {
	ResultTopic string
	// JobTimeout bounds one detection run.  Zero means no limit.
	JobTimeout time.Duration
	// StoreResults writes every full response to the object store.
	StoreResults bool
}

// Dependencies are the processor's collaborators.  Store, Ledger and
// Metrics may be nil; without a Store, jobs naming an object key fail.
type Dependencies struct {
	Service   analysis.Service
	Publisher kafka.Publisher
	Store     ObjectStore
	Ledger    JobLedger
	Metrics   *prometheus.DetectionMetrics
	Logger    logging.Logger
}

// Processor turns job messages into result messages.
type Processor struct {
	cfg     Config
	svc     analysis.Service
	pub     kafka.Publisher
	store   ObjectStore
	ledger  JobLedger
	metrics *prometheus.DetectionMetrics
	logger  logging.Logger
}

// NewProcessor validates deps and returns a Processor.
func NewProcessor(cfg Config, deps Dependencies) (*Processor, error) {
	if deps.Service == nil || deps.Publisher == nil {
		return nil, errors.InvalidParam("batch processor requires a service and a publisher")
	}
	if cfg.ResultTopic == "" {
		cfg.ResultTopic = kafka.DefaultResultTopic
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Processor{
		cfg:     cfg,
		svc:     deps.Service,
		pub:     deps.Publisher,
		store:   deps.Store,
		ledger:  deps.Ledger,
		metrics: deps.Metrics,
		logger:  logger.Named("batch"),
	}, nil
}

// Handle is a kafka.Handler.  Jobs that can never succeed, such as malformed
// messages, unparsable structures and missing objects, are answered with a
// failed result and acknowledged.  Errors from unavailable infrastructure
// are returned so the consumer redelivers the job.
func (p *Processor) Handle(ctx context.Context, msg *kafka.Message) error {
	job, err := decodeJob(msg)
	log := p.logger.With(logging.String("job_id", job.JobID), logging.Int64("offset", msg.Offset))
	if err != nil {
		log.Warn("rejected job", logging.Err(err))
		return p.fail(ctx, job, err)
	}

	pdbText := job.PDB
	if job.ObjectKey != "" {
		if p.store == nil {
			return p.fail(ctx, job, errors.New(errors.ErrCodeInvalidJob, "object storage is not configured"))
		}
		data, err := p.store.Get(ctx, job.ObjectKey)
		if err != nil {
			if retryable(err) {
				log.Warn("structure fetch failed", logging.String("object_key", job.ObjectKey), logging.Err(err))
				return err
			}
			return p.fail(ctx, job, err)
		}
		pdbText = string(data)
	}

	runCtx := ctx
	if p.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.cfg.JobTimeout)
		defer cancel()
	}
	resp, err := p.svc.Detect(runCtx, &analysis.AnalyzeInput{
		PDB:                pdbText,
		Name:               jobName(job),
		Preset:             job.Preset,
		Filter:             job.Filter,
		MaxBondsPerAtom:    job.MaxBondsPerAtom,
		DetectIntraResidue: job.Intra,
		Contexts:           job.Contexts,
	})
	if err != nil {
		if ctx.Err() != nil || retryable(err) {
			return err
		}
		log.Warn("detection failed", logging.Err(err))
		return p.fail(ctx, job, err)
	}

	result := &types.JobResult{
		JobID:     job.JobID,
		Status:    types.JobSucceeded,
		ObjectKey: job.ObjectKey,
		Summary:   &resp.Summary,
		Result:    resp,
	}
	if p.store != nil && (p.cfg.StoreResults || job.StoreResult) {
		body, err := json.Marshal(resp)
		if err != nil {
			return p.fail(ctx, job, errors.Wrap(err, errors.ErrCodeSerialization, "encode result"))
		}
		key := p.store.ResultKey(job.JobID)
		if err := p.store.Put(ctx, key, body, contentTypeJSON); err != nil {
			if retryable(err) {
				return err
			}
			return p.fail(ctx, job, err)
		}
		result.ResultKey = key
		result.Result = nil
	}

	if err := p.publish(ctx, result); err != nil {
		return err
	}
	log.Info("job complete",
		logging.String("run_id", resp.RunID),
		logging.Int("bonds", resp.Summary.Bonds),
		logging.Bool("cached", resp.Cached),
		logging.String("result_key", result.ResultKey))
	return nil
}

// fail publishes a failed result for job.
func (p *Processor) fail(ctx context.Context, job *types.JobRequest, cause error) error {
	code := errors.GetCode(cause)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeInternal
	}
	detail := &common.ErrorDetail{Code: code.String(), Message: errors.DefaultMessageForCode(code), Detail: cause.Error()}
	return p.publish(ctx, &types.JobResult{
		JobID:     job.JobID,
		Status:    types.JobFailed,
		ObjectKey: job.ObjectKey,
		Error:     detail,
	})
}

// publish records r in the ledger, then sends it to the result topic.
func (p *Processor) publish(ctx context.Context, r *types.JobResult) error {
	r.CompletedAt = common.NewTimestamp()
	body, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode job result")
	}
	if p.ledger != nil {
		if err := p.ledger.Record(ctx, r); err != nil {
			return err
		}
	}
	err = p.pub.Publish(ctx, &kafka.OutboundMessage{
		Topic:   p.cfg.ResultTopic,
		Key:     []byte(r.JobID),
		Value:   body,
		Headers: map[string]string{"content-type": contentTypeJSON, "status": r.Status},
	})
	if err != nil {
		return err
	}
	if p.metrics != nil {
		p.metrics.RecordBatchJob(r.Status)
	}
	return nil
}

// decodeJob parses msg.  The returned job is never nil; when decoding fails
// its ID falls back to the message key or position.
func decodeJob(msg *kafka.Message) (*types.JobRequest, error) {
	job := &types.JobRequest{}
	err := json.Unmarshal(msg.Value, job)
	if job.JobID == "" {
		job.JobID = string(msg.Key)
	}
	if job.JobID == "" {
		job.JobID = fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
	}
	if err != nil {
		return job, errors.Wrap(err, errors.ErrCodeInvalidJob, "malformed job message")
	}
	switch {
	case job.PDB == "" && job.ObjectKey == "":
		return job, errors.New(errors.ErrCodeInvalidJob, "job names no structure")
	case job.PDB != "" && job.ObjectKey != "":
		return job, errors.New(errors.ErrCodeInvalidJob, "job sets both pdb and object_key")
	}
	return job, nil
}

func jobName(job *types.JobRequest) string {
	if job.Name != "" {
		return job.Name
	}
	if job.ObjectKey != "" {
		base := path.Base(job.ObjectKey)
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return job.JobID
}

func retryable(err error) bool {
	return errors.IsCode(err, errors.ErrCodeUnavailable) ||
		errors.IsCode(err, errors.ErrCodeCacheError) ||
		errors.IsCode(err, errors.ErrCodeDatabaseError)
}

//Personal.AI order the ending
