package batch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-engine/internal/application/analysis"
	"github.com/turtacn/hbond-engine/internal/config"
	"github.com/turtacn/hbond-engine/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hbond-engine/internal/testutil"
	"github.com/turtacn/hbond-engine/pkg/errors"
	types "github.com/turtacn/hbond-engine/pkg/types/hbond"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*kafka.OutboundMessage
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, msg *kafka.OutboundMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakePublisher) results(t *testing.T) []types.JobResult {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.JobResult, len(f.msgs))
	for i, m := range f.msgs {
		require.NoError(t, json.Unmarshal(m.Value, &out[i]))
	}
	return out
}

type fakeStore struct {
	objects map[string][]byte
	puts    map[string][]byte
	getErr  error
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, puts: map[string][]byte{}}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "object not found").WithDetail(key)
	}
	return data, nil
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts[key] = data
	return nil
}

func (f *fakeStore) ResultKey(id string) string { return "results/" + id + ".json" }

type fakeLedger struct {
	records []types.JobResult
	err     error
}

func (f *fakeLedger) Record(_ context.Context, r *types.JobResult) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *r)
	return nil
}

func newProcessor(t *testing.T, cfg Config, pub kafka.Publisher, store ObjectStore) *Processor {
	t.Helper()
	return newProcessorWithLedger(t, cfg, pub, store, nil)
}

func newProcessorWithLedger(t *testing.T, cfg Config, pub kafka.Publisher, store ObjectStore, ledger JobLedger) *Processor {
	t.Helper()
	svc, err := analysis.NewService(analysis.Dependencies{Config: config.Default()})
	require.NoError(t, err)
	deps := Dependencies{
		Service:   svc,
		Publisher: pub,
		Metrics:   prometheus.NewDetectionMetrics(prometheus.NewNoopCollector()),
		Store:     store,
		Logger:    testutil.NewMockLogger(),
	}
	if ledger != nil {
		deps.Ledger = ledger
	}
	p, err := NewProcessor(cfg, deps)
	require.NoError(t, err)
	return p
}

func jobMessage(t *testing.T, job types.JobRequest) *kafka.Message {
	t.Helper()
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return &kafka.Message{Topic: kafka.DefaultRequestTopic, Offset: 42, Value: body}
}

func TestNewProcessor_RequiresCollaborators(t *testing.T) {
	_, err := NewProcessor(Config{}, Dependencies{})
	assert.Error(t, err)
}

func TestHandle_InlinePDB(t *testing.T) {
	pub := &fakePublisher{}
	p := newProcessor(t, Config{}, pub, nil)

	err := p.Handle(context.Background(), jobMessage(t, types.JobRequest{JobID: "j1", PDB: testutil.GuanineCytosinePDB}))
	require.NoError(t, err)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, kafka.DefaultResultTopic, pub.msgs[0].Topic)
	assert.Equal(t, []byte("j1"), pub.msgs[0].Key)
	assert.Equal(t, types.JobSucceeded, pub.msgs[0].Headers["status"])

	r := pub.results(t)[0]
	assert.Equal(t, "j1", r.JobID)
	assert.Equal(t, types.JobSucceeded, r.Status)
	require.NotNil(t, r.Result)
	assert.Equal(t, "j1", r.Result.Structure)
	assert.Equal(t, 3, r.Summary.Bonds)
	assert.Empty(t, r.ResultKey)
	assert.Nil(t, r.Error)
}

func TestHandle_ObjectKeyStoresResult(t *testing.T) {
	pub := &fakePublisher{}
	store := newFakeStore()
	store.objects["structures/1gc.pdb"] = []byte(testutil.GuanineCytosinePDB)
	p := newProcessor(t, Config{StoreResults: true, ResultTopic: "out"}, pub, store)

	err := p.Handle(context.Background(), jobMessage(t, types.JobRequest{JobID: "j2", ObjectKey: "structures/1gc.pdb"}))
	require.NoError(t, err)

	r := pub.results(t)[0]
	assert.Equal(t, "out", pub.msgs[0].Topic)
	assert.Equal(t, types.JobSucceeded, r.Status)
	assert.Equal(t, "structures/1gc.pdb", r.ObjectKey)
	assert.Equal(t, "results/j2.json", r.ResultKey)
	assert.Nil(t, r.Result)
	assert.Equal(t, 3, r.Summary.Bonds)

	var stored types.DetectResponse
	require.NoError(t, json.Unmarshal(store.puts["results/j2.json"], &stored))
	assert.Equal(t, "1gc", stored.Structure)
	assert.Len(t, stored.Bonds, 3)
}

func TestHandle_PerJobStoreResult(t *testing.T) {
	pub := &fakePublisher{}
	store := newFakeStore()
	p := newProcessor(t, Config{}, pub, store)

	job := types.JobRequest{JobID: "j3", PDB: testutil.GuanineCytosinePDB, StoreResult: true, Preset: "legacy-compatible"}
	require.NoError(t, p.Handle(context.Background(), jobMessage(t, job)))
	assert.Contains(t, store.puts, "results/j3.json")
	assert.Equal(t, "results/j3.json", pub.results(t)[0].ResultKey)
}

func TestHandle_PermanentFailures(t *testing.T) {
	tests := []struct {
		name  string
		msg   func(t *testing.T) *kafka.Message
		store bool
		code  errors.ErrorCode
		id    string
	}{
		{
			name: "malformed json",
			msg: func(*testing.T) *kafka.Message {
				return &kafka.Message{Topic: "t", Key: []byte("from-key"), Value: []byte("{not json")}
			},
			code: errors.ErrCodeInvalidJob,
			id:   "from-key",
		},
		{
			name: "no structure",
			msg: func(*testing.T) *kafka.Message {
				return &kafka.Message{Topic: "t", Partition: 2, Offset: 9, Value: []byte(`{}`)}
			},
			code: errors.ErrCodeInvalidJob,
			id:   "t-2-9",
		},
		{
			name: "both pdb and object key",
			msg: func(t *testing.T) *kafka.Message {
				return jobMessage(t, types.JobRequest{JobID: "b", PDB: "ATOM", ObjectKey: "k"})
			},
			code: errors.ErrCodeInvalidJob,
			id:   "b",
		},
		{
			name: "object key without store",
			msg: func(t *testing.T) *kafka.Message {
				return jobMessage(t, types.JobRequest{JobID: "s", ObjectKey: "k.pdb"})
			},
			code: errors.ErrCodeInvalidJob,
			id:   "s",
		},
		{
			name: "missing object",
			msg: func(t *testing.T) *kafka.Message {
				return jobMessage(t, types.JobRequest{JobID: "m", ObjectKey: "gone.pdb"})
			},
			store: true,
			code:  errors.ErrCodeNotFound,
			id:    "m",
		},
		{
			name: "empty structure",
			msg: func(t *testing.T) *kafka.Message {
				return jobMessage(t, types.JobRequest{JobID: "e", PDB: "HEADER nothing\n"})
			},
			code: errors.ErrCodeEmptyStructure,
			id:   "e",
		},
		{
			name: "unknown preset",
			msg: func(t *testing.T) *kafka.Message {
				return jobMessage(t, types.JobRequest{JobID: "u", PDB: testutil.GuanineCytosinePDB, Preset: "fast"})
			},
			code: errors.ErrCodeUnknownPreset,
			id:   "u",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			var store ObjectStore
			if tt.store {
				store = newFakeStore()
			}
			p := newProcessor(t, Config{}, pub, store)

			require.NoError(t, p.Handle(context.Background(), tt.msg(t)))
			r := pub.results(t)
			require.Len(t, r, 1)
			assert.Equal(t, types.JobFailed, r[0].Status)
			assert.Equal(t, tt.id, r[0].JobID)
			require.NotNil(t, r[0].Error)
			assert.Equal(t, tt.code.String(), r[0].Error.Code)
			assert.Nil(t, r[0].Result)
		})
	}
}

func TestHandle_TransientErrorsAreRetried(t *testing.T) {
	unavailable := errors.New(errors.ErrCodeUnavailable, "object storage unreachable")

	t.Run("fetch", func(t *testing.T) {
		pub := &fakePublisher{}
		store := newFakeStore()
		store.getErr = unavailable
		p := newProcessor(t, Config{}, pub, store)

		err := p.Handle(context.Background(), jobMessage(t, types.JobRequest{JobID: "x", ObjectKey: "k.pdb"}))
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
		assert.Empty(t, pub.msgs)
	})

	t.Run("store", func(t *testing.T) {
		pub := &fakePublisher{}
		store := newFakeStore()
		store.putErr = unavailable
		p := newProcessor(t, Config{StoreResults: true}, pub, store)

		err := p.Handle(context.Background(), jobMessage(t, types.JobRequest{JobID: "x", PDB: testutil.GuanineCytosinePDB}))
		assert.Error(t, err)
		assert.Empty(t, pub.msgs)
	})

	t.Run("publish", func(t *testing.T) {
		pub := &fakePublisher{err: stderrors.New("broker down")}
		p := newProcessor(t, Config{}, pub, nil)

		err := p.Handle(context.Background(), jobMessage(t, types.JobRequest{JobID: "x", PDB: testutil.GuanineCytosinePDB}))
		assert.EqualError(t, err, "broker down")
	})
}

func TestHandle_CancelledContext(t *testing.T) {
	pub := &fakePublisher{}
	p := newProcessor(t, Config{JobTimeout: time.Minute}, pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Handle(ctx, jobMessage(t, types.JobRequest{JobID: "c", PDB: testutil.GuanineCytosinePDB}))
	assert.Error(t, err)
	assert.Empty(t, pub.msgs)
}

func TestHandle_RecordsOutcomeInLedger(t *testing.T) {
	pub := &fakePublisher{}
	ledger := &fakeLedger{}
	p := newProcessorWithLedger(t, Config{}, pub, nil, ledger)

	require.NoError(t, p.Handle(context.Background(), jobMessage(t, types.JobRequest{JobID: "ok", PDB: testutil.GuanineCytosinePDB})))
	require.NoError(t, p.Handle(context.Background(), jobMessage(t, types.JobRequest{JobID: "bad", PDB: "HEADER nothing\n"})))

	require.Len(t, ledger.records, 2)
	assert.Equal(t, "ok", ledger.records[0].JobID)
	assert.Equal(t, types.JobSucceeded, ledger.records[0].Status)
	assert.Equal(t, types.JobFailed, ledger.records[1].Status)
	assert.Equal(t, errors.ErrCodeEmptyStructure.String(), ledger.records[1].Error.Code)
	assert.Len(t, pub.msgs, 2)
}

func TestHandle_LedgerFailureIsRetried(t *testing.T) {
	pub := &fakePublisher{}
	ledger := &fakeLedger{err: errors.New(errors.ErrCodeDatabaseError, "failed to record job")}
	p := newProcessorWithLedger(t, Config{}, pub, nil, ledger)

	err := p.Handle(context.Background(), jobMessage(t, types.JobRequest{JobID: "x", PDB: testutil.GuanineCytosinePDB}))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
	assert.Empty(t, pub.msgs)
}

func TestJobName(t *testing.T) {
	assert.Equal(t, "given", jobName(&types.JobRequest{Name: "given", ObjectKey: "a/b.pdb"}))
	assert.Equal(t, "4tna", jobName(&types.JobRequest{ObjectKey: "ribo/4tna.pdb"}))
	assert.Equal(t, "id", jobName(&types.JobRequest{JobID: "id"}))
}

//Personal.AI order the ending
