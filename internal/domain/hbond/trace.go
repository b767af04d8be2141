package hbond

import (
	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
)

// Stage names reported to a TraceFunc.
const (
	StageCandidates     = "candidates"
	StageConflicts      = "conflicts"
	StagePromotion      = "promotion"
	StageClassify       = "classify"
	StagePostValidate   = "post-validate"
	StageAngleFilter    = "angle-filter"
	StageQuality        = "quality"
	StageUnlikely       = "unlikely"
	StageEmit           = "emit"
	StagePhosphodiester = "phosphodiester"
	StageAggregate      = "aggregate"
	StageOccupancy      = "occupancy"
)

// TraceEvent describes the outcome of one pipeline stage.  Count is the number
// of bonds the stage produced, selected or removed, depending on the stage.
type TraceEvent struct {
	Stage    string
	ResidueA string
	ResidueB string
	Count    int
}

// TraceFunc receives diagnostic events.  Detection never depends on whether a
// TraceFunc is installed.
type TraceFunc func(TraceEvent)

func (f TraceFunc) emit(stage string, a, b string, count int) {
	if f == nil {
		return
	}
	f(TraceEvent{Stage: stage, ResidueA: a, ResidueB: b, Count: count})
}

// LoggingTrace returns a TraceFunc writing every event at debug level.
func LoggingTrace(log logging.Logger) TraceFunc {
	if log == nil {
		return nil
	}
	log = log.Named("hbond")
	return func(ev TraceEvent) {
		log.Debug("hbond stage",
			logging.String("stage", ev.Stage),
			logging.String("residue_a", ev.ResidueA),
			logging.String("residue_b", ev.ResidueB),
			logging.Int("count", ev.Count),
		)
	}
}

//Personal.AI order the ending
