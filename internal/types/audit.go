package types

import (
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// AuditStatus represents the current state of an audit in its lifecycle
type AuditStatus string

const (
	// AuditStatusDraft indicates the audit structure is still being authored
	AuditStatusDraft AuditStatus = "draft"
	// AuditStatusInProgress indicates a respondent has started answering
	AuditStatusInProgress AuditStatus = "in_progress"
	// AuditStatusCompleted indicates the audit passed its completion gate and is immutable
	AuditStatusCompleted AuditStatus = "completed"
	// AuditStatusArchived indicates the audit is closed for good; terminal
	AuditStatusArchived AuditStatus = "archived"
)

func (s AuditStatus) String() string {
	return string(s)
}

func (s AuditStatus) Validate() error {
	allowed := []AuditStatus{
		AuditStatusDraft,
		AuditStatusInProgress,
		AuditStatusCompleted,
		AuditStatusArchived,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid audit status").
			WithHint("Please provide a valid audit status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CanTransitionTo reports whether the linear lifecycle allows moving from s
// to target. Archiving is additionally allowed from any non-archived state
// so a stalled audit can be force-closed administratively.
func (s AuditStatus) CanTransitionTo(target AuditStatus) bool {
	if s == AuditStatusArchived {
		return false
	}
	if target == AuditStatusArchived {
		return true
	}
	switch s {
	case AuditStatusDraft:
		return target == AuditStatusInProgress
	case AuditStatusInProgress:
		return target == AuditStatusCompleted
	default:
		return false
	}
}

// IsMutable reports whether responses and structural edits are still accepted
func (s AuditStatus) IsMutable() bool {
	return s == AuditStatusDraft || s == AuditStatusInProgress
}

// ScoreBand buckets a score percentage for progress-bar rendering
type ScoreBand string

const (
	ScoreBandLow    ScoreBand = "low"
	ScoreBandMedium ScoreBand = "medium"
	ScoreBandHigh   ScoreBand = "high"
)

var (
	scoreBandMediumFloor = decimal.NewFromInt(60)
	scoreBandHighFloor   = decimal.NewFromInt(80)
)

// ScoreBandFor returns the rendering band for a score percentage:
// < 60 low, 60-79 medium, >= 80 high.
func ScoreBandFor(score decimal.Decimal) ScoreBand {
	switch {
	case score.GreaterThanOrEqual(scoreBandHighFloor):
		return ScoreBandHigh
	case score.GreaterThanOrEqual(scoreBandMediumFloor):
		return ScoreBandMedium
	default:
		return ScoreBandLow
	}
}
