package funds

import "github.com/providence-asso/providence/internal/shared"

// Classification identifies the fund a case or contribution belongs
// to. The two pools are tracked and apportioned independently.
type Classification string

const (
	ClassSocial  Classification = "S"
	ClassMission Classification = "M"
)

// ParseClassification validates a classification code.
func ParseClassification(code string) (Classification, error) {
	switch Classification(code) {
	case ClassSocial, ClassMission:
		return Classification(code), nil
	default:
		return "", shared.Validationf("unknown classification %q", code)
	}
}

// Totals aggregates one (meeting, fund) pair. All figures are whole
// currency units; absent rows aggregate to zero. Amounts are expected
// to stay far below the ~3e9 mark where requested × pool products
// would overflow int64.
type Totals struct {
	MeetingID          int64          `json:"meeting_id"`
	Classification     Classification `json:"classification"`
	Contributions      int64          `json:"contributions"`
	Requested          int64          `json:"requested"`
	UrgentRequested    int64          `json:"urgent_requested"`
	AllocatedNonUrgent int64          `json:"allocated_non_urgent"`
}

// CaseFigures is the slice of a case the estimator needs.
type CaseFigures struct {
	CaseID      int64  `json:"case_id"`
	Beneficiary string `json:"beneficiary"`
	Requested   int64  `json:"requested"`
	Allocated   int64  `json:"allocated"`
	Urgent      bool   `json:"urgent"`
}

// CaseEstimate pairs a case with its computed estimate.
type CaseEstimate struct {
	CaseFigures
	Estimate int64 `json:"estimate"`
}

// Summary is the full fund picture for one meeting and fund, as served
// to the presentation layer.
type Summary struct {
	Totals    Totals         `json:"totals"`
	Pool      int64          `json:"pool"`
	Demand    int64          `json:"demand"`
	Available int64          `json:"available"`
	Cases     []CaseEstimate `json:"cases"`
}
