package types

import (
	"time"
)

// Scenario 固定测试场景
type Scenario struct {
	Name          string       `json:"name"`
	PreviousClose float64      `json:"previous_close"`
	CurrentClose  float64      `json:"current_close"`
	Position      float64      `json:"position"`
	Unit          PositionUnit `json:"unit"`
	Strategy      string       `json:"strategy"`

	ExpectedReturn float64  `json:"expected_return"`
	ExpectedOffset float64  `json:"expected_offset"`
	ExpectedShares *float64 `json:"expected_shares,omitempty"` // nil 表示不校验
}

// ScenarioOutcome 单个场景的执行结果
type ScenarioOutcome struct {
	Scenario    Scenario        `json:"scenario"`
	Result      RebalanceResult `json:"result"`
	Passed      bool            `json:"passed"`
	ReturnMatch bool            `json:"return_match"`
	OffsetMatch bool            `json:"offset_match"`
	SharesMatch bool            `json:"shares_match"`
	Error       string          `json:"error,omitempty"`
}

// Tolerances 校验容差
type Tolerances struct {
	Return float64 `json:"return"`
	Offset float64 `json:"offset"`
	Shares float64 `json:"shares"`
}

// DefaultTolerances 默认容差
func DefaultTolerances() Tolerances {
	return Tolerances{
		Return: 0.0001,
		Offset: 0.0001,
		Shares: 0.1,
	}
}

// SuiteConfig 场景套件配置
type SuiteConfig struct {
	Name       string
	Tolerances Tolerances
}

// SuiteResult 场景套件结果
type SuiteResult struct {
	Config    SuiteConfig       `json:"-"`
	Outcomes  []ScenarioOutcome `json:"outcomes"`
	Total     int               `json:"total"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
}

// SuccessRate 通过率 (0-1)
func (r *SuiteResult) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// AllPassed 是否全部通过
func (r *SuiteResult) AllPassed() bool {
	return r.Failed == 0
}
