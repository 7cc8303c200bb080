package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theknight2/bex-calculator/internal/calculator"
	"github.com/theknight2/bex-calculator/internal/data"
	"github.com/theknight2/bex-calculator/internal/report"
	"github.com/theknight2/bex-calculator/internal/strategy"
	"github.com/theknight2/bex-calculator/pkg/types"
)

// SuiteRunner 场景套件执行器
type SuiteRunner struct {
	config  types.SuiteConfig
	loader  data.ScenarioLoader
	catalog *strategy.Catalog
	logger  *zap.Logger
	result  *types.SuiteResult
}

// New 创建场景套件执行器
func New(config types.SuiteConfig) *SuiteRunner {
	return &SuiteRunner{
		config: config,
		logger: zap.NewNop(),
	}
}

// SetLoader 设置场景加载器
func (e *SuiteRunner) SetLoader(loader data.ScenarioLoader) {
	e.loader = loader
}

// SetCatalog 设置策略预设表
func (e *SuiteRunner) SetCatalog(catalog *strategy.Catalog) {
	e.catalog = catalog
}

// SetLogger 设置日志器
func (e *SuiteRunner) SetLogger(logger *zap.Logger) {
	e.logger = logger
}

// Run 运行全部场景
func (e *SuiteRunner) Run() (*types.SuiteResult, error) {
	// 验证配置
	if err := e.validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// 加载场景
	scenarios, err := e.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios found")
	}

	e.logger.Info("running scenario suite",
		zap.String("source", e.loader.SourceType()),
		zap.Int("scenarios", len(scenarios)))

	result := &types.SuiteResult{
		Config:    e.config,
		Outcomes:  make([]types.ScenarioOutcome, 0, len(scenarios)),
		StartedAt: time.Now(),
	}

	for _, scenario := range scenarios {
		outcome := e.runScenario(scenario)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Passed {
			result.Passed++
		} else {
			result.Failed++
			e.logger.Warn("scenario failed",
				zap.String("scenario", scenario.Name),
				zap.Bool("return_match", outcome.ReturnMatch),
				zap.Bool("offset_match", outcome.OffsetMatch),
				zap.Bool("shares_match", outcome.SharesMatch),
				zap.String("error", outcome.Error))
		}
	}
	result.Total = len(result.Outcomes)
	result.Duration = time.Since(result.StartedAt)

	e.result = result
	return result, nil
}

// runScenario 执行单个场景并与期望值比较
func (e *SuiteRunner) runScenario(s types.Scenario) types.ScenarioOutcome {
	outcome := types.ScenarioOutcome{Scenario: s}

	params, err := e.catalog.Lookup(s.Strategy)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	calc, err := calculator.Compute(types.CalcInput{
		Prices:   types.PriceObservation{PreviousClose: s.PreviousClose, CurrentClose: s.CurrentClose},
		Position: types.Position{Quantity: s.Position, Unit: s.Unit},
		Strategy: params,
	})
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	tol := e.config.Tolerances
	outcome.Result = calc.Result
	outcome.ReturnMatch = math.Abs(calc.Result.DailyReturn-s.ExpectedReturn) < tol.Return
	outcome.OffsetMatch = math.Abs(calc.Result.AppliedOffset-s.ExpectedOffset) < tol.Offset
	outcome.SharesMatch = true
	if s.ExpectedShares != nil {
		outcome.SharesMatch = math.Abs(calc.Result.QuantityToSell-*s.ExpectedShares) < tol.Shares
	}
	outcome.Passed = outcome.ReturnMatch && outcome.OffsetMatch && outcome.SharesMatch
	return outcome
}

// validate 验证配置
func (e *SuiteRunner) validate() error {
	if e.loader == nil {
		return fmt.Errorf("scenario loader not set")
	}
	if e.catalog == nil {
		return fmt.Errorf("strategy catalog not set")
	}
	tol := e.config.Tolerances
	if tol.Return <= 0 || tol.Offset <= 0 || tol.Shares <= 0 {
		return fmt.Errorf("tolerances must be positive")
	}
	return nil
}

// GetResult 获取结果
func (e *SuiteRunner) GetResult() *types.SuiteResult {
	return e.result
}

// ResultSummary 结果摘要
type ResultSummary struct {
	Suite       string    `json:"suite"`
	Source      string    `json:"source"`
	StartedAt   time.Time `json:"started_at"`
	Total       int       `json:"total"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	SuccessRate float64   `json:"success_rate"`
}

// getSummary 获取结果摘要
func (e *SuiteRunner) getSummary() ResultSummary {
	return ResultSummary{
		Suite:       e.config.Name,
		Source:      e.loader.SourceType(),
		StartedAt:   e.result.StartedAt,
		Total:       e.result.Total,
		Passed:      e.result.Passed,
		Failed:      e.result.Failed,
		SuccessRate: e.result.SuccessRate(),
	}
}

// ExportResults 导出结果到JSON文件
func (e *SuiteRunner) ExportResults(filepath string) error {
	if e.result == nil {
		return fmt.Errorf("no results to export, run suite first")
	}

	output := struct {
		Summary    ResultSummary           `json:"summary"`
		Tolerances types.Tolerances        `json:"tolerances"`
		Outcomes   []types.ScenarioOutcome `json:"outcomes"`
	}{
		Summary:    e.getSummary(),
		Tolerances: e.config.Tolerances,
		Outcomes:   e.result.Outcomes,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	err = os.WriteFile(filepath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	e.logger.Info("results exported", zap.String("path", filepath))
	return nil
}

// WriteResultsFile 写入文本结果文件
func (e *SuiteRunner) WriteResultsFile(filepath string) error {
	if e.result == nil {
		return fmt.Errorf("no results to write, run suite first")
	}

	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	if err := e.writeResults(f); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	e.logger.Info("results written", zap.String("path", filepath))
	return nil
}

// writeResults 逐个场景输出结果
func (e *SuiteRunner) writeResults(w io.Writer) error {
	rule := strings.Repeat("=", 80)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s TEST RESULTS\n%s\n\n", rule, strings.ToUpper(e.config.Name), rule)
	for i, o := range e.result.Outcomes {
		s := o.Scenario
		status := "PASSED ✓"
		if !o.Passed {
			status = "FAILED ✗"
		}

		fmt.Fprintf(&b, "Test %d: %s\n%s\n", i+1, s.Name, strings.Repeat("-", 80))
		fmt.Fprintf(&b, "Status: %s\n", status)
		fmt.Fprintf(&b, "Strategy: %s\n", s.Strategy)
		fmt.Fprintf(&b, "Price: %s → %s\n", report.Money(s.PreviousClose), report.Money(s.CurrentClose))
		fmt.Fprintf(&b, "Position: %s %s\n", report.Number(s.Position, 0), s.Unit)
		if o.Error != "" {
			fmt.Fprintf(&b, "Error: %s\n\n", o.Error)
			continue
		}
		fmt.Fprintf(&b, "Daily Return: %s\n", report.Percent(o.Result.DailyReturn))
		fmt.Fprintf(&b, "Offset Applied: %s\n", report.Percent(o.Result.AppliedOffset))
		fmt.Fprintf(&b, "Shares to Sell: %s\n", report.Number(o.Result.QuantityToSell, 1))
		fmt.Fprintf(&b, "Cash Extracted: %s\n\n", report.Money(o.Result.CashValue))
	}

	fmt.Fprintf(&b, "%s\nSUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Total Tests: %d\n", e.result.Total)
	fmt.Fprintf(&b, "Passed: %d\n", e.result.Passed)
	fmt.Fprintf(&b, "Failed: %d\n", e.result.Failed)
	fmt.Fprintf(&b, "Success Rate: %s\n", report.Percent(e.result.SuccessRate()))

	_, err := io.WriteString(w, b.String())
	return err
}

// PrintSummary 打印摘要
func (e *SuiteRunner) PrintSummary(w io.Writer) {
	if e.result == nil {
		fmt.Fprintln(w, "No results available")
		return
	}

	fmt.Fprintln(w, "\n========== Suite Summary ==========")
	fmt.Fprintf(w, "Source: %s\n", e.loader.SourceType())
	fmt.Fprintf(w, "Total Tests: %d\n", e.result.Total)
	fmt.Fprintf(w, "Passed: %d\n", e.result.Passed)
	fmt.Fprintf(w, "Failed: %d\n", e.result.Failed)
	fmt.Fprintf(w, "Success Rate: %s\n", report.Percent(e.result.SuccessRate()))
	fmt.Fprintln(w, "===================================")
}
