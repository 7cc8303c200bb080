package data

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/theknight2/bex-calculator/pkg/types"
)

// scenarioRow CSV行
type scenarioRow struct {
	Name           string  `csv:"name"`
	PreviousClose  float64 `csv:"previous_close"`
	CurrentClose   float64 `csv:"current_close"`
	Position       float64 `csv:"position"`
	PositionType   string  `csv:"position_type"`
	Strategy       string  `csv:"strategy"`
	ExpectedReturn float64 `csv:"expected_return"`
	ExpectedOffset float64 `csv:"expected_offset"`
	ExpectedShares string  `csv:"expected_shares"` // 留空表示不校验
}

// CSVLoader CSV场景加载器
type CSVLoader struct {
	path string
}

// NewCSVLoader 创建CSV加载器
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

// SourceType 返回数据源类型
func (l *CSVLoader) SourceType() string {
	return "csv"
}

// Load 加载场景文件
func (l *CSVLoader) Load() ([]types.Scenario, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", l.path, err)
	}
	defer file.Close()

	var rows []scenarioRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file has no data rows")
	}

	scenarios := make([]types.Scenario, 0, len(rows))
	for i, row := range rows {
		scenario, err := row.toScenario()
		if err != nil {
			// 第1行为表头
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// toScenario 转换为场景
func (r scenarioRow) toScenario() (types.Scenario, error) {
	unit, ok := types.ParsePositionUnit(r.PositionType)
	if !ok {
		return types.Scenario{}, fmt.Errorf("unknown position_type %q", r.PositionType)
	}

	scenario := types.Scenario{
		Name:           strings.TrimSpace(r.Name),
		PreviousClose:  r.PreviousClose,
		CurrentClose:   r.CurrentClose,
		Position:       r.Position,
		Unit:           unit,
		Strategy:       strings.TrimSpace(r.Strategy),
		ExpectedReturn: r.ExpectedReturn,
		ExpectedOffset: r.ExpectedOffset,
	}

	if s := strings.TrimSpace(r.ExpectedShares); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.Scenario{}, fmt.Errorf("invalid expected_shares %q: %w", s, err)
		}
		scenario.ExpectedShares = &v
	}
	return scenario, nil
}
