package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theknight2/bex-calculator/internal/calculator"
	"github.com/theknight2/bex-calculator/pkg/types"
)

const (
	Conservative = "Conservative"
	Moderate     = "Moderate"
	Aggressive   = "Aggressive"

	// CustomName 显式指定乘数/上限时使用的名称
	CustomName = "Custom"

	// DefaultPreset 默认策略 (静态激进参数)
	DefaultPreset = Aggressive
)

// ErrUnknownPreset 未知策略名称
var ErrUnknownPreset = errors.New("unknown strategy preset")

// Catalog 策略预设表 (只读, 保持定义顺序)
type Catalog struct {
	presets []types.StrategyParams
	index   map[string]int
}

// DefaultCatalog 默认预设表
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(
		types.StrategyParams{Name: Conservative, Multiplier: 2.0, CapFraction: 0.08},
		types.StrategyParams{Name: Moderate, Multiplier: 3.0, CapFraction: 0.125},
		types.StrategyParams{Name: Aggressive, Multiplier: 4.0, CapFraction: 0.20},
	)
	return c
}

// NewCatalog 创建预设表, 校验参数并拒绝重名
func NewCatalog(presets ...types.StrategyParams) (*Catalog, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("catalog needs at least one preset")
	}

	c := &Catalog{
		presets: make([]types.StrategyParams, 0, len(presets)),
		index:   make(map[string]int, len(presets)),
	}
	for _, p := range presets {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("preset without a name")
		}
		key := strings.ToLower(name)
		if _, exists := c.index[key]; exists {
			return nil, fmt.Errorf("duplicate preset %q", name)
		}
		if err := calculator.ValidateParams(p); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		p.Name = name
		c.index[key] = len(c.presets)
		c.presets = append(c.presets, p)
	}
	return c, nil
}

// Lookup 按名称查找 (不区分大小写)
func (c *Catalog) Lookup(name string) (types.StrategyParams, error) {
	idx, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return types.StrategyParams{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownPreset, name, strings.Join(c.Names(), ", "))
	}
	return c.presets[idx], nil
}

// Names 所有预设名称
func (c *Catalog) Names() []string {
	names := make([]string, len(c.presets))
	for i, p := range c.presets {
		names[i] = p.Name
	}
	return names
}

// Presets 返回预设副本
func (c *Catalog) Presets() []types.StrategyParams {
	out := make([]types.StrategyParams, len(c.presets))
	copy(out, c.presets)
	return out
}

// Resolve 确定本次计算使用的参数
// 指定了 multiplier 或 capFraction 时使用自定义参数, 否则按名称查找 (空名称使用默认预设)
func (c *Catalog) Resolve(name string, multiplier, capFraction float64) (types.StrategyParams, error) {
	if multiplier != 0 || capFraction != 0 {
		p := types.StrategyParams{Name: CustomName, Multiplier: multiplier, CapFraction: capFraction}
		if err := calculator.ValidateParams(p); err != nil {
			return types.StrategyParams{}, fmt.Errorf("custom parameters need both multiplier and cap: %w", err)
		}
		return p, nil
	}

	if strings.TrimSpace(name) == "" {
		name = DefaultPreset
	}
	return c.Lookup(name)
}
