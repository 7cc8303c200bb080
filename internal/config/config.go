package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/theknight2/bex-calculator/internal/strategy"
	"github.com/theknight2/bex-calculator/pkg/types"
)

const (
	// EnvConfigPath 配置文件路径环境变量
	EnvConfigPath = "BEX_CONFIG"
	// EnvPort HTTP端口环境变量
	EnvPort = "BEX_PORT"

	DefaultPort        = 8080
	DefaultTheme       = "classic"
	DefaultResultsPath = "test_results_bex_calculator.txt"
)

// Config 配置文件结构
type Config struct {
	Calculator CalculatorSection `yaml:"calculator"`
	Presets    []PresetConfig    `yaml:"presets"`
	Costs      CostsSection      `yaml:"costs"`
	Scenarios  ScenariosSection  `yaml:"scenarios"`
	Output     OutputSection     `yaml:"output"`
	Server     ServerSection     `yaml:"server"`
}

// CalculatorSection 计算器默认值
type CalculatorSection struct {
	Preset string `yaml:"preset"`
	Unit   string `yaml:"unit"`
}

// PresetConfig 策略预设
type PresetConfig struct {
	Name       string  `yaml:"name"`
	Multiplier float64 `yaml:"multiplier"`
	Cap        float64 `yaml:"cap"`
}

// CostsSection 成本配置
type CostsSection struct {
	CommissionRate float64 `yaml:"commission_rate"`
	MinCommission  float64 `yaml:"min_commission"`
	SlippageRate   float64 `yaml:"slippage_rate"`
	TaxRate        float64 `yaml:"tax_rate"`
}

// ScenariosSection 场景套件配置
type ScenariosSection struct {
	Path            string  `yaml:"path"` // 为空时使用内置场景
	ReturnTolerance float64 `yaml:"return_tolerance"`
	OffsetTolerance float64 `yaml:"offset_tolerance"`
	SharesTolerance float64 `yaml:"shares_tolerance"`
}

// OutputSection 输出配置
type OutputSection struct {
	Theme       string `yaml:"theme"`
	ResultsPath string `yaml:"results_path"`
	JSONPath    string `yaml:"json_path"`
}

// ServerSection HTTP服务配置
type ServerSection struct {
	Port int `yaml:"port"`
}

// LoadConfig 从文件加载配置
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Load 加载 .env 与配置文件
// path 为空时读取 BEX_CONFIG, 仍为空则使用默认配置
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	config := &Config{}
	if path != "" {
		var err error
		config, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		config.Server.Port = p
	}

	return config, nil
}

// ToCatalog 转换为策略预设表, 未配置时使用默认预设
func (c *Config) ToCatalog() (*strategy.Catalog, error) {
	if len(c.Presets) == 0 {
		return strategy.DefaultCatalog(), nil
	}

	presets := make([]types.StrategyParams, len(c.Presets))
	for i, p := range c.Presets {
		presets[i] = types.StrategyParams{
			Name:        p.Name,
			Multiplier:  p.Multiplier,
			CapFraction: p.Cap,
		}
	}

	catalog, err := strategy.NewCatalog(presets...)
	if err != nil {
		return nil, fmt.Errorf("invalid presets: %w", err)
	}
	return catalog, nil
}

// ToCostConfig 转换为成本配置
func (c *Config) ToCostConfig() types.CostConfig {
	return types.CostConfig{
		CommissionRate: c.Costs.CommissionRate,
		MinCommission:  c.Costs.MinCommission,
		SlippageRate:   c.Costs.SlippageRate,
		TaxRate:        c.Costs.TaxRate,
	}
}

// ToSuiteConfig 转换为场景套件配置
func (c *Config) ToSuiteConfig() types.SuiteConfig {
	tol := types.DefaultTolerances()
	if c.Scenarios.ReturnTolerance > 0 {
		tol.Return = c.Scenarios.ReturnTolerance
	}
	if c.Scenarios.OffsetTolerance > 0 {
		tol.Offset = c.Scenarios.OffsetTolerance
	}
	if c.Scenarios.SharesTolerance > 0 {
		tol.Shares = c.Scenarios.SharesTolerance
	}

	return types.SuiteConfig{
		Name:       "BEX Calculator",
		Tolerances: tol,
	}
}

// GetPreset 获取默认策略名称
func (c *Config) GetPreset() string {
	if c.Calculator.Preset != "" {
		return c.Calculator.Preset
	}
	return strategy.DefaultPreset
}

// GetUnit 获取默认持仓单位
func (c *Config) GetUnit() string {
	if c.Calculator.Unit != "" {
		return c.Calculator.Unit
	}
	return string(types.UnitShares)
}

// GetTheme 获取输出主题
func (c *Config) GetTheme() string {
	if c.Output.Theme != "" {
		return c.Output.Theme
	}
	return DefaultTheme
}

// GetResultsPath 获取场景结果文件路径
func (c *Config) GetResultsPath() string {
	if c.Output.ResultsPath != "" {
		return c.Output.ResultsPath
	}
	return DefaultResultsPath
}

// GetPort 获取HTTP端口
func (c *Config) GetPort() int {
	if c.Server.Port > 0 {
		return c.Server.Port
	}
	return DefaultPort
}
