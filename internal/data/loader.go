package data

import (
	"github.com/theknight2/bex-calculator/pkg/types"
)

// ScenarioLoader 场景加载器接口
type ScenarioLoader interface {
	// Load 加载全部场景
	Load() ([]types.Scenario, error)

	// SourceType 数据源类型
	SourceType() string
}
