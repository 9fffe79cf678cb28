package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/screenkit/pipeline"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/screenkit/config/builders"
// 以触发内置判据（connectivity、weight.max、pattern.forbidden 等）的 init 注册。

// CriterionBuilder 与 pipeline.CriterionBuilder 一致：根据 config 构建判据。
// 各判据在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type CriterionBuilder = pipeline.CriterionBuilder

var (
	defaultBuilders   = make(map[string]CriterionBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种判据的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在 init 中调用，例如：func init() { config.Register("weight.max", BuildMaxWeight) }
func Register(typeName string, builder CriterionBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的判据类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory 返回基于当前注册表构建的 CriterionFactory，包含所有已注册的判据类型。
func DefaultFactory() *pipeline.CriterionFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewCriterionFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	return f
}

// ValidateScreenConfig 校验配置中所有判据类型均已注册；有未支持类型时返回包含已支持列表的错误。
func ValidateScreenConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	for _, cc := range cfg.Screen.Criteria {
		if cc.Type == "" {
			continue
		}
		defaultBuildersMu.RLock()
		_, ok := defaultBuilders[cc.Type]
		defaultBuildersMu.RUnlock()
		if !ok {
			return fmt.Errorf("unsupported criterion type %q (supported: %v)", cc.Type, supported)
		}
	}
	return nil
}
