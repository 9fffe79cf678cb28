package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/screenkit/criteria"
)

// Config 是一次筛选运行的配置结构（支持 YAML/JSON）。
type Config struct {
	Screen struct {
		Name      string            `yaml:"name" json:"name"`
		BatchSize int               `yaml:"batch_size" json:"batch_size"`
		Workers   int               `yaml:"workers" json:"workers"`
		Criteria  []CriterionConfig `yaml:"criteria" json:"criteria"`
	} `yaml:"screen" json:"screen"`
}

// CriterionConfig 是单个判据的配置。
type CriterionConfig struct {
	Type   string                 `yaml:"type" json:"type"`     // connectivity / weight.max / pattern.forbidden 等
	Config map[string]interface{} `yaml:"config" json:"config"` // 判据特定配置
}

// LoadFromYAML 从 YAML 文件加载筛选配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载筛选配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &cfg, nil
}

// CriterionBuilder 根据配置构建一个 Criterion。
type CriterionBuilder func(map[string]interface{}) (criteria.Criterion, error)

// CriterionFactory 用于根据配置构建 Criterion 实例。
// 注意：内置判据的注册表在独立的 config 包中，避免循环依赖。
type CriterionFactory struct {
	builders map[string]CriterionBuilder
}

func NewCriterionFactory() *CriterionFactory {
	return &CriterionFactory{
		builders: make(map[string]CriterionBuilder),
	}
}

// Register 注册判据构建器。
func (f *CriterionFactory) Register(criterionType string, builder CriterionBuilder) {
	f.builders[criterionType] = builder
}

// Build 根据类型和配置构建判据。
func (f *CriterionFactory) Build(criterionType string, config map[string]interface{}) (criteria.Criterion, error) {
	builder, ok := f.builders[criterionType]
	if !ok {
		return nil, fmt.Errorf("unknown criterion type: %s", criterionType)
	}
	return builder(config)
}

// BuildSet 根据配置构建不可变判据集合（需要 CriterionFactory 提供构建器）。
func (c *Config) BuildSet(factory *CriterionFactory) (*criteria.Set, error) {
	cs := make([]criteria.Criterion, 0, len(c.Screen.Criteria))

	for _, cc := range c.Screen.Criteria {
		criterion, err := factory.Build(cc.Type, cc.Config)
		if err != nil {
			return nil, fmt.Errorf("build criterion %s: %w", cc.Type, err)
		}
		cs = append(cs, criterion)
	}

	return criteria.NewSet(cs, criteria.Params{
		BatchSize: c.Screen.BatchSize,
		Workers:   c.Screen.Workers,
	}), nil
}
