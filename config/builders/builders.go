package builders

import (
	"fmt"

	"github.com/rushteam/screenkit/config"
	"github.com/rushteam/screenkit/criteria"
	"github.com/rushteam/screenkit/pkg/conv"
)

func init() {
	config.Register("connectivity", BuildConnectivity)
	config.Register("weight.max", BuildMaxWeight)
	config.Register("elements.allowed", BuildAllowedElements)
	config.Register("pattern.forbidden", BuildForbiddenPatterns)
	config.Register("pattern.required", BuildRequiredPatterns)
	config.Register("conjugation.min", BuildMinConjugation)
	config.Register("expr", BuildExpr)
}

func BuildConnectivity(cfg map[string]interface{}) (criteria.Criterion, error) {
	return &criteria.Connectivity{
		AllowDisconnected: conv.ConfigGet(cfg, "allow_disconnected", false),
	}, nil
}

func BuildMaxWeight(cfg map[string]interface{}) (criteria.Criterion, error) {
	max := conv.ConfigGetFloat64(cfg, "max", 0)
	if max <= 0 {
		return nil, fmt.Errorf("max not found or not positive")
	}
	return &criteria.MaxWeight{Max: max}, nil
}

func BuildAllowedElements(cfg map[string]interface{}) (criteria.Criterion, error) {
	elements := conv.SliceAnyToString(cfg["elements"])
	return criteria.NewAllowedElements(elements), nil
}

func BuildForbiddenPatterns(cfg map[string]interface{}) (criteria.Criterion, error) {
	patterns := conv.SliceAnyToString(cfg["patterns"])
	return criteria.NewForbiddenPatterns(patterns), nil
}

func BuildRequiredPatterns(cfg map[string]interface{}) (criteria.Criterion, error) {
	patterns := conv.SliceAnyToString(cfg["patterns"])
	return criteria.NewRequiredPatterns(patterns), nil
}

func BuildMinConjugation(cfg map[string]interface{}) (criteria.Criterion, error) {
	min := conv.ConfigGetInt64(cfg, "min", 0)
	return &criteria.MinConjugation{Min: int(min)}, nil
}

func BuildExpr(cfg map[string]interface{}) (criteria.Criterion, error) {
	expr := conv.ConfigGet(cfg, "expression", "")
	if expr == "" {
		return nil, fmt.Errorf("expression not found")
	}
	return criteria.NewExpr(expr)
}
