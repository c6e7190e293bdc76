package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (InputTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("adjust_return_rate", decimalFactory("delta", func(d decimal.Decimal) InputTransform { return &AdjustReturnRate{Delta: d} }))
	registry.Register("set_return_rate", decimalFactory("rate", func(d decimal.Decimal) InputTransform { return &SetReturnRate{Rate: d} }))
	registry.Register("adjust_admin_fee", decimalFactory("delta", func(d decimal.Decimal) InputTransform { return &AdjustAdminFee{Delta: d} }))
	registry.Register("set_admin_fee", decimalFactory("rate", func(d decimal.Decimal) InputTransform { return &SetAdminFee{Rate: d} }))
	registry.Register("scale_savings", decimalFactory("factor", func(d decimal.Decimal) InputTransform { return &ScaleSavings{Factor: d} }))
	registry.Register("set_savings", decimalFactory("amount", func(d decimal.Decimal) InputTransform { return &SetSavings{Amount: d} }))
	registry.Register("add_weeks", createAddWeeks)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (InputTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "adjust_return_rate:delta=1.5"
func (r *TransformRegistry) ParseTransformSpec(spec string) (InputTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// decimalFactory builds a factory for transforms taking one decimal parameter
func decimalFactory(param string, build func(decimal.Decimal) InputTransform) TransformFactory {
	return func(params map[string]string) (InputTransform, error) {
		raw, ok := params[param]
		if !ok {
			return nil, fmt.Errorf("requires '%s' parameter", param)
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", param, err)
		}
		return build(value), nil
	}
}

func createAddWeeks(params map[string]string) (InputTransform, error) {
	weeksStr, ok := params["weeks"]
	if !ok {
		return nil, fmt.Errorf("add_weeks requires 'weeks' parameter")
	}

	weeks, err := strconv.Atoi(weeksStr)
	if err != nil {
		return nil, fmt.Errorf("invalid weeks value: %w", err)
	}

	return &AddWeeks{Weeks: weeks}, nil
}
