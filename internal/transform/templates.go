package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []InputTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func points(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// CreateBuiltInTemplates creates a template registry with common what-if cases
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Fund return templates
	registry.Register(Template{
		Name:        "rate_up_1",
		Description: "Fund returns 1 point higher",
		Transforms:  []InputTransform{&AdjustReturnRate{Delta: points("1")}},
	})
	registry.Register(Template{
		Name:        "rate_down_1",
		Description: "Fund returns 1 point lower",
		Transforms:  []InputTransform{&AdjustReturnRate{Delta: points("-1")}},
	})

	// Fee templates
	registry.Register(Template{
		Name:        "fee_down_half",
		Description: "Administration fee 0.5 points lower",
		Transforms:  []InputTransform{&AdjustAdminFee{Delta: points("-0.5")}},
	})
	registry.Register(Template{
		Name:        "fee_up_half",
		Description: "Administration fee 0.5 points higher",
		Transforms:  []InputTransform{&AdjustAdminFee{Delta: points("0.5")}},
	})

	// Savings templates
	registry.Register(Template{
		Name:        "savings_up_10pct",
		Description: "Current savings 10% higher",
		Transforms:  []InputTransform{&ScaleSavings{Factor: points("1.1")}},
	})
	registry.Register(Template{
		Name:        "savings_down_10pct",
		Description: "Current savings 10% lower",
		Transforms:  []InputTransform{&ScaleSavings{Factor: points("0.9")}},
	})

	// Combination templates
	registry.Register(Template{
		Name:        "optimistic",
		Description: "Returns 2 points higher and fee 0.5 points lower",
		Transforms: []InputTransform{
			&AdjustReturnRate{Delta: points("2")},
			&AdjustAdminFee{Delta: points("-0.5")},
		},
	})
	registry.Register(Template{
		Name:        "pessimistic",
		Description: "Returns 2 points lower and fee 0.5 points higher",
		Transforms: []InputTransform{
			&AdjustReturnRate{Delta: points("-2")},
			&AdjustAdminFee{Delta: points("0.5")},
		},
	})

	return registry
}

// ApplyTemplate applies all of a template's transforms to base
func ApplyTemplate(base domain.PensionInput, template Template) (domain.PensionInput, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	order := []string{"Fund Returns", "Fees", "Savings", "Combinations"}
	for _, name := range registry.List() {
		template := registry.templates[name]
		switch {
		case strings.HasPrefix(name, "rate_"):
			categories["Fund Returns"] = append(categories["Fund Returns"], template)
		case strings.HasPrefix(name, "fee_"):
			categories["Fees"] = append(categories["Fees"], template)
		case strings.HasPrefix(name, "savings_"):
			categories["Savings"] = append(categories["Savings"], template)
		default:
			categories["Combinations"] = append(categories["Combinations"], template)
		}
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  pensioncalc compare case.yaml --with rate_up_1,fee_down_half\n")
	sb.WriteString("  pensioncalc compare case.yaml --transform adjust_return_rate:delta=0.5\n")

	return sb.String()
}
