// Package catalog holds the built-in predefined task list.
package catalog

import (
	_ "embed"
	"fmt"

	"taskquest/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed predefined_tasks.yaml
var seedYAML []byte

// Seed returns the built-in catalog entries.
func Seed() ([]domain.PredefinedTask, error) {
	return Parse(seedYAML)
}

// Parse decodes a YAML list of predefined tasks and rejects entries without a
// name or with a negative value.
func Parse(data []byte) ([]domain.PredefinedTask, error) {
	var tasks []domain.PredefinedTask
	if err := yaml.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if t.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: missing task_name", i)
		}
		if t.DefaultExpValue < 0 {
			return nil, fmt.Errorf("catalog entry %q: negative default_exp_value", t.Name)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("catalog entry %q: duplicate name", t.Name)
		}
		seen[t.Name] = true
	}
	return tasks, nil
}

// GroupByCategory buckets entries by category, keeping input order.
func GroupByCategory(tasks []*domain.PredefinedTask) map[string][]*domain.PredefinedTask {
	out := make(map[string][]*domain.PredefinedTask)
	for _, t := range tasks {
		out[t.Category] = append(out[t.Category], t)
	}
	return out
}
