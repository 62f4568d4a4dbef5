package pipeline

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"docforge/internal/config"
)

// ListTemplates returns the template names available in the configured
// template directory, sorted.
func ListTemplates(cfg *config.Config) ([]string, error) {
	entries, err := os.ReadDir(cfg.Paths.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("read template directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".docx") {
			continue
		}
		names = append(names, name[:len(name)-len(".docx")])
	}
	sort.Strings(names)
	return names, nil
}
