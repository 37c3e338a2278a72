package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// varTag знаходить {{var "name" default required}}
var varTag = regexp.MustCompile(`\{\{var\s+"([^"]+)"\s+("[^"]*"|[^\s}]+)\s+(true|false)\s*\}\}`)

// MissingVarsError - шаблон містить обов'язкові змінні без значень
type MissingVarsError struct {
	Names []string
}

func (e *MissingVarsError) Error() string {
	return fmt.Sprintf("required template variables are not set: %s", strings.Join(e.Names, ", "))
}

// GenerateConfigFromTemplate рендерить HCL шаблон, перевіряє результат і записує його у outputPath
func GenerateConfigFromTemplate(templatePath, outputPath string, vars map[string]string) error {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	rendered, err := RenderTemplate(string(content), vars)
	if err != nil {
		return err
	}

	// Результат має розбиратися тією ж схемою, що й LoadConfig
	var probe Config
	if err := hclsimple.Decode(filepath.Base(outputPath)+".hcl", []byte(rendered), evalContext(), &probe); err != nil {
		return fmt.Errorf("rendered config is not valid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(rendered), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// RenderTemplate підставляє значення у {{var}} теги
func RenderTemplate(content string, vars map[string]string) (string, error) {
	missing := map[string]struct{}{}

	rendered := varTag.ReplaceAllStringFunc(content, func(match string) string {
		m := varTag.FindStringSubmatch(match)
		name, def, required := m[1], m[2], m[3] == "true"

		if value, ok := vars[name]; ok && value != "" {
			return formatValue(value, def)
		}

		if required && (def == `""` || def == "") {
			missing[name] = struct{}{}
			return match
		}

		return def
	})

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", &MissingVarsError{Names: names}
	}

	return rendered, nil
}

// formatValue форматує значення як HCL літерал того ж типу, що й дефолт
func formatValue(value, def string) string {
	if strings.HasPrefix(def, `"`) {
		return strconv.Quote(value)
	}
	if _, err := strconv.ParseBool(def); err == nil {
		if b, err := strconv.ParseBool(value); err == nil {
			return strconv.FormatBool(b)
		}
	}
	if _, err := strconv.ParseFloat(def, 64); err == nil {
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return value
		}
	}
	if strings.HasPrefix(def, "[") {
		var quoted []string
		for _, item := range splitList(value) {
			quoted = append(quoted, strconv.Quote(item))
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	}
	return strconv.Quote(value)
}
