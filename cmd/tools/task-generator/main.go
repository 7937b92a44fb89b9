// cmd/tools/task-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"orion-enrichment/pkg/registry"
)

// TaskData holds data for templates
type TaskData struct {
	Name         string                 `json:"name"`
	PackageName  string                 `json:"packageName"`
	TaskType     string                 `json:"taskType"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	ErrorCodes   []string               `json:"errorCodes"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Timeout      string                 `json:"timeout"`
}

// parseSchema extracts properties from a JSON schema object
func parseSchema(schemaObj interface{}) map[string]interface{} {
	if schemaMap, ok := schemaObj.(map[string]interface{}); ok {
		if props, exists := schemaMap["properties"]; exists {
			if properties, ok := props.(map[string]interface{}); ok {
				return properties
			}
		}
	}
	return map[string]interface{}{}
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType interface{}, jsonFormat interface{}) string {
	if jt, ok := jsonType.(string); ok {
		switch jt {
		case "string":
			if jf, ok := jsonFormat.(string); ok && jf == "date-time" {
				return "time.Time"
			}
			return "string"
		case "integer":
			return "int"
		case "number":
			return "float64"
		case "boolean":
			return "bool"
		case "array":
			return "[]interface{}"
		case "object":
			return "map[string]interface{}"
		}
	}
	return "interface{}"
}

func generateStructFields(properties map[string]interface{}) string {
	var fields []string
	for propName, propDef := range properties {
		propMap, ok := propDef.(map[string]interface{})
		if !ok {
			continue
		}
		goType := goTypeFromJSONType(propMap["type"], propMap["format"])
		fields = append(fields, fmt.Sprintf("\t%s %s `json:\"%s\"`",
			upperFirst(propName), goType, propName))
	}
	return strings.Join(fields, "\n")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

const configTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/config.go
package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
`

const handlerTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/handler.go
package {{ .PackageName }}

import (
	"context"

	"orion-enrichment/internal/common/logger"
)

const (
	TaskType = "{{ .TaskType }}"
)

// {{ .Name }}: {{ .Description }}
type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()
	_ = ctx

	// TODO: implement {{ .TaskType }}
	return &Output{}, nil
}
`

const modelsTemplate = `// internal/workers/{{ .Category }}/{{ .TaskType }}/models.go
package {{ .PackageName }}

{{ $inputProps := parseSchema .InputSchema }}{{ $outputProps := parseSchema .OutputSchema }}type Input struct {
{{ generateStructFields $inputProps }}
}

type Output struct {
{{ generateStructFields $outputProps }}
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orion-enrichment/internal/common/logger"
)

func TestExecute(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.NotNil(t, output)
}
`

func main() {
	taskID := flag.String("task", "", "Task ID from registry (e.g., enrichment-locate-source)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated task package")
	registryPath := flag.String("registry", "configs/task-registry.json", "Path to the task registry JSON file")
	flag.Parse()

	if *taskID == "" {
		fmt.Println("Usage: task-generator --task <id> --output <dir> [--registry <path>]")
		fmt.Println("\nExample:")
		fmt.Println("  go run cmd/tools/task-generator/main.go --task enrichment-locate-source")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	var found *registry.Task
	for i := range reg.Tasks {
		if reg.Tasks[i].ID == *taskID {
			found = &reg.Tasks[i]
			break
		}
	}

	if found == nil {
		fmt.Printf("Task '%s' not found in registry %s\n", *taskID, *registryPath)
		os.Exit(1)
	}

	data := TaskData{
		Name:         found.DisplayName,
		PackageName:  strings.ReplaceAll(found.TaskType, "-", ""),
		TaskType:     found.TaskType,
		InputSchema:  found.InputSchema,
		OutputSchema: found.OutputSchema,
		ErrorCodes:   found.ErrorCodes,
		Description:  found.Description,
		Category:     found.Category,
		Timeout:      found.Timeout,
	}

	taskDir := filepath.Join(*outputDir, data.Category, found.TaskType)
	if err := os.MkdirAll(taskDir, 0755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	funcMap := template.FuncMap{
		"parseSchema":          parseSchema,
		"goTypeFromJSONType":   goTypeFromJSONType,
		"generateStructFields": generateStructFields,
		"upperFirst":           upperFirst,
	}

	templates := map[string]string{
		"config.go":       configTemplate,
		"handler.go":      handlerTemplate,
		"models.go":       modelsTemplate,
		"handler_test.go": testTemplate,
	}

	for filename, tmplStr := range templates {
		tmpl, err := template.New(filename).Funcs(funcMap).Parse(tmplStr)
		if err != nil {
			fmt.Printf("Error parsing template %s: %v\n", filename, err)
			continue
		}

		filePath := filepath.Join(taskDir, filename)
		file, err := os.Create(filePath)
		if err != nil {
			fmt.Printf("Error creating file %s: %v\n", filePath, err)
			continue
		}

		if err := tmpl.Execute(file, data); err != nil {
			fmt.Printf("Error executing template for %s: %v\n", filename, err)
		}
		file.Close()

		fmt.Printf("Generated %s\n", filePath)
	}

	fmt.Printf("\nTask scaffold generated at: %s\n", taskDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement Execute in handler.go\n")
	fmt.Printf("  2. Flesh out the tests in handler_test.go\n")
	fmt.Printf("  3. Wire the handler in cmd/enrichment-server/main.go\n")
}
