package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"venue-workers/pkg/registry"
)

// WorkerData is what the scaffold templates are rendered from.
type WorkerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Timeout      time.Duration
	InputFields  []Field
	OutputFields []Field
	ErrorCodes   []string
}

type Field struct {
	GoName   string
	GoType   string
	JSONName string
	Optional bool
}

func NewWorkerData(a registry.Activity) WorkerData {
	return WorkerData{
		Name:         a.DisplayName,
		PackageName:  strings.ReplaceAll(a.ID, "-", ""),
		TaskType:     a.TaskType,
		Timeout:      a.TimeoutDuration(10 * time.Second),
		InputFields:  schemaFields(a.InputSchema),
		OutputFields: schemaFields(a.OutputSchema),
		ErrorCodes:   a.ErrorCodes,
	}
}

// schemaFields lists the top-level properties of a JSON schema object,
// sorted by name.
func schemaFields(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if req, ok := schema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		fields = append(fields, Field{
			GoName:   goName(name),
			GoType:   goType(details["type"]),
			JSONName: name,
			Optional: !required[name],
		})
	}
	return fields
}

func goType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "number":
		return "float64"
	case "integer":
		return "int"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	}
	return "interface{}"
}

// goName exports a camelCase property, keeping the Id suffix idiomatic.
func goName(prop string) string {
	if prop == "" {
		return prop
	}
	name := strings.ToUpper(prop[:1]) + prop[1:]
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func (f Field) Tag() string {
	if f.Optional {
		return fmt.Sprintf("`json:\"%s,omitempty\"`", f.JSONName)
	}
	return fmt.Sprintf("`json:\"%s\"`", f.JSONName)
}

var templates = map[string]string{
	"config.go": `package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ printf "%d" .Timeout.Milliseconds }} * time.Millisecond,
	}
}
`,
	"models.go": `package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .GoName }} {{ .GoType }} {{ .Tag }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .GoName }} {{ .GoType }} {{ .Tag }}
{{- end }}
}
`,
	"handler.go": `package {{ .PackageName }}

import (
	"context"
	"fmt"
	"time"

	"venue-workers/internal/common/errors"
	"venue-workers/internal/common/logger"
	"venue-workers/internal/common/metrics"
	"venue-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

// Handler runs the {{ .Name }} job.{{ if .ErrorCodes }} Registered error codes: {{ join .ErrorCodes ", " }}.{{ end }}
type Handler struct {
	config     *Config
	validator  *validation.Validator
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		validator:  validator,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	started := time.Now()

	var input Input
	if err := validation.DecodeVariables(h.validator, TaskType, job.Variables, &input); err != nil {
		h.failJob(ctx, client, job, started, err)
		return
	}

	execCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.execute(execCtx, &input)
	if err != nil {
		h.failJob(ctx, client, job, started, err)
		return
	}

	metrics.ObserveJob(TaskType, started, "")
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	return nil, errors.NewInternalError(fmt.Errorf("%s is not implemented", TaskType))
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, started time.Time, err error) {
	stdErr := errors.Normalize(err)
	metrics.ObserveJob(TaskType, started, string(stdErr.Code))
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
}
`,
}

// Render produces gofmt'd source for every scaffold file, keyed by file name.
func Render(data WorkerData) (map[string][]byte, error) {
	funcs := template.FuncMap{"join": strings.Join}
	out := make(map[string][]byte, len(templates))
	for name, src := range templates {
		tmpl, err := template.New(name).Funcs(funcs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		formatted, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", name, err)
		}
		out[name] = formatted
	}
	return out, nil
}

var ErrFileExists = errors.New("file already exists")

// WriteFiles writes the rendered files into dir in name order. Existing
// files are left alone unless force is set.
func WriteFiles(dir string, files map[string][]byte, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	written := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return written, fmt.Errorf("%s: %w", path, ErrFileExists)
		}
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
