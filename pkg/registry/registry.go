package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a registry document and rejects duplicate or empty task types.
func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode activity registry: %w", err)
	}

	seen := make(map[string]bool, len(reg.Activities))
	for _, a := range reg.Activities {
		if a.TaskType == "" {
			return nil, fmt.Errorf("activity %q has no taskType", a.ID)
		}
		if seen[a.TaskType] {
			return nil, fmt.Errorf("duplicate taskType %q", a.TaskType)
		}
		seen[a.TaskType] = true
	}
	return &reg, nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// InputSchemas maps task type to input schema for every activity that declares one.
func (r *ActivityRegistry) InputSchemas() map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{})
	for _, a := range r.Activities {
		if len(a.InputSchema) > 0 {
			out[a.TaskType] = a.InputSchema
		}
	}
	return out
}

// Validate checks the fields every activity must carry.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}
	ids := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		switch {
		case a.ID == "":
			return fmt.Errorf("activity missing required field: id")
		case ids[a.ID]:
			return fmt.Errorf("duplicate activity id: %s", a.ID)
		case a.DisplayName == "":
			return fmt.Errorf("activity %s missing required field: displayName", a.ID)
		case a.Category == "":
			return fmt.Errorf("activity %s missing required field: category", a.ID)
		}
		ids[a.ID] = true
	}
	return nil
}

// UpdateField sets one scalar field on the activity with the given id.
func (r *ActivityRegistry) UpdateField(id, field, value string) error {
	target, ok := r.ByID(id)
	if !ok {
		return fmt.Errorf("activity with id %s not found", id)
	}

	switch field {
	case "status":
		switch value {
		case StatusPlanned, StatusImplemented, StatusVerified:
		default:
			return fmt.Errorf("invalid status %q", value)
		}
		target.ImplementationStatus = value
	case "version":
		target.Version = value
	case "displayName":
		target.DisplayName = value
	case "description":
		target.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		target.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid retries value %q", value)
		}
		target.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// Save writes the registry as indented JSON, creating the directory if needed.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
