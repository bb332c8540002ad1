package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"venue-workers/internal/common/validation"
	"venue-workers/pkg/registry"
)

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	default:
		help()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	if _, err := validation.NewValidatorFromSchemas(reg.InputSchemas()); err != nil {
		return err
	}

	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, displayName, description, timeout, retries)")
	value := fs.String("value", "", "New value for the field")
	fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field and value are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.UpdateField(*id, *field, *value); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	if err := registry.Save(reg, *path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

// runCheck validates a sample variables document against a task's input schema.
func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	taskType := fs.String("task", "", "Task type whose input schema to use")
	input := fs.String("input", "", "Path to a JSON variables document")
	fs.Parse(args)

	if *taskType == "" || *input == "" {
		fs.Usage()
		return fmt.Errorf("task and input are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	activity, ok := reg.Find(*taskType)
	if !ok {
		return fmt.Errorf("no activity registered for task type %s", *taskType)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("input is not JSON: %w", err)
	}

	result, err := validation.ValidateInput(doc, activity.InputSchema)
	if err != nil {
		return err
	}
	if !result.Valid {
		for _, msg := range result.Messages() {
			fmt.Println("  -", msg)
		}
		return fmt.Errorf("%s does not match %s input schema", *input, *taskType)
	}
	fmt.Printf("%s matches %s input schema\n", *input, *taskType)
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	path := fs.String("path", "configs/activity-registry.json", "Path to registry file")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	activities := append([]registry.Activity(nil), reg.Activities...)
	sort.Slice(activities, func(i, j int) bool { return activities[i].TaskType < activities[j].TaskType })
	for _, a := range activities {
		fmt.Printf("%-28s %-12s %-10s retries=%d timeout=%s\n", a.TaskType, a.Category, a.ImplementationStatus, a.Retries, a.Timeout)
	}
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  validate  Validate the registry file and compile every input schema
  update    Update an existing activity's field
  check     Validate a sample variables document against a task's input schema
  list      List registered activities
  help      Show this help message

Examples:
  registry-updater validate -path configs/activity-registry.json
  registry-updater update -id recommend-staffing -field status -value verified
  registry-updater check -task recommend-staffing -input sample.json

Use 'registry-updater <command> -h' for more information about a command.`)
}
