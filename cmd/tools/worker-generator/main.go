package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"venue-workers/pkg/registry"
)

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., recommend-staffing)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	force := flag.Bool("force", false, "Overwrite files that already exist")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id> [-output <dir>] [-registry <path>] [-force]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	found, ok := reg.ByID(*activity)
	if !ok {
		fmt.Fprintf(os.Stderr, "activity %q not found in %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	files, err := Render(NewWorkerData(*found))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error rendering scaffold: %v\n", err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, found.Category, found.ID)
	written, err := WriteFiles(workerDir, files, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing scaffold: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("generated %s\n", path)
	}

	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement execute in %s\n", filepath.Join(workerDir, "handler.go"))
	fmt.Printf("  2. Register the handler in cmd/worker-manager/main.go buildHandlers\n")
	fmt.Printf("  3. Add a workers.%s entry to configs/config.yaml\n", found.TaskType)
}
