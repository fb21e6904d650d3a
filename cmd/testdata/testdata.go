package testdata

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
)

type Command struct {
	outputDir string
}

func (*Command) Name() string     { return "testdata" }
func (*Command) Synopsis() string { return "Generate a fixture directory tree for scan testing" }
func (*Command) Usage() string {
	return `testdata -out <directory>:
  Generate a nested directory structure with files for exercising the scanner.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "out", "", "output directory path (required)")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.outputDir == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	if err := generateTestData(c.outputDir); err != nil {
		log.Printf("Failed to generate test data: %v", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

func generateTestData(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	dirs := []string{
		"documents",
		"documents/invoices",
		"documents/contracts",
		"media",
		"media/photos",
		"media/photos/raw",
		"media/clips",
		"archive",
		"archive/2023",
		"archive/2024",
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(outputDir, dir), 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	contents := []struct {
		content string
		count   int
		ext     string
	}{
		{"quarterly invoice draft\n", 5, ".pdf"},
		{"meeting notes\n", 4, ".txt"},
		{"col1,col2,col3\n1,2,3\n", 3, ".csv"},
		{"# Archive index\n", 3, ".md"},
		{"{\"kind\":\"manifest\"}\n", 4, ".json"},
		{strings.Repeat("raw sensor frame ", 512), 3, ".dat"},
		{"", 2, ".log"}, // zero-byte files
	}

	fileCount := 1
	for _, c := range contents {
		for i := 0; i < c.count; i++ {
			dir := dirs[fileCount%len(dirs)]
			name := fmt.Sprintf("file%03d%s", fileCount, c.ext)
			path := filepath.Join(outputDir, dir, name)

			if err := os.WriteFile(path, []byte(c.content), 0644); err != nil {
				return fmt.Errorf("create file %s: %w", name, err)
			}
			fileCount++
		}
	}

	log.Printf("Generated %d directories and %d files in %s", len(dirs), fileCount-1, outputDir)
	return nil
}
