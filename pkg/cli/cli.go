// Package cli wires configuration, logging, and subcommand dispatch around
// pkg/pipeline, grounded on the dispatch shape of the teacher's own
// pkg/cli/cli.go (single entrypoint reading os.Args, hand-validating
// positional arguments, no flags library).
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/sticker-labs/stickersheet/pkg/pipeline"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  stickersheet debug <INPUT_FILE> <OUTPUT_DIR>")
	fmt.Println("  stickersheet extract <SOURCE_DIRECTORY> <TARGET_DIRECTORY>")
	fmt.Println("  stickersheet version")
}

// Run is the program entrypoint's single call: it loads configuration,
// builds the logger, and dispatches os.Args[1] to a subcommand. It returns
// the process exit code rather than calling os.Exit itself, so
// cmd/stickersheet/main.go stays a thin wrapper.
func Run(args []string) int {
	if err := LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	log := NewLogger()

	if len(args) < 2 {
		usage()
		return 1
	}

	switch args[1] {
	case "debug":
		if len(args) != 4 {
			fmt.Fprintln(os.Stderr, "debug requires INPUT_FILE and OUTPUT_DIR")
			return 1
		}
		return runSingle(log, args[2], args[3], true)
	case "extract":
		if len(args) != 4 {
			fmt.Fprintln(os.Stderr, "extract requires SOURCE_DIRECTORY and TARGET_DIRECTORY")
			return 1
		}
		return runBatch(log, args[2], args[3])
	case "version", "update":
		if err := CheckForUpdates(); err != nil {
			fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			return 1
		}
		return 0
	case "h", "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[1])
		usage()
		return 1
	}
}

func runSingle(log *slog.Logger, inputPath, outputDir string, debug bool) int {
	result, err := pipeline.Extract(inputPath, pipeline.Options{OutputDir: outputDir, Debug: debug})
	if err != nil {
		log.Error("extract failed", "input", inputPath, "error", err)
		return 1
	}
	log.Info("extract finished", "input", inputPath, "stickers", len(result.Stickers))
	for _, p := range result.Stickers {
		fmt.Println(p)
	}
	return 0
}

// imageExtensions lists the file extensions RunExtract considers as
// candidate input sheets, matching the formats pkg/rasterimg.Load decodes.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// RunExtract fans every image file directly under sourceDir out across a
// bounded goroutine pool and runs pipeline.Extract on each, writing outputs
// to targetDir. Grounded on the worker-splitting shape of FloodfillPaint's
// row-compositing stage in the teacher's pkg/stdimg/floodfill.go
// (runtime.NumCPU() goroutines plus a sync.WaitGroup) and on main.rs's
// rayon::par_iter fan-out over the sheet directory. A per-file failure is
// logged and recorded but never cancels its siblings; RunExtract returns a
// single errors.Join of every per-file failure once all files have run. An
// empty or all-non-image source directory is not an error.
func RunExtract(log *slog.Logger, sourceDir, targetDir string) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return fmt.Errorf("cli: read source directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(sourceDir, e.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		log.Info("no image files found", "source", sourceDir)
		return nil
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	type job struct {
		index int
		path  string
	}
	jobs := make(chan job)
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				_, err := pipeline.Extract(j.path, pipeline.Options{OutputDir: targetDir})
				if err != nil {
					log.Error("extract failed", "input", j.path, "error", err)
					errs[j.index] = fmt.Errorf("%s: %w", j.path, err)
					continue
				}
				log.Info("extract finished", "input", j.path)
			}
		}()
	}
	for i, p := range paths {
		jobs <- job{index: i, path: p}
	}
	close(jobs)
	wg.Wait()

	return errors.Join(errs...)
}

func runBatch(log *slog.Logger, sourceDir, targetDir string) int {
	if err := RunExtract(log, sourceDir, targetDir); err != nil {
		fmt.Fprintf(os.Stderr, "one or more files failed: %v\n", err)
		return 1
	}
	return 0
}


