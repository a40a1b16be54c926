// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"stackpack/internal/backup"
	"stackpack/internal/merge"
	"stackpack/pkg/bundlefile"
	"stackpack/pkg/registry"
)

// Step names a phase of the composition pipeline.
type Step string

const (
	StepValidating        Step = "validating"
	StepParsing           Step = "parsing"
	StepMergingRootDoc    Step = "merging-root-doc"
	StepMergingComponents Step = "merging-components"
	StepWriting           Step = "writing"
	StepVerifying         Step = "verifying"
)

// StepError wraps a failure with the pipeline step it occurred at, to aid
// debugging of multi-phase runs.
type StepError struct {
	Step Step
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

type (
	// Options tunes one composition run. The zero value is usable.
	Options struct {
		// Now supplies the generation timestamp for the merged document
		// trailer. Nil means time.Now.
		Now func() time.Time

		// Logger receives progress output. Nil constructs a quiet default.
		Logger *log.Logger

		// DryRun stops the pipeline after merging: nothing is snapshotted,
		// written, or verified. Warnings from parsing and merging still
		// accumulate on the Result.
		DryRun bool

		// Backup snapshots a pre-existing output tree before the first write.
		Backup bool

		// BackupDir overrides where snapshots go. Empty means
		// <outputRoot>/.stackpack-backup.
		BackupDir string

		// Gitignore maintains the output root's .gitignore so the snapshot
		// directory never gets committed.
		Gitignore bool
	}

	// Result is the outcome of a successful composition, including every
	// warning collected along the way.
	Result struct {
		// OutputRoot is the directory the composition was written under.
		OutputRoot string
		// Bundles is the canonical ordered bundle list that was composed.
		Bundles []registry.Entry
		// Warnings are the content-level problems encountered; the run still
		// succeeded.
		Warnings []bundlefile.Warning
		// Written lists every file path written, relative to OutputRoot.
		Written []string
		// BackupPath is the snapshot taken before writing, empty when no
		// snapshot was needed or backups were disabled.
		BackupPath string
		// Verification is the post-write check of required output paths.
		Verification *Verification
	}
)

// Compose runs the full pipeline for the given ordered bundle list. The
// bundle order is canonical: it decides merge tie-breaks and the trailer
// listing. Warnings never fail the run; structural errors abort it with the
// step they occurred at.
func Compose(ctx context.Context, bundles []registry.Entry, outputRoot string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{Prefix: "compose"})
	}

	// validating
	if len(bundles) == 0 {
		return nil, &StepError{Step: StepValidating, Err: errors.New("no bundles selected")}
	}
	if outputRoot == "" {
		return nil, &StepError{Step: StepValidating, Err: errors.New("no output root given")}
	}
	for _, entry := range bundles {
		info, err := os.Stat(entry.Path)
		if err != nil {
			return nil, &StepError{Step: StepValidating, Err: fmt.Errorf("bundle %s: %w", entry.Descriptor.ID, err)}
		}
		if !info.IsDir() {
			return nil, &StepError{Step: StepValidating, Err: fmt.Errorf("bundle %s: %s is not a directory", entry.Descriptor.ID, entry.Path)}
		}
	}

	result := &Result{OutputRoot: outputRoot, Bundles: bundles}

	// parsing: fan out one goroutine per bundle. Each parse allocates its own
	// state; results land in a preallocated slot per bundle, so no locking.
	logger.Debug("parsing bundles", "count", len(bundles))
	parsed := make([]*bundlefile.Bundle, len(bundles))
	parseWarnings := make([][]bundlefile.Warning, len(bundles))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, entry := range bundles {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			bundle, warnings, err := bundlefile.Parse(entry.Path, entry.Descriptor.ID)
			if err != nil {
				return fmt.Errorf("bundle %s: %w", entry.Descriptor.ID, err)
			}
			parsed[i] = bundle
			parseWarnings[i] = warnings
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, &StepError{Step: StepParsing, Err: err}
	}
	for _, warnings := range parseWarnings {
		result.Warnings = append(result.Warnings, warnings...)
	}

	// merging-root-doc
	logger.Debug("merging root documents")
	rootInputs := make([]merge.RootDocInput, len(bundles))
	for i, entry := range bundles {
		rootInputs[i] = merge.RootDocInput{Doc: parsed[i].RootDoc, Descriptor: entry.Descriptor}
	}
	mergedDoc, docWarnings := merge.MergeRootDocs(rootInputs, merge.RootDocOptions{Now: opts.Now})
	result.Warnings = append(result.Warnings, docWarnings...)

	// merging-components
	logger.Debug("merging components")
	priorities := make(map[string]int, len(bundles))
	for _, entry := range bundles {
		priorities[entry.Descriptor.ID] = entry.Descriptor.Priority
	}
	agents := merge.Agents(parsed, priorities)
	commands := merge.Commands(parsed, priorities)
	hooks := merge.Hooks(parsed, priorities)

	settingsInputs := make([]*bundlefile.Settings, len(parsed))
	for i, bundle := range parsed {
		settingsInputs[i] = bundle.Settings
	}
	settings := merge.Settings(settingsInputs)

	if opts.DryRun {
		logger.Info("dry run, skipping write",
			"bundles", len(bundles),
			"agents", len(agents),
			"commands", len(commands),
			"hooks", len(hooks),
			"warnings", len(result.Warnings))
		return result, nil
	}

	// writing: snapshot first when asked, then commit files one at a time.
	if opts.Backup {
		snapshotPath, err := backup.Snapshot(outputRoot, opts.BackupDir)
		if err != nil {
			return nil, &StepError{Step: StepWriting, Err: err}
		}
		if snapshotPath != "" {
			logger.Info("snapshot taken", "path", snapshotPath)
		}
		result.BackupPath = snapshotPath
	}

	logger.Debug("writing output", "root", outputRoot)
	written, err := writeOutput(outputRoot, mergedDoc, agents, commands, hooks, settings, opts.Gitignore)
	if err != nil {
		return nil, &StepError{Step: StepWriting, Err: err}
	}
	result.Written = written

	// verifying: missing pieces are warnings — the writes are committed.
	verification := Verify(outputRoot)
	result.Verification = verification
	for _, problem := range verification.Problems {
		result.Warnings = append(result.Warnings, bundlefile.Warning{
			Path:    outputRoot,
			Message: problem,
		})
	}

	logger.Info("composition done",
		"bundles", len(bundles),
		"agents", len(agents),
		"commands", len(commands),
		"hooks", len(hooks),
		"warnings", len(result.Warnings))
	return result, nil
}
