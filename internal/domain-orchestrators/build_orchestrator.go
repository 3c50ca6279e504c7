// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ochairo/cppgrade/internal/domain/entities"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
)

// ArchiveExtractor interface for unpacking submission archives
type ArchiveExtractor interface {
	ProjectName(fileName string) (string, bool)
	Extract(archivePath, destDir string) error
}

// LayoutNormalizer interface for canonicalizing an extracted tree
type LayoutNormalizer interface {
	Normalize(dir string) error
}

// ProjectLocator interface for finding the entry-point directory
type ProjectLocator interface {
	Locate(root string) (string, bool)
}

// ProjectBuilder interface for configuring and compiling a located project
type ProjectBuilder interface {
	Build(ctx context.Context, project *entities.Project) (*entities.BuildOutcome, error)
}

// SignatureVerifier interface for checking detached archive signatures
type SignatureVerifier interface {
	VerifySignatureFromFile(filePath, sigPath string) error
}

// signatureSuffixes are the detached signature names looked up next to an archive
var signatureSuffixes = []string{".sig", ".asc"}

// Archive processing stages, recorded on the result where processing stopped
const (
	StageVerify  = "verify"
	StageExtract = "extract"
	StageLayout  = "normalize"
	StageLocate  = "locate"
	StageBuild   = "build"
	StageDone    = "done"
)

// BatchOrchestrator extracts, normalizes and builds every archive of an input tree
type BatchOrchestrator struct {
	extractor    ArchiveExtractor
	normalizer   LayoutNormalizer
	locator      ProjectLocator
	builder      ProjectBuilder
	verifier     SignatureVerifier
	buildDirName string
	logger       interfaces.Logger
}

// BatchOrchestratorConfig holds configuration for the orchestrator
type BatchOrchestratorConfig struct {
	BuildDirName string
}

// NewBatchOrchestrator creates a new batch orchestrator. verifier may be nil,
// in which case archives are not signature-checked.
func NewBatchOrchestrator(
	extractor ArchiveExtractor,
	normalizer LayoutNormalizer,
	locator ProjectLocator,
	builder ProjectBuilder,
	verifier SignatureVerifier,
	config BatchOrchestratorConfig,
	logger interfaces.Logger,
) *BatchOrchestrator {
	buildDirName := config.BuildDirName
	if buildDirName == "" {
		buildDirName = "build"
	}

	return &BatchOrchestrator{
		extractor:    extractor,
		normalizer:   normalizer,
		locator:      locator,
		builder:      builder,
		verifier:     verifier,
		buildDirName: buildDirName,
		logger:       interfaces.OrNoOp(logger),
	}
}

// ArchiveResult contains the result of processing one archive
type ArchiveResult struct {
	Archive  string
	Project  *entities.Project
	Outcome  *entities.BuildOutcome
	Stage    string
	Duration time.Duration
	Error    error
}

// Built reports whether the archive reached a successful build
func (r *ArchiveResult) Built() bool {
	return r.Stage == StageDone && r.Outcome != nil && r.Outcome.State == entities.BuildStateSucceeded
}

// BatchResult contains the results of one batch run, in walk order
type BatchResult struct {
	Archives []*ArchiveResult
	Skipped  []string
	Duration time.Duration
}

// Succeeded counts archives whose build succeeded
func (r *BatchResult) Succeeded() int {
	n := 0
	for _, a := range r.Archives {
		if a.Built() {
			n++
		}
	}
	return n
}

// Run processes every archive under inputDir into outputDir. Only an
// unusable input or output directory is returned as an error; failures of
// individual archives are logged and recorded on the result.
func (o *BatchOrchestrator) Run(ctx context.Context, inputDir, outputDir string) (*BatchResult, error) {
	startTime := time.Now()

	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input directory does not exist: %s", inputDir)
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	archives, skipped, err := o.collect(inputDir, outputDir)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Skipped: skipped}
	for _, archive := range archives {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Archives = append(result.Archives, o.processArchive(ctx, inputDir, outputDir, archive))
	}

	result.Duration = time.Since(startTime)
	o.logger.Info("batch finished",
		interfaces.F("archives", len(result.Archives)),
		interfaces.F("built", result.Succeeded()),
		interfaces.F("skipped", len(result.Skipped)),
		interfaces.F("duration", result.Duration))
	return result, nil
}

// collect walks inputDir in lexical order and splits files into archives and
// skipped files. An output directory nested in the input is not searched.
func (o *BatchOrchestrator) collect(inputDir, outputDir string) ([]string, []string, error) {
	absOutput, _ := filepath.Abs(outputDir)
	var archives, skipped []string

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			o.logger.Warn("cannot read path", interfaces.F("path", path), interfaces.F("error", err))
			return nil
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == absOutput && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		name := d.Name()
		if _, ok := o.extractor.ProjectName(name); ok {
			archives = append(archives, path)
			return nil
		}
		if isSignatureFile(name) {
			o.logger.Debug("skipping signature file", interfaces.F("file", path))
			return nil
		}
		o.logger.Info("skipping unsupported file", interfaces.F("file", path))
		skipped = append(skipped, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk input directory: %w", err)
	}
	return archives, skipped, nil
}

func (o *BatchOrchestrator) processArchive(ctx context.Context, inputDir, outputDir, archive string) *ArchiveResult {
	startTime := time.Now()
	result := &ArchiveResult{Archive: archive}
	defer func() { result.Duration = time.Since(startTime) }()

	fail := func(stage string, err error) *ArchiveResult {
		result.Stage = stage
		result.Error = err
		o.logger.Error("archive processing failed",
			interfaces.F("archive", archive),
			interfaces.F("stage", stage),
			interfaces.F("error", err))
		return result
	}

	o.logger.Info("processing archive", interfaces.F("archive", archive))

	if o.verifier != nil {
		if err := o.verify(archive); err != nil {
			return fail(StageVerify, err)
		}
	}

	name, _ := o.extractor.ProjectName(filepath.Base(archive))
	rel, err := filepath.Rel(inputDir, filepath.Dir(archive))
	if err != nil {
		return fail(StageExtract, fmt.Errorf("failed to resolve archive path: %w", err))
	}
	target := filepath.Join(outputDir, rel, name)
	result.Project = entities.NewProject(name, target)
	if name == "" {
		return fail(StageExtract, fmt.Errorf("cannot derive project name from %s", filepath.Base(archive)))
	}

	// A previous run leaves normalized sources and a build dir behind;
	// extracting on top of them would mix two submissions.
	if err := os.RemoveAll(target); err != nil {
		return fail(StageExtract, fmt.Errorf("failed to clear previous extraction: %w", err))
	}
	if err := o.extractor.Extract(archive, target); err != nil {
		return fail(StageExtract, err)
	}

	if err := o.normalizer.Normalize(target); err != nil {
		return fail(StageLayout, err)
	}

	entryDir, ok := o.locator.Locate(target)
	if !ok {
		result.Stage = StageLocate
		result.Error = fmt.Errorf("entry point not found in %s", target)
		o.logger.Warn("entry point not found, skipping build", interfaces.F("project", target))
		return result
	}
	result.Project.SetEntryDir(entryDir, o.buildDirName)
	o.logger.Info("found entry point", interfaces.F("dir", entryDir))

	outcome, err := o.builder.Build(ctx, result.Project)
	if err != nil {
		return fail(StageBuild, err)
	}
	result.Outcome = outcome
	result.Stage = StageDone
	return result
}

// verify checks the archive against the first detached signature found next to it
func (o *BatchOrchestrator) verify(archive string) error {
	for _, suffix := range signatureSuffixes {
		sigPath := archive + suffix
		if _, err := os.Stat(sigPath); err != nil {
			continue
		}
		if err := o.verifier.VerifySignatureFromFile(archive, sigPath); err != nil {
			return err
		}
		o.logger.Debug("signature verified", interfaces.F("archive", archive), interfaces.F("signature", sigPath))
		return nil
	}
	return fmt.Errorf("no detached signature found for %s", filepath.Base(archive))
}

func isSignatureFile(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range signatureSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Summary returns a human-readable summary of the batch
func (r *BatchResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d archive(s): %d built, %d failed, %d file(s) skipped (%v)",
		len(r.Archives), r.Succeeded(), len(r.Archives)-r.Succeeded(), len(r.Skipped), r.Duration.Round(time.Millisecond))
	for _, a := range r.Archives {
		if a.Built() {
			continue
		}
		switch {
		case a.Error != nil:
			fmt.Fprintf(&b, "\n  %s: %s: %v", a.Archive, a.Stage, a.Error)
		case a.Outcome != nil:
			fmt.Fprintf(&b, "\n  %s: %s", a.Archive, a.Outcome.State)
		}
	}
	return b.String()
}
