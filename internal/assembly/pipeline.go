package assembly

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"papeterie/internal/fileutil"
	"papeterie/internal/layout"
	"papeterie/internal/logging"
	"papeterie/internal/output"
	"papeterie/internal/recipient"
	"papeterie/internal/services"
	"papeterie/internal/snippets"
	"papeterie/internal/textutil"
)

// Renderer produces the snippet set of one recipient.
type Renderer interface {
	Render(recipient.Record) (*snippets.Set, error)
}

// Signer returns the signed form of a fragment text.
type Signer interface {
	Sign(ctx context.Context, text string) (string, error)
}

// Compiler turns a layout source file into outDir/basename.pdf.
type Compiler interface {
	Compile(ctx context.Context, outDir, basename, source string) (string, error)
}

// Concatenator joins PDFs in the given order.
type Concatenator interface {
	Merge(ctx context.Context, inputs []string, output string) error
}

// Config wires the collaborators of a pipeline.
type Config struct {
	// InputDir is injected as the picture path fragment.
	InputDir string
	Layout   *layout.Template
	Renderer Renderer
	// SignedSnippets maps signed fragment names to the fragments they sign.
	SignedSnippets   map[string]string
	Signer           Signer
	Compiler         Compiler
	Concatenator     Concatenator
	KeepIntermediate bool
	Logger           *slog.Logger
}

// Pipeline assembles documents.
type Pipeline struct {
	inputDir string
	layout   *layout.Template
	renderer Renderer
	signed   map[string]string
	inverse  map[string]string
	signer   Signer
	compiler Compiler
	concat   Concatenator
	keep     bool
	logger   *slog.Logger
}

// New validates cfg and returns a pipeline. A signed mapping without a signer
// is rejected here, before any recipient is processed.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Layout == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "init", "layout template required", nil)
	}
	if cfg.Compiler == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "init", "compiler required", nil)
	}
	if len(cfg.SignedSnippets) > 0 && cfg.Signer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "init", "signed snippets configured but no signer available", nil)
	}
	inverse := make(map[string]string, len(cfg.SignedSnippets))
	for signed, source := range cfg.SignedSnippets {
		inverse[source] = signed
	}
	return &Pipeline{
		inputDir: cfg.InputDir,
		layout:   cfg.Layout,
		renderer: cfg.Renderer,
		signed:   maps.Clone(cfg.SignedSnippets),
		inverse:  inverse,
		signer:   cfg.Signer,
		compiler: cfg.Compiler,
		concat:   cfg.Concatenator,
		keep:     cfg.KeepIntermediate,
		logger:   logging.NewComponentLogger(cfg.Logger, "assembly"),
	}, nil
}

// RunSerial assembles one document per record and concatenates them, in
// record order, into the workspace's output file.
func (p *Pipeline) RunSerial(ctx context.Context, ws *output.Workspace, records []recipient.Record) (*Report, error) {
	if p.renderer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "serial", "renderer required", nil)
	}
	if p.concat == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "serial", "concatenator required", nil)
	}
	if len(records) == 0 {
		return nil, services.Wrap(services.ErrValidation, "assembly", "serial", "no recipients", nil)
	}
	if err := ws.Lock(); err != nil {
		return nil, err
	}

	report := &Report{WorkDir: ws.Dir(), Output: ws.OutputFile(), Kept: true}
	started := time.Now()
	p.logger.Info("serial run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("recipients", len(records)),
		logging.String("work_dir", ws.Dir()),
	)

	pdfs := make([]string, 0, len(records))
	for idx, record := range records {
		entry, err := p.assembleRecipient(ctx, ws, idx, record)
		report.Recipients = append(report.Recipients, entry)
		if err != nil {
			return report, p.fail(ws, fmt.Errorf("recipient %d: %w", idx, err))
		}
		pdfs = append(pdfs, entry.PDF)
	}

	if err := p.concat.Merge(ctx, pdfs, ws.PDFPath()); err != nil {
		return report, p.fail(ws, err)
	}
	if err := p.deliver(ws); err != nil {
		return report, p.fail(ws, err)
	}
	p.logger.Info("serial run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("recipients", len(records)),
		logging.String("output", ws.OutputFile()),
		logging.Duration("elapsed", time.Since(started)),
		logging.Bool("keep_work_dir", p.keep),
	)
	if err := ws.Cleanup(p.keep); err != nil {
		return report, err
	}
	report.Kept = p.keep
	return report, nil
}

// RunSingle compiles one document from an already assembled set.
func (p *Pipeline) RunSingle(ctx context.Context, ws *output.Workspace, set *snippets.Set) (*Report, error) {
	if set == nil {
		return nil, services.Wrap(services.ErrValidation, "assembly", "single", "snippet set required", nil)
	}
	if err := ws.Lock(); err != nil {
		return nil, err
	}
	report := &Report{WorkDir: ws.Dir(), Output: ws.OutputFile(), Kept: true}

	pdf, err := p.compile(ctx, ws.Dir(), ws, set)
	if err != nil {
		return report, p.fail(ws, err)
	}
	report.Recipients = append(report.Recipients, RecipientReport{Stages: []string{StageCompiled, StageDone}, PDF: pdf})
	if err := p.deliver(ws); err != nil {
		return report, p.fail(ws, err)
	}
	p.logger.Info("document written", logging.String("output", ws.OutputFile()))
	if err := ws.Cleanup(p.keep); err != nil {
		return report, err
	}
	report.Kept = p.keep
	return report, nil
}

func (p *Pipeline) assembleRecipient(ctx context.Context, ws *output.Workspace, idx int, record recipient.Record) (RecipientReport, error) {
	ctx = logging.WithRecipient(ctx, idx)
	entry := RecipientReport{Index: idx}
	p.advance(ctx, &entry, StageStart)
	logging.WithContext(ctx, p.logger).Debug("recipient data", logging.Strings("fields", record.Header()))

	set, err := p.prepare(ctx, &entry, record)
	if err != nil {
		return entry, err
	}

	files := ws.Indexed(idx)
	if err := writeDebugFiles(files, set); err != nil {
		return entry, err
	}
	pdf, err := p.compile(ctx, ws.Dir(), files, set)
	if err != nil {
		return entry, err
	}
	entry.PDF = pdf
	p.advance(ctx, &entry, StageCompiled)
	p.advance(ctx, &entry, StageDone)
	return entry, nil
}

// Prepare renders the complete snippet set of one recipient: sub-templates,
// picture path and signed fragments.
func (p *Pipeline) Prepare(ctx context.Context, idx int, record recipient.Record) (*snippets.Set, error) {
	if p.renderer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "assembly", "prepare", "renderer required", nil)
	}
	entry := RecipientReport{Index: idx}
	return p.prepare(logging.WithRecipient(ctx, idx), &entry, record)
}

func (p *Pipeline) prepare(ctx context.Context, entry *RecipientReport, record recipient.Record) (*snippets.Set, error) {
	set, err := p.renderer.Render(record)
	if err != nil {
		return nil, err
	}
	p.advance(ctx, entry, StageFragmentsRendered)

	set, err = set.Add(snippets.PicturePath, p.inputDir)
	if err != nil {
		return nil, err
	}
	p.advance(ctx, entry, StagePicturePathInjected)

	if len(p.signed) == 0 {
		return set, nil
	}

	subset, err := set.Subset(slices.Sorted(maps.Keys(p.inverse)))
	if err != nil {
		return nil, err
	}
	renamed, err := subset.Renamed(p.inverse)
	if err != nil {
		return nil, err
	}
	p.advance(ctx, entry, StageSignedSubsetExtracted)

	signed, err := renamed.Transform(func(text string) (string, error) {
		return p.signer.Sign(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	p.advance(ctx, entry, StageSigned)

	merged, err := set.MergeWith(signed, false)
	if err != nil {
		return nil, err
	}
	p.advance(ctx, entry, StageMerged)
	return merged, nil
}

type documentFiles interface {
	TexCollection() string
	TexResult() string
	PDFBasename() string
}

func (p *Pipeline) compile(ctx context.Context, dir string, files documentFiles, set *snippets.Set) (string, error) {
	texified, err := set.Transform(textutil.TexifyTransform)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(files.TexCollection(), []byte(texified.String()), 0o644); err != nil {
		return "", fmt.Errorf("write tex collection: %w", err)
	}
	source := files.TexResult()
	if err := os.WriteFile(source, []byte(p.layout.Render(texified)), 0o644); err != nil {
		return "", fmt.Errorf("write tex file: %w", err)
	}
	logging.WithContext(ctx, p.logger).Info("wrote tex file", logging.String("path", source))
	return p.compiler.Compile(ctx, dir, files.PDFBasename(), source)
}

func writeDebugFiles(files output.Indexed, set *snippets.Set) error {
	for _, name := range set.Names() {
		text, _ := set.Get(name)
		if err := os.WriteFile(files.SnippetFile(name), []byte(text), 0o644); err != nil {
			return fmt.Errorf("write snippet %s: %w", name, err)
		}
	}
	if err := os.WriteFile(files.SnippetCollection(), []byte(set.String()), 0o644); err != nil {
		return fmt.Errorf("write snippet collection: %w", err)
	}
	return nil
}

func (p *Pipeline) deliver(ws *output.Workspace) error {
	if err := fileutil.CopyFileVerified(ws.PDFPath(), ws.OutputFile()); err != nil {
		return services.Wrap(services.ErrArtifactMissing, "assembly", "deliver", fmt.Sprintf("copy %s to %s", ws.PDFPath(), ws.OutputFile()), err)
	}
	return nil
}

func (p *Pipeline) advance(ctx context.Context, entry *RecipientReport, stage string) {
	entry.Stages = append(entry.Stages, stage)
	logging.WithContext(logging.WithStage(ctx, stage), p.logger).Info(
		"recipient stage reached",
		logging.String(logging.FieldEventType, "stage_complete"),
	)
}

func (p *Pipeline) fail(ws *output.Workspace, err error) error {
	p.logger.Error("run failed, keeping working directory",
		logging.String(logging.FieldEventType, "run_failure"),
		logging.String("work_dir", ws.Dir()),
		logging.Error(err),
	)
	if unlockErr := ws.Unlock(); unlockErr != nil {
		p.logger.Warn("failed to release working directory lock", logging.Error(unlockErr))
	}
	return err
}
