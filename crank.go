package crank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/crank/internal/adapters/file"
	"github.com/aretw0/crank/internal/codegen"
	"github.com/aretw0/crank/internal/compiler"
	"github.com/aretw0/crank/internal/logging"
	"github.com/aretw0/crank/internal/patcher"
	"github.com/aretw0/crank/internal/signature"
	"github.com/aretw0/crank/pkg/domain"
)

// Version is the crank release.
const Version = "0.4.0"

const tracerName = "github.com/aretw0/crank"

// Engine regenerates the state machine code of host files.
// It is safe for sequential use; a batch processes files in order.
type Engine struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	fallback codegen.Emitter
	backup   bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer overrides the global otel tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithDefaultStyle sets the code style used for files that carry no
// generated regions yet.
func WithDefaultStyle(em codegen.Emitter) Option {
	return func(e *Engine) {
		if em != nil {
			e.fallback = em
		}
	}
}

// WithBackup toggles the name.NNN copy taken before a file is rewritten.
func WithBackup(enabled bool) Option {
	return func(e *Engine) {
		e.backup = enabled
	}
}

// New initializes an Engine. By default it logs nothing, emits the tabular
// style and backs files up before writing.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:   logging.NewNop(),
		tracer:   otel.Tracer(tracerName),
		fallback: codegen.NewTabular(),
		backup:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of cranking one file.
type Result struct {
	Path    string
	Style   string
	Changed bool
	Skipped bool   // the file has no DSL block
	Backup  string // backup path, empty when none was taken
	Stubs   []string
	Err     error
}

// Parsed is a host file with its DSL model.
type Parsed struct {
	Doc   *file.Document
	Model *domain.Model
	Block signature.Region
}

// Parse opens path and builds the model of its DSL block.
// A file without a block yields domain.ErrNoDSL.
func (e *Engine) Parse(ctx context.Context, path string) (*Parsed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := file.Open(path)
	if err != nil {
		return nil, err
	}
	block, err := signature.FindBlock(doc)
	if err != nil {
		return nil, domain.WithFile(err, path)
	}
	from, to := block.Body()
	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		lines = append(lines, doc.Raw(i))
	}
	model, err := compiler.Parse(lines, from+1, e.logger.With("file", path))
	if err != nil {
		return nil, domain.WithFile(err, path)
	}
	return &Parsed{Doc: doc, Model: model, Block: block}, nil
}

// CrankFile regenerates the generated regions of path and appends stubs for
// functions it references but does not declare. The file is written only
// when its content changed.
func (e *Engine) CrankFile(ctx context.Context, path string) (res Result) {
	ctx, span := e.tracer.Start(ctx, "crank.file", trace.WithAttributes(attribute.String("crank.path", path)))
	defer func() {
		span.SetAttributes(
			attribute.String("crank.style", res.Style),
			attribute.Bool("crank.changed", res.Changed),
			attribute.Bool("crank.skipped", res.Skipped),
		)
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
		}
		span.End()
	}()

	res = Result{Path: path}
	log := e.logger.With("file", path)

	parsed, err := e.Parse(ctx, path)
	if errors.Is(err, domain.ErrNoDSL) {
		log.Warn("no dsl block found, skipping")
		res.Skipped = true
		return res
	}
	if err != nil {
		res.Err = err
		return res
	}
	doc, model := parsed.Doc, parsed.Model

	em := codegen.Detect(doc, e.fallback)
	res.Style = em.Name()
	log = log.With("style", em.Name())

	if err := e.generate(doc, model, em, &res); err != nil {
		res.Err = domain.WithFile(err, path)
		return res
	}

	if !doc.Changed() {
		log.Info("file is up to date")
		return res
	}
	if e.backup {
		name, err := file.Backup(path)
		if err != nil {
			res.Err = err
			return res
		}
		res.Backup = name
		log.Debug("backup written", "backup", name)
	}
	if err := doc.Write(); err != nil {
		res.Err = err
		return res
	}
	res.Changed = true
	log.Info("file regenerated", "stubs", len(res.Stubs))
	return res
}

func (e *Engine) generate(doc *file.Document, model *domain.Model, em codegen.Emitter, res *Result) error {
	set := em.Signatures()
	present, err := signature.Verify(doc, set)
	if err != nil {
		return err
	}
	if !present {
		e.logger.Info("creating signatures", "file", doc.Path, "style", em.Name())
		if err := signature.Create(doc, set); err != nil {
			return err
		}
	}

	defined := patcher.ScanFunctions(doc)

	regions, err := em.Render(model)
	if err != nil {
		return err
	}
	for _, p := range set {
		lines, ok := regions[p.Name]
		if !ok {
			continue
		}
		if _, err := patcher.Replace(doc, p, lines); err != nil {
			return fmt.Errorf("failed to regenerate region %q: %w", p.Name, err)
		}
	}

	for _, fn := range codegen.Missing(model, defined) {
		res.Stubs = append(res.Stubs, fn.Name)
	}
	if err := patcher.AppendStubs(doc, em.UserRegion(), em.Stubs(model, defined)); err != nil {
		return err
	}
	return nil
}

// CrankAll processes paths in order. A failing file does not stop the batch.
func (e *Engine) CrankAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if ctx.Err() != nil {
			results = append(results, Result{Path: path, Err: ctx.Err()})
			continue
		}
		res := e.CrankFile(ctx, path)
		if res.Err != nil {
			e.logger.Error("crank failed", "file", path, "error", res.Err)
		}
		results = append(results, res)
	}
	return results
}

// Failed reports whether any result carries an error.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
