// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gwasdb/internal/archive"
	"gwasdb/internal/discover"
	"gwasdb/internal/logger"
	"gwasdb/internal/schema"
	"gwasdb/internal/table"
)

// Config controls a run.
type Config struct {
	Root    string // walked for .gz archives
	Target  string // archives are moved here after decompression
	OutDir  string // canonical tables are written here
	Schemas []schema.Schema
	RunID   string
}

// Sink receives every canonical table that was written to disk.
type Sink interface {
	Load(ctx context.Context, source string, c *schema.Canonical) (int, error)
}

// Runner processes archives sequentially.
type Runner struct {
	cfg  Config
	sink Sink // may be nil
	log  *logger.Logger
}

// New returns a Runner. sink and log may be nil.
func New(cfg Config, sink Sink, log *logger.Logger) *Runner {
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{cfg: cfg, sink: sink, log: log}
}

// Run discovers archives under Root and processes them one by one. It stops
// at the first file-system, parse or sink error, returning the report so far.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	rep := Report{RunID: r.cfg.RunID}

	skip := ""
	if within(r.cfg.Root, r.cfg.Target) {
		skip = r.cfg.Target
	}
	files, err := discover.Walk(r.cfg.Root, skip)
	if err != nil {
		return rep, err
	}
	r.log.Debug().Int("files", len(files)).Str("root", r.cfg.Root).Msg("discovered archives")

	for _, gz := range files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		r.log.Info().Str("file", gz).Msgf("Processing %s", gz)
		fr, err := r.ProcessFile(ctx, gz)
		rep.Files = append(rep.Files, fr)
		if err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// ProcessFile runs one archive through every schema.
func (r *Runner) ProcessFile(ctx context.Context, gzPath string) (FileReport, error) {
	fr := FileReport{Source: gzPath}

	plain, err := archive.Gunzip(gzPath)
	if err != nil {
		return fr, err
	}
	if fr.Archived, err = archive.Move(gzPath, r.cfg.Target); err != nil {
		return fr, err
	}

	src, err := table.ReadFile(plain)
	if err != nil {
		_ = os.Remove(plain)
		return fr, err
	}

	for _, s := range r.cfg.Schemas {
		switch res := schema.Resolve(src, s).(type) {
		case *schema.Rejected:
			fr.Rejections = append(fr.Rejections, res.Rejection)
			r.log.Warn().
				Str("file", plain).
				Str("schema", res.Schema).
				Str("field", res.Field).
				Str("reason", string(res.Reason)).
				Strs("candidates", res.Candidates).
				Msgf("Warning: there should be exactly one %s column in %s", res.Field, plain)
		case *schema.Resolved:
			out, err := r.write(ctx, plain, res)
			if err != nil {
				return fr, err
			}
			fr.Outputs = append(fr.Outputs, out)
		}
	}

	if err := os.Remove(plain); err != nil {
		return fr, err
	}
	return fr, nil
}

func (r *Runner) write(ctx context.Context, source string, res *schema.Resolved) (Output, error) {
	s := res.Table.Schema
	out := Output{
		Schema:    s.Name,
		Path:      filepath.Join(r.cfg.OutDir, schema.OutputName(source, s)),
		Rows:      res.Table.Len(),
		Dropped:   res.Dropped,
		Defaulted: res.Defaulted,
	}
	for _, f := range res.Defaulted {
		r.log.Info().Str("file", source).Str("field", f).Msg("no column found; using default value")
	}

	fh, err := os.Create(out.Path)
	if err != nil {
		return out, err
	}
	if err := res.Table.WriteTSV(fh); err != nil {
		_ = fh.Close()
		return out, fmt.Errorf("write %s: %w", out.Path, err)
	}
	if err := fh.Close(); err != nil {
		return out, err
	}
	r.log.Info().
		Str("file", source).
		Str("schema", s.Name).
		Str("output", out.Path).
		Int("rows", out.Rows).
		Int("dropped", out.Dropped).
		Msg("wrote canonical table")

	if r.sink != nil {
		n, err := r.sink.Load(ctx, filepath.Base(source), res.Table)
		if err != nil {
			return out, err
		}
		out.Loaded = n
	}
	return out, nil
}

// within reports whether dir lies below root.
func within(root, dir string) bool {
	if root == "" || dir == "" {
		return false
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
