package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"gwasdb/internal/logger"
	"gwasdb/internal/schema"
)

func writeGz(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(body))
	_ = zw.Close()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

type fakeSink struct {
	loads map[string]int
	err   error
}

func (f *fakeSink) Load(_ context.Context, source string, c *schema.Canonical) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.loads == nil {
		f.loads = map[string]int{}
	}
	f.loads[source+":"+c.Schema.Name] = c.Len()
	return c.Len(), nil
}

type fixture struct {
	root, target, out string
	logs              bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	f := &fixture{
		root:   filepath.Join(dir, "gwas"),
		target: filepath.Join(dir, "archive"),
		out:    filepath.Join(dir, "out"),
	}
	for _, d := range []string{f.root, f.out} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func (f *fixture) runner(t *testing.T, sink Sink) *Runner {
	t.Helper()
	l, _, err := logger.New(logger.Options{Level: "debug", Format: "json", Writer: &f.logs})
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{Root: f.root, Target: f.target, OutDir: f.out, Schemas: schema.Defaults(schema.DefaultSampleSize), RunID: "test"}
	return New(cfg, sink, l)
}

func TestRun_EndToEnd(t *testing.T) {
	f := newFixture(t)
	writeGz(t, filepath.Join(f.root, "egg", "EGG-BW.txt.gz"),
		"hm_rsid\tchromosome\tbase_pair_location\tp-value\tn\nrs123\t7\t1500\t0.001\t5000\n")

	sink := &fakeSink{}
	rep, err := f.runner(t, sink).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := readFile(t, filepath.Join(f.out, "EGG-BW.txt_p.txt")); got != "rsid\tp\tn\nrs123\t0.001\t5000\n" {
		t.Fatalf("_p.txt = %q", got)
	}
	if got := readFile(t, filepath.Join(f.out, "EGG-BW.txt_loc.txt")); got != "rsid\tchromosome\tposition\nrs123\t7\t1500\n" {
		t.Fatalf("_loc.txt = %q", got)
	}
	// archive moved, decompressed copy removed
	if _, err := os.Stat(filepath.Join(f.target, "EGG-BW.txt.gz")); err != nil {
		t.Fatalf("archive not moved: %v", err)
	}
	for _, p := range []string{"EGG-BW.txt.gz", "EGG-BW.txt"} {
		if _, err := os.Stat(filepath.Join(f.root, "egg", p)); !os.IsNotExist(err) {
			t.Fatalf("%s should be gone from root, stat err=%v", p, err)
		}
	}
	if sink.loads["EGG-BW.txt:pvalue"] != 1 || sink.loads["EGG-BW.txt:location"] != 1 {
		t.Fatalf("sink loads = %v", sink.loads)
	}
	if outs, rejs := rep.Totals(); outs != 2 || rejs != 0 {
		t.Fatalf("totals = %d outputs, %d rejections", outs, rejs)
	}
	if !strings.Contains(f.logs.String(), "Processing ") {
		t.Fatalf("missing Processing log: %s", f.logs.String())
	}
}

func TestRun_RejectionSkipsOnlyThatSchema(t *testing.T) {
	f := newFixture(t)
	// two p-value columns: p-value schema rejected, location still written
	writeGz(t, filepath.Join(f.root, "amb.txt.gz"),
		"snp\tchr\tpos\tp\tpval\nrs1\t1\t10\t0.1\t0.1\n")
	// no rsid at all: both rejected
	writeGz(t, filepath.Join(f.root, "bad.txt.gz"), "id\tp\nx\t0.1\n")

	rep, err := f.runner(t, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Files) != 2 {
		t.Fatalf("files = %d", len(rep.Files))
	}
	if _, err := os.Stat(filepath.Join(f.out, "amb.txt_p.txt")); !os.IsNotExist(err) {
		t.Fatalf("rejected schema must not produce a file")
	}
	if got := readFile(t, filepath.Join(f.out, "amb.txt_loc.txt")); got != "rsid\tchromosome\tposition\nrs1\t1\t10\n" {
		t.Fatalf("_loc.txt = %q", got)
	}
	if outs, rejs := rep.Totals(); outs != 1 || rejs != 3 {
		t.Fatalf("totals = %d outputs, %d rejections", outs, rejs)
	}
	logs := f.logs.String()
	if !strings.Contains(logs, filepath.Join(f.root, "amb.txt")) || !strings.Contains(logs, `"level":"warn"`) {
		t.Fatalf("warning should name the file: %s", logs)
	}
	if !errors.Is(rep.Files[0].Rejections[0], schema.ErrAmbiguous) {
		t.Fatalf("first rejection = %v", rep.Files[0].Rejections[0])
	}
}

func TestRun_DefaultedSampleSize(t *testing.T) {
	f := newFixture(t)
	writeGz(t, filepath.Join(f.root, "non.txt.gz"), "MarkerName\tP.value\nrs5\t0.5\n")

	rep, err := f.runner(t, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := readFile(t, filepath.Join(f.out, "non.txt_p.txt")); got != "rsid\tp\tn\nrs5\t0.5\t42212\n" {
		t.Fatalf("_p.txt = %q", got)
	}
	out := rep.Files[0].Outputs[0]
	if len(out.Defaulted) != 1 || out.Defaulted[0] != "n" {
		t.Fatalf("defaulted = %v", out.Defaulted)
	}
}

func TestRun_SinkErrorStops(t *testing.T) {
	f := newFixture(t)
	writeGz(t, filepath.Join(f.root, "a.txt.gz"), "rsid\tp\nrs1\t0.1\n")
	boom := errors.New("db down")
	_, err := f.runner(t, &fakeSink{err: boom}).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("want sink error, got %v", err)
	}
}

func TestRun_ParseErrorRemovesDecompressedCopy(t *testing.T) {
	f := newFixture(t)
	writeGz(t, filepath.Join(f.root, "wide.txt.gz"), "rsid\tp\nrs1\t0.1\textra\n")
	_, err := f.runner(t, nil).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "expected 2 fields") {
		t.Fatalf("want parse error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.root, "wide.txt")); !os.IsNotExist(err) {
		t.Fatalf("decompressed copy left behind: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.target, "wide.txt.gz")); err != nil {
		t.Fatalf("archive not moved: %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	f := newFixture(t)
	writeGz(t, filepath.Join(f.root, "a.txt.gz"), "rsid\tp\nrs1\t0.1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := f.runner(t, nil).Run(ctx)
	if !errors.Is(err, context.Canceled) || len(rep.Files) != 0 {
		t.Fatalf("want cancellation before any file, got err=%v files=%d", err, len(rep.Files))
	}
}

func TestRun_TargetInsideRootNotRevisited(t *testing.T) {
	f := newFixture(t)
	f.target = filepath.Join(f.root, "done")
	writeGz(t, filepath.Join(f.target, "old.txt.gz"), "rsid\tp\nrs0\t0.9\n")
	writeGz(t, filepath.Join(f.root, "new.txt.gz"), "rsid\tp\nrs1\t0.1\n")

	rep, err := f.runner(t, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Files) != 1 || filepath.Base(rep.Files[0].Source) != "new.txt.gz" {
		t.Fatalf("files = %+v", rep.Files)
	}
}

func TestWithin(t *testing.T) {
	cases := []struct {
		root, dir string
		want      bool
	}{
		{"/a", "/a/b", true},
		{"/a", "/a", false},
		{"/a", "/b", false},
		{"/a", "/a/../c", false},
		{"", "/a", false},
	}
	for _, c := range cases {
		if got := within(c.root, c.dir); got != c.want {
			t.Errorf("within(%q,%q) = %v", c.root, c.dir, got)
		}
	}
}
