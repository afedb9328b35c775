package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"gwasdb/internal/pipeline"
	"gwasdb/internal/schema"
	"gwasdb/pkg/api"
)

func sampleReport() pipeline.Report {
	return pipeline.Report{
		RunID: "run-1",
		Files: []pipeline.FileReport{{
			Source:   "/data/EGG-BW.txt.gz",
			Archived: "/archive/EGG-BW.txt.gz",
			Outputs: []pipeline.Output{
				{Schema: "pvalue", Path: "EGG-BW.txt_p.txt", Rows: 10, Dropped: 2, Defaulted: []string{"n"}},
			},
			Rejections: []*schema.Rejection{
				{Source: "/data/EGG-BW.txt", Schema: "location", Field: "position", Reason: schema.ReasonAmbiguous, Candidates: []string{"pos", "bp"}},
			},
		}},
	}
}

func TestTSVHeader_Stable(t *testing.T) {
	const want = "source\tschema\tstatus\tpath_or_field\trows\tdropped\tdetail"
	if TSVHeader != want {
		t.Fatalf("TSVHeader changed:\n got:  %q\n want: %q", TSVHeader, want)
	}
}

func TestWriteText_Snapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport(), true); err != nil {
		t.Fatal(err)
	}
	want := TSVHeader + "\n" +
		"EGG-BW.txt.gz\tpvalue\twritten\tEGG-BW.txt_p.txt\t10\t2\tdefaulted=n\n" +
		"EGG-BW.txt.gz\tlocation\trejected\tposition\t0\t0\tambiguous:pos,bp\n" +
		"# files=1 outputs=1 rejections=1\n"
	if buf.String() != want {
		t.Fatalf("text mismatch:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	var got api.ReportV1
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.RunID != "run-1" || got.Outputs != 1 || got.Rejections != 1 {
		t.Fatalf("totals: %+v", got)
	}
	rj := got.Files[0].Rejections[0]
	if rj.Reason != "ambiguous" || len(rj.Candidates) != 2 {
		t.Fatalf("rejection: %+v", rj)
	}
}
