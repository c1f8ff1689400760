package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thywilljoshua/pdf-study/internal/assistant"
	"github.com/thywilljoshua/pdf-study/internal/summarize"
	"github.com/thywilljoshua/pdf-study/internal/topics"
)

const notes = `Photosynthesis converts light energy into chemical energy inside plant cells.

Chlorophyll absorbs mostly red and blue light while reflecting green wavelengths.

The Calvin cycle fixes carbon dioxide into sugars using ATP and NADPH from the light reactions.

Cellular respiration later releases the stored energy for growth and repair.`

func writeNotes(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Plant Notes.txt")
	if err := os.WriteFile(path, []byte(notes), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI offline against plain text input.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("PDFSTUDY_PROVIDER", "")
	var out, errb bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetArgs(append([]string{"--provider", "off", "--log-level", "error", "--text"}, args...))
	err = root.Execute()
	return out.String(), errb.String(), err
}

func TestSummarizeOffline(t *testing.T) {
	path := writeNotes(t)
	out, errOut, err := run(t, "summarize", path, "--length", "brief")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := summarize.Fallback(notes, summarize.Brief, summarize.Academic) + "\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(errOut, "(local analysis)") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestTopicsExport(t *testing.T) {
	path := writeNotes(t)
	dir := t.TempDir()
	if _, _, err := run(t, "topics", path, "-n", "2", "--format", "json", "-o", dir); err != nil {
		t.Fatalf("topics: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "topics_plant-notes.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got []topics.Topic
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(topics.Segment(notes, 2), got); diff != "" {
		t.Fatalf("exported topics mismatch (-want +got):\n%s", diff)
	}
}

func TestAskQuick(t *testing.T) {
	path := writeNotes(t)
	out, _, err := run(t, "--json", "ask", path, "--quick", "1")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	var res assistant.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Source != assistant.Fallback || res.Text == "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestArgumentErrors(t *testing.T) {
	path := writeNotes(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no question", []string{"ask", path}},
		{"quick out of range", []string{"ask", path, "--quick", "9"}},
		{"bad length", []string{"summarize", path, "--length", "epic"}},
		{"bad topic type", []string{"topics", path, "--type", "gossip"}},
		{"bad difficulty", []string{"test", path, "--difficulty", "brutal"}},
		{"missing file", []string{"keypoints", filepath.Join(t.TempDir(), "none.txt")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := run(t, tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLanguages(t *testing.T) {
	out, _, err := run(t, "languages")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Split(strings.TrimSpace(out), "\n"); !cmp.Equal(got, assistant.Languages) {
		t.Fatalf("languages = %v", got)
	}
}

func TestInfoJSON(t *testing.T) {
	path := writeNotes(t)
	out, _, err := run(t, "--json", "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	var got struct {
		Characters int    `json:"characters"`
		Chunks     int    `json:"chunks"`
		Preview    string `json:"preview"`
		Metadata   struct {
			Title string `json:"title"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Chunks != 1 || got.Preview != notes || got.Metadata.Title != "Unknown" {
		t.Fatalf("info = %+v", got)
	}
}

func TestSummarySaved(t *testing.T) {
	path := writeNotes(t)
	dir := t.TempDir()
	out, _, err := run(t, "summarize", path, "-o", dir)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "summary_plant-notes.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data)+"\n" != out {
		t.Fatalf("saved %q, printed %q", data, out)
	}
}

func TestFormatCheckedBeforeWork(t *testing.T) {
	path := writeNotes(t)
	for _, c := range []string{"topics", "test"} {
		t.Run(c, func(t *testing.T) {
			out, _, err := run(t, c, path, "--format", "xml")
			if err == nil {
				t.Fatal("expected an error for an unknown format")
			}
			if out != "" {
				t.Fatalf("printed %q before rejecting the format", out)
			}
		})
	}
}
