package chart

import (
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/storage"
)

func sampleHistogram() gradebook.Histogram {
	return gradebook.Histogram{
		Assignment: gradebook.Assignment{ID: "HW 1/a", Name: "Homework 1", Points: 100},
		Bins: []gradebook.Bin{
			{Lo: 0, Hi: 25, Count: 1},
			{Lo: 25, Hi: 50, Count: 0},
			{Lo: 50, Hi: 75, Count: 3},
			{Lo: 75, Hi: 100, Count: 2},
		},
	}
}

func TestWorkbook(t *testing.T) {
	f, err := Workbook(sampleHistogram())
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	defer f.Close()

	cases := map[string]string{
		"A1": "Scores",
		"B1": "Frequency",
		"A2": "0-25",
		"B4": "3",
		"A5": "75-100",
		"B5": "2",
	}
	for cell, want := range cases {
		got, err := f.GetCellValue(sheetName, cell)
		if err != nil {
			t.Fatalf("get %s: %v", cell, err)
		}
		if got != want {
			t.Fatalf("cell %s: want %q, got %q", cell, want, got)
		}
	}
}

func TestXLSXRenderer_Render(t *testing.T) {
	bs, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	r := NewXLSXRenderer(bs)

	url, err := r.Render(context.Background(), sampleHistogram())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	key := chartKey("HW 1/a")
	if !strings.HasPrefix(url, "file://") || !strings.HasSuffix(url, key) {
		t.Fatalf("unexpected url %q", url)
	}

	rc, err := bs.Get(key)
	if err != nil {
		t.Fatalf("get stored chart: %v", err)
	}
	defer rc.Close()
	f, err := excelize.OpenReader(rc)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue(sheetName, "B2"); got != "1" {
		t.Fatalf("expected B2=1, got %q", got)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"A1":       "A1",
		"hw 1/../": "hw_1____",
		"":         "assignment",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Fatalf("slug(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestChartKey_DistinctIDsDoNotCollide(t *testing.T) {
	a, b := chartKey("A/1"), chartKey("A_1")
	if a == b {
		t.Fatalf("expected distinct keys, both were %q", a)
	}
	if !strings.HasPrefix(a, "charts/A_1-") || !strings.HasSuffix(a, ".xlsx") {
		t.Fatalf("unexpected key %q", a)
	}
	if chartKey("A/1") != a {
		t.Fatalf("expected stable key for the same id")
	}
}
