package chart

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/storage"
)

// Renderer turns a histogram into a viewable artifact and returns where it went.
type Renderer interface {
	Render(ctx context.Context, h gradebook.Histogram) (string, error)
}

const sheetName = "Histogram"

// XLSXRenderer writes a workbook with the bucket table and a column chart.
type XLSXRenderer struct {
	Blobs storage.BlobStore
}

func NewXLSXRenderer(bs storage.BlobStore) *XLSXRenderer { return &XLSXRenderer{Blobs: bs} }

func (r *XLSXRenderer) Render(_ context.Context, h gradebook.Histogram) (string, error) {
	f, err := Workbook(h)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	key, err := r.Blobs.Put(chartKey(h.Assignment.ID), buf)
	if err != nil {
		return "", fmt.Errorf("store chart: %w", err)
	}
	return r.Blobs.SignedURL(key)
}

// Workbook builds the histogram sheet: a Scores/Frequency table in A:B and a
// column chart beside it.
func Workbook(h gradebook.Histogram) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	headers := []string{"Scores", "Frequency"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for i, b := range h.Bins {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.Label())
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.Count)
	}

	last := len(h.Bins) + 1
	err := f.AddChart(sheetName, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", sheetName),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheetName, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheetName, last),
		}},
		Title:  []excelize.RichTextRun{{Text: h.Title()}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Scores"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Frequency"}}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("add chart: %w", err)
	}
	return f, nil
}

// chartKey names the stored workbook. The hash of the raw id keeps ids that
// slug to the same text (A/1, A_1) in separate files.
func chartKey(id string) string {
	sum := fnv.New32a()
	sum.Write([]byte(id))
	return fmt.Sprintf("charts/%s-%08x.xlsx", slug(id), sum.Sum32())
}

func slug(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "assignment"
	}
	return s
}
