package main

import (
	"bytes"
	"encoding/json"
	"image"
	"strings"
	"testing"

	"github.com/mmynk/duosplit/internal/calculator"
	"github.com/mmynk/duosplit/internal/config"
	"github.com/mmynk/duosplit/internal/extract"
	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&rootOptions{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSplitJSON(t *testing.T) {
	out, err := execute(t, "split", "a:5.00", "b:5.00", "s:10.00", "--tax", "2.00", "--tip", "10", "--payer", "a", "--json")
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}

	var res splitResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if res.A.Total != "12.10" || res.B.Total != "12.10" {
		t.Errorf("expected 12.10 each, got %s / %s", res.A.Total, res.B.Total)
	}
	if res.GrandTotal != "24.20" {
		t.Errorf("expected grand total 24.20, got %s", res.GrandTotal)
	}
	if res.TaxSource != "declared" {
		t.Errorf("expected declared tax, got %s", res.TaxSource)
	}
	if res.Settlement == nil || res.Settlement.From != "Person 2" || res.Settlement.Amount != "12.10" {
		t.Errorf("unexpected settlement %+v", res.Settlement)
	}
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "estimated tax is labeled",
			args: []string{"split", "20.00", "--estimate"},
			want: []string{"Tax (estimated at 9%): 1.80", "Total: 21.80"},
		},
		{
			name: "inferred tax from total",
			args: []string{"split", "a:10", "b:10", "--total", "21.60"},
			want: []string{"Tax: 1.60", "Person 1: 10.80"},
		},
		{
			name: "tax rate",
			args: []string{"split", "s:50", "--tax-rate", "8%"},
			want: []string{"Tax: 4.00", "Person 2: 27.00"},
		},
		{
			name: "custom names and settlement",
			args: []string{"split", "a:4", "b:6", "--name-a", "Ana", "--name-b", "Ben", "--payer", "b"},
			want: []string{"Ana owes Ben 4.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("split failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestSplitErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no items", []string{"split"}},
		{"bad owner", []string{"split", "c:5"}},
		{"bad amount", []string{"split", "a:five"}},
		{"negative amount", []string{"split", "a:-5"}},
		{"bad tip", []string{"split", "5", "--tip", "lots"}},
		{"shared payer", []string{"split", "5", "--payer", "s"}},
		{"declared and inferred tax", []string{"split", "5", "--tax", "1.00", "--total", "9.00"}},
		{"rate and estimate", []string{"split", "5", "--tax-rate", "8", "--estimate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestResolveTaxPrefersDeclared(t *testing.T) {
	tax, err := splitOptions{tax: "1.00", total: "9.00"}.resolveTax(money.MustParse("5.00"))
	if err != nil {
		t.Fatalf("resolveTax failed: %v", err)
	}
	if tax.Source != calculator.TaxDeclared || tax.Amount.String() != "1.00" {
		t.Errorf("expected declared 1.00, got %s %s", tax.Source, tax.Amount)
	}
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		in     string
		amount string
		owner  models.Assignment
	}{
		{"a:12.50", "12.50", models.PersonA},
		{"B:$3", "3.00", models.PersonB},
		{"s:1.005", "1.01", models.Shared},
		{"7.25", "7.25", models.Shared},
	}
	for _, tt := range tests {
		item, err := parseItem(tt.in)
		if err != nil {
			t.Fatalf("parseItem(%q) failed: %v", tt.in, err)
		}
		if item.Amount.String() != tt.amount || item.Assignment != tt.owner {
			t.Errorf("parseItem(%q) = %s/%s, want %s/%s", tt.in, item.Amount, item.Assignment, tt.amount, tt.owner)
		}
	}
}

func TestScanStrategy(t *testing.T) {
	cfg := &config.Config{PointWidth: 300, PointHeight: 90}

	s, err := scanOptions{}.strategy(cfg)
	if err != nil {
		t.Fatalf("strategy failed: %v", err)
	}
	if _, ok := s.(extract.WholeImage); !ok {
		t.Errorf("expected whole image, got %T", s)
	}

	s, err = scanOptions{regions: []string{"10,20,100,40"}}.strategy(cfg)
	if err != nil {
		t.Fatalf("strategy failed: %v", err)
	}
	rs, ok := s.(extract.RegionSelect)
	if !ok || len(rs.Regions) != 1 || rs.Regions[0] != image.Rect(10, 20, 110, 60) {
		t.Errorf("unexpected region strategy %+v", s)
	}

	s, err = scanOptions{points: []string{"5,6", "7,8"}}.strategy(cfg)
	if err != nil {
		t.Fatalf("strategy failed: %v", err)
	}
	ps, ok := s.(extract.PointSample)
	if !ok || len(ps.Points) != 2 || ps.Width != 300 || ps.Height != 90 {
		t.Errorf("unexpected point strategy %+v", s)
	}

	for _, bad := range []scanOptions{
		{regions: []string{"1,2,3"}},
		{regions: []string{"1,2,0,5"}},
		{points: []string{"x,1"}},
		{regions: []string{"0,0,30,30"}, points: []string{"1,1"}},
	} {
		if _, err := bad.strategy(cfg); err == nil {
			t.Errorf("expected error for %+v", bad)
		}
	}
}

func TestReadImage(t *testing.T) {
	if _, err := readImage(strings.NewReader(""), "-"); err == nil {
		t.Error("expected error for empty stdin")
	}
	data, err := readImage(strings.NewReader("abc"), "-")
	if err != nil || string(data) != "abc" {
		t.Errorf("readImage = %q, %v", data, err)
	}
	if _, err := readImage(nil, "/nonexistent/receipt.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPrintScan(t *testing.T) {
	var buf bytes.Buffer
	err := printScan(&buf, scanResult{
		Strategy: "whole_image",
		Engine:   "tesseract",
		Items:    []scanItem{{Amount: "4.50"}, {Amount: "12.99"}},
		Total:    "17.49",
	}, false)
	if err != nil {
		t.Fatalf("printScan failed: %v", err)
	}
	for _, w := range []string{" 1. 4.50", " 2. 12.99", "Detected total: 17.49", "whole_image via tesseract"} {
		if !strings.Contains(buf.String(), w) {
			t.Errorf("output missing %q:\n%s", w, buf.String())
		}
	}
}
