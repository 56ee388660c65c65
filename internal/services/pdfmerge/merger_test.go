package pdfmerge_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"papeterie/internal/services"
	"papeterie/internal/services/pdfmerge"
	"papeterie/internal/testsupport"
)

func TestMergeConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := testsupport.WritePDF(t, filepath.Join(dir, "papeterie_000.pdf"), 1)
	second := testsupport.WritePDF(t, filepath.Join(dir, "papeterie_001.pdf"), 2)
	output := filepath.Join(dir, "papeterie.pdf")

	if err := pdfmerge.New(nil).Merge(context.Background(), []string{first, second}, output); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	pages, err := pdfmerge.PageCount(output)
	if err != nil {
		t.Fatalf("PageCount returned error: %v", err)
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
}

func TestMergeRequiresInputs(t *testing.T) {
	err := pdfmerge.New(nil).Merge(context.Background(), nil, filepath.Join(t.TempDir(), "out.pdf"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMergeReportsMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := pdfmerge.New(nil).Merge(context.Background(), []string{filepath.Join(dir, "missing.pdf")}, filepath.Join(dir, "out.pdf"))
	if !errors.Is(err, services.ErrArtifactMissing) {
		t.Fatalf("expected ErrArtifactMissing, got %v", err)
	}
}
