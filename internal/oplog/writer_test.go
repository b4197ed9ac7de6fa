package oplog

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

func TestNewCreatesTimestampedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	w, err := newAt(fs, "/logs/organizacao.log", now)
	if err != nil {
		t.Fatalf("newAt returned error: %v", err)
	}
	defer w.Close()

	want := "/logs/organizacao_2025-03-14_15-09-26.log"
	if w.Path() != want {
		t.Errorf("Path() = %q, want %q", w.Path(), want)
	}
	if ok, _ := afero.Exists(fs, want); !ok {
		t.Error("timestamped log file was not created")
	}
	if w.RunID() == uuid.Nil {
		t.Error("run ID was not assigned")
	}
}

func TestRecordLineFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, err := New(fs, "/logs/organizacao.log")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := w.Record(StatusOK, "MOVER", "/src/a.jpg", "/dst/Imagens/a.jpg", ""); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := w.Record(StatusError, "COPIAR", "/src/b.pdf", "/dst/Documentos/b.pdf", "permission denied"); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := afero.ReadFile(fs, w.Path())
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "# organizador run ") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "[OK] MOVER: /src/a.jpg -> /dst/Imagens/a.jpg" {
		t.Errorf("record line = %q", lines[1])
	}
	if lines[2] != "[ERROR] COPIAR: /src/b.pdf -> /dst/Documentos/b.pdf (permission denied)" {
		t.Errorf("record line with detail = %q", lines[2])
	}
}

func TestSummaryIsPrecededByBlankLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, err := New(fs, "/logs/organizacao.log")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	w.Record(StatusDryRun, "MOVER", "/src/a.jpg", "/dst/Imagens/a.jpg", "")
	if err := w.Summary("Arquivos processados: 1 | organizados: 1 | pulados: 0 | erros: 0"); err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	w.Close()

	data, _ := afero.ReadFile(fs, w.Path())
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if lines[2] != "" {
		t.Errorf("line before summary = %q, want blank", lines[2])
	}
	if !strings.HasPrefix(lines[3], "Arquivos processados: ") {
		t.Errorf("summary line = %q", lines[3])
	}
}

func TestDistinctRunsGetDistinctIDs(t *testing.T) {
	fs := afero.NewMemMapFs()

	a, err := New(fs, "/logs/a.log")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer a.Close()
	b, err := New(fs, "/logs/b.log")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer b.Close()

	if a.RunID() == b.RunID() {
		t.Error("two runs share a run ID")
	}
}
