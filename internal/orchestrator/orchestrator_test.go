package orchestrator

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"

	"github.com/sthevan027/organizador/internal/classifier"
	"github.com/sthevan027/organizador/internal/config"
	"github.com/sthevan027/organizador/internal/oplog"
)

func newOrchestrator(t *testing.T, fs afero.Fs, opts config.Options) *Orchestrator {
	t.Helper()
	opts.Normalize()
	categories := classifier.New(config.DefaultCategories(), opts.UnknownName)
	return New(fs, opts, categories)
}

func seed(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := afero.WriteFile(fs, p, []byte("content of "+p), 0644); err != nil {
			t.Fatalf("failed to seed %s: %v", p, err)
		}
	}
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("exists check failed for %s: %v", path, err)
	}
	return ok
}

func TestRunCopyWithCollision(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs,
		"/src/a.jpg",
		"/src/sub/a.jpg",
		"/src/b.unknownext",
	)

	orch := newOrchestrator(t, fs, config.Options{Source: "/src", Dest: "/dst", Mode: config.ModeCopy})
	result, err := orch.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Stats.Processed != 3 || result.Stats.Transferred != 3 {
		t.Errorf("stats = %+v, want 3 processed and 3 transferred", result.Stats)
	}
	if !exists(t, fs, "/dst/Imagens/a.jpg") {
		t.Error("first a.jpg missing from Imagens")
	}
	if !exists(t, fs, "/dst/Imagens/a (1).jpg") {
		t.Error("colliding a.jpg was not renamed to a (1).jpg")
	}
	if !exists(t, fs, "/dst/Outros/b.unknownext") {
		t.Error("unmapped extension did not land in Outros")
	}
	// Copy mode leaves the sources untouched.
	for _, p := range []string{"/src/a.jpg", "/src/sub/a.jpg", "/src/b.unknownext"} {
		if !exists(t, fs, p) {
			t.Errorf("source %s removed in copy mode", p)
		}
	}
}

func TestRunMoveLeavesSingleLocation(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/src/report.pdf", "/src/song.mp3")

	orch := newOrchestrator(t, fs, config.Options{Source: "/src", Dest: "/dst", Mode: config.ModeMove})
	result, err := orch.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Stats.Transferred != 2 {
		t.Errorf("stats = %+v, want 2 transferred", result.Stats)
	}
	if exists(t, fs, "/src/report.pdf") || exists(t, fs, "/src/song.mp3") {
		t.Error("sources still present after move")
	}
	if !exists(t, fs, "/dst/Documentos/report.pdf") {
		t.Error("report.pdf missing from Documentos")
	}
	if !exists(t, fs, "/dst/Áudio/song.mp3") {
		t.Error("song.mp3 missing from Áudio")
	}
}

func TestRunDestInsideSourceIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/src/a.jpg")

	opts := config.Options{Source: "/src", Mode: config.ModeMove}

	first, err := newOrchestrator(t, fs, opts).Run()
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Stats.Transferred != 1 {
		t.Fatalf("first run stats = %+v", first.Stats)
	}
	if !exists(t, fs, "/src/Imagens/a.jpg") {
		t.Fatal("a.jpg missing from /src/Imagens")
	}

	// Category folders under the source are out of scope for the scan,
	// so a second run finds nothing to do.
	second, err := newOrchestrator(t, fs, opts).Run()
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Stats.Processed != 0 {
		t.Errorf("second run stats = %+v, want 0 processed", second.Stats)
	}
	if !exists(t, fs, "/src/Imagens/a.jpg") {
		t.Error("organized file was disturbed by the second run")
	}
}

func TestRunSkipsHiddenFilesWithoutExtension(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/src/.bashrc", "/src/.config.json")

	orch := newOrchestrator(t, fs, config.Options{Source: "/src", Dest: "/dst", Mode: config.ModeMove})
	result, err := orch.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Stats.Skipped != 1 || result.Stats.Transferred != 1 {
		t.Errorf("stats = %+v, want 1 skipped and 1 transferred", result.Stats)
	}
	if !exists(t, fs, "/src/.bashrc") {
		t.Error(".bashrc was moved")
	}
	if !exists(t, fs, "/dst/Outros/.config.json") {
		t.Error("hidden file with an extension was not organized")
	}

	var skip *Record
	for i := range result.Records {
		if result.Records[i].Status == oplog.StatusSkip {
			skip = &result.Records[i]
		}
	}
	if skip == nil {
		t.Fatal("no SKIP record emitted")
	}
	if skip.Detail != "arquivo oculto sem extensão" {
		t.Errorf("skip detail = %q", skip.Detail)
	}
}

func TestRunDeleteEmptyPrunesBottomUp(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/src/sub/deeper/c.txt")

	orch := newOrchestrator(t, fs, config.Options{
		Source:      "/src",
		Mode:        config.ModeMove,
		DeleteEmpty: true,
	})
	result, err := orch.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.CleanupErrors) != 0 {
		t.Fatalf("cleanup errors: %v", result.CleanupErrors)
	}

	if !exists(t, fs, "/src/Documentos/c.txt") {
		t.Fatal("c.txt was not organized")
	}
	if exists(t, fs, "/src/sub/deeper") || exists(t, fs, "/src/sub") {
		t.Error("emptied directories were not removed")
	}
	if !exists(t, fs, "/src") {
		t.Error("source root was removed")
	}
	if !exists(t, fs, "/src/Documentos") {
		t.Error("category directory was removed")
	}
}

func TestRunDeleteEmptyKeepsNonEmptyDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/src/sub/a.jpg", "/src/sub/.bashrc")

	orch := newOrchestrator(t, fs, config.Options{
		Source:      "/src",
		Dest:        "/dst",
		Mode:        config.ModeMove,
		DeleteEmpty: true,
	})
	if _, err := orch.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// The skipped hidden file keeps /src/sub occupied.
	if !exists(t, fs, "/src/sub/.bashrc") {
		t.Fatal("hidden file vanished")
	}
	if !exists(t, fs, "/src/sub") {
		t.Error("non-empty directory was removed")
	}
}

func TestRunDryRunRecordsWithoutMutating(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/src/a.jpg", "/src/empty.placeholder")
	fs.MkdirAll("/src/vazio", 0755)

	orch := newOrchestrator(t, fs, config.Options{
		Source:      "/src",
		Dest:        "/dst",
		Mode:        config.ModeMove,
		DryRun:      true,
		DeleteEmpty: true,
	})
	result, err := orch.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Stats.Processed != 2 || result.Stats.Transferred != 2 {
		t.Errorf("stats = %+v, want 2 processed and 2 transferred", result.Stats)
	}
	for _, rec := range result.Records {
		if rec.Status != oplog.StatusDryRun {
			t.Errorf("record status = %q, want %q", rec.Status, oplog.StatusDryRun)
		}
	}
	if exists(t, fs, "/dst") {
		t.Error("dry-run created the destination directory")
	}
	if !exists(t, fs, "/src/a.jpg") {
		t.Error("dry-run moved a file")
	}
	if !exists(t, fs, "/src/vazio") {
		t.Error("dry-run removed an empty directory")
	}
}

func TestRunInvalidSourceFailsFast(t *testing.T) {
	fs := afero.NewMemMapFs()

	orch := newOrchestrator(t, fs, config.Options{Source: "/nope", Mode: config.ModeMove})
	if _, err := orch.Run(); err == nil {
		t.Fatal("expected startup error for missing source")
	}
}

func TestRunParallelKeepsStatsConsistent(t *testing.T) {
	fs := afero.NewMemMapFs()
	var files []string
	for i := 0; i < 60; i++ {
		files = append(files, fmt.Sprintf("/src/file%02d.pdf", i))
	}
	files = append(files, "/src/.bashrc")
	seed(t, fs, files...)

	orch := newOrchestrator(t, fs, config.Options{
		Source:  "/src",
		Dest:    "/dst",
		Mode:    config.ModeMove,
		Workers: 4,
	})
	result, err := orch.Run()
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	s := result.Stats
	if s.Processed != s.Transferred+s.Skipped+s.Errored {
		t.Errorf("counter invariant broken: %+v", s)
	}
	if s.Processed != 61 || s.Transferred != 60 || s.Skipped != 1 {
		t.Errorf("stats = %+v, want 61/60/1/0", s)
	}
	if len(result.Records) != 61 {
		t.Errorf("expected 61 records, got %d", len(result.Records))
	}
	for i := 0; i < 60; i++ {
		if !exists(t, fs, fmt.Sprintf("/dst/Documentos/file%02d.pdf", i)) {
			t.Errorf("file%02d.pdf missing from destination", i)
		}
	}
}

func TestSummaryFormatting(t *testing.T) {
	s := RunStats{Processed: 1234567, Transferred: 1000, Skipped: 17, Errored: 0}
	want := "Arquivos processados: 1.234.567 | organizados: 1.000 | pulados: 17 | erros: 0"
	if got := s.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
