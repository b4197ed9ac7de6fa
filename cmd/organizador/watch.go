package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sthevan027/organizador/internal/orchestrator"
	"github.com/sthevan027/organizador/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitora a pasta de origem e organiza arquivos novos",
	Long: `Fica observando a pasta de origem e organiza cada arquivo assim que
ele aparece, aguardando o arquivo terminar de ser gravado antes de
transferi-lo. Encerre com Ctrl-C para ver o resumo da sessão.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	registerCommonFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	orch, out, logw, opts, err := setup(cmd)
	if err != nil {
		return err
	}
	if logw != nil {
		defer logw.Close()
	}

	handler := func(path string) watcher.Result {
		rec, bucket := orch.ProcessOne(path)
		line := formatRecord(rec)
		if bucket == orchestrator.BucketErrored {
			out.Error("%s", line)
			return watcher.Errored
		}
		out.Info("%s", line)
		if bucket == orchestrator.BucketSkipped {
			return watcher.SkippedFile
		}
		return watcher.Organized
	}

	w := watcher.New(nil, handler)
	if err := w.Start(opts.Source); err != nil {
		return err
	}

	out.Info("Observando %s (Ctrl-C para encerrar)", opts.Source)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	summary := w.Stop()
	out.Info("Sessão encerrada após %s: organizados: %d | pulados: %d | erros: %d",
		summary.Duration.Round(time.Second), summary.Organized, summary.Skipped, summary.Errors)
	return nil
}
