package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sthevan027/organizador/internal/classifier"
	"github.com/sthevan027/organizador/internal/config"
	"github.com/sthevan027/organizador/internal/logger"
	"github.com/sthevan027/organizador/internal/oplog"
	"github.com/sthevan027/organizador/internal/orchestrator"
	"github.com/sthevan027/organizador/internal/output"
)

var (
	flagSource      string
	flagDest        string
	flagMode        string
	flagDryRun      bool
	flagDeleteEmpty bool
	flagUnknownName string
	flagMapPath     string
	flagLogPath     string
	flagWorkers     int
	flagSniff       bool
	flagStrict      bool
	flagVerbose     bool
	flagLogLevel    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Organiza os arquivos da pasta de origem",
	Long: `Percorre a pasta de origem, classifica cada arquivo pela extensão e
move (ou copia) para a subpasta de categoria correspondente no destino.

Exemplos:

  # Organizar a pasta Downloads movendo arquivos
  organizador run --source ~/Downloads --log logs/organizador.log

  # Testar sem alterar nada
  organizador run --source ~/Downloads --dry-run

  # Destino separado, apagando subpastas vazias
  organizador run --source ~/Downloads --dest ~/Organizado --delete-empty

  # Mapa de categorias personalizado
  organizador run --source ~/Downloads --map categorias.json`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	registerCommonFlags(runCmd)
}

func registerCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagSource, "source", "s", "", "pasta a organizar (obrigatório)")
	cmd.Flags().StringVarP(&flagDest, "dest", "d", "", "raiz de destino (padrão: a própria pasta source)")
	cmd.Flags().StringVarP(&flagMode, "mode", "m", "", "move ou copy (padrão: move)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "não altera nada, só mostra o que faria")
	cmd.Flags().BoolVar(&flagDeleteEmpty, "delete-empty", false, "apaga subpastas vazias em --source após a execução")
	cmd.Flags().StringVar(&flagUnknownName, "unknown-name", "", "pasta para extensões não mapeadas (padrão: Outros)")
	cmd.Flags().StringVar(&flagMapPath, "map", "", "arquivo JSON com mapa de categorias -> extensões")
	cmd.Flags().StringVar(&flagLogPath, "log", "", "arquivo de log das operações (ex.: logs/organizador.log)")
	cmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "número de workers paralelos (padrão: 1)")
	cmd.Flags().BoolVar(&flagSniff, "sniff", false, "classifica arquivos sem extensão pelo conteúdo")
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "retorna código de erro quando houver falhas por arquivo")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "mostra cada operação")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "nível de log de diagnóstico (debug, info, warn, error)")
	cmd.MarkFlagRequired("source")
}

// collectOptions merges flags with the optional settings file. Flags the
// user passed always win; settings only fill in what was left unset.
func collectOptions(cmd *cobra.Command, settings *config.Settings) config.Options {
	opts := config.Options{
		Source:      flagSource,
		Dest:        flagDest,
		Mode:        config.Mode(flagMode),
		DryRun:      flagDryRun,
		DeleteEmpty: flagDeleteEmpty,
		UnknownName: flagUnknownName,
		MapPath:     flagMapPath,
		LogPath:     flagLogPath,
		Workers:     flagWorkers,
		Sniff:       flagSniff,
		Strict:      flagStrict,
		Verbose:     flagVerbose,
	}

	if !cmd.Flags().Changed("mode") && settings.Mode != "" {
		opts.Mode = config.Mode(settings.Mode)
	}
	if !cmd.Flags().Changed("unknown-name") && settings.UnknownName != "" {
		opts.UnknownName = settings.UnknownName
	}
	if !cmd.Flags().Changed("log") && settings.Log != "" {
		opts.LogPath = settings.Log
	}
	if !cmd.Flags().Changed("workers") && settings.Workers > 0 {
		opts.Workers = settings.Workers
	}

	opts.Normalize()
	return opts
}

// setup builds everything a run or watch session shares: options,
// category map, orchestrator, and console output.
func setup(cmd *cobra.Command) (*orchestrator.Orchestrator, *output.Output, *oplog.Writer, config.Options, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, nil, config.Options{}, fmt.Errorf("falha ao ler configurações: %w", err)
	}

	level := flagLogLevel
	if level == "" {
		level = settings.Logging.Level
	}
	if err := logger.Init(level, settings.Logging.File); err != nil {
		return nil, nil, nil, config.Options{}, err
	}

	fs := afero.NewOsFs()
	opts := collectOptions(cmd, settings)

	categories := config.DefaultCategories()
	if opts.MapPath != "" {
		categories, err = config.LoadCategories(fs, opts.MapPath)
		if err != nil {
			return nil, nil, nil, config.Options{}, err
		}
	}

	cmap := classifier.New(categories, opts.UnknownName)
	orch := orchestrator.New(fs, opts, cmap)

	outCfg := output.DefaultConfig()
	outCfg.Verbose = opts.Verbose
	out := output.New(outCfg)

	var logw *oplog.Writer
	if opts.LogPath != "" {
		logw, err = oplog.New(fs, opts.LogPath)
		if err != nil {
			return nil, nil, nil, config.Options{}, err
		}
		orch.SetLog(logw)
	}

	return orch, out, logw, opts, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	orch, out, logw, opts, err := setup(cmd)
	if err != nil {
		return err
	}
	if logw != nil {
		defer logw.Close()
	}

	out.Info("Organizando arquivos de: %s", opts.Source)
	out.Info("Destino: %s", opts.Dest)
	out.Info("Modo: %s | Dry-run: %v", opts.Mode, opts.DryRun)

	orch.OnProgress(out.Progress)
	orch.OnRecord(func(rec orchestrator.Record) {
		line := formatRecord(rec)
		if rec.Status == oplog.StatusError {
			out.Error("%s", line)
			return
		}
		out.Verbose("%s", line)
	})

	result, err := orch.Run()
	out.EndProgress()
	if err != nil {
		return err
	}

	for _, cerr := range result.CleanupErrors {
		out.Error("Aviso: %v", cerr)
	}

	out.Info("%s", result.Stats.Summary())
	if logw != nil {
		out.Info("Log salvo em: %s", logw.Path())
	}

	if opts.Strict && result.Stats.Errored > 0 {
		os.Exit(2)
	}
	return nil
}

func formatRecord(rec orchestrator.Record) string {
	line := fmt.Sprintf("[%s] %s: %s -> %s", rec.Status, rec.Action, rec.Source, rec.Destination)
	if rec.Detail != "" {
		line += fmt.Sprintf(" (%s)", rec.Detail)
	}
	return line
}
