package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "organizador",
	Short: "Organizador automático de arquivos por extensão",
	Long: `Organizador move ou copia arquivos de uma pasta para subpastas de
categoria com base na extensão (Imagens, Documentos, Vídeos, ...).

Suporta simulação (dry-run), renomeação segura em caso de conflito,
remoção de subpastas vazias e registro das operações em arquivo de log.`,
}

// Execute runs the root command. Startup failures exit non-zero;
// per-file errors inside a completed run do not.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
