package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sojaprj/internal/config"
)

// go run ./cmd/soja export -o soja_agrural.csv
// go run ./cmd/soja sync --driver=sqlite --dsn=soja.db
// go run ./cmd/soja sync --input=pagina.html --dry-run
func main() {
	cfg := config.Load()

	var (
		input         string
		fallbackToday bool
	)

	rootCmd := &cobra.Command{
		Use:           "soja",
		Short:         "Coleta a tabela de preços de soja da AgRural",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if fallbackToday {
				cfg.DateFallback = "today"
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&input, "input", "", "Lê o HTML de um arquivo em vez de baixar a página")
	rootCmd.PersistentFlags().BoolVar(&fallbackToday, "fallback-today", cfg.FallbackToday(), "Usa a data de hoje quando a data da tabela não for encontrada")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Grava as cotações em CSV ou XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cfg, input)
		},
	}
	exportCmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "Arquivo de saída (.csv ou .xlsx)")
	exportCmd.Flags().StringVar(&cfg.CSVDelimiter, "delimiter", cfg.CSVDelimiter, "Delimitador do CSV")
	exportCmd.Flags().StringVar(&cfg.CSVEncoding, "encoding", cfg.CSVEncoding, "Encoding do CSV: utf-8 ou latin1")

	var dryRun bool
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Aplica as cotações no banco, gravando só o que mudou",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), cfg, input, dryRun)
		},
	}
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Mostra o que seria gravado sem alterar o banco")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Cria a tabela preco_soja se ela não existir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), cfg)
		},
	}

	for _, c := range []*cobra.Command{syncCmd, migrateCmd} {
		c.Flags().StringVar(&cfg.DatabaseDriver, "driver", cfg.DatabaseDriver, "Banco: postgres ou sqlite")
		c.Flags().StringVar(&cfg.DatabaseURL, "dsn", cfg.DatabaseURL, "DSN do Postgres ou caminho do arquivo SQLite")
	}

	rootCmd.AddCommand(exportCmd, syncCmd, migrateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
