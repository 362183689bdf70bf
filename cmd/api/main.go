package main

import (
	"fmt"
	"os"

	"taskMaster/internal/app"
	"taskMaster/internal/config"

	"github.com/spf13/cobra"
)

// configFile задаётся флагом --config
var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "taskmaster",
	Short: "TaskMaster - HTTP API для учёта задач",
	Long: `TaskMaster хранит задачи (заголовок, описание, статус, приоритет)
в SQLite, PostgreSQL или в памяти и отдаёт их по JSON API.
Без подкоманды запускается сервер.`,
	SilenceUsage: true,
	RunE:         serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP сервер",
	RunE:  serve,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Работа с файлом конфигурации",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Записать конфиг по умолчанию",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultFile
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Конфиг записан в %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "файл конфигурации (по умолчанию ./config.yml)")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	a := app.New(cfg)
	if err := a.Init(cmd.Context()); err != nil {
		return err
	}

	return a.Run(cmd.Context())
}
