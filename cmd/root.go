package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/syllogiz/internal/config"
	"github.com/abhisek/syllogiz/internal/logging"
	"github.com/abhisek/syllogiz/internal/store"
)

// annotationTUI marks commands that take over the terminal; their logs go
// to a file.
const annotationTUI = "tui"

var (
	cfgFile  string
	envFile  string
	cfg      config.Config
	log      = logging.Discard()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "syllogiz",
	Short: "Syllogism drill trainer",
	Long: "Syllogiz generates logical-reasoning questions with machine-checked answers\n" +
		"and drills you on them in the terminal, one at a time or in five-conclusion blocks.",
	Annotations:       map[string]string{annotationTUI: "true"},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./syllogiz.yaml or the user config dir)")
	pf.StringVar(&envFile, "env-file", ".env", "Env file with SYLLOGIZ_* variables; skipped when missing")
	pf.String("db", "", "Database DSN or SQLite path (overrides SYLLOGIZ_DB_DSN)")
	pf.String("db-driver", "", "Database driver: sqlite or postgres")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	cfg, err = config.Load(v)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	opts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if opts.File == "" && isTUI(cmd) {
		opts.File, err = defaultLogFile()
		if err != nil {
			return err
		}
	}
	l, closer, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	log, closeLog = l, closer
	log.WithFields(logrus.Fields{"driver": cfg.DB.Driver, "command": cmd.Name()}).Debug("configuration loaded")
	return nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	for key, name := range map[string]string{
		"db.dsn":    "db",
		"db.driver": "db-driver",
		"log.level": "log-level",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}
	return nil
}

func isTUI(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationTUI] == "true"
}

func defaultLogFile() (string, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	return filepath.Join(filepath.Dir(dbPath), "syllogiz.log"), nil
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	if cfg.DB.Driver == store.DriverSQLite {
		if err := store.EnsureDir(cfg.DB.DSN); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	st, err := store.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
