package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/msdrg/batchgroup/internal/codec"
	"github.com/msdrg/batchgroup/internal/config"
	"github.com/msdrg/batchgroup/internal/domain/encounter"
	"github.com/msdrg/batchgroup/internal/platform/grouper"
	"github.com/msdrg/batchgroup/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "drg-batch",
		Short: "MS-DRG grouper batch interface",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(groupCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readEncounters loads a JSON file holding either a bare array of
// encounters or an {"encounters": [...]} wrapper.
func readEncounters(path string) ([]encounter.Encounter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Encounters []encounter.Encounter `json:"encounters"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.Encounters) > 0 {
		return wrapper.Encounters, nil
	}

	var list []encounter.Encounter
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

func buildBatch(encounters []encounter.Encounter, sep codec.Separator) (*codec.Batch, error) {
	batch := codec.NewBatch(sep)
	for i := range encounters {
		rec, err := encounters[i].ToRecord()
		if err != nil {
			return nil, fmt.Errorf("encounter %d: %w", i, err)
		}
		batch.Append(rec)
	}
	return batch, nil
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Render a JSON encounter file as fixed-width claim text",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			if in == "" {
				return fmt.Errorf("--in is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sep, err := cfg.Separator()
			if err != nil {
				return err
			}

			encounters, err := readEncounters(in)
			if err != nil {
				return err
			}
			batch, err := buildBatch(encounters, sep)
			if err != nil {
				return err
			}
			text, err := batch.Encode()
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Print(text)
				return nil
			}
			return os.WriteFile(out, []byte(text), 0o644)
		},
	}
	cmd.Flags().String("in", "", "Path to JSON encounter file")
	cmd.Flags().String("out", "", "Output path (stdout when omitted)")
	return cmd
}

func decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a grouper output file into JSON results",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			if in == "" {
				return fmt.Errorf("--in is required")
			}

			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()

			records, decodeErr := grouper.ReadOutput(f)
			results := make([]encounter.GroupResult, 0, len(records))
			for _, rec := range records {
				results = append(results, encounter.NewGroupResult(rec))
			}
			if err := writeJSON(results); err != nil {
				return err
			}
			if decodeErr != nil {
				fmt.Fprintln(os.Stderr, decodeErr)
			}
			return nil
		},
	}
	cmd.Flags().String("in", "", "Path to grouper output file")
	return cmd
}

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Run a JSON encounter file through the grouper software",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			if in == "" {
				return fmt.Errorf("--in is required")
			}

			logger := newLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireGrouper(); err != nil {
				return err
			}
			logger.Info().Str("grouper", cfg.GrouperPath()).Msg("using grouper")
			sep, err := cfg.Separator()
			if err != nil {
				return err
			}
			mode, err := grouper.ParseMode(cfg.OutputMode)
			if err != nil {
				return err
			}

			encounters, err := readEncounters(in)
			if err != nil {
				return err
			}
			batch, err := buildBatch(encounters, sep)
			if err != nil {
				return err
			}

			runner := grouper.NewRunner(cfg.GrouperDir, cfg.GrouperCommand, logger)
			records, err := runner.Group(context.Background(), grouper.Params{
				Batch:        batch,
				Job:          grouper.NewJob(cfg.WorkDir),
				Mode:         mode,
				DeleteInput:  cfg.DeleteInputFile,
				DeleteOutput: cfg.DeleteOutputFile,
			})

			results := make([]encounter.GroupResult, 0, len(records))
			for _, rec := range records {
				results = append(results, encounter.NewGroupResult(rec))
			}
			if jsonErr := writeJSON(results); jsonErr != nil {
				return jsonErr
			}
			if err != nil && len(records) > 0 {
				// Partial decode: results already printed, report the rest.
				fmt.Fprintln(os.Stderr, err)
				return nil
			}
			return err
		},
	}
	cmd.Flags().String("in", "", "Path to JSON encounter file")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the batch grouping API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.GrouperDir == "" {
		logger.Warn().Msg("GROUPER_DIR is not set; /group requests will fail")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(30*time.Second, "/api/v1/group"))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})

	runner := grouper.NewRunner(cfg.GrouperDir, cfg.GrouperCommand, logger)
	handler := encounter.NewHandler(cfg, runner)
	handler.RegisterRoutes(e.Group("/api/v1"))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
