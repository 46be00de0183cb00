package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dcSpark/mcp-server-helius/internal/config"
	"github.com/dcSpark/mcp-server-helius/internal/core"
	"github.com/dcSpark/mcp-server-helius/internal/db"
	"github.com/dcSpark/mcp-server-helius/internal/helius"
	"github.com/dcSpark/mcp-server-helius/internal/secrets"
	"github.com/dcSpark/mcp-server-helius/internal/tools"
)

// Set via -ldflags at build time.
var (
	version   = ""
	gitCommit = ""
	buildTime = ""
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "helius-mcp",
		Short:        "Helius Solana RPC tools over MCP, TCP and HTTP",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "path to helius-mcp.yaml (default: $HELIUS_MCP_CONFIG)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the enabled transports until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	toolsCmd := &cobra.Command{Use: "tools", Short: "Inspect and invoke tools"}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the tools the effective policy exposes",
		Args:  cobra.NoArgs,
		RunE:  runToolsList,
	}
	callCmd := &cobra.Command{
		Use:   "call <tool> [arguments-json]",
		Short: "Invoke one tool and print its result envelope",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runToolsCall,
	}
	toolsCmd.AddCommand(listCmd, callCmd)

	configCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration and print it redacted",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	}
	configCmd.AddCommand(validateCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build metadata",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "helius-mcp %s (commit %s, built %s)\n",
				orUnknown(version), orUnknown(gitCommit), orUnknown(buildTime))
		},
	}

	root.AddCommand(serveCmd, toolsCmd, configCmd, versionCmd)
	return root
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// newLogger writes JSON to w. stdout belongs to the stdio transport, so
// callers pass stderr.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l}))
}

// loadConfig reads the effective configuration and resolves secret
// references. The returned vault provider is nil without a vault section.
func loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, *secrets.VaultProvider, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.FromEnvironment(path, os.LookupEnv)
	if err != nil {
		return nil, nil, err
	}
	providers, vault, err := secrets.Providers(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("secret providers: %w", err)
	}
	if err := secrets.ResolveConfig(cfg, providers); err != nil {
		return nil, nil, fmt.Errorf("resolving secrets: %w", err)
	}
	return cfg, vault, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) (helius.Client, error) {
	if cfg.Helius.Mode == config.ModeMock {
		logger.Info("using mock helius client")
		return helius.NewMock(), nil
	}
	return helius.NewLive(helius.LiveConfig{
		APIKey:  cfg.Helius.APIKey,
		Network: cfg.Helius.Network,
		RPCURL:  cfg.Helius.RPCURL,
		Timeout: time.Duration(cfg.Helius.TimeoutSeconds) * time.Second,
		JitoURL: cfg.Helius.JitoURL,
		Logger:  logger,
	})
}

// app is the wiring shared by serve and tools call.
type app struct {
	cfg      *config.Config
	registry *tools.Registry
	database *db.DB
	logger   *slog.Logger
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	opts := []tools.Option{
		tools.WithPolicy(core.NewPolicyFromLists(cfg.Tools.Allow, cfg.Tools.Deny)),
		tools.WithLogger(logger),
	}

	a := &app{cfg: cfg, logger: logger}
	if cfg.Audit.DatabaseURL != "" {
		database, err := db.New(cfg.Audit.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("audit database: %w", err)
		}
		a.database = database
		opts = append(opts, tools.WithAudit(core.NewAuditService(database)))
		logger.Info("audit trail enabled", "driver", database.Driver())
	}
	a.registry = tools.NewRegistry(client, opts...)
	return a, nil
}

func (a *app) Close() {
	if a.database != nil {
		a.database.Close()
	}
}

func runToolsList(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, newLogger(cmd.ErrOrStderr(), "error"))
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	for _, d := range a.registry.List() {
		fmt.Fprintf(out, "%s\t%s\n", d.Name, d.Description)
	}
	return nil
}

func runToolsCall(cmd *cobra.Command, args []string) error {
	var arguments json.RawMessage
	if len(args) == 2 {
		if !json.Valid([]byte(args[1])) {
			return fmt.Errorf("invalid json arguments: %s", args[1])
		}
		arguments = json.RawMessage(args[1])
	}

	cfg, _, err := loadConfig(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, newLogger(cmd.ErrOrStderr(), cfg.Log.Level))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := tools.WithCallMeta(cmd.Context(), tools.CallMeta{TraceID: uuid.New().String(), Transport: "cli"})
	result, err := a.registry.Call(ctx, args[0], arguments)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.FromEnvironment(path, os.LookupEnv)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
