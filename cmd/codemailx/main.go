package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"codemailx/cmd/codemailx/ui"
	"codemailx/internal/api"
	"codemailx/internal/cache"
	"codemailx/internal/campaign"
	"codemailx/internal/config"
	"codemailx/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose  bool
	baseURL  string
	token    string
	stateDir string
	timeout  time.Duration

	// Loaded config
	cfg *config.Config

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "codemailx",
	Short: "codeMAILX - cold-outreach campaign client",
	Long: `codeMAILX is a terminal client for managing cold-outreach email campaigns:
HR contact directories, reusable templates with {{placeholder}} substitution,
a four-step campaign wizard and a metrics dashboard.

All data lives on the campaign backend; this client is its interface.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if stateDir == "" {
			stateDir = config.DefaultStateDir()
		}

		var err error
		cfg, err = config.Load(stateDir)
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.API.BaseURL = baseURL
		}
		if token != "" {
			cfg.API.Token = token
		}
		if timeout > 0 {
			cfg.API.Timeout = timeout.String()
		}

		if err := logging.Initialize(stateDir); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		}

		// Interactive mode has its own UI; zap is for subcommand output only.
		if cmd.Use == "codemailx" && cmd.CalledAs() == "codemailx" {
			return nil
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// campaignsCmd lists campaigns without entering the UI.
var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List your campaigns",
	RunE:  listCampaigns,
}

// templatesCmd lists the template directory.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available templates",
	RunE:  listTemplates,
}

// hrCmd lists the HR contact directory.
var hrCmd = &cobra.Command{
	Use:   "hr",
	Short: "List the HR contact directory",
	RunE:  listHRs,
}

// dashboardCmd prints the account metrics.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show account metrics",
	RunE:  showDashboard,
}

// limitCmd prints the remaining daily quota.
var limitCmd = &cobra.Command{
	Use:   "limit",
	Short: "Show the remaining daily send quota",
	RunE:  showLimit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Backend base URL (or set CODEMAILX_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (or set CODEMAILX_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "State directory (default: ~/.codemailx)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (default: 30s)")

	rootCmd.AddCommand(campaignsCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(hrCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(limitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *api.Client {
	return api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.RequestTimeout(),
	})
}

func cmdCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.RequestTimeout())
}

// runInteractive launches the full-screen interface.
func runInteractive() error {
	logging.Boot("starting interactive session: base_url=%s", cfg.API.BaseURL)

	if cfg.UI.DarkMode {
		os.Setenv("CODEMAILX_DARK_MODE", "1")
	}

	app := ui.NewApp(
		newClient(),
		cache.NewStore(stateDir),
		ui.WithTimeout(cfg.RequestTimeout()),
		ui.WithNoticeTTL(cfg.NoticeTTL()),
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}

func listCampaigns(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	items, err := newClient().ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("listing campaigns: %w", err)
	}
	logger.Debug("fetched campaigns", zap.Int("count", len(items)))

	if len(items) == 0 {
		fmt.Println("No campaigns.")
		return nil
	}
	for _, c := range items {
		fmt.Printf("%-28s  %-20s  %-20s  %3d recipients  %s\n",
			c.CampaignName, c.Company, c.TemplateName(), len(c.HRList), c.Status)
	}
	return nil
}

func listTemplates(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	items, err := newClient().ListTemplates(ctx)
	if err != nil {
		return fmt.Errorf("listing templates: %w", err)
	}
	for _, t := range items {
		fmt.Printf("%-28s  %s\n", t.Name, t.Subject)
	}
	return nil
}

func listHRs(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	items, err := newClient().ListHRs(ctx)
	if err != nil {
		return fmt.Errorf("listing contacts: %w", err)
	}
	for _, hr := range items {
		pool := "mine"
		if hr.IsGlobal {
			pool = "global"
		}
		verified := " "
		if hr.IsVerified {
			verified = "✓"
		}
		fmt.Printf("%s %-24s  %-30s  %-20s  %s\n", verified, hr.Name, hr.Email, hr.Company, pool)
	}
	return nil
}

func showDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	dash, err := newClient().Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("loading dashboard: %w", err)
	}

	fmt.Printf("Campaigns:       %d total, %d sent, %d failed\n",
		dash.Campaigns.Total, dash.Campaigns.Successful, dash.Campaigns.Failed)
	fmt.Printf("Emails sent:     %d (%d today)\n", dash.EmailsSent, dash.EmailsSentToday)
	tier, _ := campaign.BadgeFor(dash.GlobalHRCount)
	fmt.Printf("Global contacts: %d (badge: %s)\n", dash.GlobalHRCount, tier)
	for _, day := range dash.EmailsSentLast5Days {
		fmt.Printf("  %-12s %d\n", day.Date, day.Count)
	}
	return nil
}

func showLimit(cmd *cobra.Command, args []string) error {
	ctx, cancel := cmdCtx()
	defer cancel()

	limit, err := newClient().EmailLimit(ctx)
	if err != nil {
		return fmt.Errorf("fetching quota: %w", err)
	}
	fmt.Printf("Daily quota: %d of %d remaining\n", limit.RemainingLimit, limit.MaxLimit)
	return nil
}
