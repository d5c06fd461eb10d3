package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiller/postharvest/internal/config"
	"github.com/emiller/postharvest/internal/logging"
	"github.com/emiller/postharvest/internal/pipeline"
)

var (
	scrapeProfiles   []string
	scrapeConfigFile string
	scrapeMaxPosts   int
	scrapeMaxScrolls int
	scrapeDelayMin   time.Duration
	scrapeDelayMax   time.Duration
	scrapeHeadless   bool
	scrapeDebug      bool
	scrapeDataDir    string
	scrapeDebugDir   string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Extract original posts from the configured profiles",
	Long: `Authenticate with the credentials in LINKEDIN_EMAIL / LINKEDIN_PASSWORD,
visit each profile's recent-activity page in order, extract original posts
and write both the per-session and cumulative CSV datasets.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeProfiles, "profiles", nil, "Profile URLs to scrape (repeatable or comma-separated)")
	scrapeCmd.Flags().StringVar(&scrapeConfigFile, "config", "", "Path to a JSON config file")
	scrapeCmd.Flags().IntVar(&scrapeMaxPosts, "max-posts", 0, "Maximum original posts per profile (0 = default)")
	scrapeCmd.Flags().IntVar(&scrapeMaxScrolls, "max-scrolls", 0, "Scroll passes per activity page (0 = default)")
	scrapeCmd.Flags().DurationVar(&scrapeDelayMin, "delay-min", 0, "Minimum pause between profiles (0 = default)")
	scrapeCmd.Flags().DurationVar(&scrapeDelayMax, "delay-max", 0, "Maximum pause between profiles (0 = default)")
	scrapeCmd.Flags().BoolVar(&scrapeHeadless, "headless", false, "Run the browser headless")
	scrapeCmd.Flags().BoolVar(&scrapeDebug, "debug", false, "Enable debug logging and screenshot capture")
	scrapeCmd.Flags().StringVar(&scrapeDataDir, "data-dir", "", "Directory for CSV output")
	scrapeCmd.Flags().StringVar(&scrapeDebugDir, "debug-dir", "", "Directory for debug screenshots")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if scrapeConfigFile != "" {
		if err := cfg.LoadFile(scrapeConfigFile); err != nil {
			return err
		}
	}

	applyScrapeFlags(&cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.Setup(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Run(ctx, cfg, challengePrompt, log)
	if result != nil {
		printSummary(cmd, result)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, st := range result.Statuses {
		if st.Failed() {
			failed++
		}
	}
	if failed == len(result.Statuses) && failed > 0 {
		return fmt.Errorf("all %d profiles failed", failed)
	}
	return nil
}

// applyScrapeFlags overlays set flags onto the config. Flags win over the
// config file and defaults.
func applyScrapeFlags(cfg *config.Config) {
	if len(scrapeProfiles) > 0 {
		cfg.Profiles = scrapeProfiles
	}
	if scrapeMaxPosts > 0 {
		cfg.MaxPosts = scrapeMaxPosts
	}
	if scrapeMaxScrolls > 0 {
		cfg.MaxScrolls = scrapeMaxScrolls
	}
	if scrapeDelayMin > 0 {
		cfg.DelayMin = scrapeDelayMin
	}
	if scrapeDelayMax > 0 {
		cfg.DelayMax = scrapeDelayMax
	}
	if scrapeHeadless {
		cfg.Headless = true
	}
	if scrapeDebug {
		cfg.Debug = true
	}
	if scrapeDataDir != "" {
		cfg.DataDir = scrapeDataDir
	}
	if scrapeDebugDir != "" {
		cfg.DebugDir = scrapeDebugDir
	}
}

// challengePrompt suspends the run while the user completes a security
// verification in the visible browser window, and resumes on Enter.
func challengePrompt(ctx context.Context, sessionID string) error {
	fmt.Fprintf(os.Stderr, "\n[%s] Security verification required. Complete it in the browser window, then press Enter to continue...\n", sessionID)

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(os.Stdin).ReadString('\n')
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func printSummary(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nSession %s\n", result.SessionID)
	for _, st := range result.Statuses {
		if st.Failed() {
			fmt.Fprintf(out, "  FAIL %s: %v\n", st.URL, st.Err)
		} else {
			fmt.Fprintf(out, "  OK   %s: %d posts\n", st.URL, st.Records)
		}
	}
	fmt.Fprintf(out, "Total records: %d\n", len(result.Records))
}
