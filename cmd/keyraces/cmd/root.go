package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"keyraces-backend/lib/configutil"
	"keyraces-backend/lib/serviceutil"
	"keyraces-backend/lib/telemetry"
	"keyraces-backend/races"
	"keyraces-backend/services/keyraces"
	"keyraces-backend/services/report"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

type BehaviorConfig struct {
	RequestDelaySeconds float64 `json:"request_delay_seconds"`
	JitterSeconds       float64 `json:"jitter_seconds"`
	MaxPages            int     `json:"max_pages"`
}

type Config struct {
	Behavior   BehaviorConfig    `json:"behavior"`
	Smtp       report.SmtpConfig `json:"smtp"`
	Recipients []string          `json:"recipients"`
	Source     string            `json:"source"`
}

var flags struct {
	config       string
	targets      string
	curated      string
	source       string
	dryRun       bool
	noEmail      bool
	outDir       string
	noHtml       bool
	noText       bool
	writeJson    bool
	includeEmpty bool
	verbose      bool
}

var rootCmd = &cobra.Command{
	Use:   "keyraces",
	Short: "Scrapes key election race pages and renders a weekly report.",
	RunE:  run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flags.config, "config", "config.json5", "path to the config file")
	f.StringVar(&flags.targets, "targets", "races.targets.yaml", "path to the target list")
	f.StringVar(&flags.curated, "curated", "races.curated.yaml", "optional curated YAML included at the top of the report")
	f.StringVar(&flags.source, "source", "", "source site to scrape (wikipedia or ballotpedia)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "print the report instead of emailing it")
	f.BoolVar(&flags.noEmail, "no-email", false, "skip sending email even if recipients are configured")
	f.StringVar(&flags.outDir, "out-dir", "", "write static report files to this directory")
	f.BoolVar(&flags.noHtml, "no-html", false, "do not write HTML when --out-dir is set")
	f.BoolVar(&flags.noText, "no-text", false, "do not write text when --out-dir is set")
	f.BoolVar(&flags.writeJson, "write-json", false, "also write JSON when --out-dir is set")
	f.BoolVar(&flags.includeEmpty, "include-empty", false, "include empty or errored scraped races in the report")
	f.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

func initTelemetry(ctx context.Context) func() {
	tel, err := telemetry.SetupFromEnv(ctx, "keyraces")
	if os.IsNotExist(err) {
		// no telemetry.json5 anywhere up the tree; run untraced
		return func() {}
	}
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shut down telemetry", "err", err)
		}
	}
}

func loadConfig() Config {
	config, err := configutil.ReadConfig[Config](flags.config)
	if os.IsNotExist(err) {
		slog.Info("no config file found, using defaults", "path", flags.config)
	} else if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Behavior.RequestDelaySeconds == 0 {
		config.Behavior.RequestDelaySeconds = 1.0
	}
	if config.Behavior.MaxPages == 0 {
		config.Behavior.MaxPages = 40
	}
	return config
}

func run(cmd *cobra.Command, args []string) error {
	initSlog(flags.verbose)

	ctx := serviceutil.SignalContext()
	shutdown := initTelemetry(ctx)
	defer shutdown()

	config := loadConfig()

	source := keyraces.SourceWikipedia
	if pick := flags.source; pick != "" || config.Source != "" {
		if pick == "" {
			pick = config.Source
		}
		parsed, err := keyraces.ParseSource(pick)
		if err != nil {
			return err
		}
		source = parsed
	}

	targets, err := races.LoadTargets(flags.targets)
	if err != nil {
		return fmt.Errorf("load targets: %w", err)
	}
	slog.Info("starting run",
		"targets", len(targets),
		"source", string(source),
		"max_pages", config.Behavior.MaxPages)

	service := keyraces.NewService(keyraces.Options{
		Source:       source,
		RequestDelay: time.Duration(config.Behavior.RequestDelaySeconds * float64(time.Second)),
		Jitter:       time.Duration(config.Behavior.JitterSeconds * float64(time.Second)),
		MaxPages:     config.Behavior.MaxPages,
	})
	outcomes := service.Run(ctx, targets)

	printSummary(outcomes)

	if !flags.includeEmpty {
		outcomes = keyraces.FilterEmpty(outcomes)
	}

	curated, err := report.LoadCurated(flags.curated)
	if err != nil {
		slog.Warn("failed to load curated races", "err", err)
	}

	text := report.FormatText(outcomes, curated)

	if flags.outDir != "" {
		err := report.WriteSite(outcomes, curated, time.Now(), report.SiteOptions{
			OutDir:    flags.outDir,
			WriteText: !flags.noText,
			WriteHTML: !flags.noHtml,
			WriteJSON: flags.writeJson,
		})
		if err != nil {
			return fmt.Errorf("write site: %w", err)
		}
		slog.Info("wrote static report files", "dir", flags.outDir)
	}

	if flags.dryRun {
		fmt.Println(text)
		return nil
	}
	if flags.noEmail {
		return nil
	}

	recipients := config.Recipients
	if env := os.Getenv("RECIPIENTS"); env != "" {
		recipients = nil
		for _, r := range strings.Split(env, ",") {
			if r = strings.TrimSpace(r); r != "" {
				recipients = append(recipients, r)
			}
		}
	}
	if len(recipients) == 0 {
		// site-only runs are valid without recipients
		slog.Info("no recipients configured, skipping email")
		return nil
	}

	err = report.SendEmail(config.Smtp, recipients, report.Title, text)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	slog.Info("email sent", "recipients", strings.Join(recipients, ", "))
	return nil
}
