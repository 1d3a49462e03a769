package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/presentation/tui"
	diag "github.com/aretw0/waypoint/pkg/adapters/http"
	"github.com/aretw0/waypoint/pkg/adapters/dom"
	"github.com/aretw0/waypoint/pkg/adapters/file"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	redisadapter "github.com/aretw0/waypoint/pkg/adapters/redis"
	"github.com/aretw0/waypoint/pkg/config"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <flow.yaml>",
	Short: "Drive a session through the flow",
	Long:  `Opens a browser session against --base-url and walks the flow until a terminal state is reached.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runFlow,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("base-url", "", "Base URL relative visits resolve against (required)")
	runCmd.Flags().String("session", "", "Session ID (random when empty)")
	runCmd.Flags().String("metrics-addr", "", "Serve /metrics, /healthz and /runs on this address while running")
	runCmd.Flags().String("redis-addr", "", "Store reports in Redis and lock the session ID")
	runCmd.Flags().String("report-dir", "", "Write the run report as JSON into this directory")
	runCmd.Flags().Bool("json", false, "Print the run report as JSON")
	runCmd.Flags().Bool("quiet", false, "Do not print the state trail")
	_ = runCmd.MarkFlagRequired("base-url")
	runCmd.MarkFlagsMutuallyExclusive("redis-addr", "report-dir")
}

func runFlow(cmd *cobra.Command, args []string) error {
	logger, err := loggerFor(cmd)
	if err != nil {
		return err
	}
	baseURL, _ := cmd.Flags().GetString("base-url")
	sessionID, _ := cmd.Flags().GetString("session")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	reportDir, _ := cmd.Flags().GetString("report-dir")
	jsonMode, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	spec, err := config.Load(args[0])
	if err != nil {
		return err
	}
	reg, err := spec.Registry()
	if err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	browser, err := dom.NewBrowser(baseURL, dom.WithLogger(logger))
	if err != nil {
		return err
	}

	// Metrics
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	metrics, err := observability.NewMetrics(promReg)
	if err != nil {
		return err
	}

	engineOpts := append(spec.Options(),
		waypoint.WithLifecycleHooks(metrics.Hooks()),
		waypoint.WithLifecycleHooks(observability.LogHooks(logger)),
	)
	out := cmd.OutOrStdout()
	if !quiet && !jsonMode {
		engineOpts = append(engineOpts, waypoint.WithLifecycleHooks(tui.NewTrail(out).Hooks()))
	}

	poolOpts := []session.Option{session.WithLogger(logger), session.WithEngineOptions(engineOpts...)}
	var store ports.ReportStore = memory.NewStore()
	if reportDir != "" {
		store = file.NewStore(reportDir)
	}
	if redisAddr != "" {
		client := backend.NewClient(&backend.Options{Addr: redisAddr})
		defer client.Close()
		store = redisadapter.NewFromClient(client, redisadapter.WithTTL(24*time.Hour))
		poolOpts = append(poolOpts, session.WithLocker(redisadapter.NewLocker(client, "waypoint:")))
	}
	poolOpts = append(poolOpts, session.WithReportStore(store))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           diag.NewHandler(&diag.Server{Store: store, Registry: reg, Gatherer: promReg, Logger: logger}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving diagnostics", "addr", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("diagnostics server failed", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if !quiet && !jsonMode && isTerminal(out) {
		tui.PrintBanner(out)
	}

	results := session.NewPool(poolOpts...).Run(ctx, session.Session{
		ID:       sessionID,
		Registry: reg,
		Driver:   browser,
	})
	res := results[0]

	if err := printReport(out, sessionID, res, jsonMode); err != nil {
		return err
	}
	return res.Err
}

func printReport(w io.Writer, id string, res session.Result, jsonMode bool) error {
	if jsonMode || !isTerminal(w) {
		if res.Report == nil {
			return nil
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Report)
	}

	rendered, err := tui.NewRenderer()(tui.ReportMarkdown(id, res.Report, res.Err))
	if err != nil {
		return err
	}
	fmt.Fprint(w, rendered)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
