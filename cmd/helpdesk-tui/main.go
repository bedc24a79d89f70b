// Helpdesk-tui runs the helpdesk request form in the terminal against the
// simulated collaborators.
//
// Usage:
//
//	helpdesk-tui [flags]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-request/internal/attachment"
	"github.com/spec-kit/helpdesk-request/internal/collaborator"
	"github.com/spec-kit/helpdesk-request/internal/config"
	"github.com/spec-kit/helpdesk-request/internal/domain"
	"github.com/spec-kit/helpdesk-request/internal/events"
	"github.com/spec-kit/helpdesk-request/internal/form"
	"github.com/spec-kit/helpdesk-request/internal/observability"
	"github.com/spec-kit/helpdesk-request/internal/tui"
)

var (
	logFile       string
	logLevel      string
	fixturesFile  string
	attachPaths   []string
	loadLatency   time.Duration
	submitLatency time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "helpdesk-tui",
	Short: "Fill in and submit a helpdesk request",
	Long: `An interactive helpdesk request form.

Load your requester information, describe the request, attach up to five
files and submit. Collaborators are simulated with fixed latencies.`,
	SilenceUsage: true,
	RunE:         runForm,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (disabled when empty)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&fixturesFile, "fixtures", "", "YAML file overriding the simulated user info and latencies")
	rootCmd.Flags().StringSliceVar(&attachPaths, "attach", nil, "files to offer as attachments on start")
	rootCmd.Flags().DurationVar(&loadLatency, "load-latency", collaborator.DefaultLoadLatency, "simulated user info latency")
	rootCmd.Flags().DurationVar(&submitLatency, "submit-latency", collaborator.DefaultSubmitLatency, "simulated submit latency")
}

func runForm(cmd *cobra.Command, args []string) error {
	logger, err := observability.NewFileLogger(config.LoggerConfig{Level: logLevel}, logFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	fixtures, err := config.LoadFixtures(fixturesFile)
	if err != nil {
		return err
	}
	formCfg := config.FormConfig{
		LoadLatencyMS:   int(loadLatency.Milliseconds()),
		SubmitLatencyMS: int(submitLatency.Milliseconds()),
	}
	fixtures.Apply(&formCfg)

	dispatcher := events.NewInMemoryDispatcher()
	events.SubscribeAll(dispatcher, func(ctx context.Context, event events.Event) error {
		logger.Debug("form event", zap.String("event_type", string(event.Type)))
		return nil
	})

	controller := form.NewController(form.Options{
		SessionID:  uuid.NewString(),
		Fetcher:    collaborator.NewSimulatedUserInfo(formCfg.LoadLatency(), fixtures.UserInfoOr(collaborator.DefaultUserInfo())),
		Submitter:  collaborator.NewSimulatedSubmitter(formCfg.SubmitLatency()),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	defer controller.Close(context.Background())

	if err := offerPaths(cmd.Context(), controller, attachPaths); err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewModel(controller), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	return nil
}

func offerPaths(ctx context.Context, controller *form.Controller, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	candidates := make([]domain.FileCandidate, 0, len(paths))
	for _, p := range paths {
		candidate, err := attachment.CandidateFromFile(p)
		if err != nil {
			return err
		}
		candidates = append(candidates, candidate)
	}
	_, _, err := controller.OfferFiles(ctx, candidates)
	return err
}
