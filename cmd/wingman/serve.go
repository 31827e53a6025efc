package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entrhq/wingman/pkg/app"
	"github.com/entrhq/wingman/pkg/assistant"
	"github.com/entrhq/wingman/pkg/capture"
	"github.com/entrhq/wingman/pkg/config"
	"github.com/entrhq/wingman/pkg/dispatch"
	"github.com/entrhq/wingman/pkg/llm/openai"
	"github.com/entrhq/wingman/pkg/logging"
	"github.com/entrhq/wingman/pkg/screenshot"
	"github.com/entrhq/wingman/pkg/window"
)

var serveOpts struct {
	profile string
	dataDir string
	model   string
	baseURL string
	apiKey  string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the screenshot server",
	Long: `Run the screenshot server on the configured loopback address.

Settings are resolved as: flags, then environment (OPENAI_API_KEY,
OPENAI_BASE_URL, WINGMAN_DATA_DIR), then the profile given with --profile,
then the config file, then defaults. Without an API key the server still
captures and manages screenshots; processing and analysis report an error.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveOpts.profile, "profile", "", "YAML profile overriding config file values")
	f.StringVar(&serveOpts.dataDir, "data-dir", "", "screenshot directory (default is $HOME/.wingman/data)")
	f.StringVar(&serveOpts.model, "model", "", "model to use (default is "+openai.DefaultModel+")")
	f.StringVar(&serveOpts.baseURL, "base-url", "", "OpenAI-compatible API base URL")
	f.StringVar(&serveOpts.apiKey, "api-key", "", "API key")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if serveOpts.profile != "" {
		profile, err := config.LoadProfile(serveOpts.profile)
		if err != nil {
			return err
		}
		if err := profile.Apply(config.Global()); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}
	}

	logger, err := logging.NewLogger("wingman")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	defer logger.Close()
	logger.Infof("wingman v%s starting, session %s", version, logger.SessionID())

	shots := config.GetScreenshots()
	dataDir, err := config.ResolveDataDir(serveOpts.dataDir, shots)
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}

	backend, err := capture.ByName(shots.GetBackend())
	if err != nil {
		return err
	}
	logger.Infof("capture backend: %s", backend.Name())

	screens, err := screenshot.New(dataDir, shots.GetCapacity(), backend, screenshot.WithLogger(logger.With("screenshot")))
	if err != nil {
		return err
	}
	if shots.GetPurgeOnStart() {
		if n := screens.PurgeOrphans(); n > 0 {
			logger.Infof("purged %d orphaned screenshots", n)
		}
	}

	guard, err := screens.NewGuard()
	if err != nil {
		return err
	}

	var asst *assistant.Assistant
	provider, err := config.BuildProvider(serveOpts.model, serveOpts.baseURL, serveOpts.apiKey, openai.DefaultModel)
	if err != nil {
		logger.Warnf("no language model: %v", err)
		fmt.Fprintln(out, warnStyle.Render("Warning: "+err.Error()))
	} else {
		llmCfg := config.GetLLM()
		asst, err = assistant.New(provider, guard,
			assistant.WithLogger(logger.With("assistant")),
			assistant.WithMaxPromptTokens(llmCfg.GetMaxPromptTokens()),
			assistant.WithMaxImageMegapixels(llmCfg.GetMaxImageMegapixels()),
		)
		if err != nil {
			return err
		}
		logger.Infof("model: %s (%s)", provider.GetModel(), provider.GetBaseURL())
	}

	state, err := app.New(screens, window.NewHeadlessController(capture.PrimaryWidth()), asst, guard,
		app.WithLogger(logger.With("app")))
	if err != nil {
		return err
	}

	srv := dispatch.New(state, dispatch.WithLogger(logger.With("dispatch")))

	serverCfg := config.GetServer()
	addr := serverAddr
	if addr == "" {
		addr = serverCfg.GetListenAddr()
	}
	ln, err := dispatch.Listen(addr, serverCfg.GetMaxConnections())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "%s %s\n", titleStyle.Render("wingman"), labelStyle.Render("listening on "+ln.Addr().String()))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("data:"), dataDir)
	if p := logger.LogPath(); p != "" {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("log: "), p)
	}

	if err := srv.Serve(ctx, ln); err != nil {
		return err
	}
	fmt.Fprintln(out, "Shut down.")
	return nil
}
