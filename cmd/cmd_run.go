package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/common/errs"
	"github.com/gaze-network/coloredcoins-network/core/events"
	"github.com/gaze-network/coloredcoins-network/core/types"
	"github.com/gaze-network/coloredcoins-network/internal/config"
	"github.com/gaze-network/coloredcoins-network/modules/coloredcoins"
	"github.com/gaze-network/coloredcoins-network/modules/coloredcoins/usecase"
	"github.com/gaze-network/coloredcoins-network/pkg/automaxprocs"
	"github.com/gaze-network/coloredcoins-network/pkg/errorhandler"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/gaze-network/coloredcoins-network/pkg/middleware/requestcontext"
	"github.com/gaze-network/coloredcoins-network/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Register Modules
var Modules = do.Package(
	do.Lazy(coloredcoins.New),
)

type runCmdOptions struct {
	APIOnly bool
}

func NewRunCommand() *cobra.Command {
	opts := &runCmdOptions{}

	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start colored coins wallet service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(cmd.Context()); err != nil {
				logger.ErrorContext(cmd.Context(), "Failed to set GOMAXPROCS", err)
			}
			return runHandler(opts, cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.BoolVar(&opts.APIOnly, "api-only", false, "Run only API server, without watching wallet transactions")
	flags.Bool("reindex", false, "Rescan the history of the wallet addresses on start")
	flags.String("backend", "", "Chain backend. E.g. `explorer` or `fullnode`")

	// Bind flags to configuration
	config.BindPFlag("modules.coloredcoins.reindex", flags.Lookup("reindex"))
	config.BindPFlag("modules.coloredcoins.backend", flags.Lookup("backend"))

	return runCmd
}

const (
	shutdownTimeout = 60 * time.Second
)

func runHandler(opts *runCmdOptions, cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Validate inputs and configurations
	{
		if !conf.Network.IsSupported() {
			return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
		}
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize worker context to separate worker's lifecycle from main process
	ctxWorker, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// Add logger context
	ctxWorker = logger.WithContext(ctxWorker, slogx.Stringer("network", conf.Network))

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctxWorker)

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName:      "Colored Coins",
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
				requestcontext.WithClientIP(conf.HTTPServer.RequestIP),
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024) // bufLen = 1024
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", errors.Newf("panic: %v", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		return app, nil
	})

	// Run colored coins wallet
	wallet, err := do.Invoke[*usecase.Usecase](injector)
	if err != nil {
		return errors.Wrap(err, "can't init colored coins module")
	}
	if !opts.APIOnly {
		if err := watchEvents(ctxWorker, wallet.Events()); err != nil {
			return errors.Wrap(err, "can't watch wallet transactions")
		}
	}

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	// Stop application if worker context is done
	go func() {
		<-ctxWorker.Done()
		defer stop()

		logger.InfoContext(ctx, "Colored coins worker is stopped. Stopping application...")
	}()

	logger.InfoContext(ctxWorker, "Colored coins service started", slogx.Stringer("backend", wallet.Backend()))

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := httpServer.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.ErrorContext(ctx, "Failed while gracefully shutting down HTTP server", err)
	}
	stopWorker()
	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}

// watchEvents logs the wallet transaction events.
func watchEvents(ctx context.Context, router *events.Router) error {
	ctx = logger.WithContext(ctx, slogx.String("package", "events"))

	router.OnError(func(err error) {
		logger.ErrorContext(ctx, "Colored coins event stream error", err)
	})
	router.OnConnect(func() {
		logger.InfoContext(ctx, "Backend connected and synced")
	})
	router.OnScanProgress(func(progress types.SyncProgress) {
		logger.DebugContext(ctx, "Backend scan progress",
			slogx.Int64("last_block_time", progress.LastBlockTime),
			slogx.Bool("mempool", progress.Mempool),
		)
	})

	for _, event := range []events.Event{
		events.NewTransaction,
		events.NewCCTransaction,
		events.RevertedTransaction,
		events.RevertedCCTransaction,
	} {
		if _, err := router.On(event, func(tx *types.Transaction) {
			logger.InfoContext(ctx, "Received wallet transaction",
				slogx.Stringer("event", event),
				slogx.String("txid", tx.Txid),
				slogx.Bool("local", router.IsLocal(tx)),
			)
		}); err != nil {
			return errors.Wrapf(err, "can't listen to %s", event)
		}
	}
	return nil
}
