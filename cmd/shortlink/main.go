package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/container"
	"github.com/serroba/shortlink-client/internal/messaging"
	"github.com/serroba/shortlink-client/internal/qr"
	"github.com/serroba/shortlink-client/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is what every command runs against. It is built once options are parsed.
type app struct {
	injector *do.Injector
	view     *render.View
	reveal   *qr.RevealController
}

func main() {
	_ = godotenv.Load()

	var a app

	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		a.injector = do.New()
		container.Register(a.injector, options)
		a.view = render.New(os.Stdout, nil)
		a.reveal = qr.NewRevealController()

		ctx, cancel := context.WithCancel(invocationContext())

		hooks.OnStart(func() {
			defer a.shutdown()

			if err := a.list(ctx); err != nil {
				a.fail(err)
			}
		})

		hooks.OnStop(cancel)
	})

	root := cli.Root()
	root.Use = "shortlink"
	root.Short = "Create and manage short links"

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your short links",
			Args:  cobra.NoArgs,
			Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, _ *container.Options) {
				a.run(a.list)
			}),
		},
		createCommand(&a),
		&cobra.Command{
			Use:   "delete <id>...",
			Short: "Delete short links by id",
			Args:  cobra.MinimumNArgs(1),
			Run: humacli.WithOptions(func(_ *cobra.Command, args []string, _ *container.Options) {
				a.run(func(ctx context.Context) error { return a.delete(ctx, args) })
			}),
		},
		qrCommand(&a),
		&cobra.Command{
			Use:   "whoami",
			Short: "Print your user id",
			Args:  cobra.NoArgs,
			Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, _ *container.Options) {
				a.run(a.whoami)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Check the backend and storage",
			Args:  cobra.NoArgs,
			Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, _ *container.Options) {
				a.run(a.status)
			}),
		},
	)

	cli.Run()
}

func createCommand(a *app) *cobra.Command {
	var code, timeout string

	cmd := &cobra.Command{
		Use:   "create <long-url>",
		Short: "Create a short link",
		Args:  cobra.ExactArgs(1),
		Run: humacli.WithOptions(func(_ *cobra.Command, args []string, _ *container.Options) {
			a.run(func(ctx context.Context) error { return a.create(ctx, args[0], code, timeout) })
		}),
	}

	cmd.Flags().StringVar(&code, "code", "", "Custom short code")
	cmd.Flags().StringVar(&timeout, "timeout", "", "Lifetime in seconds")

	return cmd
}

func qrCommand(a *app) *cobra.Command {
	var png string

	cmd := &cobra.Command{
		Use:   "qr <short-code>...",
		Short: "Toggle the QR code of links; the last one left selected is shown",
		Args:  cobra.MinimumNArgs(1),
		Run: humacli.WithOptions(func(_ *cobra.Command, args []string, _ *container.Options) {
			a.run(func(ctx context.Context) error { return a.qr(ctx, args, png) })
		}),
	}

	cmd.Flags().StringVar(&png, "png", "", "Write a PNG to this file instead of printing")

	return cmd
}

// run executes fn with a context cancelled on SIGINT or SIGTERM, then shuts the injector down.
func (a *app) run(fn func(ctx context.Context) error) {
	ctx, stop := signal.NotifyContext(invocationContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := fn(ctx)

	a.shutdown()

	if err != nil {
		a.fail(err)
	}
}

// invocationContext tags the events of one CLI run with a shared correlation id.
func invocationContext() context.Context {
	return messaging.WithCorrelationID(context.Background(), uuid.NewString())
}

func (a *app) shutdown() {
	logger, err := do.Invoke[*zap.Logger](a.injector)
	if err != nil {
		logger = zap.NewNop()
	}

	if err := a.injector.Shutdown(); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}

	_ = logger.Sync()
}

func (a *app) fail(err error) {
	if !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, err)
	}

	os.Exit(1)
}
