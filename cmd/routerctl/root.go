package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/staterouter/builder"
	"github.com/comalice/staterouter/internal/config"
	"github.com/comalice/staterouter/internal/core"
	"github.com/comalice/staterouter/internal/extensibility"
	"github.com/comalice/staterouter/internal/logging"
	"github.com/comalice/staterouter/internal/primitives"
	"github.com/comalice/staterouter/internal/production"
)

// app holds the flags shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	bindings   []string

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "routerctl",
		Short:         "Inspect and serve URL-driven state routers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.logLevel, logging.Format(a.logFormat))
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "router.yaml", "router definition (.yaml, .json or .toml)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level")
	flags.StringVar(&a.logFormat, "log-format", string(logging.FormatAuto), "log format: auto, json or console")
	flags.StringArrayVar(&a.bindings, "bind", nil, "bind a handler ID to a target, as id=target (repeatable)")

	root.AddCommand(
		newValidateCmd(a),
		newResolveCmd(a),
		newURLCmd(a),
		newSendCmd(a),
		newDotCmd(a),
		newServeCmd(a),
	)
	return root
}

// load reads and validates the config file.
func (a *app) load() (*config.File, error) {
	return config.Load(a.configPath)
}

// registry registers a logging no-op for every hook the file references and
// binds handler IDs from --bind to fixed targets.
func (a *app) registry(f *config.File) (*extensibility.Registry, error) {
	reg := extensibility.NewRegistry()
	hooks, _ := f.HookIDs()
	for _, id := range hooks {
		reg.RegisterHook(id, func(ctx context.Context, hc primitives.HookContext) error {
			a.logger.Info("hook", zap.String("id", id), zap.String("state", hc.State),
				zap.Any("params", hc.Params.Snapshot()))
			return nil
		})
	}
	for _, b := range a.bindings {
		id, target, ok := strings.Cut(b, "=")
		if !ok || id == "" || target == "" {
			return nil, fmt.Errorf("--bind %q: want id=target", b)
		}
		reg.RegisterHandler(id, builder.TransitionTo(target))
	}
	return reg, nil
}

// build compiles f into a router with the file's location and a registry
// for its hook IDs. extra options are applied last.
func (a *app) build(f *config.File, extra ...core.Option) (*core.Router, error) {
	reg, err := a.registry(f)
	if err != nil {
		return nil, err
	}
	opts := []core.Option{
		core.WithLocation(f.Location.Build()),
		core.WithActionRunner(extensibility.NewLoggingActionRunner(reg, a.logger)),
		core.WithVisualizer(&production.DefaultVisualizer{}),
		core.WithLogger(a.logger),
		core.WithMaxRedirects(f.MaxRedirects),
	}
	return core.New(f.RouterConfig(), append(opts, extra...)...)
}

// open loads the file, builds the router and moves it to from, or starts it
// when from is empty.
func (a *app) open(cmd *cobra.Command, from string) (*core.Router, error) {
	f, err := a.load()
	if err != nil {
		return nil, err
	}
	r, err := a.build(f)
	if err != nil {
		return nil, err
	}
	if from == "" {
		err = r.Start(cmd.Context())
	} else {
		err = r.Route(cmd.Context(), from)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// parseContexts turns --context values into event contexts: "k=v" becomes a
// one-key map and anything else is passed as a string.
func parseContexts(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if k, val, ok := strings.Cut(v, "="); ok && k != "" {
			out = append(out, map[string]any{k: val})
			continue
		}
		out = append(out, v)
	}
	return out
}
