package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the router definition loads and compiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load()
			if err != nil {
				return err
			}
			r, err := a.build(f)
			if err != nil {
				return err
			}
			hooks, handlers := f.HookIDs()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ok: %s (version %s)\n", r.ID(), r.Version())
			if len(hooks) > 0 {
				fmt.Fprintf(out, "hooks: %s\n", strings.Join(hooks, ", "))
			}
			if len(handlers) > 0 {
				fmt.Fprintf(out, "handlers: %s\n", strings.Join(handlers, ", "))
			}
			return nil
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Print the state and params a URL resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load()
			if err != nil {
				return err
			}
			r, err := a.build(f)
			if err != nil {
				return err
			}
			state, params, err := r.Resolve(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, state)
			snap := params.Snapshot()
			names := make([]string, 0, len(snap))
			for name := range snap {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %s=%s\n", name, snap[name])
			}
			return nil
		},
	}
}

func newURLCmd(a *app) *cobra.Command {
	var from string
	var contexts []string
	cmd := &cobra.Command{
		Use:   "url <event>",
		Short: "Print the URL an event would produce without transitioning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open(cmd, from)
			if err != nil {
				return err
			}
			url, err := r.URLForEvent(args[0], parseContexts(contexts)...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "URL to route before generating (default: the initial path)")
	cmd.Flags().StringArrayVar(&contexts, "context", nil, "event context, as key=value or a bare value (repeatable)")
	return cmd
}

func newSendCmd(a *app) *cobra.Command {
	var from string
	var contexts []string
	cmd := &cobra.Command{
		Use:   "send <event>",
		Short: "Send an event and print the resulting state and URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open(cmd, from)
			if err != nil {
				return err
			}
			before := r.CurrentPath()
			if err := r.Send(cmd.Context(), args[0], parseContexts(contexts)...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n%s\n", before, r.CurrentPath(), r.CurrentURL())
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "URL to route before sending (default: the initial path)")
	cmd.Flags().StringArrayVar(&contexts, "context", nil, "event context, as key=value or a bare value (repeatable)")
	return cmd
}

func newDotCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Render the state tree as Graphviz DOT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.load()
			if err != nil {
				return err
			}
			r, err := a.build(f)
			if err != nil {
				return err
			}
			if at != "" {
				if err := r.Route(cmd.Context(), at); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), r.Visualize())
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "URL to route first so the active chain is highlighted")
	return cmd
}
