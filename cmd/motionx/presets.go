package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/motionx"
	"github.com/comalice/motionx/preset"
)

func (a *app) presetsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Inspect and validate animation presets",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "preset file merged over the built-ins (default MOTIONX_PRESET_FILE)")

	registry := func() (*preset.Registry, error) {
		path := file
		if path == "" {
			path = a.cfg.PresetFile
		}
		reg := preset.Default()
		if path == "" {
			return reg, nil
		}
		descs, err := preset.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := reg.Merge(descs...); err != nil {
			return nil, err
		}
		a.logger.Debug("merged preset file", zap.String("path", path), zap.Int("count", len(descs)))
		return reg, nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered presets and their states",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCHART\tSTATES")
			for _, d := range reg.Snapshot() {
				states := make([]string, 0, len(d.States))
				for _, s := range d.StateNames() {
					states = append(states, string(s))
				}
				chart := "-"
				if c, ok := chartFor(d); ok {
					chart = c.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, chart, strings.Join(states, ","))
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a preset as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}
			d, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			return preset.Encode(cmd.OutOrStdout(), []preset.Descriptor{d})
		},
	}

	validate := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a preset file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			descs, err := preset.LoadFile(args[0])
			if err != nil {
				return err
			}
			for _, d := range descs {
				c, ok := chartFor(d)
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: no primitive chart matches states %v\n", d.Name, d.StateNames())
					continue
				}
				if _, err := motionx.NewMachine(c, d); err != nil {
					return fmt.Errorf("%s: %w", d.Name, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d presets\n", len(descs))
			return nil
		},
	}

	var state string
	graph := &cobra.Command{
		Use:   "graph NAME",
		Short: "Render a preset's state chart as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}
			d, err := reg.Get(args[0])
			if err != nil {
				return err
			}
			c, ok := chartFor(d)
			if !ok {
				return fmt.Errorf("%s: no primitive chart matches states %v", d.Name, d.StateNames())
			}
			m, err := motionx.NewMachine(c, d)
			if err != nil {
				return err
			}
			current := m.Current()
			if state != "" {
				if _, err := m.Jump(motionx.StateName(state)); err != nil {
					return err
				}
				current = m.Current()
			}
			fmt.Fprint(cmd.OutOrStdout(), preset.ExportDOT(c, d, current))
			return nil
		},
	}
	graph.Flags().StringVar(&state, "state", "", "state to highlight (default the chart's initial state)")

	cmd.AddCommand(list, show, validate, graph)
	return cmd
}

// chartFor picks the primitive chart a descriptor is written for.
func chartFor(d preset.Descriptor) (motionx.Chart, bool) {
	switch {
	case d.HasState(motionx.StateHidden):
		return motionx.RevealChart(), true
	case d.HasState(motionx.StateInitial):
		return motionx.PresenceChart(), true
	case d.HasState(motionx.StateShake):
		return motionx.BurstChart(), true
	case d.HasState(motionx.StateHover):
		return motionx.InteractiveChart(), true
	case d.HasState(motionx.StateAnimate):
		return motionx.LoopChart(), true
	}
	return motionx.Chart{}, false
}
