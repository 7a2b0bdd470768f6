package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ifcgo"
	"github.com/hupe1980/ifcgo/codec"
	"github.com/hupe1980/ifcgo/property"
	"github.com/hupe1980/ifcgo/spatial"
)

// fileSummary is the parse output for one file.
type fileSummary struct {
	File string `json:"file"`
	codec.SummaryDoc
	Diagnostics ifcgo.Diagnostics `json:"diagnostics"`
}

func summarize(path string, m *ifcgo.Model) fileSummary {
	store := m.Store()
	return fileSummary{
		File: path,
		SummaryDoc: codec.SummaryDoc{
			Schema:        m.Schema(),
			Entities:      store.Count(),
			Types:         store.TypeCounts(),
			Relationships: m.Graph().Len(),
			PropertySets:  m.PropertySets().Len(),
			QuantitySets:  m.QuantitySets().Len(),
			Storeys:       len(store.GetByType(spatial.TypeStorey)),
			WithGeometry:  store.GeometryCount(),
		},
		Diagnostics: m.Diagnostics(),
	}
}

func (s fileSummary) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s\n", s.File)
	fmt.Fprintf(w, "  schema:        %s\n", s.Schema)
	fmt.Fprintf(w, "  entities:      %d (%d types)\n", s.Entities, len(s.Types))
	fmt.Fprintf(w, "  relationships: %d\n", s.Relationships)
	fmt.Fprintf(w, "  property sets: %d\n", s.PropertySets)
	fmt.Fprintf(w, "  quantity sets: %d\n", s.QuantitySets)
	fmt.Fprintf(w, "  storeys:       %d\n", s.Storeys)
	fmt.Fprintf(w, "  with geometry: %d\n", s.WithGeometry)
	if n := s.Diagnostics.Total(); n > 0 {
		fmt.Fprintf(w, "  skipped:       %d\n", n)
	}
}

// parseOptions returns the configured parse options plus the progress reporter.
func (a *app) parseOptions(cmd *cobra.Command) []ifcgo.Option {
	opts := a.cfg.ParseOptions()
	if a.progress {
		stderr := cmd.ErrOrStderr()
		opts = append(opts, ifcgo.WithProgress(func(phase string, percent float64) {
			fmt.Fprintf(stderr, "%-14s %5.1f%%\n", phase, percent)
		}))
	}
	return opts
}

// loadModel parses path, through the cache if --cache is set.
func (a *app) loadModel(ctx context.Context, cmd *cobra.Command, path string) (*ifcgo.Model, error) {
	if !a.useCache {
		return ifcgo.Open(ctx, path, a.parseOptions(cmd)...)
	}
	src, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, err
	}
	cm, err := cacheManager(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	m, _, err := cm.Load(ctx, src, a.parseOptions(cmd)...)
	return m, err
}

func (a *app) write(cmd *cobra.Command, v any) error {
	return codec.Write(cmd.OutOrStdout(), codec.Default, v)
}

func newParseCommand(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse models and print a summary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("jobs") {
				a.cfg.Parse.Jobs = jobs
			}
			models, err := ifcgo.ParseFiles(cmd.Context(), args, a.parseOptions(cmd)...)
			if err != nil {
				return err
			}
			for i, m := range models {
				s := summarize(args[i], m)
				_ = m.Close()
				if a.asJSON {
					if err := a.write(cmd, s); err != nil {
						return err
					}
					continue
				}
				s.writeText(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of files parsed concurrently (default GOMAXPROCS)")
	return cmd
}

func newTreeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the spatial hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer m.Close()

			h := m.Hierarchy()
			if a.asJSON {
				return a.write(cmd, codec.Tree(h))
			}
			w := cmd.OutOrStdout()
			h.Walk(func(n *spatial.Node, depth int) bool {
				fmt.Fprintf(w, "%s#%d %s", strings.Repeat("  ", depth), n.ExpressID, n.Type)
				if n.Name != "" {
					fmt.Fprintf(w, " %q", n.Name)
				}
				if n.Elevation != nil {
					fmt.Fprintf(w, " @%g", *n.Elevation)
				}
				if len(n.Elements) > 0 {
					fmt.Fprintf(w, " (%d elements)", len(n.Elements))
				}
				fmt.Fprintln(w)
				return true
			})
			return nil
		},
	}
}

func parseID(s string) (uint32, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid express id %q", s)
	}
	return uint32(id), nil
}

func newEntityCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "entity FILE ID",
		Short: "Print one entity as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			m, err := a.loadModel(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer m.Close()

			if !m.Store().Has(id) {
				return fmt.Errorf("entity #%d not found", id)
			}
			e, _ := m.Entity(id)
			doc := codec.Entity(m.Store(), id, e).WithSets(m.PropertiesFor(id), m.QuantitiesFor(id))
			return a.write(cmd, doc)
		},
	}
}

func newPropsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "props FILE ID",
		Short: "Print the property and quantity sets of an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			m, err := a.loadModel(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			defer m.Close()

			psets, qsets := m.PropertiesFor(id), m.QuantitiesFor(id)
			if a.asJSON {
				return a.write(cmd, codec.Entity(m.Store(), id, nil).WithSets(psets, qsets))
			}
			w := cmd.OutOrStdout()
			for _, s := range psets {
				writeSet(w, s)
			}
			for _, s := range qsets {
				writeSet(w, s)
			}
			return nil
		},
	}
}

func writeSet(w io.Writer, s *property.Set) {
	fmt.Fprintln(w, s.Name)
	for _, p := range s.Properties {
		fmt.Fprintf(w, "  %s = %s\n", p.Name, p.Value.Text())
	}
	for _, q := range s.Quantities {
		fmt.Fprintf(w, "  %s = %g (%s)\n", q.Name, q.Value, q.Kind)
	}
}
