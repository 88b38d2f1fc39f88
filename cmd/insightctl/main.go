package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"salesdash/adapters/excel"
	"salesdash/adapters/loader"
	"salesdash/domain/dataset"
	"salesdash/domain/insight"
	"salesdash/internal"
	"salesdash/internal/config"
	"salesdash/internal/dispatch"
	"salesdash/internal/errors"
	"salesdash/internal/registry"
	"salesdash/internal/testkit"
	"salesdash/internal/view"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// hypothesesID renders every registered hypothesis card at once
const hypothesesID = "hypotheses"

// maxConcurrentLoads bounds show --all
const maxConcurrentLoads = 4

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the flags shared by every command and the pipeline built from
// them
type app struct {
	cfgFile string
	dataDir string
	baseURL string

	dispatcher *dispatch.Dispatcher
	loader     loader.DatasetLoader
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "insightctl",
		Short:         "Inspect and export sales dashboard insights from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory holding the dashboard JSON resources (overrides config)")
	rootCmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "base URL the dashboard JSON resources are served from (overrides config)")

	rootCmd.AddCommand(
		a.newListCmd(),
		a.newShowCmd(),
		a.newExportCmd(),
		newDemoCmd(),
	)
	return rootCmd
}

// setup loads configuration and builds the loader and dispatcher
func (a *app) setup(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		overrides["data.dir"] = a.dataDir
	}
	if flags.Changed("base-url") {
		overrides["data.base_url"] = a.baseURL
	}

	cfg, err := config.LoadWithOverrides(a.cfgFile, overrides)
	if err != nil {
		return err
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))

	reg, err := registry.Default()
	if cfg.RegistryFile != "" {
		reg, err = registry.Load(cfg.RegistryFile)
	}
	if err != nil {
		return err
	}

	var source loader.Source
	if cfg.Data.UsesLocalDir() {
		source = loader.NewDirSource(cfg.Data.Dir)
	} else {
		source = loader.NewHTTPSource(cfg.Data.BaseURL, nil)
	}

	a.dispatcher = dispatch.New(reg)
	a.loader = loader.New(source)
	return nil
}

// render mounts and resolves the view behind id. Load failures resolve
// empty, as they do on the dashboard.
func (a *app) render(ctx context.Context, id string) dispatch.Render {
	var v *view.View[dispatch.Render]
	if id == hypothesesID {
		v = view.Mount(ctx, a.loader, a.hypothesesRef(), func(ds dataset.Dataset) (dispatch.Render, bool) {
			r := a.dispatcher.Hypotheses(ds)
			return r, !r.Empty()
		})
	} else {
		v = view.MountInsight(ctx, a.loader, a.dispatcher, insight.ID(id))
	}

	if err := v.Resolve(); err != nil {
		return dispatch.Render{}
	}
	r, _ := v.Content()
	return r
}

// known rejects ids with no registered descriptor
func (a *app) known(id string) error {
	if id == hypothesesID {
		return nil
	}
	if _, ok := a.dispatcher.Resolve(insight.ID(id)); !ok {
		return errors.UnknownDiscriminant(id)
	}
	return nil
}

func (a *app) hypothesesRef() string {
	for _, d := range a.dispatcher.Registry().ByKind(insight.CompositeHypothesisCard) {
		if d.DatasetRef != "" {
			return d.DatasetRef
		}
	}
	return "business_insights.json"
}

func (a *app) newListCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}

			descs := a.dispatcher.Registry().Descriptors()
			if kind != "" {
				descs = a.dispatcher.Registry().ByKind(insight.RenderKind(kind))
			}
			fmt.Fprintln(cmd.OutOrStdout(), listTable(descs))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list insights with this render kind")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "show [insight-id]",
		Short: "Render one insight, or every insight with --all",
		Long: `Render an insight in the terminal.

The special id "hypotheses" renders every hypothesis card.

Example: insightctl show category-performance --data-dir ./dashboard_data`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !all {
				if err := a.known(args[0]); err != nil {
					return err
				}
				r := a.render(cmd.Context(), args[0])
				if r.Empty() {
					return fmt.Errorf("no data for %q", args[0])
				}
				fmt.Fprintln(out, renderText(r))
				return nil
			}

			descs := a.dispatcher.Registry().Descriptors()
			renders := make([]dispatch.Render, len(descs))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxConcurrentLoads)
			for i, d := range descs {
				id := string(d.ID)
				g.Go(func() error {
					renders[i] = a.render(ctx, id)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, r := range renders {
				if r.Empty() {
					fmt.Fprintln(out, mutedStyle.Render(string(descs[i].ID)+": no data"))
					continue
				}
				fmt.Fprintln(out, renderText(r))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "render every registered insight")
	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [insight-id]",
		Short: "Export an insight as an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			id := args[0]
			if err := a.known(id); err != nil {
				return err
			}

			r := a.render(cmd.Context(), id)
			if r.Empty() {
				return fmt.Errorf("no data for %q", id)
			}

			if output == "" {
				output = excel.Filename(id)
			}
			if !strings.HasSuffix(output, ".xlsx") {
				return fmt.Errorf("output %q must end in .xlsx", output)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := excel.WriteRender(r, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("wrote "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <insight-id>.xlsx)")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var outDir string
	var seed int64
	var products int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a seeded set of dashboard resources",
		Long: `Generate a synthetic product catalogue and write every JSON resource the
dashboard reads into a directory.

Example: insightctl demo --out ./dashboard_data --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultSalesConfig()
			cfg.Seed = seed
			if products > 0 {
				cfg.ProductCount = products
			}

			files, err := testkit.BuildDashboard(testkit.NewSalesDataGenerator(cfg).GenerateProducts())
			if err != nil {
				return err
			}
			if err := files.WriteDir(outDir); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range files.Names() {
				fmt.Fprintln(out, filepath.Join(outDir, name))
			}
			fmt.Fprintln(out, okStyle.Render(fmt.Sprintf("wrote %d resources", len(files))))
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "dashboard_data", "directory to write into")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the catalogue")
	cmd.Flags().IntVar(&products, "products", 0, "number of products (default 1351)")
	return cmd
}
