package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go-camerafy"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the loaded camera catalogs",
	}
	cmd.AddCommand(newCatalogStatsCommand(ctx))
	cmd.AddCommand(newCatalogModelsCommand(ctx))
	cmd.AddCommand(newCatalogTokensCommand(ctx))
	cmd.AddCommand(newCatalogNormalizeCommand(ctx))
	return cmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts of the catalog index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			stats := engine.Index().Stats()
			if asJSON {
				return writeJSON(cmd, stats)
			}
			rows := [][]string{
				{"sensor patterns", strconv.Itoa(stats.SensorPatterns)},
				{"sensor models", strconv.Itoa(stats.SensorModels)},
				{"sensor aliases", strconv.Itoa(stats.SensorAliases)},
				{"release models", strconv.Itoa(stats.ReleaseModels)},
				{"release aliases", strconv.Itoa(stats.ReleaseAliases)},
				{"classic models", strconv.Itoa(stats.ClassicModels)},
				{"classic aliases", strconv.Itoa(stats.ClassicAliases)},
				{"dropped", strconv.Itoa(stats.Dropped)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Entries", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCatalogModelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the canonical keys of the classic-camera catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			for _, m := range engine.Index().CanonicalModels() {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func newCatalogTokensCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <text>",
		Short: "Split a model name into letter and digit tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(engine.Index().TokenizeModel(strings.Join(args, " ")), " "))
			return nil
		},
	}
}

type normalizeOutput struct {
	Input  string `json:"input"`
	Loose  string `json:"loose"`
	Strict string `json:"strict"`
	Model  string `json:"model"`
}

func newCatalogNormalizeCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "normalize <text>",
		Short: "Show the lookup keys derived from a camera string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			in := strings.Join(args, " ")
			out := normalizeOutput{Input: in, Strict: camerafy.Collapse(in)}
			out.Loose, _ = camerafy.Normalize(in)
			out.Model, _ = engine.Index().NormalizeModel(in)
			if asJSON {
				return writeJSON(cmd, out)
			}
			rows := [][]string{{"loose", out.Loose}, {"strict", out.Strict}, {"model", out.Model}}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Policy", "Key"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
