package cmd

import (
	"os"

	"github.com/sarchlab/memcontention/experiment"
	"github.com/spf13/cobra"
)

var (
	compareFlags     programFlags
	compareFeatures  string
	compareUniqueIDs bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare isolated and co-running executions.",
	Long: "`compare --core0 a.yaml --core1 b.yaml` runs core 0 alone, core 1 " +
		"alone, and both cores together, and prints the three runs and the " +
		"differences of DDR miss ratios as JSON. With `--features`, it " +
		"prints the listed features instead.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		core0, core1, err := compareFlags.programs()
		if err != nil {
			return err
		}

		var features []experiment.Feature
		if compareFeatures != "" {
			features, err = loadFeatures(compareFeatures)
			if err != nil {
				return err
			}
		}

		b := experiment.MakeBuilder().
			WithConfig(cfg).
			WithPrograms(core0, core1).
			WithNumCycles(compareFlags.numCycles())
		if compareUniqueIDs {
			b = b.WithUniqueIDs()
		}

		c, err := b.Build().Run(cmd.Context())
		if err != nil {
			return err
		}

		if rec := openRecorder(compareFlags.dbPath()); rec != nil {
			c.Record(rec)

			if err := rec.Close(); err != nil {
				return err
			}
		}

		if features == nil {
			return printJSON(cmd.OutOrStdout(), c)
		}

		values, err := c.ExtractAll(features...)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), values)
	},
}

func loadFeatures(path string) ([]experiment.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return experiment.LoadFeatures(f)
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareFlags.register(compareCmd)
	compareCmd.Flags().StringVar(&compareFeatures, "features", "",
		"YAML list of features to extract")
	compareCmd.Flags().BoolVar(&compareUniqueIDs, "unique-ids", false,
		"draw request IDs that are unique across the three runs")
}
