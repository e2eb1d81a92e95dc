package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voxelfit/batchfit/pkg/env"
	"github.com/voxelfit/batchfit/pkg/output"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "collect batch fit output into one directory",
	Long:  "gathers every existing model output of every selected subject into <output>/<subject_id>/<model_name>",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.CollectBatchFitOutput(
			viper.GetString(env.RootDir),
			viper.GetString(env.CollectOutputDir),
			viper.GetString(env.Profile),
			subjectsSelection(),
			output.CollectOptions{
				Symlink: viper.GetBool(env.CollectSymlink),
				Move:    viper.GetBool(env.CollectMove),
			},
		)
	},
}

func init() {
	flags := collectCmd.Flags()
	flags.String("output", "", "directory to collect the outputs into")
	flags.Bool("symlink", true, "create symlinks instead of copying")
	flags.Bool("move", false, "move the outputs instead of copying, overrules --symlink")

	_ = viper.BindPFlag(env.CollectOutputDir, flags.Lookup("output"))
	_ = viper.BindPFlag(env.CollectSymlink, flags.Lookup("symlink"))
	_ = viper.BindPFlag(env.CollectMove, flags.Lookup("move"))
}
