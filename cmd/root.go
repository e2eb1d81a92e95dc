package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voxelfit/batchfit/pkg/batch"
	"github.com/voxelfit/batchfit/pkg/env"
	"github.com/voxelfit/batchfit/pkg/http"
	"github.com/voxelfit/batchfit/pkg/options"
	"github.com/voxelfit/batchfit/pkg/processing"
	"github.com/voxelfit/batchfit/pkg/selection"
	_ "github.com/voxelfit/batchfit/pkg/tools/log"
	"github.com/voxelfit/batchfit/pkg/trace"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "batchfit",
	Short: "batch dMRI model fitting",
	Long:  "discovers subjects in a data folder and fits the configured models over voxel chunks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString(env.TraceAgentHostPort) != "" {
			trace.TraceInit()
		}
		if viper.GetBool(env.Serve) {
			go serveStatus()
		}

		worker, err := processing.GetWorker()
		if err != nil {
			return err
		}

		// the options file is loaded before the runner is built, so its
		// chunk size reaches the processing strategy; an explicit
		// --nmr-voxels flag still wins
		var opts *options.Options
		if optionsFile := viper.GetString(env.OptionsFile); optionsFile != "" {
			opts, err = options.Load(optionsFile)
			if err != nil {
				return err
			}
			if opts.NmrVoxels > 0 && !cmd.Flags().Changed("nmr-voxels") {
				viper.Set(env.NmrVoxels, opts.NmrVoxels)
			}
		}

		runner, err := batch.NewRunner(
			viper.GetString(env.RootDir),
			viper.GetString(env.Profile),
			subjectsSelection(),
			worker,
			viper.GetInt(env.NmrVoxels),
			viper.GetBool(env.Recalculate),
		)
		if err != nil {
			return err
		}

		if opts != nil {
			opts.Apply(runner.Profile())
		}

		results, err := runner.Run()
		if err != nil {
			return err
		}

		failures := 0
		for subjectID, perModel := range results {
			for modelName, fitErr := range perModel {
				if fitErr != nil {
					failures++
					zap.S().Errorw("fit failed", "subject", subjectID, "model", modelName, "err", fitErr)
				}
			}
		}
		if failures > 0 {
			return fmt.Errorf("%d subject/model fits failed", failures)
		}
		return nil
	},
}

// subjectsSelection builds the selection from the subject flags; without
// any of them all subjects are processed.
func subjectsSelection() selection.Selection {
	subjectIDs := viper.GetStringSlice(env.SubjectIDs)
	indices := viper.GetIntSlice(env.SubjectIndices)
	startFrom := viper.GetString(env.StartFrom)
	if len(subjectIDs) == 0 && len(indices) == 0 && startFrom == "" {
		return selection.AllSubjects{}
	}

	selected := &selection.SelectedSubjects{StartFrom: startFrom}
	if len(subjectIDs) > 0 {
		selected.SubjectIDs = subjectIDs
	}
	if len(indices) > 0 {
		selected.Indices = indices
	}
	return selected
}

func serveStatus() {
	r := gin.Default()
	http.RegisterRoute(r)
	if err := r.Run(":" + viper.GetString(env.Port)); err != nil {
		zap.S().Errorw("status server stopped", "err", err)
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("root", "", "data folder to search for batch fit subjects")
	flags.String("profile", "", "batch profile name, auto detected when empty")
	flags.StringSlice("subjects", nil, "subject ids to process")
	flags.IntSlice("indices", nil, "subject indices to process")
	flags.String("start-from", "", "subject id or index to start processing from")
	flags.Int("nmr-voxels", env.DefaultNmrVoxels, "number of voxels per processing chunk")
	flags.Bool("recalculate", false, "recompute chunks whose output already exists")
	flags.String("options", "", "yaml batch options file")
	flags.Bool("serve", false, "serve batch status and metrics over http")
	flags.String("port", "8080", "status server port")
	flags.String("trace-agent", "", "jaeger agent host and port")

	_ = viper.BindPFlag(env.RootDir, flags.Lookup("root"))
	_ = viper.BindPFlag(env.Profile, flags.Lookup("profile"))
	_ = viper.BindPFlag(env.SubjectIDs, flags.Lookup("subjects"))
	_ = viper.BindPFlag(env.SubjectIndices, flags.Lookup("indices"))
	_ = viper.BindPFlag(env.StartFrom, flags.Lookup("start-from"))
	_ = viper.BindPFlag(env.NmrVoxels, flags.Lookup("nmr-voxels"))
	_ = viper.BindPFlag(env.Recalculate, flags.Lookup("recalculate"))
	_ = viper.BindPFlag(env.OptionsFile, flags.Lookup("options"))
	_ = viper.BindPFlag(env.Serve, flags.Lookup("serve"))
	_ = viper.BindPFlag(env.Port, flags.Lookup("port"))
	_ = viper.BindPFlag(env.TraceAgentHostPort, flags.Lookup("trace-agent"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
}
