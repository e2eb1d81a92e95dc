package cmd

import (
	"log"
	"runtime"

	"github.com/spf13/cobra"
)

type VersionInfo struct {
	BatchfitVersion string
	GoVersion       string
	Compiler        string
	Platform        string
}

func (info *VersionInfo) String() string {
	return "{Batchfit version: " + info.BatchfitVersion + ", Go version: " +
		info.GoVersion + ", Compiler version: " + info.Compiler + ", Platform: " + info.Platform + "}"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Version of batchfit.",
	Long:  "Version of batchfit.",
	Run: func(cmd *cobra.Command, args []string) {
		info := &VersionInfo{
			BatchfitVersion: "v0.1.0",
			GoVersion:       runtime.Version(),
			Compiler:        runtime.Compiler,
			Platform:        runtime.GOOS + "/" + runtime.GOARCH,
		}
		log.Println(info.String())
	},
}
