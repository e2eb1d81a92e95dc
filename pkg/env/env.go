package env

// viper keys shared between the cobra flags and the packages that read them
const (
	RootDir            = "rootDir"
	Profile            = "profile"
	SubjectIDs         = "subjects"
	SubjectIndices     = "indices"
	StartFrom          = "startFrom"
	NmrVoxels          = "nmrVoxels"
	Recalculate        = "recalculate"
	OptionsFile        = "optionsFile"
	CollectOutputDir   = "collectOutputDir"
	CollectSymlink     = "symlink"
	CollectMove        = "move"
	Serve              = "serve"
	Port               = "port"
	Environment        = "Environment"
	TraceAgentHostPort = "TraceAgentHostPort"
)

// DefaultNmrVoxels is the default number of voxels per processing chunk.
const DefaultNmrVoxels = 40000
