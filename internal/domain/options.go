package domain

// BuildOptions contains shared configuration options for pipeline runs.
type BuildOptions struct {
	Verbose     bool
	DryRun      bool // run the full pipeline but skip writing
	StableOrder bool // sort manifest entries by slug
	Compress    bool // also emit a gzip sidecar next to the manifest
	EmitSchema  bool // write the manifest JSON schema next to the manifest
	Progress    bool // render a progress bar during extraction
	Concurrency int
}

// DefaultBuildOptions returns BuildOptions with default values.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Concurrency: 4}
}
