package version

// Version is set at build time via -ldflags "-X haplophase/internal/version.Version=...".
var Version = "dev"
