package version

// Version is replaced at build time via -ldflags.
var Version = "dev"
