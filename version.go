package lockstep

// Version is the current lockstep release, reported by the CLI.
var Version = "0.1.0"
