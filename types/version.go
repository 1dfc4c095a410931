package types

// Version is the dropkit release version.
const Version = "0.2.0"
