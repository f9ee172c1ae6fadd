package rolodex

// Version is the library and CLI release.
const Version = "0.1.0"
