package platform

// Package platform contains OS/platform integration glue: the data directory,
// discovery of acquisition data files, and OS open/reveal.
