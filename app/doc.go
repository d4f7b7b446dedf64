// Package app holds the use cases behind the datafixture commands: the
// configuration model, resolution of fixture paths from flags and groups,
// and the import and list flows. It has no dependency on a CLI library;
// output is symfony console markup written to an io.Writer.
package app
