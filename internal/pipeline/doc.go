// Package pipeline turns each discovered .gz archive into canonical tables.
//
// Per file, strictly in order: decompress next to the archive, move the
// archive to the target directory, read the table once, resolve and write
// every schema, then delete the decompressed copy. A rejected schema is logged
// and skipped; file-system errors stop the run.
package pipeline
