// Package export renders match sets as CSV, JSON or XML.
//
// Every format starts with a header describing the search (texts, unit and
// feature type, stoplist, distance metric) and lists the matches by
// descending score. Scores are given twice: normalized to the 0..10
// display range and raw.
//
// Output can be compressed with zstd, lz4 or brotli and published to any
// blobstore.BlobStore:
//
//	doc := &export.Document{Set: set, Vocab: vocab, Texts: export.Texts(aen, phar)}
//	name, err := export.Publish(ctx, store, "runs/aen-phar", doc, export.FormatJSON, export.CompressionZstd)
package export
