// Package compiler turns a collected run into a single annotated video.
//
// Each manifest entry becomes one segment: passed tests get an intro card
// stitched to the rescaled recording in a single filter_complex pass, failed
// or artifact-missing tests get a standalone card. Segments are rendered
// sequentially in manifest order, named with zero-padded indexes, and joined
// via the concat demuxer with a uniform re-encode. Core synthesis failures
// always abort the pipeline; a partial combined video is worse than none.
package compiler
