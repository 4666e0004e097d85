// Package dataset iterates collections of independently stored feature
// matrices so statistics can be reduced over inputs that do not fit in
// memory at once.
//
// A FeatureSet is anything with a length and indexed access to feature
// blocks. MemorySet serves slices of in-memory matrices; Store serves
// matrices persisted as zstd-compressed archives in a blobstore (local
// directory, S3, MinIO), decoding each element on demand.
//
// Select extracts the frames named by a roaring bitmap into a fresh block,
// which is how per-cluster or per-speaker frame assignments are turned
// into accumulation inputs.
package dataset
