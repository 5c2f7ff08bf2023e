// Package archive builds, reads, and enumerates zone configuration backup
// archives.
//
// An archive is a zstd-compressed tar stream containing one "{zone}.zone"
// entry per captured zone, in snapshot order, with uniform placeholder
// metadata so identical content produces identical archives. Archives are
// named "{prefix}_{unix-timestamp}.zones.tar.zst" and are immutable once
// present: [Build] stages the archive in a temporary file inside the
// destination directory and commits it with a single rename.
//
// The file name is the only metadata store. [List] reconstructs the archive
// history by parsing names, and [ReadFingerprint] recomputes a snapshot
// fingerprint from an archive's extracted contents for change detection.
package archive
