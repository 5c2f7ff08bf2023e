// Package backup orchestrates one zone configuration backup pass.
//
// A pass moves through the states Collecting, Fingerprinting, then either
// Skipping (the captured configuration matches the newest archive) or
// Building followed by Rotating. Failed is terminal and reachable from any
// state; a failed pass never leaves a partial archive in the output
// directory.
//
// # Change Detection
//
// The runner fingerprints the captured snapshot and compares it against the
// fingerprint recomputed from the newest archive's extracted contents. No
// manifest or database exists besides the archive files themselves: the
// output directory is the sole persistent state, so every decision is
// recoverable by re-reading it.
//
// # Failure Policy
//
// Collection and build failures abort before anything is written. Once the
// new archive is committed, retention is best-effort: individual deletions
// of stale archives and the latest-pointer refresh are logged on failure
// but do not fail the run.
//
// # Concurrency
//
// One pass is strictly sequential and the tool performs exactly one pass
// per invocation. Concurrent invocations against the same output directory
// are not coordinated; external scheduling must serialize runs.
package backup
