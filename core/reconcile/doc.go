// Package reconcile provides the link reconciliation engine: it keeps a derived
// directory of symbolic links consistent with a set of source directories holding
// media files, without ever moving or copying the originals.
//
// # Architecture
//
// The engine consists of the following components:
//
// 1. Scanner: lists every regular file below a source root using an explicit
//    worklist instead of recursion.
//
// 2. AdmissionFilter: rejects files by extension and size rules before any
//    classification work is done.
//
// 3. Registry: the single source of truth mapping a destination path to its
//    current origin and metadata, with a reverse index by origin path.
//
// 4. Layer: one per configured Entry. It drives Scanner, AdmissionFilter, the
//    Classifier and the PathFormatter, runs the link decision policy against the
//    Registry and hands the resulting destinations to the Applier.
//
// 5. Applier: materializes registry state on disk (mkdir, remove, symlink).
//
// The Classifier and PathFormatter are collaborators supplied by the caller
// (see core/media and core/naming).
//
// # Decision Policy
//
// A candidate (destination, origin, metadata) is linked when no record exists at
// the destination. When a different origin already owns the destination, the
// candidate only wins if the entry enables useHighestQuality and its quality is a
// strictly greater integer than the existing one. Decide and upsert happen under
// the registry lock, so concurrent candidates for the same destination are
// serialized.
//
// # Failure Semantics
//
// Files of a directory, and directories of an entry, are processed as
// errgroup batches: the first failing task cancels its siblings and fails the
// pass. Filesystem errors while applying or removing links are logged and
// swallowed; the next full pass repairs most drift.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(cfg.Organize, reconcile.Dependencies{
//	    Fs:         afero.NewOsFs(),
//	    Classifier: media.NewClassifier(),
//	    Formatter:  naming.NewFormatter(),
//	}, logger)
//
//	results, err := engine.OrganizeAll(ctx, reconcile.PassOptions{})
package reconcile
