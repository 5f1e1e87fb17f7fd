// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

// Package storage persists trained model artifacts.
//
// Each artifact is gob encoded, checksummed with SHA-256 and gzip
// compressed. The store keeps every saved version on disk and tracks the
// latest one per name, so a retrain never overwrites the artifact a running
// process loaded.
//
// # Storage Format
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ModelMetadata)
//	  - CompressedData (gzip-compressed gob-encoded model state)
//
// # Usage Example
//
//	store, err := storage.NewStore("/var/lib/thrive/models")
//	if err != nil {
//	    return err
//	}
//
//	version := store.NextVersion("segmentation")
//	err = store.Save(ctx, "segmentation", version, model, storage.ModelMetadata{
//	    RunID:     runID,
//	    Records:   len(locations),
//	    TrainedAt: time.Now(),
//	})
//
//	var model segment.Model
//	meta, err := store.Load(ctx, "segmentation", 0, &model) // 0 = latest
//	if errors.Is(err, storage.ErrModelNotFound) {
//	    // no trained artifact yet
//	}
//
// # Atomic Writes
//
// Save encodes into a temp file in the store directory, fsyncs it and
// hard-links it into place. The link fails when the version already exists,
// so Save returns ErrVersionExists instead of replacing another process's
// artifact. Temp files left by a crash are removed when the store is opened.
//
// # Shared Directories
//
// thrive serve and thrive train may open the same directory. NextVersion,
// Load with version 0 and ListModels rescan the directory, so each process
// sees versions written by the other.
//
// # Data Integrity
//
// Load decompresses the payload, recomputes its SHA-256 and returns
// ErrChecksumMismatch when it differs from the stored checksum.
//
// # Thread Safety
//
// All store operations are safe for concurrent use. Loads of a fixed
// version share a read lock; Save, Prune and every rescan take the write
// lock.
package storage
