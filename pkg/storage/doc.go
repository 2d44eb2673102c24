// Package storage persists the full dashboard state.
//
// Unlike share tokens, persisted state is lossless: every dashboard, widget
// config, layout and setting is written as a versioned JSON envelope.
// Backends:
//   - file: a JSON file on disk, for the CLI (with change notification)
//   - bolt: an embedded bbolt database
//   - redis: a single key in Redis, for servers sharing state
//   - mongo: a single document in MongoDB
//   - memory: in-process only, for tests and ephemeral servers
//
// # Versioning
//
// Envelopes carry StorageVersion. Loading an envelope written with a
// different version logs a warning and reports no state, so callers start
// from defaults instead of misreading old data.
//
// # Usage
//
//	st, err := storage.Open(ctx, storage.Options{Backend: storage.BackendFile, Path: path})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	state, err := st.Load(ctx)
//	if state == nil {
//	    // nothing saved yet
//	}
package storage
