// SPDX-License-Identifier: EPL-2.0

// Package storage opens engine assets from a filesystem.
//
// A Store works on any afero.Fs: the OS filesystem (usually rooted at an SD
// card mount with NewOS), an in-memory filesystem in tests, or a read-only
// overlay. Raw assets are streamed straight from their file. Files whose
// extension has a decoder in the Store's registry (AIFF and WAV by default)
// are decoded once into signed 8-bit bytes and kept in memory.
//
// Assets that loop are rewound at the end of every pass, so it can pay to
// keep hot raw files in memory as well:
//
//	store := storage.NewOS("/sd")
//	if err := store.Preload("/engine.raw", "/idle.raw"); err != nil {
//	    log.Warn("preload", "error", err)
//	}
package storage
