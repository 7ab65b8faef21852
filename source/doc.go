// Package source provides position-addressed byte sources.
//
// A [RandomAccessSource] reads bytes by absolute offset and never exposes a
// cursor. Reads at or after the end of a source return the [EOF] sentinel
// (-1) rather than an error, so ordinary end-of-data is checked through return
// values. Errors are reserved for genuine I/O failures of the backing store.
//
// # Implementations
//
//   - [ArraySource] serves an in-memory byte slice.
//   - [ReaderAtSource] serves any io.ReaderAt of known size, typically an *os.File.
//   - [MmapSource] serves a memory-mapped file.
//   - [WindowSource] is a fixed window onto another source.
//   - [GroupedSource] stitches several sources into one contiguous address space.
//   - [PagedSource] splits one large backing store into fixed-size pages.
//
// # Cursors
//
// [Reader] layers a cursor over any source and implements io.Reader,
// io.ReaderAt, io.Seeker and io.ByteScanner, which is what the PDF object
// parser consumes.
//
// # Concurrency
//
// Sources are not safe for concurrent use. [GroupedSource] in particular keeps
// a mutable single-entry cache of the child it used last; goroutines that read
// the same document must each open their own source or serialise access.
package source
