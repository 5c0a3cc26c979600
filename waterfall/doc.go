// Package waterfall provides accessors over filterbank waterfalls: the
// frequency bounds, the polarization-0 time x frequency power matrix
// (linear or dB), and the frequency and time axes.
//
// Every accessor takes a [Handle], built either from a file path with
// [ByPath] or from an already loaded [filterbank.Waterfall] with [Loaded].
// Path handles are opened afresh on each call and only the parts needed are
// read; loaded handles are never modified.
//
// Failures are reported as one of three error kinds, tested with
// errors.Is: [ErrInvalidHandle] for a handle that names neither a path nor
// a waterfall, [ErrNoData] when the one-channel read used by [TimeAxis]
// comes back empty, and [ErrRead] for any failure of the underlying
// reader. [ErrRead] errors also wrap the reader's own error, so checks such
// as errors.Is(err, fs.ErrNotExist) keep working.
package waterfall
