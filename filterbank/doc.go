// Package filterbank reads SIGPROC filterbank files.
//
// A filterbank file is a keyword header delimited by HEADER_START and
// HEADER_END followed by time-ordered spectra. Samples are laid out as
// [time][IF][channel] and stored as 8-bit or 16-bit unsigned integers or
// 32-bit floats, little endian.
//
// [ReadHeader] parses only the header. [Open] builds a [Waterfall] that
// exposes the header, the container frequency bounds and, unless
// [WithoutData] is given, the decoded samples. [WithFreqRange] and
// [Waterfall.Narrow] restrict the channels that are loaded.
package filterbank
