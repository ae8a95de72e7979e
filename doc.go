// Package miniply provides a streaming, read-only reader for the PLY
// polygon file format: ASCII, binary little-endian, and binary
// big-endian variants.
//
// A Reader exposes the header, lets callers load elements one at a
// time, extracts typed column data from a loaded element, and
// triangulates polygonal faces by ear clipping. There is no random
// access to elements already passed, and no support for writing PLY
// files.
package miniply
