package miniply

import "io"

// defaultWindowSize is the scratch window capacity used when a reader is
// not constructed with WithWindowSize.
const defaultWindowSize = 128 * 1024

// byteReader is a buffered, windowed view over a seekable source. It
// refills its fixed-capacity window on demand and never exposes more
// than one window's worth of the underlying file at a time, so peak
// memory for header/body scanning is bounded by the window capacity
// regardless of file size.
//
// In text-safe mode (used while scanning the header and while reading
// ASCII element rows) the window never ends mid-token: refill trims the
// exposed boundary back to the last "safe" byte (whitespace, a control
// byte in [1,32], or a byte >= 127) so that keyword/identifier/literal
// lexing never has to worry about a token straddling a refill. The one
// exception is a full window that holds no safe byte at all: it is
// exposed whole, so the reader keeps making progress. Binary reads
// don't need the trim, since callers always call ensure(n) for the
// exact field width before reading it.
type byteReader struct {
	src io.ReadSeeker

	window []byte // fixed-capacity scratch buffer, always repacked to index 0
	pos    int    // read cursor, 0 <= pos <= end
	end    int    // safe exposed boundary, end <= bufEnd
	bufEnd int    // actual filled extent of window

	fileOffset int64 // absolute file offset corresponding to window[0]
	atEOF      bool  // true once src has reported EOF
	readErr    error // first non-EOF error reported by src

	textSafe  bool // apply the safe-byte trim on refill
	bigEndian bool // swap multi-byte fields read through this reader
}

func newByteReader(src io.ReadSeeker, windowSize int) *byteReader {
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	return &byteReader{
		src:      src,
		window:   make([]byte, windowSize),
		textSafe: true,
	}
}

// peek returns the byte at the cursor, or the end-of-window sentinel 0
// if no byte is currently available there.
func (b *byteReader) peek() byte {
	if b.pos >= b.end {
		return 0
	}
	return b.window[b.pos]
}

// ensure guarantees that n bytes are available starting at pos,
// refilling from the source as needed. It returns false if the source
// cannot supply n bytes (EOF reached too soon), or if n exceeds the
// window capacity.
func (b *byteReader) ensure(n int) bool {
	if n > len(b.window) {
		return false
	}
	for b.pos+n > b.end {
		if !b.refill() {
			return b.pos+n <= b.end
		}
	}
	return true
}

// advanceBytes moves pos forward by n, refilling as needed. It returns
// false (and leaves pos at the point of failure) if the file ends
// before n bytes could be consumed.
func (b *byteReader) advanceBytes(n int) bool {
	for n > 0 {
		if b.pos >= b.end {
			if !b.refill() {
				return false
			}
			continue
		}
		step := b.end - b.pos
		if step > n {
			step = n
		}
		b.pos += step
		n -= step
	}
	return true
}

// seekForward repositions the reader at an absolute file offset,
// discarding the current window contents. Used only to skip past the
// on-disk footprint of an unloaded fixed-size element.
func (b *byteReader) seekForward(absoluteOffset int64) bool {
	if _, err := b.src.Seek(absoluteOffset, io.SeekStart); err != nil {
		return false
	}
	b.fileOffset = absoluteOffset
	b.pos, b.end, b.bufEnd = 0, 0, 0
	b.atEOF = false
	return true
}

// refill moves the unread tail of the window to the front, reads more
// bytes from the source, and recomputes the exposed safe boundary. It
// returns false if no further bytes became available (the caller has
// hit true EOF with nothing left in the window).
func (b *byteReader) refill() bool {
	remaining := b.bufEnd - b.pos
	if remaining > 0 && b.pos > 0 {
		copy(b.window[:remaining], b.window[b.pos:b.bufEnd])
	}
	b.fileOffset += int64(b.pos)
	b.pos = 0
	b.bufEnd = remaining

	grew := false
	if !b.atEOF {
		n, err := b.src.Read(b.window[b.bufEnd:])
		if n > 0 {
			b.bufEnd += n
			grew = true
		}
		if err != nil {
			b.atEOF = true
			if err != io.EOF && b.readErr == nil {
				b.readErr = err
			}
		}
	}

	prevEnd := b.end
	if b.textSafe {
		b.end = b.safeBoundary()
	} else {
		b.end = b.bufEnd
	}
	return grew || b.end > prevEnd
}

// safeBoundary scans backward from bufEnd for the last byte that is
// whitespace, a control byte in [1,32], or >= 127 — a position where no
// lexer token can straddle the boundary. If the source is exhausted
// (atEOF), the whole filled window is safe to expose. A full window
// with no safe byte is also exposed whole, since trimming it would
// leave nothing readable and no refill could add more.
func (b *byteReader) safeBoundary() int {
	if b.atEOF {
		return b.bufEnd
	}
	for i := b.bufEnd - 1; i >= b.pos; i-- {
		c := b.window[i]
		if c <= 32 || c >= 127 {
			return i + 1
		}
	}
	if b.bufEnd == len(b.window) {
		return b.bufEnd
	}
	return b.pos
}

// setTextSafe toggles the safe-byte boundary trim. Header scanning and
// ASCII row parsing need it (so a token never straddles a refill);
// binary row parsing does not, and in fact must not apply it, since
// arbitrary control bytes are common and meaningful in binary payloads.
func (b *byteReader) setTextSafe(v bool) {
	b.textSafe = v
	if !v {
		b.end = b.bufEnd
	}
}

// absolutePos returns the file offset of the next unread byte.
func (b *byteReader) absolutePos() int64 {
	return b.fileOffset + int64(b.pos)
}

// readBytes returns the next n bytes as a newly allocated slice. A
// request the window can satisfy is copied out of it, leaving any
// surplus buffered bytes in place for the next caller. A larger
// request drains the window and reads the remainder directly from the
// source — fixed-size element payloads are routinely larger than the
// window capacity — leaving the window empty, with the source cursor
// already past the payload.
func (b *byteReader) readBytes(n int) ([]byte, bool) {
	out := make([]byte, n)
	avail := b.bufEnd - b.pos
	if avail >= n {
		copy(out, b.window[b.pos:b.pos+n])
		b.pos += n
		return out, true
	}

	if avail > 0 {
		copy(out[:avail], b.window[b.pos:b.pos+avail])
	}
	absoluteNext := b.fileOffset + int64(b.pos) + int64(n)

	ok := true
	m, err := io.ReadFull(b.src, out[avail:])
	if avail+m != n || err != nil {
		ok = false
	}

	b.pos, b.end, b.bufEnd = 0, 0, 0
	b.fileOffset = absoluteNext
	return out, ok
}

// swap16 reverses a 2-byte field in place.
func swap16(data []byte) {
	data[0], data[1] = data[1], data[0]
}

// swap32 reverses a 4-byte field in place.
func swap32(data []byte) {
	data[0], data[3] = data[3], data[0]
	data[1], data[2] = data[2], data[1]
}

// swap64 reverses an 8-byte field in place: copy into a temporary,
// reverse it, copy back.
func swap64(data []byte) {
	var tmp [8]byte
	copy(tmp[:], data)
	for i := 0; i < 8; i++ {
		data[i] = tmp[7-i]
	}
}

// swapScalar reverses the bytes of a single scalar field of the given
// type, in place, according to its size.
func swapScalar(data []byte, t ScalarType) {
	switch t.Size() {
	case 2:
		swap16(data)
	case 4:
		swap32(data)
	case 8:
		swap64(data)
	}
}
