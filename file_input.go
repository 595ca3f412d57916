package relex

import (
	"io"
	"os"

	"golang.org/x/text/transform"
)

// fileInput is an Input backed by an *os.File (or any io.Reader given a
// name), decoded from a detected or configured Encoding to canonical
// UTF-8 on the fly (spec §4.A "File encoding detection").
type fileInput struct {
	name string
	tr   io.Reader       // transform.Reader over the raw source, yielding UTF-8
	raw  *countingReader // tracks raw (pre-decode) bytes consumed, same unit as size
	enc  Encoding
	good bool
	eof  bool
	// sizeKnown/size cache the result of Size(), which for files is
	// computed by seeking to the end and back; spec forbids calling Size
	// after Get has started consuming without caller-side caching, so we
	// compute it eagerly in NewFile when the source is seekable.
	sizeKnown bool
	size      int
}

// countingReader tracks the cumulative count of raw bytes it has handed
// out. fileInput uses it to keep Size()'s remaining-byte count in the same
// unit (source bytes) that the initial seek-based count was computed in,
// since a transform.Reader decoding UTF-16/32 or a code page hands back a
// different number of (UTF-8) bytes per Read than it consumed from the
// source.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// FileOption configures NewFile.
type FileOption func(*fileOptions)

type fileOptions struct {
	enc  Encoding
	page *CustomCodePage
}

// WithEncoding overrides auto-detection (spec §4.A "file_encoding(enc,
// page?)"). page is required iff enc == EncCustom.
func WithEncoding(enc Encoding, page *CustomCodePage) FileOption {
	return func(o *fileOptions) {
		o.enc = enc
		o.page = page
	}
}

// NewFile returns an Input over f (typically an *os.File), auto-detecting
// a BOM-indicated encoding unless overridden with WithEncoding. name is
// used for diagnostics and Position formatting.
func NewFile(name string, f io.Reader, opts ...FileOption) (Input, error) {
	var fo fileOptions
	for _, o := range opts {
		o(&fo)
	}

	br, detected, bomLen := detectFileEncoding(f, fo.enc)
	_, _ = br.Discard(bomLen)

	xenc, err := asXTextEncoding(detected, fo.page)
	if err != nil {
		return nil, err
	}

	fi := &fileInput{
		name: name,
		enc:  detected,
		good: true,
	}
	fi.raw = &countingReader{r: br}
	fi.tr = transform.NewReader(fi.raw, xenc.NewDecoder())

	if sk, ok := f.(io.Seeker); ok {
		if cur, err := sk.Seek(0, io.SeekCurrent); err == nil {
			if end, err := sk.Seek(0, io.SeekEnd); err == nil {
				// cur is the underlying file's position after the bufio.Reader's
				// first fill (triggered by detectFileEncoding's Peek), which may
				// have already pulled far more than the BOM's few bytes into br's
				// buffer. The true remaining count is what's left on disk past
				// cur, plus whatever br is already holding (post-BOM-discard) and
				// hasn't handed out yet.
				fi.size = int(end-cur) + br.Buffered()
				fi.sizeKnown = true
				_, _ = sk.Seek(cur, io.SeekStart)
			}
		}
	}

	return fi, nil
}

// OpenFile opens name from disk and wraps it with NewFile.
func OpenFile(name string, opts ...FileOption) (Input, func() error, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	in, err := NewFile(name, f, opts...)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return in, f.Close, nil
}

func (f *fileInput) Get(dst []byte) int {
	if f.eof || len(dst) == 0 {
		return 0
	}
	rawBefore := 0
	if f.sizeKnown {
		rawBefore = f.raw.n
	}
	n, err := f.tr.Read(dst)
	if f.sizeKnown {
		f.size -= f.raw.n - rawBefore
	}
	if err != nil {
		if err == io.EOF {
			f.eof = true
		} else {
			f.good = false
		}
	}
	return n
}

func (f *fileInput) Size() int {
	if !f.sizeKnown {
		return 0
	}
	if f.size < 0 {
		return 0
	}
	return f.size
}

func (f *fileInput) Good() bool   { return f.good }
func (f *fileInput) EOF() bool    { return f.eof }
func (f *fileInput) Name() string { return f.name }

// Encoding returns the encoding that was detected or configured for f.
func (f *fileInput) Encoding() Encoding { return f.enc }
