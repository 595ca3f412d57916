package relex

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// Encoding identifies a file's byte-level encoding, with stable numeric
// values expected by callers (spec §6 "Encoding constants").
type Encoding int

const (
	EncPlain Encoding = iota
	EncUTF8
	EncUTF16BE
	EncUTF16LE
	EncUTF32BE
	EncUTF32LE
	EncLatin1
	EncCP437
	EncCP850
	EncCP858
	EncEBCDIC
	EncCP1250
	EncCP1251
	EncCP1252
	EncCP1253
	EncCP1254
	EncCP1255
	EncCP1256
	EncCP1257
	EncCP1258
	EncCustom
)

func (e Encoding) String() string {
	switch e {
	case EncPlain:
		return "plain"
	case EncUTF8:
		return "utf-8"
	case EncUTF16BE:
		return "utf-16be"
	case EncUTF16LE:
		return "utf-16le"
	case EncUTF32BE:
		return "utf-32be"
	case EncUTF32LE:
		return "utf-32le"
	case EncLatin1:
		return "latin-1"
	case EncCP437:
		return "cp437"
	case EncCP850:
		return "cp850"
	case EncCP858:
		return "cp858"
	case EncEBCDIC:
		return "ebcdic"
	case EncCP1250, EncCP1251, EncCP1252, EncCP1253, EncCP1254, EncCP1255, EncCP1256, EncCP1257, EncCP1258:
		return fmt.Sprintf("cp125%d", int(e-EncCP1250))
	case EncCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// codePage maps the CP125x family onto golang.org/x/text/encoding/charmap's
// Windows-125x tables.
var codePage = [...]encoding.Encoding{
	EncCP1250 - EncCP1250: charmap.Windows1250,
	EncCP1251 - EncCP1250: charmap.Windows1251,
	EncCP1252 - EncCP1250: charmap.Windows1252,
	EncCP1253 - EncCP1250: charmap.Windows1253,
	EncCP1254 - EncCP1250: charmap.Windows1254,
	EncCP1255 - EncCP1250: charmap.Windows1255,
	EncCP1256 - EncCP1250: charmap.Windows1256,
	EncCP1257 - EncCP1250: charmap.Windows1257,
	EncCP1258 - EncCP1250: charmap.Windows1258,
}

// CustomCodePage is a user-supplied 256-entry table mapping each byte value
// 0..255 to a Unicode rune, used when Encoding is EncCustom (spec §4.A
// file_encoding(enc, page?): "page required iff enc == custom").
type CustomCodePage [256]rune

// asXTextEncoding builds the golang.org/x/text/encoding.Encoding that
// decodes enc to canonical UTF-8. page is only consulted for EncCustom.
func asXTextEncoding(enc Encoding, page *CustomCodePage) (encoding.Encoding, error) {
	switch enc {
	case EncPlain, EncUTF8:
		return encoding.Nop, nil
	case EncUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case EncUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case EncUTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), nil
	case EncUTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	case EncLatin1:
		return charmap.ISO8859_1, nil
	case EncCP437:
		return charmap.CodePage437, nil
	case EncCP850:
		return charmap.CodePage850, nil
	case EncCP858:
		return charmap.CodePage858, nil
	case EncEBCDIC:
		return charmap.CodePage037, nil
	case EncCP1250, EncCP1251, EncCP1252, EncCP1253, EncCP1254, EncCP1255, EncCP1256, EncCP1257, EncCP1258:
		return codePage[enc-EncCP1250], nil
	case EncCustom:
		if page == nil {
			return nil, fmt.Errorf("relex: EncCustom requires a CustomCodePage")
		}
		return &customEncoding{page: page}, nil
	default:
		return nil, fmt.Errorf("relex: unknown encoding %d", enc)
	}
}

// customEncoding adapts a CustomCodePage to encoding.Encoding via a
// transform.Transformer that expands each input byte to its mapped rune's
// UTF-8 encoding. It supports decoding only (custom code pages are always
// an input-side concept in this package).
type customEncoding struct {
	page *CustomCodePage
}

func (c *customEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &customDecoder{page: c.page}}
}

func (c *customEncoding) NewEncoder() *encoding.Encoder {
	panic("relex: custom code pages support decoding only")
}

type customDecoder struct{ page *CustomCodePage }

func (d *customDecoder) Reset() {}

func (d *customDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := d.page[src[nSrc]]
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		if nDst+n > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], buf[:n])
		nDst += n
		nSrc++
	}
	return nDst, nSrc, nil
}

// detectFileEncoding inspects the first up to 4 bytes of r via a
// bufio.Reader (so the peek does not consume bytes we have not accounted
// for) and returns the detected encoding, the number of BOM bytes to skip,
// and the peeking reader to continue reading from.
//
// Detection rules (spec §4.A):
//
//	EF BB BF            -> UTF-8 (BOM skipped)
//	FE FF                -> UTF-16BE
//	FF FE (not 00 00)    -> UTF-16LE
//	00 00 FE FF          -> UTF-32BE
//	FF FE 00 00          -> UTF-32LE
//	otherwise            -> configured encoding (default EncPlain)
func detectFileEncoding(r io.Reader, configured Encoding) (*bufio.Reader, Encoding, int) {
	br := bufio.NewReaderSize(r, 4096)
	head, _ := br.Peek(4)
	switch {
	case len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF:
		return br, EncUTF8, 3
	case len(head) >= 4 && head[0] == 0x00 && head[1] == 0x00 && head[2] == 0xFE && head[3] == 0xFF:
		return br, EncUTF32BE, 4
	case len(head) >= 4 && head[0] == 0xFF && head[1] == 0xFE && head[2] == 0x00 && head[3] == 0x00:
		return br, EncUTF32LE, 4
	case len(head) >= 2 && head[0] == 0xFE && head[1] == 0xFF:
		return br, EncUTF16BE, 2
	case len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE:
		return br, EncUTF16LE, 2
	default:
		return br, configured, 0
	}
}
