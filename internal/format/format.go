// Package format renders catalog entries as a line stream driven by a
// printf-like layout.
//
// A layout is literal text mixed with directives:
//
//	%p  "+", the entry is present
//	%T  type: - d l h c b p s (h wins over the file type for hardlinks)
//	%b  permission bits, four octal digits
//	%m  raw st_mode, decimal
//	%u  uid            %U  user name
//	%g  gid            %G  group name
//	%l  encoded name length
//	%s  size, or the path length for links
//	%n  path, followed by " -> target" for links
//	%N  path only
//	%t  modification time, unix seconds
//	%H  content hash, or "-" when there is none
//	%%  a literal percent sign
//
// The escapes \n, \t and \\ are recognized in the layout as well.
package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/meigma/inventory"
	"github.com/meigma/inventory/internal/platform"
)

// Default is the layout used when none is configured.
const Default = "%p%T %b %u %g %l %s %n\n"

var (
	// ErrUnknownDirective is returned by New for a % followed by a letter
	// it does not know.
	ErrUnknownDirective = errors.New("format: unknown directive")

	// ErrTrailingPercent is returned by New for a layout ending in a lone %.
	ErrTrailingPercent = errors.New("format: layout ends with %")
)

const directives = "pTbmuUgGlsnNtH"

// op is either literal text (verb == 0) or a directive.
type op struct {
	lit  string
	verb byte
}

// Format is a compiled layout. It is safe for concurrent use.
type Format struct {
	ops []op
}

// New compiles layout.
func New(layout string) (*Format, error) {
	var (
		ops []op
		lit []byte
	)
	flush := func() {
		if len(lit) > 0 {
			ops = append(ops, op{lit: string(lit)})
			lit = lit[:0]
		}
	}

	for i := 0; i < len(layout); i++ {
		c := layout[i]
		switch {
		case c == '%':
			if i+1 == len(layout) {
				return nil, ErrTrailingPercent
			}
			i++
			v := layout[i]
			if v == '%' {
				lit = append(lit, '%')
				continue
			}
			if !isDirective(v) {
				return nil, fmt.Errorf("%w %%%c", ErrUnknownDirective, v)
			}
			flush()
			ops = append(ops, op{verb: v})

		case c == '\\' && i+1 < len(layout):
			switch layout[i+1] {
			case 'n':
				lit = append(lit, '\n')
			case 't':
				lit = append(lit, '\t')
			case '\\':
				lit = append(lit, '\\')
			default:
				lit = append(lit, c)
				continue
			}
			i++

		default:
			lit = append(lit, c)
		}
	}
	flush()
	return &Format{ops: ops}, nil
}

func isDirective(v byte) bool {
	return strings.IndexByte(directives, v) >= 0
}

// Append renders e and appends it to dst.
func (f *Format) Append(dst []byte, e *inventory.Entry) []byte {
	for _, o := range f.ops {
		if o.verb == 0 {
			dst = append(dst, o.lit...)
			continue
		}
		dst = appendDirective(dst, o.verb, e)
	}
	return dst
}

// Write renders e to w.
func (f *Format) Write(w io.Writer, e inventory.Entry) error {
	_, err := w.Write(f.Append(nil, &e))
	return err
}

// WriteCatalog renders every entry of cat to w in path order.
func (f *Format) WriteCatalog(w io.Writer, cat *inventory.Catalog) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for e := range cat.All() {
		buf = f.Append(buf[:0], &e)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendDirective(dst []byte, verb byte, e *inventory.Entry) []byte {
	switch verb {
	case 'p':
		return append(dst, '+')
	case 'T':
		return append(dst, TypeChar(e))
	case 'b':
		perm := platform.ToUnixMode(e.Mode) & 0o7777
		return fmt.Appendf(dst, "%04o", perm)
	case 'm':
		return strconv.AppendUint(dst, uint64(platform.ToUnixMode(e.Mode)), 10)
	case 'u':
		return strconv.AppendUint(dst, uint64(e.UID), 10)
	case 'U':
		return append(dst, e.User...)
	case 'g':
		return strconv.AppendUint(dst, uint64(e.GID), 10)
	case 'G':
		return append(dst, e.Group...)
	case 'l':
		return strconv.AppendInt(dst, int64(e.NameSize()), 10)
	case 's':
		return strconv.AppendInt(dst, e.WireSize(), 10)
	case 'n':
		dst = append(dst, e.Path...)
		if e.IsLink() {
			dst = append(dst, inventory.LinkSeparator...)
			dst = append(dst, e.Target...)
		}
		return dst
	case 'N':
		return append(dst, e.Path...)
	case 't':
		if e.Mtime.IsZero() {
			return append(dst, '0')
		}
		return strconv.AppendInt(dst, e.Mtime.Unix(), 10)
	case 'H':
		if e.Hash == "" {
			return append(dst, '-')
		}
		return append(dst, e.Hash...)
	}
	return dst
}

// TypeChar returns the one-letter type code printed by %T.
func TypeChar(e *inventory.Entry) byte {
	if e.Hardlink {
		return 'h'
	}
	m := e.Mode
	switch {
	case m.IsDir():
		return 'd'
	case m&fs.ModeSymlink != 0:
		return 'l'
	case m&fs.ModeCharDevice != 0:
		return 'c'
	case m&fs.ModeDevice != 0:
		return 'b'
	case m&fs.ModeNamedPipe != 0:
		return 'p'
	case m&fs.ModeSocket != 0:
		return 's'
	}
	return '-'
}
