package seq

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingHeader is returned by [Read] when sequence data appears before
// the first '>' header line.
var ErrMissingHeader = errors.New("sequence data before first FASTA header")

// maxLineSize bounds a single FASTA line. Unwrapped genome records can be
// far longer than bufio.Scanner's default 64 KiB.
const maxLineSize = 64 << 20

// Read parses all FASTA records from r.
//
// Header lines start with '>'; everything up to the next header is
// concatenated into the record's bases. Blank lines are ignored.
func Read(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		records []Record
		lines   []string
	)
	flush := func() {
		if len(lines) > 0 {
			records = append(records, FromLines(lines))
		}
		lines = lines[:0]
	}

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			lines = append(lines, line)
			continue
		}
		if len(lines) == 0 {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrMissingHeader)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan fasta: %w", err)
	}
	flush()
	return records, nil
}

// ReadFile parses a FASTA file. The path "-" reads from stdin and a ".gz"
// suffix is decompressed transparently.
func ReadFile(path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Read(rc)
}

func open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return fh, nil
	}
	gr, err := gzip.NewReader(fh)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{Reader: gr, Closer: fh}, nil
}

// WriteFASTA writes records as FASTA text, wrapping sequence lines at
// width bases. A width of zero or less writes each sequence on one line.
// Concatenating the non-header lines of a record restores its bases.
func WriteFASTA(w io.Writer, records []Record, width int) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintf(bw, ">%s\n", r.Name); err != nil {
			return err
		}
		bases := r.Bases()
		wrap := width
		if wrap <= 0 {
			wrap = len(bases)
		}
		for len(bases) > 0 {
			n := min(wrap, len(bases))
			if _, err := fmt.Fprintln(bw, bases[:n]); err != nil {
				return err
			}
			bases = bases[n:]
		}
	}
	return bw.Flush()
}
