package protocol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// maxLineSize bounds a single record; failure stacks can be long.
const maxLineSize = 1024 * 1024

// ProcessFunc receives each decoded event in stream order
type ProcessFunc func(Event)

// Stream decodes r line by line as output arrives and calls fn for every
// event. It returns the number of lines that were skipped and the read
// error, if any. Undecodable or oversized lines never stop the stream, so r
// is always drained to EOF unless reading itself fails.
func Stream(r io.Reader, fn ProcessFunc) (int, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var (
		skipped int
		buf     []byte
	)
	for {
		line, tooLong, err := readLine(br, buf[:0])
		if err != nil {
			if errors.Is(err, io.EOF) {
				return skipped, nil
			}
			return skipped, fmt.Errorf("reading worker output: %w", err)
		}
		buf = line

		if tooLong {
			skipped++
			continue
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		event, ok := Decode(line)
		if !ok {
			skipped++
			continue
		}
		fn(event)
	}
}

// readLine returns the next line without its terminator. Lines longer than
// maxLineSize are consumed and reported as tooLong.
func readLine(br *bufio.Reader, buf []byte) ([]byte, bool, error) {
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return buf, tooLong, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				tooLong = true
				buf = buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return buf, tooLong, nil
		}
	}
}
