package rw

import (
	"errors"
	"fmt"
	"io"
)

var ErrTooLarge = errors.New("input exceeds size limit")

// ReadAllLimit reads r to EOF, failing with ErrTooLarge once more than max
// bytes arrive. max <= 0 means no limit.
func ReadAllLimit(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, max)
	}
	return b, nil
}
