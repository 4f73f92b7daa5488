package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

type opKind int

const (
	opAlloc opKind = iota
	opFree
)

// op is one line of an allocation trace:
//
//	alloc <id> <bytes>
//	free <id>
type op struct {
	kind opKind
	id   string
	size uint64
	line int
}

func parseTrace(r io.Reader) ([]op, error) {
	var ops []op
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "alloc":
			if len(fields) != 3 {
				return nil, errors.Newf("line %d: expected \"alloc <id> <bytes>\"", line)
			}
			size, err := strconv.ParseUint(fields[2], 0, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: invalid size", line)
			}
			ops = append(ops, op{kind: opAlloc, id: fields[1], size: size, line: line})
		case "free":
			if len(fields) != 2 {
				return nil, errors.Newf("line %d: expected \"free <id>\"", line)
			}
			ops = append(ops, op{kind: opFree, id: fields[1], line: line})
		default:
			return nil, errors.Newf("line %d: unknown operation %q", line, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read trace")
	}
	return ops, nil
}
