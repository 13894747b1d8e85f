package graph

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	appErrors "github.com/pagerank-bench/pkg/errors"
)

// ReadMatrixMarket parses a Matrix Market coordinate file (the ".mtx"
// format most published graph datasets ship in) into an EdgeListGraph.
// Header
// comment lines ("%...") and the dimension line are skipped; each
// remaining line is "row col [weight]", 1-indexed, interpreted as a
// directed edge row -> col. Weights are ignored: this package implements
// unweighted PageRank only (see Non-goals).
func ReadMatrixMarket(r io.Reader) (*EdgeListGraph, error) {
	g := NewEdgeListGraph()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	sawDimensions := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if !sawDimensions {
			// rows cols nnz
			sawDimensions = true
			continue
		}
		if len(fields) < 2 {
			return nil, appErrors.Wrap(appErrors.CodeParseError, "malformed matrix market edge line", parseLineErr(lineNo))
		}
		row, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.CodeParseError, "invalid row index", err)
		}
		col, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.CodeParseError, "invalid column index", err)
		}
		g.AddEdge(row, col)
	}
	if err := scanner.Err(); err != nil {
		return nil, appErrors.Wrap(appErrors.CodeParseError, "failed to scan matrix market file", err)
	}
	if !sawDimensions {
		return nil, appErrors.New(appErrors.CodeEmptyFile, "matrix market file has no dimension line")
	}
	return g, nil
}

// ReadTemporalEdgeList parses a temporal edge list ("u v timestamp" per
// line, whitespace separated) into a static EdgeListGraph by discarding
// the timestamp column. Solvers operate on the collapsed static graph.
func ReadTemporalEdgeList(r io.Reader) (*EdgeListGraph, error) {
	g := NewEdgeListGraph()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	seenAny := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		u, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.CodeParseError, "invalid source vertex", err)
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.CodeParseError, "invalid destination vertex", err)
		}
		g.AddEdge(u, v)
		seenAny = true
	}
	if err := scanner.Err(); err != nil {
		return nil, appErrors.Wrap(appErrors.CodeParseError, "failed to scan temporal edge list", err)
	}
	if !seenAny {
		return nil, appErrors.New(appErrors.CodeEmptyFile, "temporal edge list is empty")
	}
	return g, nil
}

type parseLineError struct {
	line int
}

func (e parseLineError) Error() string {
	return "malformed line " + strconv.Itoa(e.line)
}

func parseLineErr(line int) error {
	return parseLineError{line: line}
}
