// Package batch runs a list of directory transfers read from a plan file with
// bounded concurrency and summarizes their outcome.
package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gns3/gns3-desktop/internal/pathutil"
	"github.com/gns3/gns3-desktop/internal/transfer"
)

// Job is one line of a plan file.
type Job struct {
	Line    int // 1-based line number in the plan file
	Request transfer.Request
}

// Plan parsing errors
var (
	ErrEmptyPlan         = errors.New("plan contains no transfers")
	ErrMalformedLine     = errors.New("expected: copy|move <source> <destination>")
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

// LoadJobs reads a plan file from disk.
func LoadJobs(path string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer f.Close()
	return ParseJobs(f)
}

// ParseJobs reads one transfer per line:
//
//	# comment
//	copy /data/images "/mnt/backup/GNS3 images"
//	move ~/projects/old /archive/projects
//
// Blank lines and lines starting with # are ignored. Paths containing spaces
// must be double-quoted. Every request is validated; the first invalid line
// aborts parsing.
func ParseJobs(r io.Reader) ([]Job, error) {
	var jobs []Job
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := splitFields(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedLine)
		}

		mode, err := transfer.ParseMode(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		req := transfer.Request{
			Source:      pathutil.ExpandHome(fields[1]),
			Destination: pathutil.ExpandHome(fields[2]),
			Mode:        mode,
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		jobs = append(jobs, Job{Line: lineNo, Request: req})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	if len(jobs) == 0 {
		return nil, ErrEmptyPlan
	}
	return jobs, nil
}

// splitFields splits on whitespace, keeping double-quoted runs together.
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		inQuote bool
		inField bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inField = true
		case !inQuote && (r == ' ' || r == '\t'):
			if inField {
				fields = append(fields, current.String())
				current.Reset()
				inField = false
			}
		default:
			current.WriteRune(r)
			inField = true
		}
	}
	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if inField {
		fields = append(fields, current.String())
	}
	return fields, nil
}
