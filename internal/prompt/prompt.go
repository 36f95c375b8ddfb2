package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kjstillabower/weather-report/internal/models"
	"github.com/kjstillabower/weather-report/internal/validation"
)

const (
	Banner = "Welcome to the Weather Report App! This program provides the current weather information of any city in the U.S."
	Prompt = "Please enter the U.S. city you want to check the weather for (city name, state code): "
)

// Collector prompts once for a "City, ST" line and parses it.
type Collector struct {
	in     *bufio.Reader
	out    io.Writer
	maxLen int
}

// NewCollector reads from in and writes the banner and prompt to out.
// maxLen bounds the city name (0 disables the check).
func NewCollector(in io.Reader, out io.Writer, maxLen int) *Collector {
	return &Collector{
		in:     bufio.NewReader(in),
		out:    out,
		maxLen: maxLen,
	}
}

// Collect prints the banner and prompt, reads one line, and returns the parsed query.
// A final line without a trailing newline is accepted. Cancelling ctx while the
// read is blocked returns ctx.Err() immediately; the pending read is abandoned.
func (c *Collector) Collect(ctx context.Context) (models.LocationQuery, error) {
	err := ctx.Err()
	if err != nil {
		return models.LocationQuery{}, err
	}
	if _, err := fmt.Fprintln(c.out, Banner); err != nil {
		return models.LocationQuery{}, fmt.Errorf("write banner: %w", err)
	}
	if _, err := fmt.Fprint(c.out, Prompt); err != nil {
		return models.LocationQuery{}, fmt.Errorf("write prompt: %w", err)
	}

	type readResult struct {
		line string
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		done <- readResult{line: line, err: err}
	}()

	var line string
	select {
	case <-ctx.Done():
		return models.LocationQuery{}, ctx.Err()
	case r := <-done:
		line = r.line
		err = r.err
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return models.LocationQuery{}, fmt.Errorf("read input: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			return models.LocationQuery{}, validation.ErrNoInput
		}
	}

	query, err := validation.ParseLocation(line, c.maxLen)
	if err != nil {
		return models.LocationQuery{}, fmt.Errorf("parse input %q: %w", strings.TrimSpace(line), err)
	}
	return query, nil
}
