package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const promptAttempts = 3

var errNoInput = errors.New("no input")

// promptInt asks for a positive integer, asking again on bad input.
func promptInt(r *bufio.Reader, w io.Writer, prompt string) (int, error) {
	var lastErr error
	for attempt := 0; attempt < promptAttempts; attempt++ {
		fmt.Fprint(w, prompt)

		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("%s %w", strings.TrimSpace(prompt), errNoInput)
			}
			return 0, err
		}

		n, convErr := strconv.Atoi(line)
		switch {
		case convErr != nil:
			lastErr = fmt.Errorf("%q is not a number", line)
		case n < 1:
			lastErr = fmt.Errorf("%d is not a positive number", n)
		default:
			return n, nil
		}
		fmt.Fprintf(w, "%v, try again.\n", lastErr)
	}
	return 0, fmt.Errorf("%s gave up after %d attempts: %w", strings.TrimSpace(prompt), promptAttempts, lastErr)
}
