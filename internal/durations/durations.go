// Package durations sums time-of-day style duration tokens.
//
// Tokens are hh:mm:ss or hh:mm; a missing seconds field counts as zero,
// so "10:00" is ten hours, not ten minutes. The summed total is formatted
// as hh:mm:ss and the hour field may exceed 24.
package durations

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Parse converts a single hh:mm:ss or hh:mm token into a duration.
func Parse(token string) (time.Duration, error) {
	fields := strings.Split(token, ":")
	if len(fields) != 2 && len(fields) != 3 {
		return 0, fmt.Errorf("malformed duration %q: want hh:mm:ss or hh:mm", token)
	}

	var parts [3]int64
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("malformed duration %q: field %q is not a non-negative integer", token, f)
		}
		parts[i] = n
	}

	return time.Duration(parts[0])*time.Hour +
		time.Duration(parts[1])*time.Minute +
		time.Duration(parts[2])*time.Second, nil
}

// Sum reads whitespace-separated duration tokens from r and returns their
// total. No tokens at all is a valid zero total.
func Sum(r io.Reader) (time.Duration, error) {
	var total time.Duration

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		d, err := Parse(scanner.Text())
		if err != nil {
			return 0, err
		}
		total += d
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading input: %w", err)
	}

	return total, nil
}

// Format renders a duration as hh:mm:ss, zero-padded, hours unbounded.
func Format(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}
