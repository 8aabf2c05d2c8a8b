package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kgram/internal/domain"
)

// WriteMatrix writes one comma-separated row of 0/1 per vector.
func WriteMatrix(w io.Writer, vectors []domain.Vector) error {
	bw := bufio.NewWriter(w)
	for _, v := range vectors {
		for j, b := range v {
			if j > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			c := byte('0')
			if b != 0 {
				c = '1'
			}
			if err := bw.WriteByte(c); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteNames writes one document id per line.
func WriteNames(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, n := range names {
		if _, err := bw.WriteString(n); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadMatrix parses comma-separated numeric rows, as written by WriteMatrix
// or by any tool emitting a dense CSV matrix. Blank lines are skipped.
func ReadMatrix(r io.Reader) ([][]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 256*1024*1024)
	var rows [][]float64
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		row := make([]float64, len(fields))
		for j, f := range fields {
			x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("matrix line %d column %d: %w", line, j+1, err)
			}
			row[j] = x
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("matrix line %d: %d columns, want %d", line, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}

// ReadNames reads one name per line, dropping a trailing empty line.
func ReadNames(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	var names []string
	for sc.Scan() {
		names = append(names, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return names, sc.Err()
}
