package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/causaltrail-go/engine/errs"
	"github.com/causaltrail-go/engine/internal/obs"
	"github.com/causaltrail-go/engine/matrix"
)

// LoadSampleMatrix reads a whitespace-separated sample file: one line per
// variable, the variable name followed by its observed value per sample
// ("NA" for missing), producing a Matrix<string> with rows = variables and
// columns = samples.
func LoadSampleMatrix(path string) (*matrix.Matrix[string], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", errs.ErrParse, path, err)
	}
	defer file.Close()

	var names []string
	var rows [][]string
	width := -1

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: malformed sample line %q", errs.ErrParse, line)
		}
		values := fields[1:]
		if width == -1 {
			width = len(values)
		} else if len(values) != width {
			return nil, fmt.Errorf("%w: variable %q has %d samples, want %d", errs.ErrShapeMismatch, fields[0], len(values), width)
		}
		names = append(names, fields[0])
		rows = append(rows, values)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.ErrParse, path, err)
	}
	if width < 0 {
		width = 0
	}

	m := matrix.New[string](len(names), width)
	if err := m.SetRowNames(names); err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, v := range row {
			m.Set(r, c, v)
		}
	}

	obs.Logger().Info().Str("file", path).Int("variables", len(names)).Int("samples", width).Msg("sample matrix loaded")
	return m, nil
}
