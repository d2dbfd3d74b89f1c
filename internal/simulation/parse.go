package simulation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/trajmap/internal/models"
)

// AutoOffset selects the aim row coordinate offset from the row width:
// three fields means the row is bare x, y, z; anything wider carries a leading id column.
const AutoOffset = -1

// ErrMalformedResult is returned when the engine text does not have the expected layout.
var ErrMalformedResult = errors.New("malformed engine result")

// ResultLayout locates the x, y, z fields within engine result rows.
type ResultLayout struct {
	AimOffset    int // offset of x in row 0, or AutoOffset
	StrikeOffset int // offset of x in rows 1..N
}

// DefaultLayout matches mc_run_wrapper: row 0 detected automatically, strike rows "t, x, y, z, ...".
func DefaultLayout() ResultLayout {
	return ResultLayout{AimOffset: AutoOffset, StrikeOffset: 1}
}

// ParseResult splits engine text into the achieved aim point and the strike points, in row order.
func ParseResult(text string, layout ResultLayout) (models.CartesianPoint, []models.CartesianPoint, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.CartesianPoint{}, nil, fmt.Errorf("%w: no rows", ErrMalformedResult)
	}

	lines := strings.Split(trimmed, "\n")
	rows := make([][]float64, len(lines))
	for i, line := range lines {
		row, err := parseRow(line)
		if err != nil {
			return models.CartesianPoint{}, nil, fmt.Errorf("%w: row %d: %w", ErrMalformedResult, i, err)
		}
		rows[i] = row
	}

	aimOffset := layout.AimOffset
	if aimOffset == AutoOffset {
		aimOffset = 1
		if len(rows[0]) == 3 {
			aimOffset = 0
		}
	}

	aim, err := pointAt(rows[0], aimOffset)
	if err != nil {
		return models.CartesianPoint{}, nil, fmt.Errorf("%w: row 0: %w", ErrMalformedResult, err)
	}

	strikes := make([]models.CartesianPoint, 0, len(rows)-1)
	for i, row := range rows[1:] {
		p, err := pointAt(row, layout.StrikeOffset)
		if err != nil {
			return models.CartesianPoint{}, nil, fmt.Errorf("%w: row %d: %w", ErrMalformedResult, i+1, err)
		}
		strikes = append(strikes, p)
	}

	return aim, strikes, nil
}

func parseRow(line string) ([]float64, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	row := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("field %d %q is not a number", i, field)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("field %d %q is not finite", i, field)
		}
		row[i] = v
	}
	return row, nil
}

func pointAt(row []float64, offset int) (models.CartesianPoint, error) {
	if offset < 0 || len(row) < offset+3 {
		return models.CartesianPoint{}, fmt.Errorf("need coordinates at fields %d..%d, row has %d fields",
			offset, offset+2, len(row))
	}
	return models.CartesianPoint{X: row[offset], Y: row[offset+1], Z: row[offset+2]}, nil
}
