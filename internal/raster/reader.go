package raster

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

// ReadASC parses an ESRI ASCII grid. The header keys ncols, nrows,
// xllcorner, yllcorner, and cellsize are required; NODATA_value is optional.
// Header keys are case-insensitive. The frame is supplied by the caller
// because the format carries none.
func ReadASC(r io.Reader, f domain.ReferenceFrame) (*Field, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	header := make(map[string]float64)
	var body []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		// Header lines are "key value" pairs with a non-numeric key.
		if len(fields) == 2 && !isNumeric(fields[0]) {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("asc header %s: %w", fields[0], err)
			}
			header[strings.ToLower(fields[0])] = v
			continue
		}
		body = append(body, fields...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("asc scan: %w", err)
	}

	for _, key := range []string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize"} {
		if _, ok := header[key]; !ok {
			return nil, fmt.Errorf("asc header missing %s", key)
		}
	}

	cols := int(header["ncols"])
	rows := int(header["nrows"])
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("asc grid dimensions invalid: %dx%d", cols, rows)
	}
	cell := header["cellsize"]
	if cell <= 0 {
		return nil, fmt.Errorf("asc cellsize must be positive, got %g", cell)
	}
	if len(body) != cols*rows {
		return nil, fmt.Errorf("asc grid has %d values, want %d", len(body), cols*rows)
	}

	data := make([]float64, len(body))
	for i, s := range body {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("asc value %d: %w", i, err)
		}
		data[i] = v
	}

	field := NewField(cols, rows, header["xllcorner"], header["yllcorner"], cell, data, f)
	if nd, ok := header["nodata_value"]; ok {
		field.SetNoData(nd)
	}
	return field, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
