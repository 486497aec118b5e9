package sensor

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/fittracker/internal/training"
)

var (
	// packageRe matches: RUN;15000;1;75
	packageRe = regexp.MustCompile(`^([A-Za-z]+)\s*((?:;\s*[^;]+?\s*)+);?$`)

	// columnHeaderRe matches: TYPE;ACTION;DURATION;WEIGHT[;...]
	columnHeaderRe = regexp.MustCompile(`^(?i)type;action;duration;weight(;.*)?$`)
)

// Line is a package together with the line it was read from.
type Line struct {
	Number  int
	Package training.Package
}

// Parse reads sensor packages, one per line. Blank lines, # comments and
// column headers are skipped. The type code is normalized but not checked;
// unknown codes are reported when the package is read.
func Parse(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	var lines []Line
	n := 0

	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if columnHeaderRe.MatchString(line) {
			continue
		}

		m := packageRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("line %d: malformed package %q", n, line)
		}

		var data []float64
		for _, field := range strings.Split(strings.TrimPrefix(strings.TrimSpace(m[2]), ";"), ";") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := parseEuropeanFloat(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: value %q: %w", n, field, err)
			}
			data = append(data, v)
		}

		lines = append(lines, Line{
			Number:  n,
			Package: training.Package{Code: training.NormalizeCode(m[1]), Data: data},
		})
	}

	return lines, scanner.Err()
}

// Packages strips line numbers from parsed lines.
func Packages(lines []Line) []training.Package {
	pkgs := make([]training.Package, len(lines))
	for i, l := range lines {
		pkgs[i] = l.Package
	}
	return pkgs
}

// parseEuropeanFloat accepts both "1.5" and "1,5".
func parseEuropeanFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}
