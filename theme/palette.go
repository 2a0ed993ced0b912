package theme

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type RGB [3]uint8

// Palette is an ordered list of colors. Note trails take the color at their
// phase index, so the palette length is the number of color phases.
type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette is the built-in set of note colors
func DefaultPalette() *Palette {
	return &Palette{
		Name: "trails",
		Colors: []RGB{
			{255, 3, 5},
			{233, 162, 74},
			{16, 68, 126},
			{97, 34, 16},
			{247, 253, 23},
			{0, 0, 0},
			{75, 182, 81},
		},
	}
}

// Load returns the palette at path, or the default palette for an empty path
func Load(path string) (*Palette, error) {
	if path == "" {
		return DefaultPalette(), nil
	}
	return LoadGPL(path)
}

func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// Parse RGB values (first 3 fields are R G B)
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			r, err1 := strconv.Atoi(fields[0])
			g, err2 := strconv.Atoi(fields[1])
			b, err3 := strconv.Atoi(fields[2])
			if err1 == nil && err2 == nil && err3 == nil && inByte(r, g, b) {
				p.Colors = append(p.Colors, RGB{uint8(r), uint8(g), uint8(b)})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", path)
	}

	return p, nil
}

// Len is the number of colors, never less than one for a loaded palette
func (p *Palette) Len() int {
	return len(p.Colors)
}

func inByte(vals ...int) bool {
	for _, v := range vals {
		if v < 0 || v > 255 {
			return false
		}
	}
	return true
}

// Index returns the color at i, wrapping around the palette
func (p *Palette) Index(i int) RGB {
	n := len(p.Colors)
	return p.Colors[(i%n+n)%n]
}
