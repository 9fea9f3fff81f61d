package main

import (
	"math"
	"strings"

	"github.com/jwebster45206/mapquest/pkg/geo"
	"github.com/jwebster45206/mapquest/pkg/world"
)

const (
	glyphAdventurer = '@'
	glyphMonster    = 'M'
	glyphDefeated   = 'x'
	glyphNPC        = 'N'
	glyphStore      = '$'
	glyphWarp       = 'W'
	glyphReservoir  = '~'
	glyphEmpty      = '.'
)

// renderMap draws a cols x rows grid centered on pos, each cell cellMeters
// wide. Terminal cells are about twice as tall as wide, so a row covers
// twice the distance of a column.
func renderMap(pos geo.Coordinate, points []*world.PointOfInterest, reservoir geo.Polygon, cols, rows int, cellMeters float64) []string {
	if cols < 1 || rows < 1 {
		return nil
	}
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(glyphEmpty), cols))
	}

	place := func(c geo.Coordinate, glyph rune) {
		north, east := geo.Displacement(pos, c)
		col := cols/2 + int(math.Round(east/cellMeters))
		row := rows/2 - int(math.Round(north/(2*cellMeters)))
		if col >= 0 && col < cols && row >= 0 && row < rows {
			grid[row][col] = glyph
		}
	}

	for _, c := range reservoir {
		place(c, glyphReservoir)
	}
	for _, p := range points {
		place(p.Coordinate, glyphFor(p))
	}
	grid[rows/2][cols/2] = glyphAdventurer

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

func glyphFor(p *world.PointOfInterest) rune {
	switch p.Kind {
	case world.KindMonster:
		if !p.Active() {
			return glyphDefeated
		}
		return glyphMonster
	case world.KindNPC:
		return glyphNPC
	case world.KindStore:
		return glyphStore
	case world.KindWarpZone:
		return glyphWarp
	default:
		return '?'
	}
}
