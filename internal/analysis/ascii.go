package analysis

import "strings"

// PathToASCII scatters a trajectory onto a width x height character grid
// spanning [0, boxW] x [0, boxH].
func PathToASCII(track []Sample, boxW, boxH float64, width, height int) string {
	if len(track) == 0 || width < 2 || height < 2 || boxW <= 0 || boxH <= 0 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range track {
		col := int(p.X / boxW * float64(width-1))
		row := height - 1 - int(p.Y/boxH*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}
	first := track[0]
	col := int(first.X / boxW * float64(width-1))
	row := height - 1 - int(first.Y/boxH*float64(height-1))
	if row >= 0 && row < height && col >= 0 && col < width {
		canvas[row][col] = 'o'
	}

	var sb strings.Builder
	border := "+" + strings.Repeat("-", width) + "+\n"
	sb.WriteString(border)
	for _, r := range canvas {
		sb.WriteRune('|')
		sb.WriteString(string(r))
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}
