package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderRecruitment renders recruited against required as a bar like
// [████░░░░] 4/8. Over-recruitment fills the bar and keeps the real count.
// A task that asked for nobody shows only the count.
func RenderRecruitment(recruited, required, width int) string {
	if required <= 0 {
		return StyleDim.Render(fmt.Sprintf("%d recruited", recruited))
	}
	if width < 2 {
		width = 2
	}

	ratio := float64(recruited) / float64(required)
	filled := min(int(ratio*float64(width)), width)
	filled = max(filled, 0)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	switch {
	case recruited >= required:
		style = StyleGreen
	case ratio < 0.33:
		style = StyleRed
	}
	return fmt.Sprintf("[%s] %d/%d", style.Render(bar), recruited, required)
}
