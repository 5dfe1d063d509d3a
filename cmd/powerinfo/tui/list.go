package tui

// listCursor tracks the highlighted row and scroll offset of a list.
type listCursor struct {
	cursor int
	offset int
}

// move applies a navigation key to a list of n rows showing visible at once.
// It reports whether the key was a navigation key.
func (c *listCursor) move(key string, n, visible int) bool {
	visible = max(visible, 1)
	switch key {
	case "up", "k":
		c.cursor--
	case "down", "j":
		c.cursor++
	case "home", "g":
		c.cursor = 0
	case "end", "G":
		c.cursor = n - 1
	case "pgup":
		c.cursor -= visible
	case "pgdown":
		c.cursor += visible
	default:
		return false
	}
	c.clamp(n, visible)
	return true
}

// clamp keeps the cursor inside [0, n) and visible within the window.
func (c *listCursor) clamp(n, visible int) {
	c.cursor = max(min(c.cursor, n-1), 0)
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+visible {
		c.offset = c.cursor - visible + 1
	}
	c.offset = max(min(c.offset, n-visible), 0)
}

func (c *listCursor) reset() {
	c.cursor, c.offset = 0, 0
}
