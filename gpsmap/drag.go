package gpsmap

// dragState tracks one press-drag-release cycle. The counter encodes the
// machine's state: -1 the press was consumed elsewhere (or released) and the
// rest of the sequence is ignored, 0 armed but below the movement threshold,
// >0 a committed drag.
type dragState struct {
	counter    int
	buttonDown bool
	dragging   bool

	startMouseX int
	startMouseY int
	startMapX   int
	startMapY   int

	// displacement of the pointer since the press, applied as a blit
	// offset while the drag is in flight
	dx int
	dy int

	limit int
}

// press starts a new sequence. consumed marks the press as taken by an
// overlay layer, which rejects the whole sequence for panning.
func (d *dragState) press(x, y, mapX, mapY int, consumed bool) {
	d.buttonDown = true
	if consumed {
		d.counter = -1
		return
	}
	d.counter = 0
	d.startMouseX = x
	d.startMouseY = y
	d.startMapX = mapX
	d.startMapY = mapY
	d.dx = 0
	d.dy = 0
}

// motion feeds a pointer position and reports whether the screen owes a
// fast-path repaint. Below the threshold nothing happens; once the squared
// displacement passes limit² the drag commits and every further motion
// updates the displacement.
func (d *dragState) motion(x, y int) bool {
	if !d.buttonDown || d.counter < 0 {
		return false
	}
	if d.counter == 0 {
		ddx := x - d.startMouseX
		ddy := y - d.startMouseY
		if ddx*ddx+ddy*ddy < d.limit*d.limit {
			return false
		}
	}
	d.counter++
	d.dragging = true
	d.dx = x - d.startMouseX
	d.dy = y - d.startMouseY
	return true
}

// cancel ends the sequence without a trustworthy pointer position, as when
// the grab is stolen or the window loses focus mid-drag. A committed drag
// adopts the displacement already on screen; an armed or rejected sequence
// is abandoned.
func (d *dragState) cancel() (mapX, mapY int, ok bool) {
	if !d.buttonDown {
		return 0, 0, false
	}
	d.buttonDown = false
	committed := d.dragging
	d.dragging = false
	d.counter = -1

	if !committed {
		return 0, 0, false
	}
	return d.startMapX - d.dx, d.startMapY - d.dy, true
}

// release ends the sequence. For a committed drag it returns the map origin
// the viewport should adopt; a below-threshold release is a click and
// reports ok false. The displacement is deliberately kept until the next
// full recomposition zeroes it, so the stale surface is blitted at the
// right offset in the meantime.
func (d *dragState) release(x, y int) (mapX, mapY int, ok bool) {
	if !d.buttonDown {
		return 0, 0, false
	}
	d.buttonDown = false
	committed := d.dragging
	d.dragging = false
	d.counter = -1

	if !committed {
		return 0, 0, false
	}
	return d.startMapX + (d.startMouseX - x), d.startMapY + (d.startMouseY - y), true
}
