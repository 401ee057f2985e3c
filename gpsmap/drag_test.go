package gpsmap

import "testing"

func newDrag() *dragState {
	return &dragState{limit: 10}
}

func TestDragBelowThresholdIsClick(t *testing.T) {
	d := newDrag()
	d.press(100, 100, 5000, 6000, false)

	// 9 pixels of travel, under the 10 pixel limit
	for _, p := range []struct{ x, y int }{{103, 100}, {106, 100}, {109, 100}} {
		if d.motion(p.x, p.y) {
			t.Errorf("motion to (%d,%d) reported a repaint below the threshold", p.x, p.y)
		}
	}
	if d.dragging {
		t.Error("dragging set below the threshold")
	}
	if _, _, ok := d.release(109, 100); ok {
		t.Error("below-threshold release committed a pan")
	}
}

func TestDragCommitsPastThreshold(t *testing.T) {
	d := newDrag()
	d.press(100, 100, 5000, 6000, false)

	if !d.motion(111, 100) {
		t.Fatal("11 pixel motion did not commit the drag")
	}
	if !d.dragging {
		t.Fatal("dragging not set after commit")
	}
	if d.dx != 11 || d.dy != 0 {
		t.Errorf("displacement = (%d,%d), want (11,0)", d.dx, d.dy)
	}

	// once committed, every motion updates, threshold no longer applies
	if !d.motion(112, 103) {
		t.Error("post-commit motion not reported")
	}
	if d.dx != 12 || d.dy != 3 {
		t.Errorf("displacement = (%d,%d), want (12,3)", d.dx, d.dy)
	}

	mapX, mapY, ok := d.release(130, 90)
	if !ok {
		t.Fatal("committed drag did not commit on release")
	}
	if mapX != 5000+(100-130) || mapY != 6000+(100-90) {
		t.Errorf("origin = (%d,%d), want (%d,%d)", mapX, mapY, 4970, 6010)
	}
}

func TestDragKeepsDisplacementAfterRelease(t *testing.T) {
	d := newDrag()
	d.press(0, 0, 0, 0, false)
	d.motion(50, 20)
	d.release(50, 20)

	if d.dx != 50 || d.dy != 20 {
		t.Errorf("displacement cleared on release: (%d,%d)", d.dx, d.dy)
	}
}

func TestDragRejectedSequence(t *testing.T) {
	d := newDrag()
	d.press(100, 100, 5000, 6000, true)

	if d.motion(300, 300) {
		t.Error("rejected sequence reported a repaint")
	}
	if d.dragging {
		t.Error("rejected sequence started dragging")
	}
	if _, _, ok := d.release(300, 300); ok {
		t.Error("rejected sequence committed a pan")
	}
}

func TestDragCancelCommitsDisplayedOffset(t *testing.T) {
	d := newDrag()
	d.press(400, 300, 5000, 6000, false)
	d.motion(420, 310)

	// the on-screen shift is +20/+10; a cancelled drag must settle exactly
	// there, not at some position the cancel event pretends to carry
	mapX, mapY, ok := d.cancel()
	if !ok {
		t.Fatal("cancelled committed drag did not adopt an origin")
	}
	if mapX != 4980 || mapY != 5990 {
		t.Errorf("origin = (%d,%d), want (4980,5990)", mapX, mapY)
	}
}

func TestDragCancelAbandonsArmedSequence(t *testing.T) {
	d := newDrag()
	d.press(400, 300, 5000, 6000, false)
	d.motion(403, 300)

	if _, _, ok := d.cancel(); ok {
		t.Error("below-threshold cancel committed a pan")
	}
	if d.motion(500, 500) {
		t.Error("cancelled sequence still reports motion")
	}
}

func TestDragCancelRejectedSequence(t *testing.T) {
	d := newDrag()
	d.press(100, 100, 5000, 6000, true)
	d.motion(300, 300)

	if _, _, ok := d.cancel(); ok {
		t.Error("rejected sequence committed on cancel")
	}
}

func TestDragIgnoresMotionWithoutPress(t *testing.T) {
	d := newDrag()
	if d.motion(500, 500) {
		t.Error("motion without a press reported a repaint")
	}
	if _, _, ok := d.release(500, 500); ok {
		t.Error("release without a press committed")
	}
}

func TestDragSequencesAreIndependent(t *testing.T) {
	d := newDrag()

	d.press(0, 0, 1000, 1000, false)
	d.motion(40, 0)
	if mapX, _, ok := d.release(40, 0); !ok || mapX != 960 {
		t.Fatalf("first drag: mapX=%d ok=%v, want 960 true", mapX, ok)
	}

	// stale displacement from the first sequence must not leak into the next
	d.press(200, 200, 960, 1000, false)
	if d.dx != 0 || d.dy != 0 {
		t.Errorf("press did not reset displacement: (%d,%d)", d.dx, d.dy)
	}
	if d.motion(203, 203) {
		t.Error("second sequence committed below the threshold")
	}
}
