package interact

import (
	"github.com/inamate/whiteboard/internal/geom"
	"github.com/inamate/whiteboard/internal/render"
)

// Resize moves the corner under handle h by d while the opposite corner
// stays put. Width and height never drop below minW and minH; when the
// floor applies the anchored corner still does not move.
func Resize(r geom.Rect, h render.Handle, d geom.Point, minW, minH float64) geom.Rect {
	out := r
	left := h == render.TopLeft || h == render.BottomLeft
	top := h == render.TopLeft || h == render.TopRight

	if left {
		out.X = r.X + d.X
		out.Width = r.Width - d.X
	} else {
		out.Width = r.Width + d.X
	}
	if top {
		out.Y = r.Y + d.Y
		out.Height = r.Height - d.Y
	} else {
		out.Height = r.Height + d.Y
	}

	if out.Width < minW {
		out.Width = minW
		if left {
			out.X = r.Right() - minW
		}
	}
	if out.Height < minH {
		out.Height = minH
		if top {
			out.Y = r.Bottom() - minH
		}
	}
	return out
}
