package geometry

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/koios/mockup-renderer/pkg/models"
)

// SVG renders g as a standalone SVG document. The body is a single even-odd
// path so the screen stays transparent when the document is re-imported as
// a frame.
func SVG(g FrameGeometry) []byte {
	var b bytes.Buffer
	w, h := formatFloat(g.Width), formatFloat(g.Height)

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n", w, h, w, h)
	b.WriteString("<defs>\n")
	for _, m := range g.Materials {
		writeGradient(&b, m)
	}
	for _, s := range g.Highlights {
		if s.Gradient != nil {
			writeGradient(&b, *s.Gradient)
		}
	}
	if sh := g.Island.Shadow; sh != nil {
		fmt.Fprintf(&b, `<filter id="shadow-%s" x="-20%%" y="-40%%" width="140%%" height="180%%">`+
			`<feDropShadow dx="%s" dy="%s" stdDeviation="%s" flood-color="#000000" flood-opacity="%s"/></filter>`+"\n",
			g.Island.Name, formatFloat(sh.DX), formatFloat(sh.DY), formatFloat(sh.Sigma), formatFloat(opacity(sh.Color)))
	}
	b.WriteString("</defs>\n")

	body := g.Outer.Append(g.Cutout).SVG()
	fmt.Fprintf(&b, `<path d="%s" fill-rule="evenodd" fill="%s"/>`+"\n", body, hex(g.Body))
	for _, m := range g.Materials {
		fmt.Fprintf(&b, `<path d="%s" fill-rule="evenodd" fill="url(#%s)"/>`+"\n", body, m.ID)
	}

	writeStroke(&b, g.Ring)
	writeAccent(&b, g.Island)
	for _, s := range g.Highlights {
		writeStroke(&b, s)
	}
	for _, a := range g.Buttons {
		writeAccent(&b, a)
	}

	b.WriteString("</svg>\n")
	return b.Bytes()
}

func writeGradient(b *bytes.Buffer, g LinearGradient) {
	fmt.Fprintf(b, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`,
		g.ID, formatFloat(g.X0), formatFloat(g.Y0), formatFloat(g.X1), formatFloat(g.Y1))
	for _, s := range g.Stops {
		fmt.Fprintf(b, `<stop offset="%s" stop-color="%s" stop-opacity="%s"/>`,
			formatFloat(s.Offset), hex(s.Color), formatFloat(opacity(s.Color)))
	}
	b.WriteString("</linearGradient>\n")
}

func writeStroke(b *bytes.Buffer, s Stroke) {
	if s.Width <= 0 {
		return
	}
	paint := fmt.Sprintf(`stroke="%s" stroke-opacity="%s"`, hex(s.Color), formatFloat(opacity(s.Color)))
	if s.Gradient != nil {
		paint = fmt.Sprintf(`stroke="url(#%s)"`, s.Gradient.ID)
	}
	fmt.Fprintf(b, `<path d="%s" fill="none" %s stroke-width="%s"/>`+"\n", s.Path.SVG(), paint, formatFloat(s.Width))
}

func writeAccent(b *bytes.Buffer, a Accent) {
	filter := ""
	if a.Shadow != nil {
		filter = fmt.Sprintf(` filter="url(#shadow-%s)"`, a.Name)
	}
	writeShape(b, a.Shape, filter)
	if a.Sheen != nil {
		writeShape(b, *a.Sheen, "")
	}
}

func writeShape(b *bytes.Buffer, s Shape, extra string) {
	fmt.Fprintf(b, `<path d="%s" fill="%s" fill-opacity="%s"%s/>`+"\n",
		s.Path().SVG(), hex(s.Fill), formatFloat(opacity(s.Fill)), extra)
}

func hex(c color.NRGBA) string {
	c.A = 0xff
	return models.HexColor(c)
}

func opacity(c color.NRGBA) float64 {
	return float64(c.A) / 255
}
