package sgf

import (
	"io"
	"strings"

	sgf "gammon_sgf/internal/domain/sgf"
)

// SerializeSGF renders every top-level tree of c. Properties keep their
// order; each node starts on its own line.
func SerializeSGF(c *sgf.Collection) string {
	var builder strings.Builder
	for _, top := range c.Trees {
		builder.WriteString("(")
		serializeGameTree(&builder, c, top)
		builder.WriteString(")\n")
	}
	return builder.String()
}

func serializeGameTree(builder *strings.Builder, c *sgf.Collection, id sgf.TreeID) {
	tree := c.Tree(id)
	var buf []byte
	for i, nid := range tree.Nodes {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(";")
		for _, p := range c.Node(nid).Properties {
			buf = append(buf[:0], p.ID...)
			buf = append(buf, '[')
			buf = p.Value.AppendText(buf, false)
			buf = append(buf, ']')
			builder.Write(buf)
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("\n(")
		serializeGameTree(builder, c, child)
		builder.WriteString(")")
	}
}

// Write writes the serialized collection to w.
func Write(w io.Writer, c *sgf.Collection) (int64, error) {
	n, err := io.WriteString(w, SerializeSGF(c))
	return int64(n), err
}
