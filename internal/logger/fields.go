package logger

import (
	"github.com/rs/zerolog"

	"github.com/lokal-dev/lokal/internal/structure"
)

// TreeSummary logs the shape of a structure tree without listing every path.
type TreeSummary struct {
	Tree structure.Node
}

func (s TreeSummary) MarshalZerologObject(e *zerolog.Event) {
	files := s.Tree.FileCount()
	dirs := 0
	_ = s.Tree.Walk(func(_ string, n structure.Node) error {
		if n.IsDir() {
			dirs++
		}
		return nil
	})
	e.Int("files", files).Int("dirs", dirs).Strs("top", s.Tree.Names())
}
