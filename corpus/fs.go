package corpus

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/unkn0wn-root/itfaker/codec"
	"github.com/unkn0wn-root/itfaker/weighted"
)

//go:embed data/*.json
var embedded embed.FS

// FS reads one document per category from a file system. The path of a
// category is fmt.Sprintf(pattern, category).
type FS struct {
	fsys    fs.FS
	pattern string
	codec   codec.Codec[Document]
}

var _ Source = (*FS)(nil)

// NewFS returns a file-backed source. A nil codec selects JSON.
func NewFS(fsys fs.FS, pattern string, c codec.Codec[Document]) *FS {
	if c == nil {
		c = codec.JSON[Document]{}
	}
	return &FS{fsys: fsys, pattern: pattern, codec: c}
}

// Embedded returns the corpus compiled into the package.
func Embedded() *FS {
	return NewFS(embedded, "data/%s.json", codec.JSON[Document]{})
}

// Dir reads <dir>/<category>.<ext> encoded in the given format.
func Dir(dir string, format codec.Format) (*FS, error) {
	c, err := codec.ByName[Document](format)
	if err != nil {
		return nil, err
	}
	return NewFS(os.DirFS(dir), "%s."+format.Ext(), c), nil
}

func (s *FS) Load(ctx context.Context, category string) ([]weighted.Item[string], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := fmt.Sprintf(s.pattern, category)
	b, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q (%s)", ErrCategoryNotFound, category, name)
		}
		return nil, fmt.Errorf("corpus: read %s: %w", name, err)
	}
	doc, err := s.codec.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("corpus: decode %s: %w", name, err)
	}
	return doc.Items, nil
}
