package integrations

import (
	"context"

	"github.com/kerbaras/mangaverse/pkg/data"
)

// Exporter writes the favorites to a file and returns its path.
type Exporter interface {
	Export(ctx context.Context, favorites data.Favorites) (string, error)
}
