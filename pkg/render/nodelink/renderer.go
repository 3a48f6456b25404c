package nodelink

import (
	"context"
	"time"

	"github.com/matzehuels/graphstream/pkg/cache"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	gsio "github.com/matzehuels/graphstream/pkg/io"
	"github.com/matzehuels/graphstream/pkg/observability"
)

// Output formats understood by [Renderer.Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Renderer renders snapshots through a cache keyed by the DOT hash, so equal
// graph states are laid out once.
type Renderer struct {
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration
}

// NewRenderer returns a Renderer over c. A nil cache disables caching.
func NewRenderer(c cache.Cache, ttl time.Duration) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Renderer{Cache: c, Keyer: cache.NewDefaultKeyer(), TTL: ttl}
}

// Render produces s in format. DOT output is returned directly; SVG and PNG
// go through Graphviz and the cache.
func (r *Renderer) Render(ctx context.Context, s *gsio.Snapshot, opts Options, format string) (out []byte, err error) {
	dot := ToDOT(s, opts)
	if format == FormatDOT {
		return []byte(dot), nil
	}

	var renderFn func(context.Context, string) ([]byte, error)
	switch format {
	case FormatSVG:
		renderFn = RenderSVG
	case FormatPNG:
		renderFn = RenderPNG
	default:
		return nil, gserrors.New(gserrors.ErrCodeUnsupported, "render format %q", format)
	}

	key := r.Keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{
		Format:       format,
		Detailed:     opts.Detailed,
		UsePositions: opts.UsePositions,
	})
	return cache.GetOrCompute(ctx, r.Cache, cache.KeyTypeRender, key, r.TTL, func() ([]byte, error) {
		start := time.Now()
		out, err := renderFn(ctx, dot)
		observability.Replay().OnRenderComplete(ctx, format, time.Since(start), err)
		return out, err
	})
}
