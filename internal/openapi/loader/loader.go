// Package loader reads store API documents from disk, an fs.FS or HTTP.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	pkgopenapi "github.com/goliatone/go-storeadmin/pkg/openapi"
)

var (
	// ErrHTTPDisabled is returned for URL sources when no client is set.
	ErrHTTPDisabled = errors.New("openapi loader: http support disabled")
	// ErrNoFileSystem is returned for fs sources without a filesystem.
	ErrNoFileSystem = errors.New("openapi loader: filesystem is not configured")
)

// maxDocument caps how much of a remote document is read.
const maxDocument = 4 << 20

// Loader implements pkgopenapi.Loader. The zero FileSystem still resolves
// the embedded store API by its location.
type Loader struct {
	files   fs.FS
	client  *http.Client
	timeout time.Duration
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New builds a Loader from a resolved config.
func New(cfg pkgopenapi.LoadConfig) *Loader {
	return &Loader{files: cfg.Files, client: cfg.HTTPClient(), timeout: cfg.Timeout}
}

// Load reads src and wraps the bytes in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	location := src.Location()
	if location == "" {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s source has no location", src.Kind())
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = readFile(location)
	case pkgopenapi.SourceKindFS:
		data, err = l.readFS(location)
	case pkgopenapi.SourceKindURL:
		data, err = l.fetch(ctx, location)
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgopenapi.Document{}, err
	}
	return pkgopenapi.NewDocument(src, data)
}
