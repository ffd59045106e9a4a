package loader

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	pkgopenapi "github.com/goliatone/go-storeadmin/pkg/openapi"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: %w", err)
	}
	return data, nil
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if l.files == nil {
		if name == pkgopenapi.EmbeddedLocation {
			return pkgopenapi.StoreAPIBytes(), nil
		}
		return nil, ErrNoFileSystem
	}
	data, err := fs.ReadFile(l.files, name)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: %w", err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.client == nil {
		return nil, ErrHTTPDisabled
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: %w", err)
	}
	req.Header.Set("Accept", "application/yaml, application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openapi loader: fetch %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocument))
}
