package petfinder

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// tokenCache guarda un único access token hasta expiry-buffer.
// Los misses concurrentes comparten un solo request al token endpoint.
type tokenCache struct {
	mu     sync.Mutex
	token  *oauth2.Token
	buffer time.Duration
	now    func() time.Time

	group singleflight.Group
	fetch func(ctx context.Context) (*oauth2.Token, error)
}

func newTokenCache(buffer time.Duration, fetch func(ctx context.Context) (*oauth2.Token, error)) *tokenCache {
	return &tokenCache{
		buffer: buffer,
		now:    time.Now,
		fetch:  fetch,
	}
}

func (c *tokenCache) cached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil || c.token.AccessToken == "" {
		return "", false
	}
	// Expiry cero: el servidor no informó expires_in, vale hasta un 401.
	if !c.token.Expiry.IsZero() && !c.now().Before(c.token.Expiry.Add(-c.buffer)) {
		return "", false
	}
	return c.token.AccessToken, true
}

func (c *tokenCache) Token(ctx context.Context) (string, error) {
	if tok, ok := c.cached(); ok {
		return tok, nil
	}

	ch := c.group.DoChan("token", func() (any, error) {
		if tok, ok := c.cached(); ok {
			return tok, nil
		}

		// El request compartido no debe cancelarse si se va el primer caller.
		t, err := c.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.token = t
		c.mu.Unlock()
		return t.AccessToken, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate descarta el token (p.ej. tras un 401).
func (c *tokenCache) Invalidate() {
	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()
}
