package translation

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Coalescer shares one in-flight provider call between concurrent requests
// for the same text and language pair, e.g. two viewers missing the same
// ingredient cache slot at once.
type Coalescer struct {
	next  Service
	group singleflight.Group
}

// NewCoalescer wraps next
func NewCoalescer(next Service) *Coalescer {
	return &Coalescer{next: next}
}

// Translate joins an identical in-flight call or starts a new one
func (c *Coalescer) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	key := sourceLang + "\x00" + targetLang + "\x00" + text
	out, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.next.Translate(ctx, text, targetLang, sourceLang)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
