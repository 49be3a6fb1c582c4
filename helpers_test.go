package fileconv

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeReasoner records requests and replies with a canned answer.
type fakeReasoner struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []AIRequest
}

func (f *fakeReasoner) Generate(_ context.Context, req AIRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.reply, f.err
}

func (f *fakeReasoner) last(t *testing.T) AIRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "reasoner was not called")
	return f.requests[len(f.requests)-1]
}

// newTestConverter returns a converter whose reasoning service is r, with a
// credential present.
func newTestConverter(r Reasoner, opts ...Option) *Converter {
	base := []Option{
		WithCredentials(NewMapCredentials(map[string]string{CredentialKey: "test-key"})),
		WithReasonerFactory(func(context.Context, ReasonerConfig) (Reasoner, error) { return r, nil }),
	}
	return New(append(base, opts...)...)
}

// pngBytes encodes an image with a transparent left half and an opaque red
// right half.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
