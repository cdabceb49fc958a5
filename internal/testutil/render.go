package testutil

import (
	"io"
	"net/http"
	"sync"

	"github.com/dalemusser/studentdash/internal/app/system/viewdata"
)

// RenderCall is one template render captured by a RenderRecorder.
type RenderCall struct {
	Name    string
	Data    any
	Snippet bool
}

// RenderRecorder captures renders instead of executing templates, so handler
// tests can assert on template names and view models.
type RenderRecorder struct {
	mu    sync.Mutex
	calls []RenderCall
}

// NewRenderRecorder returns an empty recorder.
func NewRenderRecorder() *RenderRecorder {
	return &RenderRecorder{}
}

// Renderer returns a viewdata.Renderer that records into rr. It writes the
// template name as the response body.
func (rr *RenderRecorder) Renderer() viewdata.Renderer {
	return viewdata.Renderer{
		Page: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			rr.record(RenderCall{Name: name, Data: data})
			io.WriteString(w, name)
		},
		Snippet: func(w http.ResponseWriter, name string, data any) {
			rr.record(RenderCall{Name: name, Data: data, Snippet: true})
			io.WriteString(w, name)
		},
	}
}

// Calls returns every captured render in order.
func (rr *RenderRecorder) Calls() []RenderCall {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return append([]RenderCall(nil), rr.calls...)
}

// Last returns the most recent render, or ok=false if nothing was rendered.
func (rr *RenderRecorder) Last() (RenderCall, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if len(rr.calls) == 0 {
		return RenderCall{}, false
	}
	return rr.calls[len(rr.calls)-1], true
}

func (rr *RenderRecorder) record(c RenderCall) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.calls = append(rr.calls, c)
}
