package testutil

import (
	"sync"

	"github.com/killallgit/vaultchat/pkg/chatui"
)

// RecordingView is a concurrency safe chatui.View backed by a Page
type RecordingView struct {
	mu   sync.Mutex
	page *chatui.Page
	ops  []chatui.ViewOp
}

// NewRecordingView creates a view over a freshly loaded page
func NewRecordingView() *RecordingView {
	return &RecordingView{page: chatui.NewPage()}
}

// Apply implements chatui.View
func (v *RecordingView) Apply(op chatui.ViewOp) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ops = append(v.ops, op)
	v.page.Apply(op)
}

// Page returns a snapshot of the page
func (v *RecordingView) Page() *chatui.Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page.Clone()
}

// Ops returns the applied operations in order
func (v *RecordingView) Ops() []chatui.ViewOp {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]chatui.ViewOp(nil), v.ops...)
}
