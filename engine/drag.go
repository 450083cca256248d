package engine

import (
	"errors"
	"fmt"

	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"domsync/element"
	"domsync/linediff"
)

var (
	ErrNoDrag     = errors.New("no drag in progress")
	ErrDragActive = errors.New("drag already in progress")
)

// dragState is preview-only bookkeeping for a drag-based
// rearrangement. Intermediate position events mutate this struct and
// nothing else; the mutation engine runs exactly once, at release.
type dragState struct {
	loc       element.Locator
	parentLoc element.Locator
	index     int
	events    int
}

// BeginDrag opens a drag session for the element at loc.
func (e *Engine) BeginDrag(u uri.URI, loc element.Locator) error {
	d, err := e.doc(u)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drag != nil {
		return ErrDragActive
	}
	if d.parsed == nil {
		return fmt.Errorf("%w: %v", ErrParseFailed, d.parseErr)
	}
	if _, err := e.resolveNode(d, loc); err != nil {
		return err
	}
	d.drag = &dragState{loc: loc, index: -1}
	e.log.Debug("drag begun", zap.String("uri", string(u)))
	return nil
}

// DragOver records a live position event. It only updates the
// in-memory preview state; no text is touched.
func (e *Engine) DragOver(u uri.URI, parentLoc element.Locator, index int) error {
	d, err := e.doc(u)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drag == nil {
		return ErrNoDrag
	}
	d.drag.parentLoc = parentLoc
	d.drag.index = index
	d.drag.events++
	return nil
}

// EndDrag closes the session and performs the single Move with the
// final position. With no recorded position, the session is discarded
// like a cancel.
func (e *Engine) EndDrag(u uri.URI) (linediff.Summary, error) {
	d, err := e.doc(u)
	if err != nil {
		return linediff.Summary{}, err
	}
	d.mu.Lock()
	st := d.drag
	d.drag = nil
	d.mu.Unlock()
	if st == nil {
		return linediff.Summary{}, ErrNoDrag
	}
	if st.index < 0 || st.parentLoc.IsZero() {
		e.log.Debug("drag released without position", zap.String("uri", string(u)))
		sum, _, _ := e.PendingSummary(u)
		return sum, nil
	}
	e.log.Debug("drag released",
		zap.String("uri", string(u)),
		zap.Int("index", st.index),
		zap.Int("events", st.events))
	return e.Move(u, st.loc, st.parentLoc, st.index)
}

// CancelDrag discards the preview state with no mutation at all.
func (e *Engine) CancelDrag(u uri.URI) error {
	d, err := e.doc(u)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drag == nil {
		return ErrNoDrag
	}
	d.drag = nil
	e.log.Debug("drag cancelled", zap.String("uri", string(u)))
	return nil
}
