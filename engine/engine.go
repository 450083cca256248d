// Package engine orchestrates the per-document source-synchronization
// pipeline: locate an element, mutate the text, stage the result for
// accept/reject reconciliation.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"domsync/element"
	"domsync/linediff"
	"domsync/mutate"
	"domsync/parse"
	"domsync/resolve"
)

var (
	ErrUnknownDocument = errors.New("unknown document")
	ErrParseFailed     = errors.New("document has no successful parse; mutation disabled")
)

type Engine struct {
	mu   sync.RWMutex
	docs map[uri.URI]*document

	cfg *Config
	log *zap.Logger

	watcher *watcher
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func WithConfig(c *Config) Option {
	return func(e *Engine) { e.cfg = c }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		docs: map[uri.URI]*document{},
		cfg:  DefaultConfig(),
		log:  zap.NewNop(),
	}
	for _, f := range opts {
		f(e)
	}
	return e
}

// Open registers document text under u with the parser for kind. An
// unparsable document is still opened; mutation stays disabled until a
// later setText parses.
func (e *Engine) Open(u uri.URI, kind parse.Kind, text []byte) error {
	p := parse.For(kind)
	if p == nil {
		return fmt.Errorf("no parser registered for kind %s", kind)
	}
	d := &document{
		uri:    u,
		kind:   kind,
		parser: p,
		rec:    &linediff.Recorder{},
	}
	d.setText(text)

	e.mu.Lock()
	e.docs[u] = d
	w := e.watcher
	e.mu.Unlock()

	if d.parseErr != nil {
		e.log.Warn("opened with parse error", zap.String("uri", string(u)), zap.Error(d.parseErr))
	} else {
		e.log.Info("opened", zap.String("uri", string(u)), zap.Int("roots", len(d.parsed.Roots)))
	}
	if w != nil {
		w.add(u)
	}
	return nil
}

// Close drops all state for u, discarding any pending change.
func (e *Engine) Close(u uri.URI) {
	e.mu.Lock()
	delete(e.docs, u)
	w := e.watcher
	e.mu.Unlock()
	if w != nil {
		w.remove(u)
	}
}

// Text returns the current authoritative text of u.
func (e *Engine) Text(u uri.URI) ([]byte, error) {
	d, err := e.doc(u)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.text...), nil
}

func (e *Engine) doc(u uri.URI) (*document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d := e.docs[u]
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, u)
	}
	return d, nil
}

// SelectionInfo is returned to the host when a preview selection is
// resolved back to source.
type SelectionInfo struct {
	TagName      string
	ID           string
	Class        string
	SelectorPath string
	Identity     string
	Start        element.Pos
	End          element.Pos
	SourceStart  int
	SourceEnd    int
	TextSnippet  string
	Component    bool
}

// Select resolves a locator to source coordinates without mutating
// anything.
func (e *Engine) Select(u uri.URI, loc element.Locator) (*SelectionInfo, error) {
	d, err := e.doc(u)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.parsed == nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, d.parseErr)
	}
	n, err := e.resolveNode(d, loc)
	if err != nil {
		return nil, err
	}
	return &SelectionInfo{
		TagName:      n.TagName,
		ID:           n.ID(),
		Class:        n.Class(),
		SelectorPath: n.Path(),
		Identity:     n.Identity,
		Start:        n.Start,
		End:          n.End,
		SourceStart:  n.SourceStart,
		SourceEnd:    n.SourceEnd,
		TextSnippet:  n.TextContent,
		Component:    n.Component,
	}, nil
}

func (e *Engine) resolveNode(d *document, loc element.Locator) (*element.Node, error) {
	if loc.Identity != "" {
		if n, ok := d.parsed.Identities[loc.Identity]; ok {
			return n, nil
		}
		if d.sess != nil {
			if info, ok := d.sess.Find(loc.Identity); ok {
				if n := d.parsed.Find(func(n *element.Node) bool {
					return n.SourceStart == info.Start && n.TagName == info.TagName
				}); n != nil {
					return n, nil
				}
			}
		}
		if len(loc.Path) == 0 {
			return nil, fmt.Errorf("%w: identity %q", resolve.ErrNotFound, loc.Identity)
		}
	}
	return resolve.Resolve(d.parsed.Roots, loc.Path)
}

// Instrument injects fresh identity markers and returns the
// instrumented text for the preview. The document's own text stays
// clean; the returned session spans map identities back into it.
func (e *Engine) Instrument(u uri.URI) ([]byte, error) {
	d, err := e.doc(u)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.parsed == nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, d.parseErr)
	}
	if d.sess == nil {
		d.sess = resolve.NewSessionAttr(d.version, e.cfg.IdentityAttr)
	}
	out := d.sess.Inject(d.parsed.Roots, d.text)
	e.log.Debug("instrumented",
		zap.String("uri", string(u)),
		zap.Int("identities", d.sess.Len()),
		zap.Int64("session", d.sess.Version))
	return out, nil
}

// mutateOp runs one mutation through the staging pipeline under the
// document lock. A mutation that produces byte-identical text is a
// no-op: it neither opens nor extends the pending session.
func (e *Engine) mutateOp(u uri.URI, desc string, f func(d *document) ([]byte, error)) (linediff.Summary, error) {
	d, err := e.doc(u)
	if err != nil {
		return linediff.Summary{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.parsed == nil {
		return linediff.Summary{}, fmt.Errorf("%w: %v", ErrParseFailed, d.parseErr)
	}
	newText, err := f(d)
	if err != nil {
		e.log.Warn("mutation failed", zap.String("uri", string(u)), zap.String("op", desc), zap.Error(err))
		return linediff.Summary{}, err
	}
	if bytes.Equal(newText, d.text) {
		e.log.Debug("mutation was a no-op", zap.String("uri", string(u)), zap.String("op", desc))
		sum, _ := d.rec.Summary()
		return sum, nil
	}
	d.rec.Record(string(d.text), string(newText), desc)
	d.setText(newText)
	sum, _ := d.rec.Summary()
	e.log.Info("mutation staged",
		zap.String("uri", string(u)),
		zap.String("op", desc),
		zap.Int("added", sum.AddedCount),
		zap.Int("deleted", sum.DeletedCount),
		zap.Int("changes", d.rec.Changes()))
	return sum, nil
}

func (e *Engine) Delete(u uri.URI, loc element.Locator) (linediff.Summary, error) {
	return e.mutateOp(u, "delete element", func(d *document) ([]byte, error) {
		return mutate.Delete(d.text, loc, d.sess, d.parser)
	})
}

func (e *Engine) Duplicate(u uri.URI, loc element.Locator) (linediff.Summary, error) {
	return e.mutateOp(u, "duplicate element", func(d *document) ([]byte, error) {
		return mutate.Duplicate(d.text, loc, d.sess, d.parser)
	})
}

func (e *Engine) EditText(u uri.URI, loc element.Locator, newText string) (linediff.Summary, error) {
	return e.mutateOp(u, "edit text", func(d *document) ([]byte, error) {
		return mutate.EditText(d.text, loc, d.sess, d.parser, newText)
	})
}

func (e *Engine) EditStyle(u uri.URI, loc element.Locator, property, value string) (linediff.Summary, error) {
	return e.mutateOp(u, "edit style "+property, func(d *document) ([]byte, error) {
		return mutate.EditStyle(d.text, loc, d.sess, d.parser, property, value)
	})
}

// BatchEdit applies a set of style updates and, optionally, new text
// content in one staged step. The text edit re-resolves the locator
// against the style-edited text, since the first splice shifts
// offsets.
func (e *Engine) BatchEdit(u uri.URI, loc element.Locator, styles map[string]string, textContent *string) (linediff.Summary, error) {
	return e.mutateOp(u, "batch edit", func(d *document) ([]byte, error) {
		text := d.text
		sess := d.sess
		var err error
		if len(styles) > 0 {
			text, err = mutate.BatchStyle(text, loc, sess, d.parser, styles)
			if err != nil {
				return nil, err
			}
			sess = nil
		}
		if textContent != nil {
			text, err = mutate.EditText(text, loc, sess, d.parser, *textContent)
			if err != nil {
				return nil, err
			}
		}
		return text, nil
	})
}

func (e *Engine) Move(u uri.URI, loc, parentLoc element.Locator, index int) (linediff.Summary, error) {
	return e.mutateOp(u, "move element", func(d *document) ([]byte, error) {
		return mutate.Move(d.text, loc, parentLoc, index, d.sess, d.parser)
	})
}

// PendingSummary reports the staged session, if any.
func (e *Engine) PendingSummary(u uri.URI) (linediff.Summary, bool, error) {
	d, err := e.doc(u)
	if err != nil {
		return linediff.Summary{}, false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	sum, ok := d.rec.Summary()
	return sum, ok, nil
}

// PendingDiff returns the staged line sets, if any.
func (e *Engine) PendingDiff(u uri.URI) (*linediff.Result, error) {
	d, err := e.doc(u)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	res := d.rec.Result()
	if res == nil {
		return nil, linediff.ErrNoPending
	}
	return res, nil
}

// Accept finalizes the staged text as the document's persisted
// content.
func (e *Engine) Accept(u uri.URI) ([]byte, error) {
	d, err := e.doc(u)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	text, err := d.rec.Accept()
	if err != nil {
		return nil, err
	}
	e.log.Info("accepted", zap.String("uri", string(u)))
	return []byte(text), nil
}

// reloadFromDisk replaces a file-backed document's text with the
// on-disk content after an external write.
func (e *Engine) reloadFromDisk(u uri.URI) {
	d, err := e.doc(u)
	if err != nil {
		return
	}
	data, err := os.ReadFile(u.Filename())
	if err != nil {
		e.log.Warn("reload failed", zap.String("uri", string(u)), zap.Error(err))
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if bytes.Equal(data, d.text) {
		return
	}
	d.setText(data)
	e.log.Info("reloaded after external write",
		zap.String("uri", string(u)),
		zap.Int64("version", d.version),
		zap.Bool("pendingStale", d.rec.Pending()))
}

// Reject restores the session's original text verbatim and discards
// the accumulated session.
func (e *Engine) Reject(u uri.URI) ([]byte, error) {
	d, err := e.doc(u)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	text, err := d.rec.Reject()
	if err != nil {
		return nil, err
	}
	d.setText([]byte(text))
	e.log.Info("rejected", zap.String("uri", string(u)))
	return []byte(text), nil
}
