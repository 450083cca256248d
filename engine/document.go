package engine

import (
	"sync"

	"go.lsp.dev/uri"

	"domsync/linediff"
	"domsync/parse"
	"domsync/resolve"
)

// document is the per-document state. Its mutex serializes the
// resolve -> mutate -> diff pipeline: a second mutation request
// against the same document queues on the lock rather than operating
// on offsets the first one already invalidated.
type document struct {
	mu sync.Mutex

	uri     uri.URI
	kind    parse.Kind
	parser  parse.Parser
	text    []byte
	version int64

	// last successful parse; nil while the text is unparsable, in
	// which case mutation stays disabled.
	parsed   *parse.Result
	parseErr error

	sess *resolve.Session
	rec  *linediff.Recorder
	drag *dragState
}

// reparse rebuilds the element tree from the current text. The
// previous tree and every identity it issued are discarded either way.
func (d *document) reparse() {
	d.sess = nil
	res, err := d.parser.Parse(d.text)
	if err != nil {
		d.parsed = nil
		d.parseErr = err
		return
	}
	d.parsed = res
	d.parseErr = nil
}

// setText installs new document text and reparses.
func (d *document) setText(text []byte) {
	d.text = text
	d.version++
	d.reparse()
}
