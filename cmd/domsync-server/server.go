package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"domsync/element"
	"domsync/engine"
	"domsync/linediff"
	"domsync/parse"
	"domsync/resolve"
)

type server struct {
	conn   jsonrpc2.Conn
	engine *engine.Engine
	log    *zap.Logger
	ready  chan struct{}
}

func newServer(e *engine.Engine, log *zap.Logger) *server {
	return &server{
		engine: e,
		log:    log,
		ready:  make(chan struct{}),
	}
}

// handle dispatches one request. jsonrpc2.Conn delivers requests one
// at a time, so document mutations are naturally serialized.
func (s *server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	res, err := s.dispatch(ctx, req)
	if err != nil {
		s.log.Warn("request failed", zap.String("method", req.Method()), zap.Error(err))
		return reply(ctx, nil, wireErr(err))
	}
	return reply(ctx, res, nil)
}

func (s *server) dispatch(ctx context.Context, req jsonrpc2.Request) (any, error) {
	switch req.Method() {
	case "domsync/ready":
		select {
		case <-s.ready:
		default:
			close(s.ready)
		}
		return nil, nil
	case "domsync/open":
		var p openParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.open(ctx, &p)
	case "domsync/close":
		var p docParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		s.engine.Close(uri.URI(p.URI))
		return nil, nil
	case "domsync/select":
		var p selectParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.selectElement(&p)
	case "domsync/instrument":
		var p docParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		out, err := s.engine.Instrument(uri.URI(p.URI))
		if err != nil {
			return nil, err
		}
		return &textResult{Text: string(out)}, nil
	case "domsync/editText":
		var p editTextParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.mutation(ctx, p.URI, func(u uri.URI, loc element.Locator) (linediff.Summary, error) {
			return s.engine.EditText(u, loc, p.Text)
		}, p.Locator)
	case "domsync/editStyle":
		var p editStyleParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.mutation(ctx, p.URI, func(u uri.URI, loc element.Locator) (linediff.Summary, error) {
			return s.engine.EditStyle(u, loc, p.Property, p.Value)
		}, p.Locator)
	case "domsync/batchEdit":
		var p batchEditParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.mutation(ctx, p.URI, func(u uri.URI, loc element.Locator) (linediff.Summary, error) {
			return s.engine.BatchEdit(u, loc, p.Styles, p.Text)
		}, p.Locator)
	case "domsync/delete":
		var p locParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.mutation(ctx, p.URI, s.engine.Delete, p.Locator)
	case "domsync/duplicate":
		var p locParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.mutation(ctx, p.URI, s.engine.Duplicate, p.Locator)
	case "domsync/move":
		var p moveParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		parentLoc, err := toLocator(p.Parent)
		if err != nil {
			return nil, err
		}
		return s.mutation(ctx, p.URI, func(u uri.URI, loc element.Locator) (linediff.Summary, error) {
			return s.engine.Move(u, loc, parentLoc, p.Index)
		}, p.Locator)
	case "domsync/dragBegin":
		var p locParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		loc, err := toLocator(p.Locator)
		if err != nil {
			return nil, err
		}
		return nil, s.engine.BeginDrag(uri.URI(p.URI), loc)
	case "domsync/dragOver":
		var p moveParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		parentLoc, err := toLocator(p.Parent)
		if err != nil {
			return nil, err
		}
		return nil, s.engine.DragOver(uri.URI(p.URI), parentLoc, p.Index)
	case "domsync/dragEnd":
		var p docParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		sum, err := s.engine.EndDrag(uri.URI(p.URI))
		if err != nil {
			return nil, err
		}
		return summaryResult(sum), nil
	case "domsync/dragCancel":
		var p docParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return nil, s.engine.CancelDrag(uri.URI(p.URI))
	case "domsync/pending":
		var p docParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		return s.pending(&p)
	case "domsync/accept":
		var p docParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		text, err := s.engine.Accept(uri.URI(p.URI))
		if err != nil {
			return nil, err
		}
		return &textResult{Text: string(text)}, nil
	case "domsync/reject":
		var p docParams
		if err := unmarshal(req, &p); err != nil {
			return nil, err
		}
		text, err := s.engine.Reject(uri.URI(p.URI))
		if err != nil {
			return nil, err
		}
		return &textResult{Text: string(text)}, nil
	}
	return nil, jsonrpc2.ErrMethodNotFound
}

func (s *server) open(ctx context.Context, p *openParams) (any, error) {
	kind := parse.KindMarkup
	if p.Kind == "component" {
		kind = parse.KindComponent
	}
	if err := s.engine.Open(uri.URI(p.URI), kind, []byte(p.Text)); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *server) selectElement(p *selectParams) (any, error) {
	loc, err := toLocator(p.Locator)
	if err != nil {
		return nil, err
	}
	info, err := s.engine.Select(uri.URI(p.URI), loc)
	if err != nil {
		return nil, err
	}
	return &selectionResult{
		TagName:      info.TagName,
		ID:           info.ID,
		Class:        info.Class,
		SelectorPath: info.SelectorPath,
		Identity:     info.Identity,
		StartLine:    info.Start.Line,
		StartCol:     info.Start.Col,
		EndLine:      info.End.Line,
		EndCol:       info.End.Col,
		TextSnippet:  info.TextSnippet,
		Component:    info.Component,
		Rect:         p.Rect,
		Styles:       p.Styles,
	}, nil
}

// mutation waits for the preview to signal readiness, resolves the
// locator and runs one serialized engine operation.
func (s *server) mutation(ctx context.Context, u string, f func(uri.URI, element.Locator) (linediff.Summary, error), lp locatorParam) (any, error) {
	if err := s.engine.AwaitReady(ctx, s.ready); err != nil {
		return nil, err
	}
	loc, err := toLocator(lp)
	if err != nil {
		return nil, err
	}
	sum, err := f(uri.URI(u), loc)
	if err != nil {
		return nil, err
	}
	return summaryResult(sum), nil
}

func (s *server) pending(p *docParams) (any, error) {
	sum, ok, err := s.engine.PendingSummary(uri.URI(p.URI))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &pendingResult{}, nil
	}
	res := &pendingResult{Pending: true, Summary: summaryResult(sum)}
	d, err := s.engine.PendingDiff(uri.URI(p.URI))
	if err != nil {
		return nil, err
	}
	res.Added = d.Added
	for _, del := range d.Deleted {
		res.Deleted = append(res.Deleted, deletedLine{Anchor: del.Anchor, Content: del.Content})
	}
	return res, nil
}

func unmarshal(req jsonrpc2.Request, v any) error {
	if err := json.Unmarshal(req.Params(), v); err != nil {
		return fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err)
	}
	return nil
}

func toLocator(p locatorParam) (element.Locator, error) {
	loc := element.Locator{Identity: p.Identity}
	if p.Path != "" {
		path, err := element.ParseSelectorPath(p.Path)
		if err != nil {
			return element.Locator{}, fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err)
		}
		loc.Path = path
	}
	return loc, nil
}

func wireErr(err error) error {
	switch {
	case errors.Is(err, resolve.ErrNotFound),
		errors.Is(err, engine.ErrUnknownDocument),
		errors.Is(err, linediff.ErrNoPending):
		return fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err)
	case errors.Is(err, jsonrpc2.ErrParse),
		errors.Is(err, jsonrpc2.ErrInvalidParams),
		errors.Is(err, jsonrpc2.ErrMethodNotFound):
		return err
	}
	return fmt.Errorf("%w: %v", jsonrpc2.ErrInternal, err)
}
