package main

import (
	"encoding/json"

	"domsync/linediff"
)

// locatorParam names an element either by an injected identity marker
// or by a selector path like "div#app > ul:nth-child(1)". Identity is
// preferred when both are present.
type locatorParam struct {
	Identity string `json:"identity,omitempty"`
	Path     string `json:"path,omitempty"`
}

type docParams struct {
	URI string `json:"uri"`
}

type openParams struct {
	URI  string `json:"uri"`
	Kind string `json:"kind,omitempty"`
	Text string `json:"text"`
}

type selectParams struct {
	URI     string       `json:"uri"`
	Locator locatorParam `json:"locator"`

	// Preview-side context. Opaque to the engine, echoed back so the
	// host can pair the response with its overlay state.
	Rect   json.RawMessage `json:"rect,omitempty"`
	Styles json.RawMessage `json:"computedStyles,omitempty"`
}

type editTextParams struct {
	URI     string       `json:"uri"`
	Locator locatorParam `json:"locator"`
	Text    string       `json:"text"`
}

type editStyleParams struct {
	URI      string       `json:"uri"`
	Locator  locatorParam `json:"locator"`
	Property string       `json:"property"`
	Value    string       `json:"value"`
}

type batchEditParams struct {
	URI     string            `json:"uri"`
	Locator locatorParam      `json:"locator"`
	Styles  map[string]string `json:"styles,omitempty"`
	Text    *string           `json:"text,omitempty"`
}

type locParams struct {
	URI     string       `json:"uri"`
	Locator locatorParam `json:"locator"`
}

type moveParams struct {
	URI     string       `json:"uri"`
	Locator locatorParam `json:"locator"`
	Parent  locatorParam `json:"parent"`
	Index   int          `json:"index"`
}

type textResult struct {
	Text string `json:"text"`
}

type selectionResult struct {
	TagName      string `json:"tagName"`
	ID           string `json:"id,omitempty"`
	Class        string `json:"class,omitempty"`
	SelectorPath string `json:"selectorPath"`
	Identity     string `json:"identity,omitempty"`
	StartLine    int    `json:"startLine"`
	StartCol     int    `json:"startCol"`
	EndLine      int    `json:"endLine"`
	EndCol       int    `json:"endCol"`
	TextSnippet  string `json:"textSnippet,omitempty"`
	Component    bool   `json:"component,omitempty"`

	Rect   json.RawMessage `json:"rect,omitempty"`
	Styles json.RawMessage `json:"computedStyles,omitempty"`
}

type changeSummary struct {
	Description  string `json:"description"`
	AddedCount   int    `json:"addedCount"`
	DeletedCount int    `json:"deletedCount"`
}

func summaryResult(sum linediff.Summary) *changeSummary {
	return &changeSummary{
		Description:  sum.Description,
		AddedCount:   sum.AddedCount,
		DeletedCount: sum.DeletedCount,
	}
}

type deletedLine struct {
	Anchor  int    `json:"anchor"`
	Content string `json:"content"`
}

type pendingResult struct {
	Pending bool           `json:"pending"`
	Summary *changeSummary `json:"summary,omitempty"`
	Added   []int          `json:"added,omitempty"`
	Deleted []deletedLine  `json:"deleted,omitempty"`
}
