// Package pdf holds the PDF adapters: page rasterization, text extraction,
// text to PDF layout, metadata and compression.
package pdf

import (
	"context"
	"io"
	"iter"
)

// Page is one rendered page as handed over by a renderer. Accepted shapes
// are encoded image bytes ([]byte), decoded pixels (image.Image), and any
// value exposing its bytes through Bytes() []byte or io.Reader.
type Page any

// PageSource is the closed set of ways a renderer can hand over pages.
type PageSource interface {
	pageSource()
}

// Indexed gives random access to pages 1..Count. Preferred, since a single
// page can be rendered without touching the others.
type Indexed struct {
	Count int
	Page  func(ctx context.Context, n int) (Page, error)
}

// PageResult is one element of an AsyncSequence.
type PageResult struct {
	Page Page
	Err  error
}

// AsyncSequence delivers pages in order on a channel. Stop, when set, is
// called once the consumer is done, including when it stops early.
type AsyncSequence struct {
	Pages <-chan PageResult
	Stop  func()
}

// Materialized is every page, already rendered, in order.
type Materialized struct {
	Pages []Page
}

// SyncSequence yields pages in order from the caller's goroutine.
type SyncSequence struct {
	Pages iter.Seq2[Page, error]
}

func (Indexed) pageSource()       {}
func (AsyncSequence) pageSource() {}
func (Materialized) pageSource()  {}
func (SyncSequence) pageSource()  {}

// Renderer turns a PDF on disk into pages. The returned closer releases the
// document once every page has been consumed.
type Renderer interface {
	Open(ctx context.Context, path string) (PageSource, io.Closer, error)
}

// channelPages adapts an AsyncSequence to the iterator shape.
func channelPages(ctx context.Context, ch <-chan PageResult) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		for {
			select {
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			case r, ok := <-ch:
				if !ok {
					return
				}
				if !yield(r.Page, r.Err) {
					return
				}
			}
		}
	}
}

func slicePages(pages []Page) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		for _, p := range pages {
			if !yield(p, nil) {
				return
			}
		}
	}
}
