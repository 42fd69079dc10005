// Package ocr runs text recognition on uploaded images through a fixed
// pool of engine instances.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mohamedhussein2626/backend-part/internal/apperror"
)

var ErrPoolClosed = errors.New("ocr pool closed")

// Engine is one recognition engine instance. Instances are not safe for
// concurrent use; the pool hands each to one caller at a time.
type Engine interface {
	SetImageFromBytes(data []byte) error
	Text() (string, error)
	Close() error
}

// Pool lends engines to callers and waits when all are busy.
type Pool struct {
	idle chan Engine
	all  []Engine

	mu     sync.RWMutex
	closed bool
}

// NewPool creates size engines up front with newEngine.
func NewPool(size int, newEngine func() (Engine, error)) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	p := &Pool{idle: make(chan Engine, size)}
	for i := 0; i < size; i++ {
		e, err := newEngine()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("create ocr engine: %w", err)
		}
		p.all = append(p.all, e)
		p.idle <- e
	}
	return p, nil
}

// Recognize returns the text found in the image data.
func (p *Pool) Recognize(ctx context.Context, data []byte) (string, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return "", apperror.ConversionFailed(ErrPoolClosed, "Text extraction failed")
	}

	var e Engine
	select {
	case e = <-p.idle:
	case <-ctx.Done():
		return "", apperror.ConversionFailed(ctx.Err(), "Text extraction failed")
	}
	defer func() { p.idle <- e }()

	if err := e.SetImageFromBytes(data); err != nil {
		return "", apperror.ConversionFailed(err, "Text extraction failed")
	}
	text, err := e.Text()
	if err != nil {
		return "", apperror.ConversionFailed(err, "Text extraction failed")
	}
	return text, nil
}

// Size is the number of engines in the pool.
func (p *Pool) Size() int {
	return len(p.all)
}

// Close releases every engine. It must not race with Recognize calls that
// are still running.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for _, e := range p.all {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
