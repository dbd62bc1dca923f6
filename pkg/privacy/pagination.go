package privacy

import (
	"context"
	"errors"
	"iter"

	"github.com/fivetwenty-io/privacy-client/internal/constants"
)

// Cursor is the position of an iterator between pages. A fetch never
// modifies a Cursor; it produces the next one.
type Cursor struct {
	// Page is the page number the next fetch will request.
	Page int
	// HasMore is false once the server has no further pages.
	HasMore bool
}

// InitialCursor returns the cursor for the first fetch, starting at page.
func InitialCursor(page int) Cursor {
	if page < constants.FirstPage {
		page = constants.FirstPage
	}

	return Cursor{Page: page, HasMore: true}
}

// Page is one page of a list endpoint as returned on the wire.
type Page[T any] struct {
	Data         []T `json:"data"`
	Page         int `json:"page"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// Next returns the cursor following this page. An empty page is terminal.
// Without total_pages the listing continues until a page comes back empty.
func (p *Page[T]) Next(requested Cursor) Cursor {
	served := p.Page
	if served == 0 {
		served = requested.Page
	}

	hasMore := len(p.Data) > 0
	if p.TotalPages > 0 {
		hasMore = hasMore && served < p.TotalPages
	}

	return Cursor{
		Page:    served + 1,
		HasMore: hasMore,
	}
}

// PageFetcher fetches the page a cursor points at.
type PageFetcher[T any] func(ctx context.Context, cursor Cursor) (*Page[T], error)

// IteratorOption configures an Iterator.
type IteratorOption func(*iteratorSettings)

type iteratorSettings struct {
	startPage int
	limit     int
}

// WithStartPage starts iteration at page instead of the first page.
func WithStartPage(page int) IteratorOption {
	return func(s *iteratorSettings) {
		s.startPage = page
	}
}

// WithLimit stops iteration after n items. Zero means no limit.
func WithLimit(n int) IteratorOption {
	return func(s *iteratorSettings) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Iterator yields the records of a paged list endpoint one at a time,
// fetching the next page only when the current one is exhausted.
//
// An Iterator is not safe for concurrent use. A fetch failure is terminal:
// every later call returns the same error.
type Iterator[T any] struct {
	ctx     context.Context //nolint:containedctx // the iterator outlives the listing call
	fetch   PageFetcher[T]
	cursor  Cursor
	buffer  []T
	pos     int
	limit   int
	yielded int
	total   int
	err     error
}

// NewIterator creates an iterator. No request is made until the first advance.
func NewIterator[T any](ctx context.Context, fetch PageFetcher[T], opts ...IteratorOption) *Iterator[T] {
	settings := iteratorSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	return &Iterator[T]{
		ctx:    ctx,
		fetch:  fetch,
		cursor: InitialCursor(settings.startPage),
		limit:  settings.limit,
	}
}

// NewErrorIterator returns an iterator whose first advance reports err.
func NewErrorIterator[T any](err error) *Iterator[T] {
	return &Iterator[T]{err: err}
}

// Next returns the next record, or ErrNoMoreItems once the sequence ends.
func (it *Iterator[T]) Next() (T, error) {
	var zero T

	if it.err != nil {
		return zero, it.err
	}

	if it.limit > 0 && it.yielded >= it.limit {
		return zero, ErrNoMoreItems
	}

	for it.pos >= len(it.buffer) {
		if !it.cursor.HasMore {
			return zero, ErrNoMoreItems
		}

		err := it.fetchPage()
		if err != nil {
			it.err = err

			return zero, err
		}
	}

	item := it.buffer[it.pos]
	it.pos++
	it.yielded++

	return item, nil
}

// HasNext reports whether Next will return a record or a pending error.
// It fetches the next page when the buffer is exhausted.
func (it *Iterator[T]) HasNext() bool {
	if it.err != nil {
		return true
	}

	if it.limit > 0 && it.yielded >= it.limit {
		return false
	}

	for it.pos >= len(it.buffer) {
		if !it.cursor.HasMore {
			return false
		}

		err := it.fetchPage()
		if err != nil {
			it.err = err

			return true
		}
	}

	return true
}

func (it *Iterator[T]) fetchPage() error {
	if err := it.ctx.Err(); err != nil {
		return NewCancelledError(err)
	}

	page, err := it.fetch(it.ctx, it.cursor)
	if err != nil {
		return err
	}

	if page == nil {
		page = &Page[T]{}
	}

	it.cursor = page.Next(it.cursor)
	it.buffer = page.Data
	it.pos = 0
	it.total = page.TotalEntries

	return nil
}

// All drains the iterator into a slice.
func (it *Iterator[T]) All() ([]T, error) {
	var items []T

	for {
		item, err := it.Next()
		if errors.Is(err, ErrNoMoreItems) {
			return items, nil
		}

		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}
}

// ForEach calls fn for each remaining record, stopping at the first error.
func (it *Iterator[T]) ForEach(fn func(T) error) error {
	for {
		item, err := it.Next()
		if errors.Is(err, ErrNoMoreItems) {
			return nil
		}

		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}
}

// Seq adapts the iterator to a range-over-func sequence. A failure is
// yielded once as the final pair.
func (it *Iterator[T]) Seq() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := it.Next()
			if errors.Is(err, ErrNoMoreItems) {
				return
			}

			if err != nil {
				var zero T

				yield(zero, err)

				return
			}

			if !yield(item, nil) {
				return
			}
		}
	}
}

// Cursor returns the position of the next fetch.
func (it *Iterator[T]) Cursor() Cursor {
	return it.cursor
}

// TotalEntries returns the server's record count from the last fetched page.
func (it *Iterator[T]) TotalEntries() int {
	return it.total
}

// Err returns the terminal error, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}
