package pagination

// Offset pagination, 1-indexed. Pages beyond the data simply return empty
// item lists; TotalPages is zero when there is nothing to page over.

const (
	// DefaultPageSize is the page size when a request does not provide one.
	DefaultPageSize = 25
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100
)

// Params holds page/pageSize inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes a page of results alongside the full item count.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// Normalize clamps the params to sane bounds.
func Normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the (1-indexed) page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewMeta computes pagination metadata for the given total.
func NewMeta(p Params, total int64) Meta {
	meta := Meta{
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    total,
	}
	if total > 0 && p.PageSize > 0 {
		size := int64(p.PageSize)
		meta.TotalPages = (total + size - 1) / size
	}
	return meta
}
