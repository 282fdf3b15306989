package pagination

import "testing"

func TestNormalize(t *testing.T) {
	p := Normalize(Params{})
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Fatalf("unexpected defaults %+v", p)
	}

	p = Normalize(Params{Page: 3, PageSize: 5000})
	if p.Page != 3 || p.PageSize != MaxPageSize {
		t.Fatalf("page size should be capped, got %+v", p)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, PageSize: 20}
	if got := p.Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(Params{Page: 1, PageSize: 20}, 41)
	if meta.TotalPages != 3 {
		t.Fatalf("expected ceil(41/20)=3 pages, got %d", meta.TotalPages)
	}

	meta = NewMeta(Params{Page: 1, PageSize: 20}, 0)
	if meta.TotalPages != 0 {
		t.Fatalf("zero total must yield zero pages, got %d", meta.TotalPages)
	}

	meta = NewMeta(Params{Page: 2, PageSize: 20}, 40)
	if meta.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", meta.TotalPages)
	}
}
