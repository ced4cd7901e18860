package paging

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   Params
		want Params
	}{
		{Params{}, Params{Page: 1, PageSize: 50}},
		{Params{Page: 3, PageSize: 10}, Params{Page: 3, PageSize: 10}},
		{Params{Page: -1, PageSize: 1000}, Params{Page: 1, PageSize: 500}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(50, 500); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	r := Slice(all, Params{Page: 2, PageSize: 2})
	if len(r.Items) != 2 || r.Items[0] != 3 || !r.HasNextPage || r.Total != 5 {
		t.Errorf("unexpected page %+v", r)
	}

	r = Slice(all, Params{Page: 3, PageSize: 2})
	if len(r.Items) != 1 || r.HasNextPage {
		t.Errorf("unexpected last page %+v", r)
	}

	r = Slice(all, Params{Page: 9, PageSize: 2})
	if r.Items == nil || len(r.Items) != 0 {
		t.Errorf("expected empty non-nil page, got %+v", r)
	}
}

func TestPaginate(t *testing.T) {
	r, err := Paginate(Params{Page: 2, PageSize: 10}, func(offset, limit int) ([]string, int, error) {
		if offset != 10 || limit != 10 {
			t.Errorf("offset, limit = %d, %d", offset, limit)
		}
		return []string{"a"}, 11, nil
	})
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if r.Total != 11 || r.HasNextPage {
		t.Errorf("unexpected result %+v", r)
	}

	boom := errors.New("boom")
	_, err = Paginate(Params{Page: 1, PageSize: 10}, func(offset, limit int) ([]string, int, error) {
		return nil, 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
