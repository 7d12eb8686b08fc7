package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/?"+query, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected defaults, got %+v", p)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := paramsFor(t, "limit=5&offset=10")
	if p.Limit != 5 || p.Offset != 10 {
		t.Errorf("expected limit=5 offset=10, got %+v", p)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := paramsFor(t, "limit=5000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_NegativeValues(t *testing.T) {
	p := paramsFor(t, "limit=-1&offset=-5")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected sanitized params, got %+v", p)
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if r.Total != 10 || !r.HasMore {
		t.Errorf("unexpected response: %+v", r)
	}
	r = NewResponse([]int{1}, 1, 20, 0)
	if r.HasMore {
		t.Error("expected no more pages")
	}
}

func TestParams_Paging(t *testing.T) {
	p := Params{Limit: 10, Offset: 20}
	if !p.HasNext(31) || p.HasNext(30) {
		t.Error("HasNext boundary wrong")
	}
	if !p.HasPrevious() {
		t.Error("expected previous page")
	}
	if p.NextOffset() != 30 || p.PreviousOffset() != 10 {
		t.Errorf("unexpected offsets: next=%d prev=%d", p.NextOffset(), p.PreviousOffset())
	}
	if (Params{Limit: 10, Offset: 5}).PreviousOffset() != 0 {
		t.Error("expected previous offset floored at 0")
	}
}

func TestParams_SQL(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if got := p.SQL(); got != "LIMIT 20 OFFSET 40" {
		t.Errorf("unexpected clause: %q", got)
	}
}
