package handler

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestSanitizeFloat(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"nan", math.NaN(), 0},
		{"positive_inf", math.Inf(1), 0},
		{"negative_inf", math.Inf(-1), 0},
		{"regular", 42.5, 42.5},
		{"negative", -3, -3},
		{"zero", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeFloat(tc.in); got != tc.want {
				t.Errorf("sanitizeFloat(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeFloatPtr(t *testing.T) {
	if got := sanitizeFloatPtr(nil); got != nil {
		t.Errorf("sanitizeFloatPtr(nil) = %v, want nil", got)
	}

	nan := math.NaN()
	got := sanitizeFloatPtr(&nan)
	if got == nil || *got != 0 {
		t.Errorf("sanitizeFloatPtr(NaN) = %v, want 0", got)
	}

	v := 12.34
	got = sanitizeFloatPtr(&v)
	if got == nil || *got != 12.34 {
		t.Errorf("sanitizeFloatPtr(12.34) = %v, want 12.34", got)
	}
}

func testContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestQueryUUID(t *testing.T) {
	id := uuid.New()

	if got := queryUUID(testContext("customer_id="+id.String()), "customer_id"); got == nil || *got != id {
		t.Errorf("queryUUID = %v, want %s", got, id)
	}
	if got := queryUUID(testContext("customer_id=not-a-uuid"), "customer_id"); got != nil {
		t.Errorf("malformed uuid should be treated as absent, got %v", got)
	}
	if got := queryUUID(testContext(""), "customer_id"); got != nil {
		t.Errorf("missing param should be nil, got %v", got)
	}
}

func TestQueryDate(t *testing.T) {
	got := queryDate(testContext("start_date=2024-03-01"), "start_date")
	if got == nil || got.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("queryDate = %v, want 2024-03-01", got)
	}
	if got := queryDate(testContext("start_date=03/01/2024"), "start_date"); got != nil {
		t.Errorf("malformed date should be treated as absent, got %v", got)
	}
}
