package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const yahooFixture = `{"chart":{"result":[{"timestamp":[1704205800,1704292200,1704378600,1704465000],
"indicators":{"quote":[{
"open":[185.5,null,182.1,181.9],
"high":[188.4,null,183.1,182.8],
"low":[183.9,null,180.9,180.2],
"close":[185.6,null,181.9,181.2],
"volume":[82488700,null,71983600,62303300]}]}}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	bars, err := f.FetchDailyBars(context.Background(), "SPX", 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/v8/finance/chart/^GSPC") {
		t.Errorf("path = %q, expected mapped symbol", gotPath)
	}
	if !strings.Contains(gotQuery, "interval=1d") || !strings.Contains(gotQuery, "range=5y") {
		t.Errorf("query = %q", gotQuery)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars (null skipped), got %d", len(bars))
	}
	if bars[0].Close != 185.6 || bars[2].Low != 180.2 {
		t.Errorf("unexpected bar values: %+v", bars)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			t.Error("bars not sorted")
		}
	}
}

func TestYahooFetcher_TrimsToRequestedDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yahooFixture))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyBars(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 || bars[1].Close != 181.2 {
		t.Errorf("expected the 2 most recent bars, got %+v", bars)
	}
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusTooManyRequests, "slow down"},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewYahooFetcher("")
			f.BaseURL = srv.URL
			if _, err := f.FetchDailyBars(context.Background(), "AAPL", 100); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestYahooRange(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{20, "1mo"}, {60, "3mo"}, {120, "6mo"}, {250, "1y"}, {500, "2y"}, {1260, "5y"}, {2000, "10y"}, {5000, "max"},
	}
	for _, tt := range tests {
		if got := yahooRange(tt.days); got != tt.want {
			t.Errorf("yahooRange(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}
