package calculator

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestFindSwingPoints_Empty(t *testing.T) {
	if _, err := FindSwingPoints(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := FindRollingSwingPoints(nil, 10); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("rolling: expected ErrEmptyInput, got %v", err)
	}
}

func TestFindSwingPoints_MatchesExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 1; n <= 200; n += 17 {
		highs := make([]float64, n)
		lows := make([]float64, n)
		maxHigh, minLow := math.Inf(-1), math.Inf(1)
		for i := 0; i < n; i++ {
			lows[i] = 50 + rng.Float64()*100
			highs[i] = lows[i] + rng.Float64()*5
			maxHigh = math.Max(maxHigh, highs[i])
			minLow = math.Min(minLow, lows[i])
		}
		sp, err := FindSwingPoints(barsFromHighLow(highs, lows))
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if sp.High.Price != maxHigh {
			t.Errorf("n=%d: swing high %.4f, want %.4f", n, sp.High.Price, maxHigh)
		}
		if sp.Low.Price != minLow {
			t.Errorf("n=%d: swing low %.4f, want %.4f", n, sp.Low.Price, minLow)
		}
	}
}

func TestFindSwingPoints_FirstOccurrenceWins(t *testing.T) {
	bars := barsFromHighLow(
		[]float64{10, 12, 11, 12, 9},
		[]float64{8, 9, 7, 10, 7},
	)
	sp, err := FindSwingPoints(bars)
	if err != nil {
		t.Fatal(err)
	}
	if sp.High.Index != 1 {
		t.Errorf("high index = %d, want 1", sp.High.Index)
	}
	if sp.Low.Index != 2 {
		t.Errorf("low index = %d, want 2", sp.Low.Index)
	}
	if !sp.High.Date.Equal(bars[1].Time) || !sp.Low.Date.Equal(bars[2].Time) {
		t.Error("swing dates must come from the producing bars")
	}
}

func TestFindRollingSwingPoints(t *testing.T) {
	tests := []struct {
		name     string
		highs    []float64
		lows     []float64
		lookback int
		wantHi   int
		wantLo   int
	}{
		{
			name:     "interior extremes",
			highs:    []float64{5, 6, 9, 6, 5, 4, 5, 6, 7},
			lows:     []float64{4, 5, 8, 5, 4, 1, 4, 5, 6},
			lookback: 2,
			wantHi:   2,
			wantLo:   5,
		},
		{
			name:     "edge extremes ignored when interior candidates exist",
			highs:    []float64{5, 6, 9, 6, 5, 4, 5, 6, 20},
			lows:     []float64{4, 5, 8, 5, 4, 2, 4, 5, 1},
			lookback: 2,
			wantHi:   2,
			wantLo:   5,
		},
		{
			name:     "largest qualifying candidate wins",
			highs:    []float64{1, 5, 1, 1, 8, 1, 1, 5, 1},
			lows:     []float64{1, 0.5, 1, 1, 0.8, 1, 1, 0.2, 1},
			lookback: 1,
			wantHi:   4,
			wantLo:   7,
		},
		{
			name:     "ties keep first candidate",
			highs:    []float64{1, 7, 1, 1, 7, 1},
			lows:     []float64{1, 0.5, 1, 1, 0.5, 1},
			lookback: 1,
			wantHi:   1,
			wantLo:   1,
		},
		{
			name:     "monotonic series falls back to global scan",
			highs:    []float64{1, 2, 3, 4, 5, 6},
			lows:     []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5},
			lookback: 2,
			wantHi:   5,
			wantLo:   0,
		},
		{
			name:     "lookback larger than series falls back to global scan",
			highs:    []float64{3, 9, 4},
			lows:     []float64{2, 1, 3},
			lookback: 10,
			wantHi:   1,
			wantLo:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, err := FindRollingSwingPoints(barsFromHighLow(tt.highs, tt.lows), tt.lookback)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sp.High.Index != tt.wantHi {
				t.Errorf("high index = %d, want %d", sp.High.Index, tt.wantHi)
			}
			if sp.Low.Index != tt.wantLo {
				t.Errorf("low index = %d, want %d", sp.Low.Index, tt.wantLo)
			}
		})
	}
}

func TestSwingPoints_Range(t *testing.T) {
	sp, _ := FindSwingPoints(barsFromHighLow([]float64{10, 15}, []float64{5, 9}))
	if sp.Range() != 10 {
		t.Errorf("range = %.2f, want 10", sp.Range())
	}
}
