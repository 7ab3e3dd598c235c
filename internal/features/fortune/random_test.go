package fortune

import (
	"fmt"
	"math"
	"testing"
)

func TestSeededUniform_Deterministic(t *testing.T) {
	seeds := []string{
		"12345_2025-06-01_fortune",
		"",
		"кириллица_和字",
		"12345_2025-06-01_good_v3",
	}
	for _, seed := range seeds {
		a := SeededUniform(seed)
		b := SeededUniform(seed)
		if a != b {
			t.Errorf("SeededUniform(%q) not deterministic: %v != %v", seed, a, b)
		}
	}
}

func TestSeededUniform_Range(t *testing.T) {
	seeds := []string{
		"",
		" ",
		"a",
		"\x00\x00\x00",
		"очень длинный сид с юникодом 🎲🎲🎲 и ещё немного текста",
	}
	for i := 0; i < 10000; i++ {
		seeds = append(seeds, fmt.Sprintf("%d_2025-06-01_fortune", i))
	}
	for _, seed := range seeds {
		v := SeededUniform(seed)
		if v < 0 || v >= 1 {
			t.Fatalf("SeededUniform(%q) = %v, want [0, 1)", seed, v)
		}
	}
}

func TestSeededUniform_DiffersAcrossSeeds(t *testing.T) {
	// Близкие сиды должны давать разные значения почти всегда
	same := 0
	const n = 1000
	for i := 0; i < n; i++ {
		a := SeededUniform(fmt.Sprintf("%d_2025-06-01_fortune", i))
		b := SeededUniform(fmt.Sprintf("%d_2025-06-02_fortune", i))
		if a == b {
			same++
		}
	}
	if same > n/100 {
		t.Errorf("too many collisions across dates: %d of %d", same, n)
	}
}

func TestSampleBeta_Deterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		seed := fmt.Sprintf("%d_2025-06-01_fortune", i)
		a := SampleBeta(betaAlpha, betaBeta, seed)
		b := SampleBeta(betaAlpha, betaBeta, seed)
		if a != b {
			t.Fatalf("SampleBeta(%q) not deterministic: %v != %v", seed, a, b)
		}
	}
}

func TestSampleBeta_Range(t *testing.T) {
	for i := 0; i < 10000; i++ {
		seed := fmt.Sprintf("%d_2025-06-01_fortune", i)
		v := SampleBeta(betaAlpha, betaBeta, seed)
		if v < 0 || v > 1 {
			t.Fatalf("SampleBeta(%q) = %v, want [0, 1]", seed, v)
		}
	}
}

func TestSampleBeta_CenteredMean(t *testing.T) {
	// Beta(2,2) симметрична вокруг 0.5 — среднее по многим сидам
	// должно быть близко к центру
	const n = 20000
	var sum float64
	for i := 0; i < n; i++ {
		sum += SampleBeta(betaAlpha, betaBeta, fmt.Sprintf("user%d_2025-06-01_fortune", i))
	}
	mean := sum / n
	if math.Abs(mean-0.5) > 0.02 {
		t.Errorf("mean = %v, want ~0.5", mean)
	}
}

func TestSampleBeta_ConcentratedAroundCenter(t *testing.T) {
	// У Beta(2,2) хвосты лёгкие: крайние значения должны быть редкостью
	const n = 20000
	extreme := 0
	for i := 0; i < n; i++ {
		v := SampleBeta(betaAlpha, betaBeta, fmt.Sprintf("user%d_2025-06-01_fortune", i))
		if v < 0.05 || v > 0.95 {
			extreme++
		}
	}
	// Теоретическая масса хвостов ~1.45%, оставляем запас
	if float64(extreme)/n > 0.05 {
		t.Errorf("too many extreme values: %d of %d", extreme, n)
	}
}
