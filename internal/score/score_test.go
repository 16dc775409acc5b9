package score

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestKillScore(t *testing.T) {
	tests := map[string]struct {
		n    int
		wave int
		exp  int
	}{
		"single kill wave 1":   {n: 1, wave: 1, exp: 100},
		"five kills wave 3":    {n: 5, wave: 3, exp: 1500},
		"zero kills":           {n: 0, wave: 4, exp: 0},
		"negative kills":       {n: -2, wave: 4, exp: 0},
		"wave zero":            {n: 3, wave: 0, exp: 0},
		"negative wave":        {n: 3, wave: -1, exp: 0},
		"big kills deep wave":  {n: 12, wave: 10, exp: 12000},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "score", KillScore(tt.n, tt.wave), tt.exp)
		})
	}
}

func TestWaveBonus(t *testing.T) {
	tests := map[string]struct {
		wave int
		exp  int
	}{
		"wave 1":        {wave: 1, exp: 500},
		"wave 3":        {wave: 3, exp: 1500},
		"wave zero":     {wave: 0, exp: 0},
		"negative wave": {wave: -5, exp: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "bonus", WaveBonus(tt.wave), tt.exp)
		})
	}
}

func TestCalculator_WaveTotalWithBonus(t *testing.T) {
	c := NewCalculator()

	testutil.AssertEqual(t, "kill points", c.RecordKills(5, 3), 1500)
	testutil.AssertEqual(t, "bonus", c.CompleteWave(3), 1500)
	testutil.AssertEqual(t, "wave score", c.WaveScore(), 3000)
	testutil.AssertEqual(t, "total", c.Total(), 3000)
}

func TestCalculator_KillsAccumulateImmediately(t *testing.T) {
	c := NewCalculator()

	c.RecordKills(1, 2)
	testutil.AssertEqual(t, "after first kill", c.Total(), 200)
	c.RecordKills(1, 2)
	testutil.AssertEqual(t, "after second kill", c.Total(), 400)
	testutil.AssertEqual(t, "wave kills", c.WaveKills(), 2)
}

func TestCalculator_BonusPaysOnce(t *testing.T) {
	c := NewCalculator()

	testutil.AssertEqual(t, "first completion", c.CompleteWave(2), 1000)
	testutil.AssertEqual(t, "second completion", c.CompleteWave(2), 0)
	testutil.AssertEqual(t, "total", c.Total(), 1000)

	c.NextWave()
	testutil.AssertEqual(t, "next wave completion", c.CompleteWave(3), 1500)
}

func TestCalculator_NextWaveKeepsTotal(t *testing.T) {
	c := NewCalculator()

	c.RecordKills(4, 1)
	c.CompleteWave(1)
	testutil.AssertEqual(t, "total before", c.Total(), 900)

	c.NextWave()

	testutil.AssertEqual(t, "total after", c.Total(), 900)
	testutil.AssertEqual(t, "wave kills", c.WaveKills(), 0)
	testutil.AssertEqual(t, "wave score", c.WaveScore(), 0)
}

func TestCalculator_IgnoresNonsense(t *testing.T) {
	c := NewCalculator()

	testutil.AssertEqual(t, "negative kills", c.RecordKills(-3, 2), 0)
	testutil.AssertEqual(t, "wave zero", c.RecordKills(2, 0), 0)
	testutil.AssertEqual(t, "total", c.Total(), 0)
	testutil.AssertEqual(t, "wave kills", c.WaveKills(), 0)
}

func TestCalculator_Restore(t *testing.T) {
	c := NewCalculator()
	c.RecordKills(2, 1)
	c.CompleteWave(1)

	if err := c.Restore(12345); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "total", c.Total(), 12345)
	testutil.AssertEqual(t, "wave kills", c.WaveKills(), 0)
	testutil.AssertEqual(t, "wave score", c.WaveScore(), 0)

	testutil.AssertErrorContains(t, c.Restore(-1), "cannot be negative")
}
