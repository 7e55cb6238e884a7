package catalog

import "testing"

func TestPackTable(t *testing.T) {
	all := All()
	if len(all) != 8 {
		t.Fatalf("expected 8 packs, got %d", len(all))
	}
	for _, p := range all {
		// gains were precomputed at 3.5% of price
		want := p.Price * 35 / 1000
		if p.DailyGain != want {
			t.Errorf("pack %d: dailyGain=%d want %d", p.ID, p.DailyGain, want)
		}
		if p.Total30 != p.DailyGain*30 {
			t.Errorf("pack %d: total30=%d want %d", p.ID, p.Total30, p.DailyGain*30)
		}
	}
}

func TestByID(t *testing.T) {
	p, ok := ByID(2)
	if !ok {
		t.Fatal("pack 2 missing")
	}
	if p.Price != 10000 || p.DailyGain != 350 {
		t.Fatalf("pack 2: price=%d gain=%d", p.Price, p.DailyGain)
	}
	if _, ok := ByID(99); ok {
		t.Fatal("pack 99 should not exist")
	}
}
