package space

import "testing"

func TestLoadTunablesDefaults(t *testing.T) {
	tun, err := LoadTunables("")
	if err != nil {
		t.Fatalf("LoadTunables: %v", err)
	}
	if tun.Workers <= 0 {
		t.Errorf("expected a positive default worker count, got %d", tun.Workers)
	}
	if tun.SplitSize <= 0 || tun.SubSize <= 0 {
		t.Errorf("expected positive split/sub sizes, got %d/%d", tun.SplitSize, tun.SubSize)
	}
}

func TestTunablesValidate(t *testing.T) {
	base := Tunables{SplitSize: 10, SplitRatio: 0.5, SubSize: 4, Stretch: 1.2, CellAllocChunk: 64, Workers: 4}

	cases := []struct {
		name string
		mod  func(t *Tunables)
	}{
		{"split size", func(t *Tunables) { t.SplitSize = 0 }},
		{"split ratio too high", func(t *Tunables) { t.SplitRatio = 1.5 }},
		{"split ratio zero", func(t *Tunables) { t.SplitRatio = 0 }},
		{"sub size", func(t *Tunables) { t.SubSize = 0 }},
		{"stretch", func(t *Tunables) { t.Stretch = 0.5 }},
		{"alloc chunk", func(t *Tunables) { t.CellAllocChunk = 0 }},
		{"workers", func(t *Tunables) { t.Workers = 0 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tun := base
			c.mod(&tun)
			if err := tun.validate(); err == nil {
				t.Errorf("expected validation error for %s", c.name)
			}
		})
	}

	if err := base.validate(); err != nil {
		t.Errorf("expected base tunables to validate, got %v", err)
	}
}
