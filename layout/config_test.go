package layout

import (
	"errors"
	"testing"
)

func TestThresholdRuleRequired(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name      string
		rule      ThresholdRule
		pageCount int
		want      float64
	}{
		{"line full sample", cfg.LineThreshold, 15, 78},  // n = 15 - 2
		{"line ten pages", cfg.LineThreshold, 10, 36},    // n = 10 - 1
		{"line two pages", cfg.LineThreshold, 2, 0},      // n = 2 - 1
		{"block full sample", cfg.BlockThreshold, 15, 6}, // n = 6 - 2
		{"block ten pages", cfg.BlockThreshold, 10, 3},   // n = 4 - 1
		{"block three pages", cfg.BlockThreshold, 3, 0},  // n = 1 - 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Required(tt.pageCount); got != tt.want {
				t.Errorf("Required(%d) = %v, want %v", tt.pageCount, got, tt.want)
			}
		})
	}
}

func TestThresholdRuleAccept(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		rule  ThresholdRule
		count int
		want  bool
	}{
		{"line at bar", cfg.LineThreshold, 78, true},
		{"line below bar", cfg.LineThreshold, 77, false},
		{"block at bar", cfg.BlockThreshold, 6, false},
		{"block above bar", cfg.BlockThreshold, 7, true},
		{"zero count", cfg.LineThreshold, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Accept(tt.count, 15); got != tt.want {
				t.Errorf("Accept(%d, 15) = %v, want %v", tt.count, got, tt.want)
			}
		})
	}
}

func TestThresholdRuleZeroCountNeverAccepted(t *testing.T) {
	// a bar of zero must still require at least one matched pair
	rule := DefaultConfig().LineThreshold
	if rule.Required(1) != 0 {
		t.Fatalf("Required(1) = %v, want 0", rule.Required(1))
	}
	if rule.Accept(0, 1) {
		t.Error("Accept(0, 1) = true, want false")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero sample", func(c *Config) { c.SampleSize = 0 }, ErrInvalidSampleSize},
		{"line frac too big", func(c *Config) { c.LineFrac = 0.6 }, ErrInvalidFraction},
		{"sec frac zero", func(c *Config) { c.SecFrac = 0 }, ErrInvalidFraction},
		{"zero divisor", func(c *Config) { c.BlockThreshold.PageDivisor = 0 }, ErrInvalidThreshold},
		{"negative gap factor", func(c *Config) { c.GapFactor = -1 }, ErrInvalidGapFactor},
		{"negative edge blocks", func(c *Config) { c.EdgeBlocks = -1 }, ErrInvalidEdgeBlocks},
		{"zero edge blocks", func(c *Config) { c.EdgeBlocks = 0 }, nil},
		{"negative diff", func(c *Config) { c.Diff = -0.01 }, ErrInvalidTolerance},
		{"negative single line tolerance", func(c *Config) { c.SingleLineTolerance = -1 }, ErrInvalidTolerance},
		{"negative centerline tolerance", func(c *Config) { c.CenterlineTolerance = -0.1 }, ErrInvalidTolerance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseChromePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ChromePolicy
		wantErr bool
	}{
		{"", ChromeIgnore, false},
		{"ignore", ChromeIgnore, false},
		{"warn", ChromeWarn, false},
		{"fail", ChromeFail, false},
		{"panic", ChromeIgnore, true},
	}

	for _, tt := range tests {
		got, err := ParseChromePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChromePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChromePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && tt.in != "" && got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}
