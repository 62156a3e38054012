package money

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		rounding Rounding
		want     Cents
		wantErr  bool
	}{
		{"100", RoundHalfUp, 10000, false},
		{"100.00", RoundHalfUp, 10000, false},
		{"33.34", RoundHalfUp, 3334, false},
		{" 0.5 ", RoundHalfUp, 50, false},
		{"0.125", RoundHalfUp, 13, false},
		{"0.125", RoundHalfEven, 12, false},
		{"0.135", RoundHalfEven, 14, false},
		{"-0.125", RoundHalfUp, -13, false},
		{"12.3449", RoundHalfEven, 1234, false},
		{"abc", RoundHalfUp, 0, true},
		{"", RoundHalfUp, 0, true},
		{"1000000000000.00", RoundHalfUp, MaxCents, false},
		{"-1000000000000.00", RoundHalfUp, -MaxCents, false},
		{"1000000000000.01", RoundHalfUp, 0, true},
		{"184467440737095516.17", RoundHalfUp, 0, true},
		{"92233720368547758.08", RoundHalfUp, 0, true},
		{"1e20", RoundHalfUp, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.rounding.String(), func(t *testing.T) {
			got, err := Parse(tt.input, tt.rounding)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRounding(t *testing.T) {
	if r, err := ParseRounding("half_up"); err != nil || r != RoundHalfUp {
		t.Errorf("half_up: got %v, %v", r, err)
	}
	if r, err := ParseRounding("HALF_EVEN"); err != nil || r != RoundHalfEven {
		t.Errorf("HALF_EVEN: got %v, %v", r, err)
	}
	if _, err := ParseRounding("truncate"); err == nil {
		t.Error("expected error for unknown rounding mode")
	}
}

func TestCentsString(t *testing.T) {
	tests := map[Cents]string{
		0:     "0.00",
		5:     "0.05",
		3334:  "33.34",
		10000: "100.00",
		-1500: "-15.00",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("Cents(%d).String() = %q, want %q", int64(c), got, want)
		}
	}
}

func TestCentsJSON(t *testing.T) {
	type payload struct {
		Amount Cents `json:"amount"`
	}

	b, err := json.Marshal(payload{Amount: 3333})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"amount":33.33}` {
		t.Errorf("marshal = %s, want {\"amount\":33.33}", b)
	}

	b, _ = json.Marshal(payload{Amount: 1500})
	if string(b) != `{"amount":15.00}` {
		t.Errorf("marshal = %s, want exactly two fraction digits", b)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"amount":"66.67"}`), &p); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if p.Amount != 6667 {
		t.Errorf("unmarshal string = %d, want 6667", p.Amount)
	}
	if err := json.Unmarshal([]byte(`{"amount":12.5}`), &p); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if p.Amount != 1250 {
		t.Errorf("unmarshal number = %d, want 1250", p.Amount)
	}
	if err := json.Unmarshal([]byte(`{"amount":1.005}`), &p); err == nil {
		t.Error("expected error for three fraction digits")
	}
}

func TestFromDecimalAndBack(t *testing.T) {
	d := decimal.RequireFromString("66.67")
	c, err := FromDecimal(d, RoundHalfUp)
	if err != nil {
		t.Fatalf("FromDecimal failed: %v", err)
	}
	if c != 6667 {
		t.Fatalf("FromDecimal = %d, want 6667", c)
	}
	if !c.Decimal().Equal(d) {
		t.Errorf("Decimal() = %s, want %s", c.Decimal(), d)
	}
	if Sum(3334, 3333, 3333) != 10000 {
		t.Error("Sum mismatch")
	}
	if Cents(-42).Abs() != 42 {
		t.Error("Abs mismatch")
	}
}

func TestOutOfRangeRejected(t *testing.T) {
	if _, err := FromDecimal(decimal.RequireFromString("-1e20"), RoundHalfEven); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("FromDecimal(-1e20) error = %v, want ErrOutOfRange", err)
	}

	var c Cents
	for _, raw := range []string{`184467440737095516.17`, `"1e20"`} {
		if err := json.Unmarshal([]byte(raw), &c); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrOutOfRange", raw, err)
		}
	}
	if c != 0 {
		t.Errorf("rejected values must leave the target untouched, got %s", c)
	}
}
