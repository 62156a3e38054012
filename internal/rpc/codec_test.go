package rpc

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCodec(t *testing.T) {
	var c Codec

	t.Run("empty body", func(t *testing.T) {
		var req ListGroupsRequest
		if err := c.Unmarshal(nil, &req); err != nil {
			t.Errorf("Unmarshal(nil) failed: %v", err)
		}
	})

	t.Run("decimal amount accepts number and string", func(t *testing.T) {
		for _, body := range []string{
			`{"groupId":"g","amount":100.5,"memberUserCodes":["A"]}`,
			`{"groupId":"g","amount":"100.5","memberUserCodes":["A"]}`,
		} {
			var req CreateExpenseRequest
			if err := c.Unmarshal([]byte(body), &req); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", body, err)
			}
			if !req.Amount.Equal(decimal.RequireFromString("100.5")) {
				t.Errorf("Amount = %s, want 100.5", req.Amount)
			}
		}
	})

	t.Run("amounts render with two decimals", func(t *testing.T) {
		data, err := c.Marshal(&BalanceEdge{FromUserCode: "B", ToUserCode: "A", Amount: 3300})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		want := `{"fromUserCode":"B","toUserCode":"A","amount":33.00}`
		if string(data) != want {
			t.Errorf("Marshal = %s, want %s", data, want)
		}
	})

	t.Run("bad json", func(t *testing.T) {
		var req LoginRequest
		err := c.Unmarshal([]byte(`{"email":`), &req)
		if err == nil || !strings.Contains(err.Error(), "LoginRequest") {
			t.Errorf("Expected decode error naming the message, got %v", err)
		}
	})
}
