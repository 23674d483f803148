package ledger

import (
	"context"
	"errors"
	"testing"
)

type fakeOracle struct {
	price PriceData
	err   error
	calls int
}

func (o *fakeOracle) GetPrice(ctx context.Context, feedID string) (PriceData, error) {
	o.calls++
	if o.err != nil {
		return PriceData{}, o.err
	}
	return o.price, nil
}

func TestCreateFundBindsCapability(t *testing.T) {
	fund, cap := CreateFund(100)

	if fund.ID == "" {
		t.Fatalf("expected fund id to be minted")
	}
	if fund.Raised != 0 {
		t.Fatalf("expected raised 0, got %d", fund.Raised)
	}
	if fund.Target != 100 {
		t.Fatalf("expected target 100, got %d", fund.Target)
	}
	if cap.FundID() != fund.ID {
		t.Fatalf("expected capability bound to %q, got %q", fund.ID, cap.FundID())
	}
	if cap.ID() == fund.ID {
		t.Fatalf("expected capability id distinct from fund id")
	}

	other, otherCap := CreateFund(100)
	if other.ID == fund.ID {
		t.Fatalf("expected distinct fund ids")
	}
	if otherCap.ID() == cap.ID() {
		t.Fatalf("expected distinct capability ids")
	}
}

func TestDonateConservation(t *testing.T) {
	fund, _ := CreateFund(1000)
	oracle := &fakeOracle{price: PriceData{Price: 1 * PriceScale}}

	amounts := []uint64{1, 500_000_000, 3_000_000_000, 42}
	var sum uint64
	for _, amount := range amounts {
		receipt, err := Donate(context.Background(), oracle, "NATIVE/USD", fund, amount, nil)
		if err != nil {
			t.Fatalf("donate %d: %v", amount, err)
		}
		if receipt.AmountDonated != amount {
			t.Fatalf("expected receipt amount %d, got %d", amount, receipt.AmountDonated)
		}
		if receipt.FundID != fund.ID {
			t.Fatalf("expected receipt bound to %q, got %q", fund.ID, receipt.FundID)
		}
		sum += amount
		if fund.Raised != sum {
			t.Fatalf("expected raised %d after donation, got %d", sum, fund.Raised)
		}
	}
}

func TestDonateOracleFailureLeavesFundUntouched(t *testing.T) {
	fund, _ := CreateFund(100)
	oracle := &fakeOracle{err: errors.New("rpc timeout")}

	fired := false
	receipt, err := Donate(context.Background(), oracle, "NATIVE/USD", fund, 5, func(GoalReached) {
		fired = true
	})
	if !errors.Is(err, ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}
	if receipt != nil {
		t.Fatalf("expected no receipt on oracle failure")
	}
	if fund.Raised != 0 {
		t.Fatalf("expected raised unchanged, got %d", fund.Raised)
	}
	if fired {
		t.Fatalf("expected no goal signal on oracle failure")
	}
	if oracle.calls != 1 {
		t.Fatalf("expected a single oracle query, got %d", oracle.calls)
	}
}

func TestWithdrawAuthorization(t *testing.T) {
	fund1, cap1 := CreateFund(100)
	fund2, cap2 := CreateFund(200)
	oracle := &fakeOracle{price: PriceData{Price: 1 * PriceScale}}

	if _, err := Donate(context.Background(), oracle, "NATIVE/USD", fund2, 7, nil); err != nil {
		t.Fatalf("donate: %v", err)
	}

	if _, err := Withdraw(cap1, fund2); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign capability, got %v", err)
	}
	if fund2.Raised != 7 {
		t.Fatalf("expected fund2 raised unchanged after rejected withdraw, got %d", fund2.Raised)
	}
	if fund1.Raised != 0 {
		t.Fatalf("expected fund1 raised unchanged, got %d", fund1.Raised)
	}

	if _, err := Withdraw(nil, fund2); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for nil capability, got %v", err)
	}

	amount, err := Withdraw(cap2, fund2)
	if err != nil {
		t.Fatalf("withdraw with matching capability: %v", err)
	}
	if amount != 7 {
		t.Fatalf("expected drained amount 7, got %d", amount)
	}
}

func TestWithdrawDrainsFullyAndRepeats(t *testing.T) {
	fund, cap := CreateFund(100)
	oracle := &fakeOracle{price: PriceData{Price: 1 * PriceScale}}

	if _, err := Donate(context.Background(), oracle, "NATIVE/USD", fund, 9, nil); err != nil {
		t.Fatalf("donate: %v", err)
	}

	amount, err := Withdraw(cap, fund)
	if err != nil {
		t.Fatalf("first withdraw: %v", err)
	}
	if amount != 9 {
		t.Fatalf("expected 9 drained, got %d", amount)
	}
	if fund.Raised != 0 {
		t.Fatalf("expected raised 0 after drain, got %d", fund.Raised)
	}

	amount, err = Withdraw(cap, fund)
	if err != nil {
		t.Fatalf("second withdraw: %v", err)
	}
	if amount != 0 {
		t.Fatalf("expected zero transfer on drained fund, got %d", amount)
	}
	if fund.Raised != 0 {
		t.Fatalf("expected raised to stay 0, got %d", fund.Raised)
	}
}

func TestRestoreCapMatchesIssuedCapability(t *testing.T) {
	fund, cap := CreateFund(50)

	restored := RestoreCap(cap.ID(), cap.FundID())
	if _, err := Withdraw(restored, fund); err != nil {
		t.Fatalf("restored capability should authorize its own fund: %v", err)
	}

	foreign := RestoreCap(cap.ID(), "some-other-fund")
	if _, err := Withdraw(foreign, fund); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for rebound capability, got %v", err)
	}
}

func TestGoalReachedScenario(t *testing.T) {
	// 目标 100，价格折算后 1 原生单位 = 50 参考货币单位
	fund, cap := CreateFund(100)
	oracle := &fakeOracle{price: PriceData{Price: 50 * PriceScale}}

	var signals []GoalReached
	sink := func(ev GoalReached) { signals = append(signals, ev) }

	if _, err := Donate(context.Background(), oracle, "NATIVE/USD", fund, NativeScale, sink); err != nil {
		t.Fatalf("first donation: %v", err)
	}
	if len(signals) != 0 {
		t.Fatalf("expected no goal signal at 50/100, got %d signals", len(signals))
	}

	if _, err := Donate(context.Background(), oracle, "NATIVE/USD", fund, NativeScale, sink); err != nil {
		t.Fatalf("second donation: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("expected goal signal at 100/100, got %d signals", len(signals))
	}
	if signals[0].Raised != 2*NativeScale {
		t.Fatalf("expected signal to carry raised %d, got %d", uint64(2*NativeScale), signals[0].Raised)
	}
	if signals[0].FundID != fund.ID {
		t.Fatalf("expected signal for fund %q, got %q", fund.ID, signals[0].FundID)
	}

	// 达标后继续捐赠会再次触发，事件不去重
	if _, err := Donate(context.Background(), oracle, "NATIVE/USD", fund, 1, sink); err != nil {
		t.Fatalf("third donation: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected goal signal to re-fire past the goal, got %d signals", len(signals))
	}
	if signals[1].Raised != fund.Raised {
		t.Fatalf("expected signal to carry live raised %d, got %d", fund.Raised, signals[1].Raised)
	}

	amount, err := Withdraw(cap, fund)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if amount != 2*NativeScale+1 {
		t.Fatalf("expected full drain %d, got %d", uint64(2*NativeScale+1), amount)
	}
	if fund.Raised != 0 {
		t.Fatalf("expected raised 0 after withdraw, got %d", fund.Raised)
	}
}
