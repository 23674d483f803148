package logic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/blues/fls/internal/ledger"
	"github.com/blues/fls/internal/oracle"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type stubOracle struct {
	price ledger.PriceData
	err   error
}

func (o *stubOracle) GetPrice(ctx context.Context, feedID string) (ledger.PriceData, error) {
	if o.err != nil {
		return ledger.PriceData{}, o.err
	}
	return o.price, nil
}

var fundColumns = []string{"id", "created_at", "updated_at", "target_amount", "raised_amount", "creator_address", "status"}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return db, mock
}

func fundRow(id string, target, raised int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(fundColumns).
		AddRow(id, now, now, target, raised, "0xcreator", "active")
}

// 捐赠必须锁基金行并用数据库端累加更新余额，
// 并发捐赠各自的增量才不会互相覆盖
func TestDonateLocksRowAndIncrementsBalance(t *testing.T) {
	db, mock := newMockDB(t)

	var events []ledger.GoalReached
	logic := NewFundLogic(db, &stubOracle{price: ledger.PriceData{Price: 50 * ledger.PriceScale}},
		oracle.NewCache(), "NATIVE/USD", func(ev ledger.GoalReached) {
			events = append(events, ev)
		})

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "fund" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(fundRow("fund-1", 100, ledger.NativeScale))
	mock.ExpectExec(`UPDATE "fund" SET "raised_amount"=raised_amount \+ \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "receipt"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	receipt, err := logic.Donate(context.Background(), "fund-1", "0xdonor", ledger.NativeScale)
	if err != nil {
		t.Fatalf("donate: %v", err)
	}
	if receipt.Amount != ledger.NativeScale {
		t.Fatalf("expected receipt amount %d, got %d", int64(ledger.NativeScale), receipt.Amount)
	}

	// 第二笔捐赠把折算价值推到 100 >= 100，事务提交后广播达标事件
	if len(events) != 1 {
		t.Fatalf("expected 1 goal event, got %d", len(events))
	}
	if events[0].Raised != 2*ledger.NativeScale {
		t.Fatalf("expected goal event raised %d, got %d", uint64(2*ledger.NativeScale), events[0].Raised)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDonateOracleFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	logic := NewFundLogic(db, &stubOracle{err: errors.New("rpc timeout")},
		oracle.NewCache(), "NATIVE/USD", nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "fund" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(fundRow("fund-1", 100, 42))
	mock.ExpectRollback()

	_, err := logic.Donate(context.Background(), "fund-1", "0xdonor", 5)
	if !errors.Is(err, ledger.ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}

	// 没有余额更新、没有凭据写入，事务整体回滚
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithdrawLocksRowDrainsAndMarksDrained(t *testing.T) {
	db, mock := newMockDB(t)

	logic := NewFundLogic(db, &stubOracle{}, oracle.NewCache(), "NATIVE/USD", nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "fund" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(fundRow("fund-1", 100, 100))
	mock.ExpectQuery(`SELECT \* FROM "owner_capability" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "fund_id"}).
			AddRow("cap-1", time.Now(), "fund-1"))
	mock.ExpectExec(`UPDATE "fund" SET "raised_amount"=\$1,"status"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	amount, err := logic.Withdraw("fund-1", "cap-1")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if amount != 100 {
		t.Fatalf("expected drained amount 100, got %d", amount)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithdrawZeroBalanceKeepsStatus(t *testing.T) {
	db, mock := newMockDB(t)

	logic := NewFundLogic(db, &stubOracle{}, oracle.NewCache(), "NATIVE/USD", nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "fund" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(fundRow("fund-1", 100, 0))
	mock.ExpectQuery(`SELECT \* FROM "owner_capability" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "fund_id"}).
			AddRow("cap-1", time.Now(), "fund-1"))
	mock.ExpectExec(`UPDATE "fund" SET "raised_amount"=\$1,"updated_at"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	amount, err := logic.Withdraw("fund-1", "cap-1")
	if err != nil {
		t.Fatalf("withdraw on drained fund: %v", err)
	}
	if amount != 0 {
		t.Fatalf("expected zero transfer, got %d", amount)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithdrawForeignCapabilityRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	logic := NewFundLogic(db, &stubOracle{}, oracle.NewCache(), "NATIVE/USD", nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "fund" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(fundRow("fund-1", 100, 100))
	mock.ExpectQuery(`SELECT \* FROM "owner_capability" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "fund_id"}).
			AddRow("cap-2", time.Now(), "fund-2"))
	mock.ExpectRollback()

	_, err := logic.Withdraw("fund-1", "cap-2")
	if !errors.Is(err, ledger.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// 余额更新从未发出，基金分文未动
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithdrawUnknownCapabilityRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	logic := NewFundLogic(db, &stubOracle{}, oracle.NewCache(), "NATIVE/USD", nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "fund" WHERE id = \$1.*FOR UPDATE`).
		WillReturnRows(fundRow("fund-1", 100, 100))
	mock.ExpectQuery(`SELECT \* FROM "owner_capability" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "fund_id"}))
	mock.ExpectRollback()

	_, err := logic.Withdraw("fund-1", "cap-unknown")
	if !errors.Is(err, ledger.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown capability, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
