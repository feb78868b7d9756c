package ledger_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Tiliavir/taskboard/internal/ledger"
	"github.com/Tiliavir/taskboard/internal/model"
)

func TestCreditNewUser(t *testing.T) {
	balances, total := ledger.Credit(nil, "u1", "Ann", 10)
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
	if len(balances) != 1 || balances[0].Name != "Ann" || balances[0].Points != 10 {
		t.Errorf("balances = %+v", balances)
	}
}

func TestCreditExistingUserKeepsName(t *testing.T) {
	balances := []model.PointBalance{{UserID: "u1", Name: "Ann", Points: 7}}
	balances, total := ledger.Credit(balances, "u1", "Annie", 10)
	if total != 17 {
		t.Errorf("total = %d, want 17", total)
	}
	if len(balances) != 1 {
		t.Fatalf("balances = %d, want 1", len(balances))
	}
	if balances[0].Name != "Ann" {
		t.Errorf("name = %q, want first-seen %q", balances[0].Name, "Ann")
	}
}

func TestGet(t *testing.T) {
	balances := []model.PointBalance{{UserID: "u1", Points: 3}}
	if got := ledger.Get(balances, "u1"); got != 3 {
		t.Errorf("Get(u1) = %d, want 3", got)
	}
	if got := ledger.Get(balances, "nobody"); got != 0 {
		t.Errorf("Get(nobody) = %d, want 0", got)
	}
	if len(balances) != 1 {
		t.Error("Get must not create a balance")
	}
}

func TestLeaderboard(t *testing.T) {
	var balances []model.PointBalance
	for i := 0; i < 15; i++ {
		balances = append(balances, model.PointBalance{UserID: fmt.Sprintf("u%02d", i), Points: (i % 4) * 10})
	}

	top := ledger.Leaderboard(balances, 10)
	if len(top) != 10 {
		t.Fatalf("len = %d, want 10", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i-1].Points < top[i].Points {
			t.Fatalf("not descending at %d: %+v", i, top)
		}
		if top[i-1].Points == top[i].Points && top[i-1].UserID > top[i].UserID {
			t.Errorf("tie order broken at %d: %s before %s", i, top[i-1].UserID, top[i].UserID)
		}
	}
	if top[0].UserID != "u03" {
		t.Errorf("first = %s, want u03", top[0].UserID)
	}
	if balances[0].UserID != "u00" {
		t.Error("Leaderboard must not reorder its input")
	}
}

func TestLeaderboardShort(t *testing.T) {
	top := ledger.Leaderboard([]model.PointBalance{{UserID: "a", Points: 1}}, 10)
	if len(top) != 1 {
		t.Errorf("len = %d, want 1", len(top))
	}
}

type fakeStore struct {
	points []model.PointBalance
	err    error
}

func (f fakeStore) LoadPoints() ([]model.PointBalance, error) { return f.points, f.err }

func TestLedgerService(t *testing.T) {
	l := ledger.New(fakeStore{points: []model.PointBalance{
		{UserID: "a", Points: 5},
		{UserID: "b", Points: 20},
	}})

	pts, err := l.Points("b")
	if err != nil || pts != 20 {
		t.Errorf("Points(b) = %d, %v", pts, err)
	}
	top, err := l.Top(1)
	if err != nil || len(top) != 1 || top[0].UserID != "b" {
		t.Errorf("Top(1) = %+v, %v", top, err)
	}

	boom := errors.New("boom")
	if _, err := ledger.New(fakeStore{err: boom}).Points("a"); !errors.Is(err, boom) {
		t.Errorf("Points error = %v, want boom", err)
	}
}
