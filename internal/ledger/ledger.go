package ledger

import (
	"sort"

	"github.com/Tiliavir/taskboard/internal/model"
)

// DefaultLeaderboardSize is the number of entries shown on the leaderboard.
const DefaultLeaderboardSize = 10

// Credit adds amount to userID's balance, creating the balance with name
// when the user has none yet. It returns the updated collection and the
// user's new total.
func Credit(balances []model.PointBalance, userID, name string, amount int) ([]model.PointBalance, int) {
	for i := range balances {
		if balances[i].UserID == userID {
			balances[i].Points += amount
			return balances, balances[i].Points
		}
	}
	balances = append(balances, model.PointBalance{UserID: userID, Name: name, Points: amount})
	return balances, amount
}

// Get returns userID's points, 0 when the user has no balance.
func Get(balances []model.PointBalance, userID string) int {
	for _, b := range balances {
		if b.UserID == userID {
			return b.Points
		}
	}
	return 0
}

// Leaderboard returns at most limit balances ordered by points, highest
// first. Equal scores keep their storage order.
func Leaderboard(balances []model.PointBalance, limit int) []model.PointBalance {
	ranked := make([]model.PointBalance, len(balances))
	copy(ranked, balances)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Store is the persistence the ledger reads from.
type Store interface {
	LoadPoints() ([]model.PointBalance, error)
}

// Ledger answers point queries from the stored balances.
type Ledger struct {
	store Store
}

// New returns a Ledger reading from store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Points returns userID's current total.
func (l *Ledger) Points(userID string) (int, error) {
	balances, err := l.store.LoadPoints()
	if err != nil {
		return 0, err
	}
	return Get(balances, userID), nil
}

// Top returns the leaderboard truncated to limit entries.
func (l *Ledger) Top(limit int) ([]model.PointBalance, error) {
	balances, err := l.store.LoadPoints()
	if err != nil {
		return nil, err
	}
	return Leaderboard(balances, limit), nil
}
