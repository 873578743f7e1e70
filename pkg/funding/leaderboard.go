package funding

import "sync"

// Contributor is the cumulative record of one sponsorable GitHub user.
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"` // Summed over every merged repository record
	Sponsors      int    `json:"sponsors"`      // Value from the most recently merged record
	Crates        int    `json:"crates"`        // Number of merged repository records
}

// Leaderboard merges per-repository contributor records into one record per
// login. It is safe for concurrent use.
//
// Merging is not idempotent: adding the same record twice counts it twice.
// Two crates that share a repository are meant to count twice, so records
// are not deduplicated by (login, repository).
type Leaderboard struct {
	mu      sync.Mutex
	index   map[string]int
	records []Contributor
}

// NewLeaderboard returns an empty leaderboard.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{index: make(map[string]int)}
}

// Add merges one per-repository record. An unseen login is inserted with
// Crates = 1. For a known login the contributions are added, Crates is
// incremented and Sponsors is replaced by the incoming value.
func (l *Leaderboard) Add(rec Contributor) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[rec.Login]
	if !ok {
		rec.Crates = 1
		l.index[rec.Login] = len(l.records)
		l.records = append(l.records, rec)
		return
	}

	cur := &l.records[i]
	cur.Contributions += rec.Contributions
	cur.Crates++
	cur.Sponsors = rec.Sponsors
}

// Get returns the record for login.
func (l *Leaderboard) Get(login string) (Contributor, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[login]
	if !ok {
		return Contributor{}, false
	}
	return l.records[i], true
}

// Len returns the number of distinct logins.
func (l *Leaderboard) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Records returns a copy of all records in first-appearance order.
func (l *Leaderboard) Records() []Contributor {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Contributor, len(l.records))
	copy(out, l.records)
	return out
}
