package constants

import "time"

// Rating derivation. Rating = baseline + wins*delta - losses*delta; the
// adjusted MMR shifts the registered MMR by (rating - baseline).
const (
	RatingBaseline = 1500
	RatingDelta    = 25
)

// Balancer defaults.
const (
	DefaultTopK = 5
)

// Draft windows.
const (
	DefaultNominationWindow = 30 * time.Second
	DefaultPickWindow       = 30 * time.Second
)

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LeaderboardLimit = 25
	RecentMatchLimit = 10
)
