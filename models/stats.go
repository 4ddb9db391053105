package models

// GlobalStats aggregates figures across every account
type GlobalStats struct {
	TotalUsers   int64
	TotalBalance int64
	TotalGames   int64
	TotalWagered int64
	HouseProfit  int64 // negated sum of player net profit
}

// BetStats aggregates settled bets of a single player
type BetStats struct {
	TotalBets    int64
	TotalWins    int64
	TotalWagered int64
	TotalPaidOut int64
	BiggestWin   int64
}
