package domain

// LineStats is the offense/defense efficiency split produced by the
// possession classifier. Recomputed on demand, never persisted on its own.
type LineStats struct {
	OLinePoints          int `json:"oLinePoints"`
	OLineHolds           int `json:"oLineHolds"`
	OLineHoldPercentage  int `json:"oLineHoldPercentage"`
	DLinePoints          int `json:"dLinePoints"`
	DLineBreaks          int `json:"dLineBreaks"`
	DLineBreakPercentage int `json:"dLineBreakPercentage"`
}

// PlayerStats accumulates one player's counting stats within a game.
type PlayerStats struct {
	Name         string `json:"name"`
	Goals        int    `json:"goals"`
	Assists      int    `json:"assists"`
	Blocks       int    `json:"blocks"`
	Steals       int    `json:"steals"`
	Touches      int    `json:"touches"`
	PointsPlayed int    `json:"pointsPlayed"`
	PlusMinus    int    `json:"plusMinus"`
}

// MomentumStats summarizes score-differential swings over one game.
type MomentumStats struct {
	LargestLead     int `json:"largestLead"`
	LargestDeficit  int `json:"largestDeficit"`
	LeadChanges     int `json:"leadChanges"`
	LargestComeback int `json:"largestComeback"`
}

// HalfSplit is the score differential accumulated in each half.
type HalfSplit struct {
	FirstHalfDiff  int  `json:"firstHalfDiff"`
	SecondHalfDiff int  `json:"secondHalfDiff"`
	HalftimeNoted  bool `json:"halftimeNoted"`
}

// TimeoutStats tracks how often our timeouts were followed by our goal.
type TimeoutStats struct {
	Taken          int `json:"taken"`
	Converted      int `json:"converted"`
	ConversionRate int `json:"conversionRate"`
}

// CloseGameStats counts goals scored by either side while the game was
// within two points.
type CloseGameStats struct {
	OurGoals   int `json:"ourGoals"`
	TheirGoals int `json:"theirGoals"`
}

// AdvancedStats is the full per-game analytics payload.
type AdvancedStats struct {
	GameID    string         `json:"gameId"`
	Players   []PlayerStats  `json:"players"`
	Momentum  MomentumStats  `json:"momentum"`
	HalfSplit HalfSplit      `json:"halfSplit"`
	Timeouts  TimeoutStats   `json:"timeouts"`
	CloseGame CloseGameStats `json:"closeGame"`
}

// AggregatedPlayerStats are one player's totals and per-game averages
// across a set of games.
type AggregatedPlayerStats struct {
	Name           string  `json:"name"`
	GamesPlayed    int     `json:"gamesPlayed"`
	Goals          int     `json:"goals"`
	Assists        int     `json:"assists"`
	Blocks         int     `json:"blocks"`
	Steals         int     `json:"steals"`
	GoalsPerGame   float64 `json:"goalsPerGame"`
	AssistsPerGame float64 `json:"assistsPerGame"`
}

// HeadToHead is our record against one named opponent.
type HeadToHead struct {
	Opponent string `json:"opponent"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

// ScoringPatterns captures run/drought/margin trends across games.
type ScoringPatterns struct {
	LongestRun          int `json:"longestRun"`
	LongestDrought      int `json:"longestDrought"`
	CommonVictoryMargin int `json:"commonVictoryMargin"`
	CommonDefeatMargin  int `json:"commonDefeatMargin"`
	Blowouts            int `json:"blowouts"`
	CloseGames          int `json:"closeGames"`
}

// TeamTrends is the cross-game team summary.
type TeamTrends struct {
	GamesPlayed       int             `json:"gamesPlayed"`
	Wins              int             `json:"wins"`
	Losses            int             `json:"losses"`
	LongestWinStreak  int             `json:"longestWinStreak"`
	LongestLossStreak int             `json:"longestLossStreak"`
	CurrentStreak     int             `json:"currentStreak"`
	Patterns          ScoringPatterns `json:"patterns"`
	HeadToHead        []HeadToHead    `json:"headToHead"`
}

// PlayerChemistry measures how often two players appear and connect
// together. Pairs are unordered; assists count both directions.
type PlayerChemistry struct {
	PlayerA     string `json:"playerA"`
	PlayerB     string `json:"playerB"`
	SharedGames int    `json:"sharedGames"`
	Assists     int    `json:"assists"`
}

// AggregateReport bundles the cross-game outputs.
type AggregateReport struct {
	Players   []AggregatedPlayerStats `json:"players"`
	Trends    TeamTrends              `json:"trends"`
	Chemistry []PlayerChemistry       `json:"chemistry"`
}
