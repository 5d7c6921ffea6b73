package entities

// GameType identifies a single-shot wagering game.
type GameType string

const (
	GameTypeCoinflip GameType = "coinflip"
	GameTypeDice     GameType = "dice"
	GameTypeRoulette GameType = "roulette"
	GameTypeSlots    GameType = "slots"
)

// WagerResult is the settled outcome of a single-shot wager.
type WagerResult struct {
	Game       GameType `json:"game"`
	Outcome    string   `json:"outcome"`
	Won        bool     `json:"won"`
	Winnings   int64    `json:"winnings"`
	NewBalance int64    `json:"new_balance"`
}

// DiceBetType enumerates the supported dice bets. Specific pays higher than
// the parity/range bets to offset its lower win probability.
type DiceBetType string

const (
	DiceBetSpecific DiceBetType = "specific"
	DiceBetHigh     DiceBetType = "high"
	DiceBetLow      DiceBetType = "low"
	DiceBetEven     DiceBetType = "even"
	DiceBetOdd      DiceBetType = "odd"
)

// RouletteBet is one bet within a batch settled by a single spin.
type RouletteBet struct {
	Bet    string `json:"bet"` // named bet or hyphen-delimited numbers
	Amount int64  `json:"amount"`
}

// RouletteBetOutcome reports one bet's share of a spin.
type RouletteBetOutcome struct {
	Bet        string `json:"bet"`
	Amount     int64  `json:"amount"`
	Won        bool   `json:"won"`
	Multiplier int64  `json:"multiplier"`
	Payout     int64  `json:"payout"`
}

// RouletteResult is the settled outcome of one spin serving a batch of bets.
type RouletteResult struct {
	Number      int                  `json:"number"`
	Color       string               `json:"color"`
	Bets        []RouletteBetOutcome `json:"bets"`
	TotalWager  int64                `json:"total_wager"`
	TotalPayout int64                `json:"total_payout"`
	NewBalance  int64                `json:"new_balance"`
}

// SlotsOutcome classifies a spin in priority order.
type SlotsOutcome string

const (
	SlotsOutcomeJackpot     SlotsOutcome = "jackpot"      // triple seven
	SlotsOutcomeTriple      SlotsOutcome = "triple"       // any other triple
	SlotsOutcomeDoubleSeven SlotsOutcome = "double_seven" // exactly two sevens
	SlotsOutcomePair        SlotsOutcome = "pair"         // any other pair
	SlotsOutcomeLoss        SlotsOutcome = "loss"
)

// SlotsResult is the settled outcome of one spin.
type SlotsResult struct {
	Reels           [3]string    `json:"reels"`
	Outcome         SlotsOutcome `json:"outcome"`
	Winnings        int64        `json:"winnings"`
	JackpotWon      int64        `json:"jackpot_won"`
	FreeSpinUsed    bool         `json:"free_spin_used"`
	FreeSpinGranted bool         `json:"free_spin_granted"`
	NewBalance      int64        `json:"new_balance"`
}
