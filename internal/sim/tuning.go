package sim

// Tuning collects every coefficient the original backend kept server-side.
// The values below are playable defaults; deployments override them through
// config rather than editing code.
type Tuning struct {
	// Heat decay.
	VehicleHeatBase      int
	PersonalHeatBase     int
	CrownVehicleBonus    int
	CrownPersonalBonus   int
	ServerRoomBonus      int
	HackerBonus          int

	// Laundering.
	WashDailyQuota int64
	CleanRate      float64
	CleanRateNeon  float64

	// Debt.
	DebtInterestRate float64

	// Dealer economy.
	DealerIncomePerShare int64
	QualityIncomeBonus   [3]float64 // multiplier per quality tier 1..3

	// Risk probabilities per lab per day; remainder is "none".
	ProbLabRaid          float64
	ProbContaminated     float64
	ProbRivalSabotage    float64
	ProbDEAInvestigation float64
	ProbBigHarvest       float64

	RaidOfflineDays    int
	BadBatchDays       int
	DEADurationDays    int
	RiskLogCap         int

	// Market walk.
	MarketMaxStep    float64 // max relative daily move before event bias
	MarketHistoryCap int
	InsiderTipPower  float64

	// Nemesis.
	NemesisSpawnCooldown int
}

// DefaultTuning mirrors the constants visible in the original client.
func DefaultTuning() Tuning {
	return Tuning{
		VehicleHeatBase:    8,
		PersonalHeatBase:   2,
		CrownVehicleBonus:  2,
		CrownPersonalBonus: 1,
		ServerRoomBonus:    5,
		HackerBonus:        2,

		WashDailyQuota: 10_000,
		CleanRate:      0.85,
		CleanRateNeon:  0.98,

		DebtInterestRate: 0.03,

		DealerIncomePerShare: 12,
		QualityIncomeBonus:   [3]float64{1.0, 1.35, 1.8},

		ProbLabRaid:          0.05,
		ProbContaminated:     0.06,
		ProbRivalSabotage:    0.05,
		ProbDEAInvestigation: 0.03,
		ProbBigHarvest:       0.08,

		RaidOfflineDays: 3,
		BadBatchDays:    2,
		DEADurationDays: 5,
		RiskLogCap:      50,

		MarketMaxStep:    0.12,
		MarketHistoryCap: 30,
		InsiderTipPower:  0.05,

		NemesisSpawnCooldown: 4,
	}
}
