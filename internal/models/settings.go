package models

// AppSettings is the process-wide configuration read by every reward-granting
// operation. JackpotGC and JackpotSC are running pool totals.
type AppSettings struct {
	NewUserBonusGC float64 `json:"newUserBonusGC"`
	NewUserBonusSC float64 `json:"newUserBonusSC"`
	DailyRewardGC  float64 `json:"dailyRewardGC"`
	DailyRewardSC  float64 `json:"dailyRewardSC"`
	MinRedemption  float64 `json:"minRedemption"`

	JackpotGC               float64 `json:"jackpotGC"`
	JackpotSC               float64 `json:"jackpotSC"`
	JackpotSeedGC           float64 `json:"jackpotSeedGC"`
	JackpotSeedSC           float64 `json:"jackpotSeedSC"`
	JackpotContributionRate float64 `json:"jackpotContributionRate"`

	MaintenanceMode   bool `json:"maintenanceMode"`
	EnableRedemptions bool `json:"enableRedemptions"`
	EnableAIIngestion bool `json:"enableAIIngestion"`
	EnableBridge      bool `json:"enableBridge"`
}

func DefaultSettings() AppSettings {
	return AppSettings{
		NewUserBonusGC:          10000,
		NewUserBonusSC:          2,
		DailyRewardGC:           1000,
		DailyRewardSC:           0.5,
		MinRedemption:           50,
		JackpotGC:               250000,
		JackpotSC:               5000,
		JackpotSeedGC:           250000,
		JackpotSeedSC:           5000,
		JackpotContributionRate: 0.01,
		EnableRedemptions:       true,
		EnableAIIngestion:       true,
		EnableBridge:            true,
	}
}

func (s *AppSettings) Jackpot(c Currency) float64 {
	if c == CurrencySC {
		return s.JackpotSC
	}
	return s.JackpotGC
}

func (s *AppSettings) JackpotSeed(c Currency) float64 {
	if c == CurrencySC {
		return s.JackpotSeedSC
	}
	return s.JackpotSeedGC
}

func (s *AppSettings) SetJackpot(c Currency, v float64) {
	if c == CurrencySC {
		s.JackpotSC = v
		return
	}
	s.JackpotGC = v
}

// SettingsPatch merges into AppSettings; nil fields are left unchanged.
type SettingsPatch struct {
	NewUserBonusGC          *float64 `json:"newUserBonusGC,omitempty"`
	NewUserBonusSC          *float64 `json:"newUserBonusSC,omitempty"`
	DailyRewardGC           *float64 `json:"dailyRewardGC,omitempty"`
	DailyRewardSC           *float64 `json:"dailyRewardSC,omitempty"`
	MinRedemption           *float64 `json:"minRedemption,omitempty"`
	JackpotGC               *float64 `json:"jackpotGC,omitempty"`
	JackpotSC               *float64 `json:"jackpotSC,omitempty"`
	JackpotSeedGC           *float64 `json:"jackpotSeedGC,omitempty"`
	JackpotSeedSC           *float64 `json:"jackpotSeedSC,omitempty"`
	JackpotContributionRate *float64 `json:"jackpotContributionRate,omitempty"`
	MaintenanceMode         *bool    `json:"maintenanceMode,omitempty"`
	EnableRedemptions       *bool    `json:"enableRedemptions,omitempty"`
	EnableAIIngestion       *bool    `json:"enableAIIngestion,omitempty"`
	EnableBridge            *bool    `json:"enableBridge,omitempty"`
}

func (p SettingsPatch) Apply(s *AppSettings) {
	setFloat(&s.NewUserBonusGC, p.NewUserBonusGC)
	setFloat(&s.NewUserBonusSC, p.NewUserBonusSC)
	setFloat(&s.DailyRewardGC, p.DailyRewardGC)
	setFloat(&s.DailyRewardSC, p.DailyRewardSC)
	setFloat(&s.MinRedemption, p.MinRedemption)
	setFloat(&s.JackpotGC, p.JackpotGC)
	setFloat(&s.JackpotSC, p.JackpotSC)
	setFloat(&s.JackpotSeedGC, p.JackpotSeedGC)
	setFloat(&s.JackpotSeedSC, p.JackpotSeedSC)
	setFloat(&s.JackpotContributionRate, p.JackpotContributionRate)
	setBool(&s.MaintenanceMode, p.MaintenanceMode)
	setBool(&s.EnableRedemptions, p.EnableRedemptions)
	setBool(&s.EnableAIIngestion, p.EnableAIIngestion)
	setBool(&s.EnableBridge, p.EnableBridge)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
