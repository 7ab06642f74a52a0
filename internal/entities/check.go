package entities

// RollResult is the outcome of one skill check
type RollResult struct {
	Skill           Skill `json:"skill"`
	Dice            []int `json:"dice"`
	Roll            int   `json:"roll"`
	Target          int   `json:"target"`
	Margin          int   `json:"margin"`
	Success         bool  `json:"success"`
	CriticalSuccess bool  `json:"critical_success"`
	CriticalFailure bool  `json:"critical_failure"`
}

// OpposedCheckResult is the outcome of an attacker/defender contest
type OpposedCheckResult struct {
	Attacker     *RollResult `json:"attacker"`
	Defender     *RollResult `json:"defender"`
	DefenseSkill Skill       `json:"defense_skill"`
	AttackerWins bool        `json:"attacker_wins"`
}
