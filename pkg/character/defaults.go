package character

// Defaults returns the base values offered when no record exists yet.
func Defaults() Stats {
	return Stats{
		HealthMax1:   400,
		HealthMax2:   400,
		Vitality:     10,
		Attunement:   10,
		Endurance:    10,
		Strength:     10,
		Dexterity:    10,
		Intelligence: 10,
		Faith:        10,
		Resistance:   10,
		Level:        1,
		SoulState:    Human,
		IsMale:       true,
	}
}

// SetMaxHealth sets the current health and both maximum health fields.
func (s *Stats) SetMaxHealth(hp uint32) {
	s.HealthCurrent = hp
	s.HealthMax1 = hp
	s.HealthMax2 = hp
}
