package bank

import "github.com/rahulpattadi/toppers/internal/domain"

// FallbackQuestions returns the built-in question set served when the data
// file cannot be loaded. A fresh slice is returned on every call.
//
// Questions 8 and 9 carry identical content. They ship that way and are
// kept as two records so fallback counts stay stable.
func FallbackQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:         1,
			Text:       "A conductor has a resistance of 5 Ω and a current of 2 A flows through it. What is the potential difference across the conductor?",
			Difficulty: domain.DifficultyEasy,
			Type:       domain.TypeNumerical,
			Tags:       []string{"ohms-law"},
			Solution:   "According to Ohm's Law, V = I × R",
			Steps: []string{
				"Apply Ohm's Law: V = I × R",
				"Given: R = 5 Ω, I = 2 A",
				"V = 2 A × 5 Ω = 10 V",
			},
			Formula: "V = I × R",
			Answer:  "10 V",
		},
		{
			ID:         2,
			Text:       "Calculate the resistivity of a material of a wire that has a resistance of 20 Ω, length 10 m, and cross-sectional area 2 × 10⁻⁶ m².",
			Difficulty: domain.DifficultyMedium,
			Type:       domain.TypeNumerical,
			Tags:       []string{"resistivity"},
			Solution:   "Use the resistivity formula ρ = RA/L",
			Steps: []string{
				"Use formula: ρ = RA/L",
				"Given: R = 20 Ω, A = 2 × 10⁻⁶ m², L = 10 m",
				"ρ = 20 × (2 × 10⁻⁶) / 10 = 4 × 10⁻⁶ Ω·m",
			},
			Formula: "ρ = RA/L",
			Answer:  "4 × 10⁻⁶ Ω·m",
		},
		{
			ID:         3,
			Text:       "Three resistors of 2 Ω, 3 Ω, and 5 Ω are connected in series. Calculate the equivalent resistance of the circuit.",
			Difficulty: domain.DifficultyMedium,
			Type:       domain.TypeNumerical,
			Tags:       []string{"series-circuit"},
			Solution:   "In series, resistances add up",
			Steps: []string{
				"For series: R_eq = R₁ + R₂ + R₃",
				"Given: R₁ = 2 Ω, R₂ = 3 Ω, R₃ = 5 Ω",
				"R_eq = 2 + 3 + 5 = 10 Ω",
			},
			Formula: "R_eq = R₁ + R₂ + R₃",
			Answer:  "10 Ω",
		},
		{
			ID:         4,
			Text:       "Three resistors of 4 Ω, 6 Ω, and 12 Ω are connected in parallel. Find the equivalent resistance of the combination.",
			Difficulty: domain.DifficultyHard,
			Type:       domain.TypeNumerical,
			Tags:       []string{"parallel-circuit"},
			Solution:   "Use parallel resistance formula",
			Steps: []string{
				"For parallel: 1/R_eq = 1/R₁ + 1/R₂ + 1/R₃",
				"1/R_eq = 1/4 + 1/6 + 1/12",
				"1/R_eq = 3/12 + 2/12 + 1/12 = 6/12 = 1/2",
				"R_eq = 2 Ω",
			},
			Formula: "1/R_eq = 1/R₁ + 1/R₂ + 1/R₃",
			Answer:  "2 Ω",
		},
		{
			ID:         5,
			Text:       "An electric bulb is rated at 60 W, 220 V. Find the current passing through it and its resistance.",
			Difficulty: domain.DifficultyMedium,
			Type:       domain.TypeNumerical,
			Tags:       []string{"power"},
			Solution:   "Use power formulas P = VI and V = IR",
			Steps: []string{
				"Given: P = 60 W, V = 220 V",
				"Find current: I = P/V = 60/220 = 0.273 A",
				"Find resistance: R = V/I = 220/0.273 = 806.6 Ω",
			},
			Formula: "P = VI, R = V/I",
			Answer:  "I = 0.273 A, R = 807 Ω",
		},
		{
			ID:         6,
			Text:       "A current of 0.5 A is drawn by a filament of an electric bulb for 10 minutes. Find the amount of electric charge that flows through the circuit.",
			Difficulty: domain.DifficultyEasy,
			Type:       domain.TypeNumerical,
			Tags:       []string{"current", "charge"},
			Solution:   "Use the relationship between current, charge and time",
			Steps: []string{
				"Electric current: I = Q/t, so Q = I × t",
				"Convert time: 10 minutes = 10 × 60 = 600 seconds",
				"Q = 0.5 A × 600 s = 300 C",
			},
			Formula: "Q = I × t",
			Answer:  "300 C",
		},
		{
			ID:         7,
			Text:       "The potential difference between the terminals of an electric heater is 60 V when it draws a current of 4 A from the source. What current will the heater draw if the potential difference is increased to 120 V?",
			Difficulty: domain.DifficultyMedium,
			Type:       domain.TypeNumerical,
			Tags:       []string{"ohms-law", "proportionality"},
			Solution:   "First find resistance, then use Ohm's law for new conditions",
			Steps: []string{
				"Find resistance: R = V₁/I₁ = 60 V / 4 A = 15 Ω",
				"For new voltage: I₂ = V₂/R = 120 V / 15 Ω = 8 A",
				"Verify: I₂ = I₁ × (V₂/V₁) = 4 × (120/60) = 8 A",
			},
			Formula: "V = I × R",
			Answer:  "8 A",
		},
		energyQuestion(8),
		energyQuestion(9),
	}
}

func energyQuestion(id int) domain.Question {
	return domain.Question{
		ID:         id,
		Text:       "How much energy is consumed in 2 hours by an electrical appliance of 100 W?",
		Difficulty: domain.DifficultyEasy,
		Type:       domain.TypeNumerical,
		Tags:       []string{"power", "energy"},
		Solution:   "Use the relationship between power, energy and time",
		Steps: []string{
			"Energy consumed: E = P × t",
			"Given: P = 100 W, t = 2 hours",
			"E = 100 W × 2 h = 200 Wh = 0.2 kWh",
		},
		Formula: "E = P × t",
		Answer:  "200 Wh or 0.2 kWh",
	}
}
