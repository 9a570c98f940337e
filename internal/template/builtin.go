package template

func costs(full, mini int) map[string]int {
	return map[string]int{
		ModelUniversal:     full,
		ModelUniversalMini: mini,
	}
}

// Builtin returns the standard legal-clause template catalog.
func Builtin() *Registry {
	return NewRegistry(
		Descriptor{
			Name:        "confidentiality clause",
			DisplayName: "Confidentiality Clause",
			CostByModel: costs(12, 8),
		},
		Descriptor{
			Name:        "termination clause",
			DisplayName: "Termination Clause",
			CostByModel: costs(11, 7),
		},
		Descriptor{
			Name:        "unilateral clause",
			DisplayName: "Unilateral Clause",
			CostByModel: costs(10, 7),
		},
		Descriptor{
			Name:              "clause obligating",
			DisplayName:       "Clause Obligating a Party",
			RequiresParameter: true,
			CostByModel:       costs(14, 9),
		},
		Descriptor{
			Name:              "clause benefiting",
			DisplayName:       "Clause Benefiting a Party",
			RequiresParameter: true,
			CostByModel:       costs(14, 9),
		},
		Descriptor{
			Name:              "definition of",
			DisplayName:       "Definition of a Term",
			RequiresParameter: true,
			CostByModel:       costs(13, 8),
		},
		Descriptor{
			Name:        "indemnification clause",
			DisplayName: "Indemnification Clause",
			CostByModel: costs(13, 8),
		},
		Descriptor{
			Name:        "limitation of liability clause",
			DisplayName: "Limitation of Liability Clause",
			CostByModel: costs(15, 10),
		},
		Descriptor{
			Name:                "governing law clause",
			DisplayName:         "Governing Law Clause",
			RecommendsParameter: true,
			CostByModel:         costs(12, 8),
		},
		Descriptor{
			Name:        "assignment clause",
			DisplayName: "Assignment Clause",
			CostByModel: costs(11, 7),
		},
		Descriptor{
			Name:        "force majeure clause",
			DisplayName: "Force Majeure Clause",
			CostByModel: costs(12, 8),
		},
		Descriptor{
			Name:        "non-compete clause",
			DisplayName: "Non-Compete Clause",
			CostByModel: costs(12, 8),
		},
		Descriptor{
			Name:        "arbitration clause",
			DisplayName: "Arbitration Clause",
			CostByModel: costs(12, 8),
		},
		Descriptor{
			Name:                "payment obligation",
			DisplayName:         "Payment Obligation",
			RecommendsParameter: true,
			CostByModel:         costs(11, 7),
		},
		Descriptor{
			Name:        "warranty clause",
			DisplayName: "Warranty Clause",
			CostByModel: costs(11, 7),
		},
		Descriptor{
			Name:        "exclusivity clause",
			DisplayName: "Exclusivity Clause",
			CostByModel: costs(12, 8),
		},
	)
}
