package eventmodels

type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
}

func (g Greeks) Negate() Greeks {
	return Greeks{
		Delta: Negate(g.Delta),
		Gamma: Negate(g.Gamma),
		Theta: Negate(g.Theta),
	}
}

// Negate flips the sign of v without producing negative zero.
func Negate(v float64) float64 {
	if v == 0 {
		return 0
	}

	return -v
}
