package topics

const (
	// Cupom
	SlipPlaced = "slip_placed"
)
