package domain

// HyperparamBranch is the chosen generator configuration of one model branch.
type HyperparamBranch struct {
	Name         string
	BatchSize    string // scalar text as written in the config
	Epochs       string
	EmbeddingDim string
	PAC          string

	GeneratorDim     []int // nil when absent or not a list of integers
	DiscriminatorDim []int
}
