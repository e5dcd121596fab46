package ports

// Verifier defines the interface for verifying that build outputs exist.
//
//go:generate mockgen -destination=mocks/verifier_mock.go -package=mocks -source=verifier.go
type Verifier interface {
	// MissingOutputs returns the outputs that do not exist below root.
	MissingOutputs(root string, outputs []string) ([]string, error)
}
