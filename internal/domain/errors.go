package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error classes of a deployment run, by the step that produced them.
var (
	// ErrArtifactNotFound is returned when no compiled artifact matches the requested contract
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrSubmission is returned when the creation transaction cannot be built or sent
	ErrSubmission = errors.New("deployment submission failed")

	// ErrConfirmation is returned when the creation transaction is rejected, reverted or never confirmed
	ErrConfirmation = errors.New("deployment confirmation failed")

	// ErrAddressQuery is returned when the deployed address cannot be read back
	ErrAddressQuery = errors.New("deployed address query failed")
)

// ContractNotFoundErr reports a contract lookup that matched nothing.
type ContractNotFoundErr struct {
	Query       string
	Suggestions []string
}

func (e ContractNotFoundErr) Error() string {
	msg := fmt.Sprintf("no compiled artifact for contract %q", e.Query)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e ContractNotFoundErr) Unwrap() error {
	return ErrArtifactNotFound
}

// AmbiguousContractErr reports a bare contract name shared by several sources.
type AmbiguousContractErr struct {
	Query   string
	Matches []string // path:Name keys
}

func (e AmbiguousContractErr) Error() string {
	sorted := make([]string, len(e.Matches))
	copy(sorted, e.Matches)
	sort.Strings(sorted)

	var suggestions []string
	for _, key := range sorted {
		suggestions = append(suggestions, "  - "+key)
	}

	return fmt.Sprintf("multiple contracts found matching %s - use full path:contract format to disambiguate:\n%s",
		e.Query, strings.Join(suggestions, "\n"))
}
