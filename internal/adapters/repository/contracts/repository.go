package contracts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/tokendeploy/internal/domain"
	"github.com/trebuchet-org/tokendeploy/internal/domain/config"
	"github.com/trebuchet-org/tokendeploy/internal/domain/models"
	"github.com/trebuchet-org/tokendeploy/internal/usecase"
)

const maxSuggestions = 3

// Repository discovers and indexes compiled contract artifacts
type Repository struct {
	projectRoot   string
	artifactDirs  []string
	contracts     map[string]*models.Contract   // key: "path:contractName"
	contractNames map[string][]*models.Contract // key: contract name, value: all contracts with that name
	log           *slog.Logger
	mu            sync.RWMutex
	indexed       bool
}

// NewRepository creates a new contract repository over the configured artifact directories
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		projectRoot:   cfg.ProjectRoot,
		artifactDirs:  cfg.ArtifactDirs,
		log:           log,
		contracts:     make(map[string]*models.Contract),
		contractNames: make(map[string][]*models.Contract),
	}
}

// Index discovers all contracts and artifacts. Compilation is not triggered;
// only what is already on disk is indexed.
func (i *Repository) Index() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.indexed {
		return nil
	}

	i.contracts = make(map[string]*models.Contract)
	i.contractNames = make(map[string][]*models.Contract)

	for _, dir := range i.artifactDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			i.log.Debug("artifact directory missing", "dir", dir)
			continue
		}

		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if info.Name() == "build-info" {
					return filepath.SkipDir
				}
				return nil
			}

			if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
				return nil
			}

			return i.processArtifact(path)
		})
		if err != nil {
			return fmt.Errorf("failed to index artifacts in %s: %w", dir, err)
		}
	}

	i.indexed = true
	return nil
}

// processArtifact processes a single artifact file
func (i *Repository) processArtifact(artifactPath string) error {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return err
	}

	contract, err := models.ParseArtifact(data)
	if err != nil {
		// Skip invalid artifacts
		i.log.Debug("skipping unreadable artifact", "path", artifactPath, "error", err)
		return nil
	}
	if contract == nil {
		return nil
	}

	relArtifactPath, err := filepath.Rel(i.projectRoot, artifactPath)
	if err != nil {
		relArtifactPath = artifactPath
	}
	contract.ArtifactPath = relArtifactPath

	key := contract.Key()
	if _, exists := i.contracts[key]; exists {
		// First artifact directory wins
		return nil
	}

	i.log.Debug("indexed artifact", "key", key, "path", relArtifactPath)
	i.contracts[key] = contract
	i.contractNames[contract.Name] = append(i.contractNames[contract.Name], contract)
	return nil
}

// GetContract retrieves a contract by key (name or path:name)
func (i *Repository) GetContract(ctx context.Context, key string) (*models.Contract, error) {
	if err := i.Index(); err != nil {
		return nil, err
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	if contract, exists := i.contracts[key]; exists {
		return contract, nil
	}

	matches := i.contractNames[key]
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, domain.ContractNotFoundErr{
			Query:       key,
			Suggestions: i.suggest(key),
		}
	default:
		return nil, domain.AmbiguousContractErr{
			Query:   key,
			Matches: lo.Map(matches, func(c *models.Contract, _ int) string { return c.Key() }),
		}
	}
}

// ListContracts returns all indexed contracts whose key contains filter, sorted by key
func (i *Repository) ListContracts(ctx context.Context, filter string) ([]*models.Contract, error) {
	if err := i.Index(); err != nil {
		return nil, err
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	query := strings.ToLower(filter)
	results := lo.Filter(lo.Values(i.contracts), func(c *models.Contract, _ int) bool {
		return query == "" || strings.Contains(strings.ToLower(c.Key()), query)
	})
	sort.Slice(results, func(a, b int) bool {
		return results[a].Key() < results[b].Key()
	})
	return results, nil
}

// suggest returns the contract names closest to a missing one
func (i *Repository) suggest(query string) []string {
	names := lo.Keys(i.contractNames)
	sort.Strings(names)

	suggestions := make([]string, 0, maxSuggestions)
	for _, match := range fuzzy.Find(query, names) {
		if len(suggestions) == maxSuggestions {
			return suggestions
		}
		suggestions = append(suggestions, match.Str)
	}

	// Names that are a shortened form of the query, e.g. ERC20 for ERC20Token
	for _, name := range names {
		if len(suggestions) == maxSuggestions {
			break
		}
		if lo.Contains(suggestions, name) {
			continue
		}
		if len(fuzzy.Find(name, []string{query})) > 0 {
			suggestions = append(suggestions, name)
		}
	}
	return suggestions
}

// Ensure the adapter implements the interface
var _ usecase.ContractRepository = (*Repository)(nil)
