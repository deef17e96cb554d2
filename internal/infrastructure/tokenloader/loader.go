package tokenloader

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"bridge_quoter/internal/domain/entity"
)

// catalogFile is the on-disk shape of the token catalog.
type catalogFile struct {
	EvmTokens    []entity.EvmToken    `yaml:"evmTokens"`
	CosmosTokens []entity.CosmosToken `yaml:"cosmosTokens"`
}

// Load reads the token catalog from a YAML file and returns the selectable
// tokens. Tokens without a symbol are skipped with a warning.
func Load(path string, logger *zap.Logger) ([]entity.Token, error) {
	log := logger.Named("TokenLoader")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token catalog %s: %w", path, err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token catalog %s: %w", path, err)
	}

	tokens := make([]entity.Token, 0, len(catalog.EvmTokens)+len(catalog.CosmosTokens))
	for _, token := range catalog.EvmTokens {
		if token.Symbol == "" {
			log.Warn("Skipping EVM token without symbol", zap.String("contractAddress", token.ContractAddress))
			continue
		}
		tokens = append(tokens, token)
	}
	for _, token := range catalog.CosmosTokens {
		if token.Symbol == "" {
			log.Warn("Skipping Cosmos token without symbol", zap.String("baseDenom", token.BaseDenom))
			continue
		}
		tokens = append(tokens, token)
	}

	log.Info("Token catalog loaded",
		zap.String("path", path),
		zap.Int("tokenCount", len(tokens)))
	return tokens, nil
}

// FindToken returns the catalog token matching symbol + family.
func FindToken(tokens []entity.Token, symbol string, family entity.ChainFamily) (entity.Token, bool) {
	for _, token := range tokens {
		if token.TokenSymbol() == symbol && token.Family() == family {
			return token, true
		}
	}
	return nil, false
}
