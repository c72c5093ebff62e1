package discretize

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/causaltrail-go/engine/errs"
)

// LoadConfig reads a discretisation JSON file into a Config.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errs.ErrParse, path, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", errs.ErrParse, path, err)
	}
	return cfg, nil
}
