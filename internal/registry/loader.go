package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"llamapanama/internal/common/fsutil"
	"llamapanama/pkg/types"
)

var quantPattern = regexp.MustCompile(`(?i)(?:^|[.\-_])((?:I?Q\d(?:_[A-Z0-9]+)*)|BF16|F16|F32)$`)

// LoadDir scans a directory for *.gguf files and builds a registry from filenames.
// ID is the full filename (including extension); Path is the absolute file path.
// Results are sorted by ID.
func LoadDir(dir string) ([]types.Model, error) {
	abs, err := fsutil.Resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		m := types.Model{ID: name, Path: filepath.Join(abs, name)}
		stem := name[:len(name)-len(".gguf")]
		m.Name, m.Quant = splitQuant(stem)
		if info, err := e.Info(); err == nil {
			m.SizeBytes = info.Size()
		}
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// splitQuant separates a trailing quantization tag such as Q4_K_M from stem.
func splitQuant(stem string) (name, quant string) {
	loc := quantPattern.FindStringSubmatchIndex(stem)
	if loc == nil {
		return stem, ""
	}
	name = strings.TrimRight(stem[:loc[2]], ".-_")
	if name == "" {
		return stem, ""
	}
	return name, strings.ToUpper(stem[loc[2]:loc[3]])
}

// Find returns the model with id, or the first model when id is empty.
func Find(models []types.Model, id string) (types.Model, bool) {
	if id == "" {
		if len(models) == 0 {
			return types.Model{}, false
		}
		return models[0], true
	}
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return types.Model{}, false
}
