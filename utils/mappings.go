// utils/mappings.go
package utils

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	mappingMu       sync.RWMutex
	analystsMapping = map[string]string{}
	produtosDePara  = map[string]string{}
)

func mappingPath(name string) string {
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	return filepath.Join(dir, name)
}

// InitMappings loads the analyst id→name table and the product DE-PARA
// table from disk. Missing files are tolerated: lookups then fall through
// to the raw value.
func InitMappings() {
	loadMappingFile(mappingPath("analistas_mapeamento.json"), &analystsMapping, "analyst mapping")
	loadMappingFile(mappingPath("produtos_de_para.json"), &produtosDePara, "product DE-PARA")
}

func loadMappingFile(path string, target *map[string]string, label string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[AVISO] %s not found at %s, lookups fall back to raw values", label, path)
		return
	}

	parsed := map[string]string{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("[AVISO] Failed to parse %s: %v", label, err)
		return
	}

	mappingMu.Lock()
	*target = parsed
	mappingMu.Unlock()
	log.Printf("[OK] Loaded %s: %d entries", label, len(parsed))
}

// GetAnalystName converts a CRM owner id to the analyst's display name.
// Unknown ids come back unchanged — the value may already be a name.
func GetAnalystName(userID string) string {
	if userID == "" {
		return ""
	}
	mappingMu.RLock()
	defer mappingMu.RUnlock()
	if name, ok := analystsMapping[userID]; ok {
		return name
	}
	return userID
}

// NormalizeProductName applies the DE-PARA rename table, falling back to
// the original name when unmapped.
func NormalizeProductName(product string) string {
	if product == "" {
		return ""
	}
	mappingMu.RLock()
	defer mappingMu.RUnlock()
	if normalized, ok := produtosDePara[product]; ok {
		return normalized
	}
	return product
}
