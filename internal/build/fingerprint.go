package build

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// computeFingerprints hashes the configuration file and every content file.
// The resulting map is compared against the state store to decide whether a
// build can be skipped entirely.
func computeFingerprints(configPath, contentRoot string, contentPaths []string) (map[string]string, error) {
	prints := make(map[string]string, len(contentPaths)+1)

	sum, err := hashFile(configPath)
	if err != nil {
		return nil, err
	}
	prints["config:"+filepath.Base(configPath)] = sum

	for _, rel := range contentPaths {
		sum, err := hashFile(filepath.Join(contentRoot, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		prints["content:"+rel] = sum
	}
	return prints, nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func fingerprintsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// outputIntact is a lightweight probe that the previous output is usable
// before an early skip is allowed.
func outputIntact(outputDir string) bool {
	fi, err := os.Stat(filepath.Join(outputDir, "index.html"))
	return err == nil && !fi.IsDir()
}
