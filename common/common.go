package common

import (
	"log/slog"
	"os"
	"path/filepath"
)

func GetProgramDir() string {
	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		slog.Error("failed to resolve program directory", "error", err)
		os.Exit(1)
	}
	return dir
}

func GetAssetLocation(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	if loc := os.Getenv("ACL_GO_LOCATION_ASSET"); loc != "" {
		absPath, err := filepath.Abs(loc)
		if err != nil {
			slog.Error("failed to resolve asset location", "error", err)
			os.Exit(1)
		}
		slog.Debug("asset location env set", "path", absPath)
		return filepath.Join(absPath, file)
	}
	return filepath.Join(GetProgramDir(), file)
}
