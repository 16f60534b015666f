package rules

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// samplesFS embeds the bundled rule files at build time.
//
//go:embed samples/*.rule
var samplesFS embed.FS

// SampleNames lists the bundled rule files without their extension.
func SampleNames() []string {
	entries, err := fs.ReadDir(samplesFS, "samples")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".rule"))
	}
	sort.Strings(names)
	return names
}

// LoadSample parses a bundled rule file by name, e.g. "crypt".
func LoadSample(ctx context.Context, name string) (*LevelSpec, error) {
	f, err := samplesFS.Open(path.Join("samples", name+".rule"))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded rule file %s: %w", name, err)
	}
	defer f.Close()

	level, err := Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded rule file %s: %w", name, err)
	}
	return level, nil
}
