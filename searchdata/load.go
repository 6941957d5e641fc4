package searchdata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/docsearch/index"
)

// DefaultSection is the section holding function and method names.
const DefaultSection = "functions"

// maxParallelDecodes bounds concurrent shard decoding in LoadDir.
const maxParallelDecodes = 8

// LoadFile decodes a single search data file.
func LoadFile(path string) ([]index.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoIndex, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// SectionFiles returns the shard files of section in dir, ordered by shard
// suffix: shorter suffixes first, then lexically, so functions_9.js sorts
// before functions_10.js.
func SectionFiles(dir, section string) ([]string, error) {
	if section == "" {
		section = DefaultSection
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoIndex, dir)
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	type shard struct {
		suffix string
		path   string
	}
	var shards []shard
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name, suffix, ok := splitShardName(de.Name())
		if !ok || name != section {
			continue
		}
		shards = append(shards, shard{suffix: suffix, path: filepath.Join(dir, de.Name())})
	}

	slices.SortFunc(shards, func(a, b shard) int {
		if len(a.suffix) != len(b.suffix) {
			return len(a.suffix) - len(b.suffix)
		}
		return strings.Compare(a.suffix, b.suffix)
	})

	paths := make([]string, len(shards))
	for i, s := range shards {
		paths[i] = s.path
	}
	return paths, nil
}

// Sections lists the section names that have at least one shard in dir,
// sorted by name.
func Sections(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoIndex, dir)
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	seen := make(map[string]struct{})
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if name, _, ok := splitShardName(de.Name()); ok {
			seen[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)
	return out, nil
}

// splitShardName splits "functions_5.js" into ("functions", "5").
func splitShardName(file string) (section, suffix string, ok bool) {
	base, found := strings.CutSuffix(file, ".js")
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(base, '_')
	if i <= 0 || i == len(base)-1 {
		return "", "", false
	}
	section, suffix = base[:i], base[i+1:]
	for _, c := range suffix {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return "", "", false
		}
	}
	return section, suffix, true
}

// LoadDir decodes every shard of section in dir and returns the entries in
// shard order. A directory without shards for the section yields ErrNoIndex.
func LoadDir(ctx context.Context, dir, section string) ([]index.Entry, error) {
	paths, err := SectionFiles(dir, section)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		if section == "" {
			section = DefaultSection
		}
		return nil, fmt.Errorf("%w: no %q shards in %s", ErrNoIndex, section, dir)
	}

	shards := make([][]index.Entry, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecodes)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries, err := LoadFile(path)
			if err != nil {
				return err
			}
			shards[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, s := range shards {
		total += len(s)
	}
	out := make([]index.Entry, 0, total)
	for _, s := range shards {
		out = append(out, s...)
	}
	return out, nil
}
