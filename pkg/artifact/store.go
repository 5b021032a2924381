package artifact

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/bindlehq/bindle/pkg/observability"
	"github.com/bindlehq/bindle/pkg/requirement"
)

const (
	// wheelSuffix is the platform tag suffix internal workbook wheels are
	// built with.
	wheelSuffix = "-py3-none-any.whl"

	// metadataCacheSize bounds the per-run declared-requirements cache.
	metadataCacheSize = 512

	requiresDistHeader = "Requires-Dist:"
)

// Store reads declared dependency metadata out of built wheel artifacts in a
// local index directory.
type Store struct {
	root    string
	cache   *lru.Cache[string, []requirement.Requirement]
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewStore creates an artifact store rooted at the local index directory.
func NewStore(root string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.New()
	}

	cache, err := lru.New[string, []requirement.Requirement](metadataCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata cache: %w", err)
	}

	return &Store{
		root:  root,
		cache: cache,
		log:   log,
	}, nil
}

// SetMetrics installs metrics collection on the store.
func (s *Store) SetMetrics(m *observability.Metrics) {
	s.metrics = m
}

// Root returns the local index directory.
func (s *Store) Root() string {
	return s.root
}

// WheelFilename maps a pinned requirement to its wheel filename. The package
// name is mangled the way the build does it: "-" becomes "_".
func WheelFilename(req requirement.Requirement) string {
	return strings.ReplaceAll(req.Name, "-", "_") + "-" + req.Version + wheelSuffix
}

// DeclaredRequirements returns the dependency requirements declared by the
// built artifact of an internal requirement. The artifact must already be
// present locally; fetching it is the index sync's job, not the inspector's.
func (s *Store) DeclaredRequirements(req requirement.Requirement) ([]requirement.Requirement, error) {
	key := req.String()
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.ObserveInspection(true)
		return cached, nil
	}
	s.metrics.ObserveInspection(false)

	wheelPath := filepath.Join(s.root, WheelFilename(req))
	if _, err := os.Stat(wheelPath); err != nil {
		if os.IsNotExist(err) {
			return nil, NewArtifactNotFoundError(key, wheelPath)
		}
		return nil, fmt.Errorf("failed to stat wheel %s: %w", wheelPath, err)
	}

	reqs, err := readWheelRequirements(wheelPath)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"wheel":        wheelPath,
		"requirements": requirement.Renderings(reqs),
	}).Debug("Extracted wheel requirements")

	s.cache.Add(key, reqs)
	return reqs, nil
}

// readWheelRequirements parses the Requires-Dist entries of the wheel's
// dist-info METADATA file.
func readWheelRequirements(path string) ([]requirement.Requirement, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !isDistInfoMetadata(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open metadata in %s: %w", path, err)
		}
		reqs, err := parseMetadata(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read metadata in %s: %w", path, err)
		}
		return reqs, nil
	}

	return nil, NewMetadataNotFoundError(path)
}

func isDistInfoMetadata(name string) bool {
	dir, base := filepath.Split(name)
	return base == "METADATA" && strings.HasSuffix(strings.TrimSuffix(dir, "/"), ".dist-info")
}

// parseMetadata scans the header section of a METADATA file for Requires-Dist
// entries. Headers end at the first blank line; everything after is the
// package description.
func parseMetadata(r io.Reader) ([]requirement.Requirement, error) {
	reqs := make([]requirement.Requirement, 0)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		if !strings.HasPrefix(line, requiresDistHeader) {
			continue
		}
		spec := strings.TrimSpace(strings.TrimPrefix(line, requiresDistHeader))
		if spec == "" {
			continue
		}
		reqs = append(reqs, requirement.ParseMetadata(spec))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}
