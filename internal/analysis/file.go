package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/helixlab/pkg/core"
	"gopkg.in/yaml.v3"
)

// fixtureYAML is the on-disk shape of an analysis fixture.
type fixtureYAML struct {
	Gene            string           `yaml:"gene"`
	Sequence        string           `yaml:"sequence"`
	ReferenceLength float64          `yaml:"reference_length"`
	Annotations     []annotationYAML `yaml:"annotations"`
}

type annotationYAML struct {
	ID        string  `yaml:"id"`
	Label     string  `yaml:"label"`
	Position  float64 `yaml:"position"`
	OnTarget  float64 `yaml:"on_target"`
	OffTarget float64 `yaml:"off_target"`
	Spacer    string  `yaml:"spacer"`
	PAM       string  `yaml:"pam"`
	GCContent float64 `yaml:"gc_content"`
}

// ParseError describes a malformed fixture.
type ParseError struct {
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a YAML fixture. Unknown fields are rejected and the
// sequence is returned upper-cased. Annotations
// without an id get a stable one derived from the gene, position and spacer;
// annotations without a label are named by their ordinal. A missing
// reference_length defaults to the sequence length.
func Parse(data []byte, file string) (*Result, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fx fixtureYAML
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{File: file, Message: "empty fixture", Err: ErrNoSequence}
		}
		return nil, &ParseError{File: file, Message: fmt.Sprintf("invalid YAML: %v", err), Err: err}
	}

	res := &Result{
		Gene:            fx.Gene,
		Sequence:        fx.Sequence,
		ReferenceLength: fx.ReferenceLength,
		Source:          file,
		Annotations:     make([]core.Annotation, 0, len(fx.Annotations)),
	}
	if res.ReferenceLength == 0 {
		res.ReferenceLength = float64(len(fx.Sequence))
	}

	for i, a := range fx.Annotations {
		ann := core.Annotation{
			ID:            a.ID,
			Label:         a.Label,
			Position:      a.Position,
			OnTargetScore: a.OnTarget,
			OffTargetRisk: a.OffTarget,
			Spacer:        a.Spacer,
			PAM:           a.PAM,
			GCContent:     a.GCContent,
		}
		if ann.ID == "" {
			ann.ID = annotationID(fx.Gene, a)
		}
		if ann.Label == "" {
			ann.Label = "gRNA " + strconv.Itoa(i+1)
		}
		res.Annotations = append(res.Annotations, ann)
	}

	if err := res.Validate(); err != nil {
		return nil, &ParseError{File: file, Message: err.Error(), Err: err}
	}
	return res.Normalized(), nil
}

func annotationID(gene string, a annotationYAML) string {
	key := fmt.Sprintf("%s/%g/%s/%s", gene, a.Position, a.Spacer, a.PAM)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// FileProvider loads an analysis from a YAML fixture. The parsed result is
// cached and re-read only when the file's size or modification time changes.
// It is safe for concurrent use.
type FileProvider struct {
	path string

	mu      sync.RWMutex
	cached  *Result
	modTime time.Time
	size    int64
}

// NewFileProvider creates a provider for the fixture at path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Path returns the fixture path.
func (p *FileProvider) Path() string { return p.path }

// Load returns the fixture's analysis.
func (p *FileProvider) Load(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(p.path)
	if err != nil {
		return nil, fmt.Errorf("stat analysis fixture: %w", err)
	}

	p.mu.RLock()
	if p.cached != nil && info.ModTime().Equal(p.modTime) && info.Size() == p.size {
		res := p.cached.Clone()
		p.mu.RUnlock()
		return res, nil
	}
	p.mu.RUnlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read analysis fixture: %w", err)
	}
	res, err := Parse(data, p.path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cached = res
	p.modTime = info.ModTime()
	p.size = info.Size()
	p.mu.Unlock()

	return res.Clone(), nil
}

// Invalidate drops the cached result so the next Load re-reads the file.
func (p *FileProvider) Invalidate() {
	p.mu.Lock()
	p.cached = nil
	p.mu.Unlock()
}
