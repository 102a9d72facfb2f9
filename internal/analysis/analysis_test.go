package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/helixlab/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `gene: TP53
sequence: atgcgatcga
reference_length: 500
annotations:
  - id: g1
    label: first
    position: 120
    on_target: 0.9
    off_target: 0.05
    spacer: GATCGATCGATCGATCGATC
    pam: TGG
    gc_content: 55
  - position: 400
    on_target: 0.61
    off_target: 0.22
`

func writeFixture(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMock(t *testing.T) {
	res, err := Mock().Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Validate())

	assert.Equal(t, "BRCA1", res.Gene)
	assert.Len(t, res.Sequence, 73)
	assert.InDelta(t, 3000, res.ReferenceLength, 0)
	require.Len(t, res.Annotations, 3)
	assert.InDelta(t, 1250, res.Annotations[0].Position, 0)
	assert.InDelta(t, 3450, res.Annotations[2].Position, 0)
	assert.Equal(t, "CGG", res.Annotations[2].PAM)

	res.Annotations[0].Position = 1
	again, err := Mock().Load(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1250, again.Annotations[0].Position, 0, "each load is a fresh copy")
}

func TestMock_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Mock().Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParse(t *testing.T) {
	res, err := Parse([]byte(fixture), "analysis.yaml")
	require.NoError(t, err)

	assert.Equal(t, "TP53", res.Gene)
	assert.Equal(t, "ATGCGATCGA", res.Sequence, "sequences are upper-cased")
	assert.InDelta(t, 500, res.ReferenceLength, 0)
	require.Len(t, res.Annotations, 2)

	first := res.Annotations[0]
	assert.Equal(t, "g1", first.ID)
	assert.Equal(t, "first", first.Label)
	assert.InDelta(t, 0.9, first.OnTargetScore, 0)
	assert.Equal(t, "TGG", first.PAM)

	second := res.Annotations[1]
	assert.Equal(t, "gRNA 2", second.Label)
	assert.Len(t, second.ID, 36, "missing ids become uuids")

	again, err := Parse([]byte(fixture), "analysis.yaml")
	require.NoError(t, err)
	assert.Equal(t, second.ID, again.Annotations[1].ID, "derived ids are stable")
}

func TestParse_DefaultsReferenceLength(t *testing.T) {
	res, err := Parse([]byte("sequence: ATGC\n"), "")
	require.NoError(t, err)
	assert.InDelta(t, 4, res.ReferenceLength, 0)
	assert.Empty(t, res.Annotations)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{name: "empty", content: "", wantErr: ErrNoSequence},
		{name: "no sequence", content: "gene: X\nreference_length: 10\n", wantErr: ErrNoSequence},
		{name: "invalid symbols", content: "sequence: ATGXC\n", wantErr: ErrNoSequence, wantMsg: "invalid characters"},
		{name: "negative length", content: "sequence: ATGC\nreference_length: -2\n", wantErr: ErrInvalidReferenceLength},
		{name: "unknown field", content: "sequence: ATGC\ncolour: red\n", wantMsg: "colour"},
		{name: "bad yaml", content: "sequence: [\n", wantMsg: "invalid YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content), "fx.yaml")
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, "fx.yaml", perr.File)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFileProvider_LoadAndCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, fixture)
	p := NewFileProvider(path)

	res, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TP53", res.Gene)
	assert.Equal(t, path, res.Source)

	res.Annotations[0].Label = "mutated"
	cached, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", cached.Annotations[0].Label, "callers get their own copy")

	writeFixture(t, dir, "gene: KRAS\nsequence: GGGGCCCC\n")
	p.Invalidate()
	res, err = p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KRAS", res.Gene)
}

func TestFileProvider_Missing(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := p.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, fixture)
	p := NewFileProvider(path)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Result, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, p, testutil.NewTestLogger(t), func(res *Result, err error) {
			if err == nil {
				changes <- res
			}
		})
	}()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	var got *Result
	require.Eventually(t, func() bool {
		writeFixture(t, dir, "gene: EGFR\nsequence: ATATATAT\n")
		select {
		case got = <-changes:
			return true
		default:
			return false
		}
	}, 5*time.Second, 300*time.Millisecond)

	assert.Equal(t, "EGFR", got.Gene)
}

func TestResultClone(t *testing.T) {
	var nilResult *Result
	assert.Nil(t, nilResult.Clone())

	res, err := Mock().Load(context.Background())
	require.NoError(t, err)
	c := res.Clone()
	c.Annotations[1].PAM = "NNN"
	assert.Equal(t, "AGG", res.Annotations[1].PAM)
}
