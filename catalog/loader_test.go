package catalog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hupe1980/orbmatch/artifact"
	"github.com/hupe1980/orbmatch/blobstore"
	"github.com/hupe1980/orbmatch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoader(t *testing.T, docs map[string]string) (*ArtifactLoader, *bytes.Buffer) {
	t.Helper()

	store := blobstore.NewMemoryStore()
	for name, doc := range docs {
		require.NoError(t, store.Put(context.Background(), name, []byte(doc)))
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewArtifactLoader(artifact.NewBlobSource(store), logger), &buf
}

func TestArtifactLoader_Load(t *testing.T) {
	rng := testutil.NewRNG(4711)
	sword := rng.Collection(4)
	bow := rng.Collection(2)

	l, _ := newLoader(t, map[string]string{
		"weapon/main.json": `{"template_names":["sword","bow"],"descriptors_list":["` +
			testutil.Encode(sword) + `","` + testutil.Encode(bow) + `"]}`,
	})

	set, err := l.Load(context.Background(), "weapon/main")
	require.NoError(t, err)
	assert.Equal(t, []string{"sword", "bow"}, set.Names())

	got, ok := set.Lookup("sword")
	require.True(t, ok)
	assert.Equal(t, sword, got)
}

func TestArtifactLoader_SkipsBadEntries(t *testing.T) {
	rng := testutil.NewRNG(4711)
	good := testutil.Encode(rng.Collection(3))

	l, logs := newLoader(t, map[string]string{
		"chara.json": `{"template_names":["empty","bad-b64","bad-len","ok"],` +
			`"descriptors_list":["","!!!","AAAA","` + good + `"]}`,
	})

	set, err := l.Load(context.Background(), "chara")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, set.Names())

	out := logs.String()
	assert.Contains(t, out, "template=empty")
	assert.Contains(t, out, "template=bad-b64")
	assert.Contains(t, out, "template=bad-len")
	assert.Contains(t, out, "category=chara")
}

func TestArtifactLoader_DuplicateNames(t *testing.T) {
	rng := testutil.NewRNG(4711)
	first := rng.Collection(1)
	second := rng.Collection(2)

	l, logs := newLoader(t, map[string]string{
		"chara.json": `{"template_names":["hero","hero"],"descriptors_list":["` +
			testutil.Encode(first) + `","` + testutil.Encode(second) + `"]}`,
	})

	set, err := l.Load(context.Background(), "chara")
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())

	got, _ := set.Lookup("hero")
	assert.Equal(t, second, got)
	assert.Contains(t, logs.String(), "duplicate template name")
}

func TestArtifactLoader_EmptyArtifact(t *testing.T) {
	l, _ := newLoader(t, map[string]string{
		"chara.json": `{"template_names":[],"descriptors_list":[]}`,
	})

	set, err := l.Load(context.Background(), "chara")
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}

func TestArtifactLoader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		terminal error
	}{
		{"missing", "", ErrArtifactMissing},
		{"length mismatch", `{"template_names":["a","b"],"descriptors_list":["AAAA"]}`, ErrArtifactMalformed},
		{"absent field", `{"template_names":["a"]}`, ErrArtifactMalformed},
		{"not json", `not json`, ErrArtifactMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := map[string]string{}
			if tt.doc != "" {
				docs["chara.json"] = tt.doc
			}
			l, _ := newLoader(t, docs)

			_, err := l.Load(context.Background(), "chara")
			assert.ErrorIs(t, err, tt.terminal)
			assert.True(t, IsTerminal(err))

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, "chara", le.Category)
		})
	}
}

type failingSource struct{ err error }

func (s failingSource) Read(context.Context, string) (*artifact.Artifact, error) {
	return nil, s.err
}

func TestArtifactLoader_TransientError(t *testing.T) {
	l := NewArtifactLoader(failingSource{err: errors.New("connection reset")}, nil)

	_, err := l.Load(context.Background(), "chara")
	require.Error(t, err)
	assert.False(t, IsTerminal(err))
}
