package extract

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/orbmatch/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// texturedPNG renders random rectangles, which gives ORB plenty of corners.
func texturedPNG(t *testing.T, seed int64) []byte {
	t.Helper()

	r := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, 256, 256))
	for range 60 {
		x, y := r.Intn(220), r.Intn(220)
		w, h := 8+r.Intn(28), 8+r.Intn(28)
		c := color.Gray{Y: uint8(r.Intn(256))}
		for i := x; i < x+w; i++ {
			for j := y; j < y+h; j++ {
				img.SetGray(i, j, c)
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a/b/sword.PNG"))
	assert.True(t, IsImageFile("hero.jpeg"))
	assert.False(t, IsImageFile("notes.txt"))
	assert.False(t, IsImageFile("noext"))
}

func TestExtractor(t *testing.T) {
	e := New()
	defer e.Close()

	data := texturedPNG(t, 1)

	fromBytes, err := e.Bytes(data)
	require.NoError(t, err)
	require.NotEmpty(t, fromBytes)

	path := filepath.Join(t.TempDir(), "tpl.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	fromFile, err := e.File(path)
	require.NoError(t, err)
	assert.Equal(t, fromBytes, fromFile)

	// Round trip through the wire encoding.
	decoded, err := descriptor.Decode(descriptor.Encode(fromFile))
	require.NoError(t, err)
	assert.Equal(t, fromFile, decoded)
}

func TestExtractor_BlankImage(t *testing.T) {
	e := New()
	defer e.Close()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 64))))

	c, err := e.Bytes(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestExtractor_LoadErrors(t *testing.T) {
	e := New()
	defer e.Close()

	_, err := e.File(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, ErrImageLoad)

	_, err = e.Bytes([]byte("not an image"))
	assert.ErrorIs(t, err, ErrImageLoad)
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"weapon/main/sword.png",
		"weapon/main/axe.jpg",
		"weapon/main/readme.txt",
		"chara/katalina.png",
		"stray.png",
	}
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}

	cats, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, cats, 2)

	assert.Equal(t, "chara", cats[0].Name)
	require.Len(t, cats[0].Images, 1)
	assert.Equal(t, "katalina", cats[0].Images[0].Name)

	assert.Equal(t, "weapon/main", cats[1].Name)
	require.Len(t, cats[1].Images, 2)
	assert.Equal(t, "axe", cats[1].Images[0].Name)
	assert.Equal(t, "sword", cats[1].Images[1].Name)
	assert.Equal(t, filepath.Join(root, "weapon", "main", "axe.jpg"), cats[1].Images[0].Path)
}
