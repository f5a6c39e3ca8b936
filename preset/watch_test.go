package preset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/comalice/motionx"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatchReloadsPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customDoc), 0o644))

	reg := Default()
	descs, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, reg.Merge(descs...))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, reg, nil) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	updated := `
presets:
  - name: card-reveal
    states:
      hidden: {props: {opacity: 0, y: 80}}
      visible: {props: {opacity: 1}}
      exit: {props: {opacity: 0}}
`
	// The watcher may attach after the first write; keep rewriting until the
	// change is observed.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(updated), 0o644)
		d, err := reg.Get("card-reveal")
		return err == nil && d.States[motionx.StateHidden].Props["y"] == 80
	}, 5*time.Second, 50*time.Millisecond)

	// A broken file keeps the previous table.
	require.NoError(t, os.WriteFile(path, []byte("presets: [{name: card-reveal}]"), 0o644))
	time.Sleep(100 * time.Millisecond)
	d, err := reg.Get("card-reveal")
	require.NoError(t, err)
	assert.Equal(t, 80.0, d.States[motionx.StateHidden].Props["y"])
}

func TestWatchRejectsBuiltinOverrideMissingState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customDoc), 0o644))

	reg := Default()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, reg, nil) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// fade-in without exit rejects the whole document, marker included.
	noExit := `
presets:
  - name: marker
    states:
      rest: {props: {opacity: 1}}
  - name: fade-in
    states:
      hidden: {props: {opacity: 0}}
      visible: {props: {opacity: 1}}
`
	valid := `
presets:
  - name: marker
    states:
      rest: {props: {opacity: 1}}
`
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte(noExit), 0o644))
		time.Sleep(50 * time.Millisecond)
	}
	_, err := reg.Get("marker")
	assert.ErrorIs(t, err, ErrUnknownPreset, "rejected document applies nothing")
	assert.True(t, reg.MustGet(FadeIn).HasState(motionx.StateExit))

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(valid), 0o644)
		_, err := reg.Get("marker")
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
	assert.True(t, reg.MustGet(FadeIn).HasState(motionx.StateExit))
}
