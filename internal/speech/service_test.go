package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zonos-tts-mcp/internal/emotion"
	"zonos-tts-mcp/internal/metrics"
	"zonos-tts-mcp/internal/playback"
	"zonos-tts-mcp/internal/tts"
	"zonos-tts-mcp/pkg/models"
)

type fakeTTS struct {
	audio    []byte
	err      error
	requests []tts.Request
	ctxErr   error
}

func (f *fakeTTS) BuildRequest(text, language string, v emotion.Vector) tts.Request {
	return tts.ContractSpeech.Build(text, language, v)
}

func (f *fakeTTS) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	f.requests = append(f.requests, req)
	f.ctxErr = ctx.Err()
	return f.audio, f.err
}

func (f *fakeTTS) Contract() tts.Contract {
	return tts.ContractSpeech
}

type fakePlayer struct {
	paths    []string
	contents [][]byte
	err      error
}

func (p *fakePlayer) Play(_ context.Context, path string) error {
	p.paths = append(p.paths, path)
	data, _ := os.ReadFile(path)
	p.contents = append(p.contents, data)
	return p.err
}

type fakeJournal struct {
	records []models.SpeechRecord
	err     error
}

func (j *fakeJournal) Create(_ context.Context, rec *models.SpeechRecord) error {
	j.records = append(j.records, *rec)
	return j.err
}

func newTestService(t *testing.T, synth tts.TTSService, player Player, journal Journal) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return NewService(synth, player, "linux", journal, metrics.New(zap.NewNop()), dir, zap.NewNop()), dir
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "временные файлы должны быть удалены")
}

func TestSpeak_Success(t *testing.T) {
	synth := &fakeTTS{audio: []byte("RIFF-wav-bytes")}
	player := &fakePlayer{}
	journal := &fakeJournal{}
	svc, dir := newTestService(t, synth, player, journal)

	msg, err := svc.Speak(context.Background(), Request{Text: "Hello", Emotion: emotion.Happy})

	require.NoError(t, err)
	assert.Contains(t, msg, "Hello")
	assert.Contains(t, msg, "happy")
	assert.Equal(t, `Successfully spoke: "Hello" with happy emotion`, msg)

	require.Len(t, player.paths, 1)
	assert.Equal(t, dir, filepath.Dir(player.paths[0]))
	assert.Equal(t, []byte("RIFF-wav-bytes"), player.contents[0])
	assertDirEmpty(t, dir)

	require.Len(t, journal.records, 1)
	assert.Equal(t, models.SpeechStatusSuccess, journal.records[0].Status)
	assert.Equal(t, "happy", journal.records[0].Emotion)
	assert.Equal(t, len("RIFF-wav-bytes"), journal.records[0].AudioBytes)
	assert.NotEmpty(t, journal.records[0].ID)
}

func TestSpeak_Defaults(t *testing.T) {
	synth := &fakeTTS{audio: []byte("wav")}
	svc, _ := newTestService(t, synth, &fakePlayer{}, nil)

	msg, err := svc.Speak(context.Background(), Request{Text: "Hi"})
	require.NoError(t, err)
	assert.Contains(t, msg, "neutral")

	require.Len(t, synth.requests, 1)
	body := synth.requests[0].Body.(*tts.SpeechRequest)
	assert.Equal(t, "en-us", body.Language)
	assert.Equal(t, emotion.Lookup(emotion.Neutral), body.Emotion)
}

func TestSpeak_SynthesisHTTP500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"CUDA out of memory"}`))
	}))
	defer srv.Close()

	player := &fakePlayer{}
	journal := &fakeJournal{}
	synth := tts.NewZonosService(zap.NewNop(), srv.URL, tts.ContractSpeech, 0)
	svc, dir := newTestService(t, synth, player, journal)

	_, err := svc.Speak(context.Background(), Request{Text: "Hello", Emotion: emotion.Sad})

	require.Error(t, err)
	assert.ErrorIs(t, err, tts.ErrSynthesis)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "CUDA out of memory")

	var synthErr *tts.SynthesisError
	require.True(t, errors.As(err, &synthErr))
	assert.Equal(t, http.StatusInternalServerError, synthErr.StatusCode)

	assert.Empty(t, player.paths, "воспроизведение не должно запускаться")
	assertDirEmpty(t, dir)

	require.Len(t, journal.records, 1)
	assert.Equal(t, models.SpeechStatusSynthesisFailed, journal.records[0].Status)
}

func TestSpeak_PlaybackFailureCleansUp(t *testing.T) {
	player := &fakePlayer{err: &playback.PlaybackError{
		Platform: playback.PlatformLinux,
		Command:  "paplay",
		Err:      errors.New("exit status 1"),
	}}
	svc, dir := newTestService(t, &fakeTTS{audio: []byte("wav")}, player, nil)

	_, err := svc.Speak(context.Background(), Request{Text: "Hello", Emotion: emotion.Angry})

	require.Error(t, err)
	assert.ErrorIs(t, err, playback.ErrPlayback)
	require.Len(t, player.paths, 1)
	assert.NotEmpty(t, player.contents[0], "файл должен существовать во время воспроизведения")
	_, statErr := os.Stat(player.paths[0])
	assert.True(t, os.IsNotExist(statErr))
	assertDirEmpty(t, dir)
}

func TestSpeak_UnsupportedPlatform(t *testing.T) {
	runner := &countingRunner{}
	dispatcher := playback.NewDispatcher(zap.NewNop(), playback.Platform("aix"), runner)
	svc, dir := newTestService(t, &fakeTTS{audio: []byte("wav")}, dispatcher, nil)

	_, err := svc.Speak(context.Background(), Request{Text: "Hello", Emotion: emotion.Neutral})

	assert.ErrorIs(t, err, playback.ErrUnsupportedPlatform)
	assert.Zero(t, runner.calls)
	assertDirEmpty(t, dir)
}

func TestSpeak_WriteFailure(t *testing.T) {
	player := &fakePlayer{}
	svc := NewService(&fakeTTS{audio: []byte("wav")}, player, "linux", nil, metrics.New(zap.NewNop()),
		filepath.Join(t.TempDir(), "missing"), zap.NewNop())

	_, err := svc.Speak(context.Background(), Request{Text: "Hello", Emotion: emotion.Neutral})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileIO)
	assert.Empty(t, player.paths)
}

func TestSpeak_NameCollisionDoesNotClobber(t *testing.T) {
	player := &fakePlayer{}
	svc, dir := newTestService(t, &fakeTTS{audio: []byte("new")}, player, nil)

	fixed := time.Unix(1700000000, 42)
	svc.now = func() time.Time { return fixed }

	existing := filepath.Join(dir, "tts_output_1700000000000000042.wav")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o600))

	_, err := svc.Speak(context.Background(), Request{Text: "Hello", Emotion: emotion.Neutral})

	assert.ErrorIs(t, err, ErrFileIO)
	assert.Empty(t, player.paths)
	data, readErr := os.ReadFile(existing)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("old"), data)
}

func TestSpeak_IgnoresCancellation(t *testing.T) {
	synth := &fakeTTS{audio: []byte("wav")}
	svc, _ := newTestService(t, synth, &fakePlayer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Speak(ctx, Request{Text: "Hello", Emotion: emotion.Neutral})
	require.NoError(t, err)
	assert.NoError(t, synth.ctxErr)
}

func TestSpeak_JournalErrorIsSwallowed(t *testing.T) {
	journal := &fakeJournal{err: errors.New("connection reset")}
	svc, _ := newTestService(t, &fakeTTS{audio: []byte("wav")}, &fakePlayer{}, journal)

	_, err := svc.Speak(context.Background(), Request{Text: "Hello", Emotion: emotion.Happy})
	assert.NoError(t, err)
	assert.Len(t, journal.records, 1)
}

type countingRunner struct {
	calls int
}

func (r *countingRunner) Run(context.Context, playback.Command) ([]byte, error) {
	r.calls++
	return nil, nil
}
