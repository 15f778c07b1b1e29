package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"labelkit/internal/core/apperror"
	"labelkit/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCapture struct {
	mu       sync.Mutex
	payloads []string
	pollErr  error
	closed   atomic.Int32
}

func (c *fakeCapture) Poll(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pollErr != nil {
		return "", c.pollErr
	}
	if len(c.payloads) == 0 {
		return "", nil
	}
	next := c.payloads[0]
	c.payloads = c.payloads[1:]
	return next, nil
}

func (c *fakeCapture) Close() error {
	c.closed.Add(1)
	return nil
}

type fakeBackend struct {
	name      string
	available bool
	capture   *fakeCapture
	openErr   error
	opens     atomic.Int32
}

func (b *fakeBackend) Name() string    { return b.name }
func (b *fakeBackend) Available() bool { return b.available }

func (b *fakeBackend) Open(ctx context.Context) (Capture, error) {
	b.opens.Add(1)
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.capture, nil
}

func testOptions() Options {
	return Options{Interval: time.Millisecond, Logger: logger.Nop()}
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSession_DecodesFirstValidPayload(t *testing.T) {
	capture := &fakeCapture{payloads: []string{"", "garbage", "12345", "IMEI:35-693803-564380-9", "111111111111111"}}
	backend := &fakeBackend{name: "fake", available: true, capture: capture}

	s, err := Start(context.Background(), backend, testOptions())
	require.NoError(t, err)

	identifier, err := s.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "356938035643809", identifier)

	status, got, statusErr := s.Status()
	assert.Equal(t, StatusDecoded, status)
	assert.Equal(t, identifier, got)
	assert.NoError(t, statusErr)
	assert.Equal(t, int32(1), capture.closed.Load())
	assert.Equal(t, "fake", s.Backend())
}

func TestSession_StopIsIdempotent(t *testing.T) {
	capture := &fakeCapture{}
	s, err := Start(context.Background(), &fakeBackend{name: "fake", available: true, capture: capture}, testOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Stop()
		}()
	}
	wg.Wait()
	s.Stop()

	status, _, _ := s.Status()
	assert.Equal(t, StatusStopped, status)
	assert.Equal(t, int32(1), capture.closed.Load(), "capture released exactly once")

	_, err = s.Wait(waitCtx(t))
	assert.ErrorIs(t, err, ErrStopped)
}

func TestSession_StopAfterDecode(t *testing.T) {
	capture := &fakeCapture{payloads: []string{"123456789012345"}}
	s, err := Start(context.Background(), &fakeBackend{name: "fake", available: true, capture: capture}, testOptions())
	require.NoError(t, err)

	_, err = s.Wait(waitCtx(t))
	require.NoError(t, err)
	s.Stop()

	status, _, _ := s.Status()
	assert.Equal(t, StatusDecoded, status)
	assert.Equal(t, int32(1), capture.closed.Load())
}

func TestSession_ParentCancellation(t *testing.T) {
	capture := &fakeCapture{}
	ctx, cancel := context.WithCancel(context.Background())

	s, err := Start(ctx, &fakeBackend{name: "fake", available: true, capture: capture}, testOptions())
	require.NoError(t, err)
	cancel()

	<-s.Done()
	status, _, _ := s.Status()
	assert.Equal(t, StatusStopped, status)
	assert.Equal(t, int32(1), capture.closed.Load())
}

func TestSession_Timeout(t *testing.T) {
	capture := &fakeCapture{}
	opts := testOptions()
	opts.Timeout = 20 * time.Millisecond

	s, err := Start(context.Background(), &fakeBackend{name: "fake", available: true, capture: capture}, opts)
	require.NoError(t, err)

	_, err = s.Wait(waitCtx(t))
	assert.ErrorIs(t, err, ErrStopped)
	assert.Equal(t, int32(1), capture.closed.Load())
}

func TestSession_PollFailure(t *testing.T) {
	capture := &fakeCapture{pollErr: errors.New("device unplugged")}
	s, err := Start(context.Background(), &fakeBackend{name: "wedge", available: true, capture: capture}, testOptions())
	require.NoError(t, err)

	_, err = s.Wait(waitCtx(t))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeCaptureFailure))
	assert.ErrorContains(t, err, "device unplugged")

	status, _, _ := s.Status()
	assert.Equal(t, StatusFailed, status)
	assert.Equal(t, int32(1), capture.closed.Load())
}

func TestStart_OpenFailure(t *testing.T) {
	backend := &fakeBackend{name: "camera", available: true, openErr: errors.New("permission denied")}

	_, err := Start(context.Background(), backend, testOptions())
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeCaptureFailure))
}

func TestWait_ContextDone(t *testing.T) {
	s, err := Start(context.Background(), &fakeBackend{name: "fake", available: true, capture: &fakeCapture{}}, testOptions())
	require.NoError(t, err)
	defer s.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSelect(t *testing.T) {
	native := &fakeBackend{name: "native", available: false}
	fallback := &fakeBackend{name: "fallback", available: true}

	got, err := Select(native, nil, fallback)
	require.NoError(t, err)
	assert.Equal(t, "fallback", got.Name())

	native.available = true
	got, err = Select(native, fallback)
	require.NoError(t, err)
	assert.Equal(t, "native", got.Name())

	_, err = Select(&fakeBackend{name: "a"}, &fakeBackend{name: "b"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeCaptureFailure))

	_, err = Select()
	assert.Error(t, err)
}
