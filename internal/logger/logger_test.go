package logger

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOutput_CapturesEvents(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(io.Discard) })

	Get().Info().Uint("match_id", 7).Msg("match ended")
	reqLog := WithRequestID("abc123")
	reqLog.Warn().Msg("slow request")

	out := buf.String()
	assert.Contains(t, out, `"match_id":7`)
	assert.Contains(t, out, `"message":"match ended"`)
	assert.Contains(t, out, `"request_id":"abc123"`)
}

func TestSetOutput_ConcurrentWithLogging(t *testing.T) {
	t.Cleanup(func() { SetOutput(io.Discard) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetOutput(io.Discard)
		}()
		go func(i int) {
			defer wg.Done()
			Get().Info().Int("worker", i).Msg("logging while reconfigured")
		}(i)
	}
	wg.Wait()

	assert.NotNil(t, Get())
}
