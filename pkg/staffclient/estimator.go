package staffclient

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/conserv-tt/conserv-backend/types"
)

// Turn is one transcript entry in an estimator conversation.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}

// Estimator drives the chat cost estimator. Turns are strictly serialized:
// a send while another is outstanding is rejected, never queued.
type Estimator struct {
	client *Client

	mu         sync.Mutex
	inFlight   bool
	state      types.EstimatorState
	transcript []Turn
	estimate   *types.Estimate
	notes      string
}

// NewEstimator creates an estimator conversation on top of the client.
func NewEstimator(client *Client) *Estimator {
	return &Estimator{client: client}
}

// Send posts one user message and applies the reply: the continuation state
// is replaced when present, the assistant text is appended to the transcript,
// and the rendered estimate is fully replaced.
func (e *Estimator) Send(ctx context.Context, message string) (*types.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is empty")
	}

	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return nil, fmt.Errorf("a turn is already in progress")
	}
	e.inFlight = true
	state := e.state
	e.mu.Unlock()

	var resp types.ChatResponse
	err := e.client.postJSON(ctx, "/api/chat", types.ChatRequest{Message: message, Spec: state}, &resp)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false

	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("estimator rejected the message")
	}

	// State is kept unchanged when the reply omits it.
	if len(resp.Spec) > 0 {
		e.state = resp.Spec
	}
	e.transcript = append(e.transcript, Turn{Role: "user", Text: message})
	e.transcript = append(e.transcript, Turn{Role: "assistant", Text: resp.Assistant})
	e.estimate = resp.Estimate
	e.notes = resp.AINotes

	return &resp, nil
}

// Transcript returns a copy of the conversation so far.
func (e *Estimator) Transcript() []Turn {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Turn, len(e.transcript))
	copy(out, e.transcript)
	return out
}

// Estimate returns the current rendered estimate, nil when none.
func (e *Estimator) Estimate() *types.Estimate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.estimate
}

// Notes returns the optional AI notes from the latest turn.
func (e *Estimator) Notes() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notes
}
