// Package tokenizer estimates prompt sizes before a completion call.
//
// Local inference backends only report token usage once a generation
// finishes, so the course generator uses a tiktoken estimate up front
// for logging and metrics. cl100k_base is an approximation for
// non-OpenAI vocabularies but tracks closely enough for budgeting.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/Rohit-roe/coursegen/llm"
)

const defaultEncoding = "cl100k_base"

// Estimator counts tokens with a lazily initialized tiktoken encoding.
type Estimator struct {
	encoding string
	enc      *tiktoken.Tiktoken
	once     sync.Once
	initErr  error
}

// NewEstimator creates an estimator using the cl100k_base encoding.
func NewEstimator() *Estimator {
	return &Estimator{encoding: defaultEncoding}
}

// init lazily loads the encoding; the first call may download data.
func (e *Estimator) init() error {
	e.once.Do(func() {
		enc, err := tiktoken.GetEncoding(e.encoding)
		if err != nil {
			e.initErr = fmt.Errorf("init tiktoken encoding %s: %w", e.encoding, err)
			return
		}
		e.enc = enc
	})
	return e.initErr
}

// CountTokens returns the token count of text.
func (e *Estimator) CountTokens(text string) (int, error) {
	if err := e.init(); err != nil {
		return 0, err
	}
	return len(e.enc.Encode(text, nil, nil)), nil
}

// CountMessages estimates the token count of a chat prompt, including
// per-message framing overhead.
func (e *Estimator) CountMessages(messages []llm.Message) (int, error) {
	if err := e.init(); err != nil {
		return 0, err
	}

	total := 0
	for _, msg := range messages {
		total += 4
		total += len(e.enc.Encode(msg.Content, nil, nil))
		total += len(e.enc.Encode(string(msg.Role), nil, nil))
	}
	total += 3
	return total, nil
}

// Name identifies the estimator in logs.
func (e *Estimator) Name() string {
	return fmt.Sprintf("tiktoken[%s]", e.encoding)
}
