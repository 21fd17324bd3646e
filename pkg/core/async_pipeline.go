package core

import (
	"context"
	"sync"
)

// ProcessResult carries the outcome of an asynchronous pipeline pass.
type ProcessResult struct {
	// Response is the winning response text, empty on error.
	Response string

	// Err is the error that aborted the pass, nil on success.
	Err error
}

// RetrieveResult carries the outcome of an asynchronous retrieval.
type RetrieveResult struct {
	Records []*Record
	Err     error
}

// AsyncClient wraps a Client with fire-and-collect variants of its
// operations. Each call returns a buffered channel delivering exactly
// one result; Wait blocks until all in-flight calls have finished.
//
// Example:
//
//	async := core.NewAsyncClient(client)
//	ch := async.ProcessPromptAsync(ctx, "summarize the incident report")
//	result := <-ch
//	if result.Err != nil {
//	    log.Fatal(result.Err)
//	}
type AsyncClient struct {
	*Client
	wg sync.WaitGroup
}

// NewAsyncClient creates an asynchronous wrapper around an existing
// client. The wrapper shares the client's components; closing either
// closes both.
func NewAsyncClient(client *Client) *AsyncClient {
	return &AsyncClient{Client: client}
}

// ProcessPromptAsync runs ProcessPrompt in a goroutine and delivers
// the result on the returned channel.
func (a *AsyncClient) ProcessPromptAsync(ctx context.Context, prompt string, opts ...ProcessOption) <-chan *ProcessResult {
	ch := make(chan *ProcessResult, 1)
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()
		response, err := a.ProcessPrompt(ctx, prompt, opts...)
		ch <- &ProcessResult{Response: response, Err: err}
		close(ch)
	}()

	return ch
}

// RetrieveAllAsync runs RetrieveAll in a goroutine and delivers the
// result on the returned channel.
func (a *AsyncClient) RetrieveAllAsync(ctx context.Context) <-chan *RetrieveResult {
	ch := make(chan *RetrieveResult, 1)
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()
		records, err := a.RetrieveAll(ctx)
		ch <- &RetrieveResult{Records: records, Err: err}
		close(ch)
	}()

	return ch
}

// Wait blocks until every asynchronous operation started on this
// wrapper has completed.
func (a *AsyncClient) Wait() {
	a.wg.Wait()
}

// Close waits for in-flight operations and closes the underlying
// client.
func (a *AsyncClient) Close() error {
	a.wg.Wait()
	return a.Client.Close()
}
