package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/dto"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/websocket"
	"auraflux-be/pkg/agent"
	"auraflux-be/pkg/llm"
)

// sliceStream replays fixed fragments, optionally ending in an error.
type sliceStream struct {
	fragments []string
	idx       int
	err       error
}

func (s *sliceStream) Next() bool {
	if s.idx >= len(s.fragments) {
		return false
	}
	s.idx++
	return true
}

func (s *sliceStream) Current() string { return s.fragments[s.idx-1] }
func (s *sliceStream) Err() error      { return s.err }
func (s *sliceStream) Close() error    { return nil }

type streamingProvider struct {
	stream    *sliceStream
	streamErr error
}

func (p *streamingProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not streaming")
}

func (p *streamingProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (llm.Stream, error) {
	if p.streamErr != nil {
		return nil, p.streamErr
	}
	return p.stream, nil
}

func (p *streamingProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("not streaming")
}

func newTestDialogueWorker(f *fakeUow, provider llm.LLMProvider, pub IPublisherService) *dialogueWorker {
	return &dialogueWorker{
		uowFactory:       f,
		agent:            agent.NewAgent(provider),
		hub:              websocket.NewHub(nil, nopLogger{}),
		publisherService: pub,
		workflowCfg:      testWorkflowCfg(),
		logger:           nopLogger{},
	}
}

func dialogueEvent(sessionId, userId uuid.UUID) dto.StreamingDialogueRequested {
	return dto.StreamingDialogueRequested{
		SessionId:     sessionId,
		UserId:        userId,
		UserMessage:   "I want to research coral bleaching",
		AgentRoleName: constant.RoleExplorerAgent,
		ChatHistory: []dto.ChatEntryPayload{
			{Role: "user", Content: "I want to research coral bleaching", SequenceNumber: 1},
		},
	}
}

func TestDialogueWorkerPersistsReplyAndTriggersRefinement(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)
	f.entries[sessionId] = []*entity.ChatHistoryEntry{
		{SessionId: sessionId, Role: constant.RoleUser, Content: "I want to research coral bleaching", SequenceNumber: 1},
	}
	// Unstable topic: every turn triggers analysis.
	f.phaseData[sessionId] = &entity.InitiationPhaseData{
		SessionId:                   sessionId,
		StabilityScore:              2.0,
		AnalysisActivationThreshold: 6.5,
	}

	provider := &streamingProvider{stream: &sliceStream{fragments: []string{"Which ", "reef ", "systems?"}}}
	pub := newCapturingPublisher()
	w := newTestDialogueWorker(f, provider, pub)

	event := dialogueEvent(sessionId, userId)
	w.processMessage(context.Background(), eventPayload(t, &event))

	// Assistant reply persisted with the next sequence number.
	require.Len(t, f.entries[sessionId], 2)
	reply := f.entries[sessionId][1]
	assert.Equal(t, constant.RoleAIAgent, reply.Role)
	assert.Equal(t, "Which reef systems?", reply.Content)
	assert.Equal(t, constant.RoleExplorerAgent, reply.SenderName)
	assert.Equal(t, int64(2), reply.SequenceNumber)

	require.Equal(t, 1, pub.count(constant.TopicRefinementRequested))
	refinement := pub.published[constant.TopicRefinementRequested][0].(*dto.TopicRefinementRequested)
	assert.Equal(t, sessionId, refinement.SessionId)
	assert.Equal(t, int64(2), refinement.LatestSequenceNumber)
	// Both turns sit past the zero checkpoint.
	assert.Len(t, refinement.Window, 2)
}

func TestDialogueWorkerSkipsRefinementForStableTopic(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)
	// Stable topic with a small unanalyzed backlog: no analysis yet.
	f.phaseData[sessionId] = &entity.InitiationPhaseData{
		SessionId:                   sessionId,
		StabilityScore:              8.0,
		AnalysisActivationThreshold: 6.5,
		LastAnalysisSequenceNumber:  0,
	}

	provider := &streamingProvider{stream: &sliceStream{fragments: []string{"Sounds settled."}}}
	pub := newCapturingPublisher()
	w := newTestDialogueWorker(f, provider, pub)

	event := dialogueEvent(sessionId, userId)
	w.processMessage(context.Background(), eventPayload(t, &event))

	require.Len(t, f.entries[sessionId], 1)
	assert.Equal(t, 0, pub.count(constant.TopicRefinementRequested))
}

func TestDialogueWorkerDropsTurnOnStreamFailure(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)

	provider := &streamingProvider{streamErr: errors.New("model unavailable")}
	pub := newCapturingPublisher()
	w := newTestDialogueWorker(f, provider, pub)

	event := dialogueEvent(sessionId, userId)
	w.processMessage(context.Background(), eventPayload(t, &event))

	// The error frame was pushed; nothing is persisted and nothing moves on.
	assert.Empty(t, f.entries[sessionId])
	assert.Equal(t, 0, pub.count(constant.TopicRefinementRequested))
}

func TestDialogueWorkerMidStreamErrorDiscardsPartialReply(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)

	provider := &streamingProvider{stream: &sliceStream{
		fragments: []string{"Partial "},
		err:       errors.New("connection reset"),
	}}
	pub := newCapturingPublisher()
	w := newTestDialogueWorker(f, provider, pub)

	event := dialogueEvent(sessionId, userId)
	w.processMessage(context.Background(), eventPayload(t, &event))

	assert.Empty(t, f.entries[sessionId])
	assert.Equal(t, 0, pub.count(constant.TopicRefinementRequested))
}

func TestDialogueWorkerPersistsReplyUnderWorkflowRowLock(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)

	provider := &streamingProvider{stream: &sliceStream{fragments: []string{"ok"}}}
	w := newTestDialogueWorker(f, provider, newCapturingPublisher())

	event := dialogueEvent(sessionId, userId)
	_, err := w.persistReply(context.Background(), &event, "ok")
	require.NoError(t, err)

	// The reply append holds the same row lock intake assigns sequence
	// numbers under.
	require.Len(t, f.lockedForUpdate, 1)
	assert.Equal(t, sessionId, f.lockedForUpdate[0])
}

func TestDialogueWorkerRetriesPersistOnFreshTransaction(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)
	f.appendFailures = 1

	provider := &streamingProvider{stream: &sliceStream{fragments: []string{"reply"}}}
	pub := newCapturingPublisher()
	w := newTestDialogueWorker(f, provider, pub)

	event := dialogueEvent(sessionId, userId)
	w.processMessage(context.Background(), eventPayload(t, &event))

	require.Equal(t, 1, f.entryCount(sessionId))
	assert.Equal(t, "reply", f.entries[sessionId][0].Content)
	assert.Equal(t, 2, f.begun)
	assert.Equal(t, 1, f.committed)
}

// gatedProvider holds its first stream open on gate; later calls stream
// immediately.
type gatedProvider struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
}

func (p *gatedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not streaming")
}

func (p *gatedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return "", errors.New("not streaming")
}

func (p *gatedProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (llm.Stream, error) {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()
	if first {
		return &gatedStream{gate: p.gate, inner: sliceStream{fragments: []string{"slow reply"}}}, nil
	}
	return &sliceStream{fragments: []string{"quick reply"}}, nil
}

func (p *gatedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type gatedStream struct {
	gate  chan struct{}
	inner sliceStream
}

func (s *gatedStream) Next() bool {
	<-s.gate
	return s.inner.Next()
}

func (s *gatedStream) Current() string { return s.inner.Current() }
func (s *gatedStream) Err() error      { return s.inner.Err() }
func (s *gatedStream) Close() error    { return nil }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestDialogueWorkerServesSessionsIndependently(t *testing.T) {
	f := newFakeUow()
	userA := uuid.New()
	userB := uuid.New()
	sessionA := seedWorkflow(f, userA, constant.StageDefinition, true)
	sessionB := seedWorkflow(f, userB, constant.StageDefinition, true)

	provider := &gatedProvider{gate: make(chan struct{})}
	w := newTestDialogueWorker(f, provider, newCapturingPublisher())
	w.pubSub = gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Consume(ctx))

	eventA := dialogueEvent(sessionA, userA)
	require.NoError(t, w.pubSub.Publish(constant.TopicStreamingDialogueRequested,
		message.NewMessage(watermill.NewUUID(), eventPayload(t, &eventA))))
	waitFor(t, "first stream to open", func() bool { return provider.callCount() == 1 })

	// The first session's stream is still open; the second session's turn
	// must run to completion regardless.
	eventB := dialogueEvent(sessionB, userB)
	require.NoError(t, w.pubSub.Publish(constant.TopicStreamingDialogueRequested,
		message.NewMessage(watermill.NewUUID(), eventPayload(t, &eventB))))
	waitFor(t, "second stream to open", func() bool { return provider.callCount() == 2 })
	waitFor(t, "second reply to persist", func() bool { return f.entryCount(sessionB) == 1 })

	close(provider.gate)
	waitFor(t, "first reply to persist", func() bool { return f.entryCount(sessionA) == 1 })
}
