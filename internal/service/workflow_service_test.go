package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auraflux-be/internal/config"
	"auraflux-be/internal/constant"
	"auraflux-be/internal/dto"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/pkg/serverutils"
	"auraflux-be/internal/repository/contract"
	"auraflux-be/internal/repository/specification"
	"auraflux-be/internal/repository/unitofwork"
)

// fakeUow is an in-memory unit of work shared across NewUnitOfWork calls so
// state written in one service call is visible to the next.
type fakeUow struct {
	workflows map[uuid.UUID]*entity.ResearchWorkflow
	phaseData map[uuid.UUID]*entity.InitiationPhaseData
	entries   map[uuid.UUID][]*entity.ChatHistoryEntry
	keywords  []*entity.TopicKeyword
	elements  []*entity.TopicScopeElement
	logs      []*entity.ReflectionLog
	users     map[uuid.UUID]*entity.User

	begun      int
	committed  int
	rolledBack int

	// mu guards entries, lockedForUpdate and the counters; workers append
	// replies from their own goroutines.
	mu              sync.Mutex
	lockedForUpdate []uuid.UUID
	appendFailures  int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		workflows: make(map[uuid.UUID]*entity.ResearchWorkflow),
		phaseData: make(map[uuid.UUID]*entity.InitiationPhaseData),
		entries:   make(map[uuid.UUID][]*entity.ChatHistoryEntry),
		users:     make(map[uuid.UUID]*entity.User),
	}
}

func (f *fakeUow) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f }

func (f *fakeUow) Begin(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begun++
	return nil
}

func (f *fakeUow) Commit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed++
	return nil
}

func (f *fakeUow) Rollback() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolledBack++
	return nil
}

func (f *fakeUow) UserRepository() contract.UserRepository                 { return fakeUserRepo{f} }
func (f *fakeUow) ResearchWorkflowRepository() contract.ResearchWorkflowRepository {
	return fakeWorkflowRepo{f}
}
func (f *fakeUow) InitiationDataRepository() contract.InitiationDataRepository {
	return fakeInitiationRepo{f}
}
func (f *fakeUow) ChatHistoryRepository() contract.ChatHistoryRepository { return fakeChatRepo{f} }
func (f *fakeUow) TopicKeywordRepository() contract.TopicKeywordRepository {
	return fakeKeywordRepo{f}
}
func (f *fakeUow) TopicScopeElementRepository() contract.TopicScopeElementRepository {
	return fakeScopeRepo{f}
}
func (f *fakeUow) ReflectionLogRepository() contract.ReflectionLogRepository {
	return fakeReflectionRepo{f}
}

type fakeWorkflowRepo struct{ f *fakeUow }

func (r fakeWorkflowRepo) Create(ctx context.Context, w *entity.ResearchWorkflow) error {
	r.f.workflows[w.SessionId] = w
	return nil
}

func (r fakeWorkflowRepo) Update(ctx context.Context, w *entity.ResearchWorkflow) error {
	r.f.workflows[w.SessionId] = w
	return nil
}

func (r fakeWorkflowRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResearchWorkflow, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.BySessionID); ok {
			return r.f.workflows[s.SessionID], nil
		}
	}
	return nil, nil
}

func (r fakeWorkflowRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchWorkflow, error) {
	return nil, nil
}

func (r fakeWorkflowRepo) FindOneForUpdate(ctx context.Context, sessionId uuid.UUID) (*entity.ResearchWorkflow, error) {
	r.f.mu.Lock()
	r.f.lockedForUpdate = append(r.f.lockedForUpdate, sessionId)
	r.f.mu.Unlock()
	return r.f.workflows[sessionId], nil
}

type fakeInitiationRepo struct{ f *fakeUow }

func (r fakeInitiationRepo) FindBySession(ctx context.Context, sessionId uuid.UUID) (*entity.InitiationPhaseData, error) {
	return r.f.phaseData[sessionId], nil
}

func (r fakeInitiationRepo) GetOrCreateForUpdate(ctx context.Context, sessionId uuid.UUID) (*entity.InitiationPhaseData, error) {
	if data, ok := r.f.phaseData[sessionId]; ok {
		return data, nil
	}
	data := &entity.InitiationPhaseData{SessionId: sessionId, AnalysisActivationThreshold: 6.5}
	r.f.phaseData[sessionId] = data
	return data, nil
}

func (r fakeInitiationRepo) Update(ctx context.Context, data *entity.InitiationPhaseData) error {
	r.f.phaseData[data.SessionId] = data
	return nil
}

type fakeChatRepo struct{ f *fakeUow }

func (r fakeChatRepo) Append(ctx context.Context, entry *entity.ChatHistoryEntry) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.appendFailures > 0 {
		r.f.appendFailures--
		return errors.New("insert failed")
	}
	entry.Id = uuid.New()
	entry.SequenceNumber = int64(len(r.f.entries[entry.SessionId])) + 1
	entry.CreatedAt = time.Now()
	r.f.entries[entry.SessionId] = append(r.f.entries[entry.SessionId], entry)
	return nil
}

func (r fakeChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistoryEntry, error) {
	var sessionId uuid.UUID
	after := int64(-1)
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.BySessionID:
			sessionId = s.SessionID
		case specification.SequenceAfter:
			after = s.After
		}
	}
	var out []*entity.ChatHistoryEntry
	for _, e := range r.f.entries[sessionId] {
		if e.SequenceNumber > after {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r fakeChatRepo) MaxSequence(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	return int64(len(r.f.entries[sessionId])), nil
}

func (r fakeChatRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeKeywordRepo struct{ f *fakeUow }

func (r fakeKeywordRepo) Create(ctx context.Context, k *entity.TopicKeyword) error {
	r.f.keywords = append(r.f.keywords, k)
	return nil
}
func (r fakeKeywordRepo) Update(ctx context.Context, k *entity.TopicKeyword) error { return nil }
func (r fakeKeywordRepo) Upsert(ctx context.Context, k *entity.TopicKeyword) error {
	return r.Create(ctx, k)
}
func (r fakeKeywordRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TopicKeyword, error) {
	return nil, nil
}
func (r fakeKeywordRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TopicKeyword, error) {
	wantLocked := false
	for _, spec := range specs {
		if s, ok := spec.(specification.ByStatus); ok && s.Status == string(constant.StatusLocked) {
			wantLocked = true
		}
	}
	var out []*entity.TopicKeyword
	for _, k := range r.f.keywords {
		if !wantLocked || k.Status == constant.StatusLocked {
			out = append(out, k)
		}
	}
	return out, nil
}

type fakeScopeRepo struct{ f *fakeUow }

func (r fakeScopeRepo) Create(ctx context.Context, e *entity.TopicScopeElement) error {
	r.f.elements = append(r.f.elements, e)
	return nil
}
func (r fakeScopeRepo) Update(ctx context.Context, e *entity.TopicScopeElement) error { return nil }
func (r fakeScopeRepo) Upsert(ctx context.Context, e *entity.TopicScopeElement) error {
	return r.Create(ctx, e)
}
func (r fakeScopeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TopicScopeElement, error) {
	return nil, nil
}
func (r fakeScopeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TopicScopeElement, error) {
	wantLocked := false
	for _, spec := range specs {
		if s, ok := spec.(specification.ByStatus); ok && s.Status == string(constant.StatusLocked) {
			wantLocked = true
		}
	}
	var out []*entity.TopicScopeElement
	for _, e := range r.f.elements {
		if !wantLocked || e.Status == constant.StatusLocked {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeReflectionRepo struct{ f *fakeUow }

func (r fakeReflectionRepo) Create(ctx context.Context, l *entity.ReflectionLog) error {
	r.f.logs = append(r.f.logs, l)
	return nil
}
func (r fakeReflectionRepo) Update(ctx context.Context, l *entity.ReflectionLog) error { return nil }
func (r fakeReflectionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReflectionLog, error) {
	return nil, nil
}
func (r fakeReflectionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReflectionLog, error) {
	return r.f.logs, nil
}
func (r fakeReflectionRepo) LatestCommitted(ctx context.Context, kind constant.OwnerKind, ownerId uuid.UUID) (*entity.ReflectionLog, error) {
	var latest *entity.ReflectionLog
	for _, l := range r.f.logs {
		if l.OwnerId == ownerId && l.Status == constant.ReflectionCommitted {
			latest = l
		}
	}
	return latest, nil
}

type fakeUserRepo struct{ f *fakeUow }

func (r fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.f.users[u.Id] = u
	return nil
}
func (r fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByEmail); ok {
			for _, u := range r.f.users {
				if u.Email == s.Email {
					return u, nil
				}
			}
		}
	}
	return nil, nil
}

func (f *fakeUow) entryCount(sessionId uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries[sessionId])
}

func testWorkflowCfg() config.WorkflowConfig {
	return config.WorkflowConfig{
		DialogueWindowSize:          12,
		AnalysisGuardTTL:            2 * time.Minute,
		AnalysisActivationThreshold: 6.5,
	}
}

func seedWorkflow(f *fakeUow, userId uuid.UUID, stage constant.ISPStage, active bool) uuid.UUID {
	sessionId := uuid.New()
	f.workflows[sessionId] = &entity.ResearchWorkflow{
		SessionId:    sessionId,
		UserId:       userId,
		CurrentStage: stage,
		IsActive:     active,
		CreatedAt:    time.Now(),
	}
	return sessionId
}

func TestSubmitChatInputAcceptsAndPublishesAfterCommit(t *testing.T) {
	f := newFakeUow()
	pub := newCapturingPublisher()
	svc := NewWorkflowService(f, pub, nil, testWorkflowCfg(), nopLogger{})

	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)

	res, err := svc.SubmitChatInput(context.Background(), userId, sessionId, &dto.ChatInputRequest{
		UserMessage: "I want to research microplastics in rivers",
	})
	require.NoError(t, err)
	assert.Equal(t, "accepted", res.Status)

	// The user entry was persisted under the transaction.
	require.Len(t, f.entries[sessionId], 1)
	assert.Equal(t, constant.RoleUser, f.entries[sessionId][0].Role)
	assert.Equal(t, int64(1), f.entries[sessionId][0].SequenceNumber)
	assert.Equal(t, 1, f.committed)

	require.Equal(t, 1, pub.count(constant.TopicStreamingDialogueRequested))
	event := pub.published[constant.TopicStreamingDialogueRequested][0].(*dto.StreamingDialogueRequested)
	assert.Equal(t, sessionId, event.SessionId)
	assert.Equal(t, userId, event.UserId)
	assert.Equal(t, constant.RoleExplorerAgent, event.AgentRoleName)
	require.Len(t, event.ChatHistory, 1)
	assert.Equal(t, "I want to research microplastics in rivers", event.ChatHistory[0].Content)
}

func TestSubmitChatInputOnlyForwardsLockedKnowledge(t *testing.T) {
	f := newFakeUow()
	pub := newCapturingPublisher()
	svc := NewWorkflowService(f, pub, nil, testWorkflowCfg(), nopLogger{})

	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)

	f.keywords = append(f.keywords,
		&entity.TopicKeyword{OwnerId: sessionId, Label: "locked one", Status: constant.StatusLocked},
		&entity.TopicKeyword{OwnerId: sessionId, Label: "still draft", Status: constant.StatusAIExtracted},
	)

	_, err := svc.SubmitChatInput(context.Background(), userId, sessionId, &dto.ChatInputRequest{
		UserMessage: "hello",
	})
	require.NoError(t, err)

	event := pub.published[constant.TopicStreamingDialogueRequested][0].(*dto.StreamingDialogueRequested)
	require.Len(t, event.LockedKeywords, 1)
	assert.Equal(t, "locked one", event.LockedKeywords[0].Label)
}

func TestSubmitChatInputRejections(t *testing.T) {
	userId := uuid.New()
	otherUser := uuid.New()

	tests := []struct {
		name       string
		seed       func(f *fakeUow) uuid.UUID
		caller     uuid.UUID
		role       string
		wantStatus int
	}{
		{
			name:       "unknown session",
			seed:       func(f *fakeUow) uuid.UUID { return uuid.New() },
			caller:     userId,
			wantStatus: 404,
		},
		{
			name:       "foreign session",
			seed:       func(f *fakeUow) uuid.UUID { return seedWorkflow(f, otherUser, constant.StageDefinition, true) },
			caller:     userId,
			wantStatus: 403,
		},
		{
			name:       "inactive session",
			seed:       func(f *fakeUow) uuid.UUID { return seedWorkflow(f, userId, constant.StageDefinition, false) },
			caller:     userId,
			wantStatus: 409,
		},
		{
			name:       "wrong stage",
			seed:       func(f *fakeUow) uuid.UUID { return seedWorkflow(f, userId, constant.StageExploration, true) },
			caller:     userId,
			wantStatus: 409,
		},
		{
			name:       "unknown agent role",
			seed:       func(f *fakeUow) uuid.UUID { return seedWorkflow(f, userId, constant.StageDefinition, true) },
			caller:     userId,
			role:       "NoSuchAgent",
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeUow()
			pub := newCapturingPublisher()
			svc := NewWorkflowService(f, pub, nil, testWorkflowCfg(), nopLogger{})

			sessionId := tt.seed(f)
			_, err := svc.SubmitChatInput(context.Background(), tt.caller, sessionId, &dto.ChatInputRequest{
				UserMessage:   "hello",
				AgentRoleName: tt.role,
			})
			require.Error(t, err)

			var appErr *serverutils.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantStatus, appErr.Status)

			// Nothing reaches the pipeline on rejection.
			assert.Equal(t, 0, pub.count(constant.TopicStreamingDialogueRequested))
		})
	}
}

func TestAdvanceStageRequiresTransitionReady(t *testing.T) {
	f := newFakeUow()
	svc := NewWorkflowService(f, newCapturingPublisher(), nil, testWorkflowCfg(), nopLogger{})

	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)
	f.phaseData[sessionId] = &entity.InitiationPhaseData{SessionId: sessionId, IsTransitionReady: false}

	_, err := svc.AdvanceStage(context.Background(), userId, sessionId)
	require.Error(t, err)
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)

	f.phaseData[sessionId].IsTransitionReady = true
	res, err := svc.AdvanceStage(context.Background(), userId, sessionId)
	require.NoError(t, err)
	assert.Equal(t, string(constant.StageExploration), res.CurrentStage)
}

func TestAdvanceStageStopsAtFinalStage(t *testing.T) {
	f := newFakeUow()
	svc := NewWorkflowService(f, newCapturingPublisher(), nil, testWorkflowCfg(), nopLogger{})

	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StagePresentation, true)

	_, err := svc.AdvanceStage(context.Background(), userId, sessionId)
	require.Error(t, err)
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestCreateWorkflowIsIdempotentPerSession(t *testing.T) {
	f := newFakeUow()
	svc := NewWorkflowService(f, newCapturingPublisher(), nil, testWorkflowCfg(), nopLogger{})

	userId := uuid.New()
	sessionId := uuid.New()

	first, err := svc.Create(context.Background(), userId, &dto.CreateWorkflowRequest{SessionId: sessionId})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), userId, &dto.CreateWorkflowRequest{SessionId: sessionId})
	require.NoError(t, err)
	assert.Equal(t, first.SessionId, second.SessionId)
	assert.Len(t, f.workflows, 1)

	// A different user cannot claim the same session id.
	_, err = svc.Create(context.Background(), uuid.New(), &dto.CreateWorkflowRequest{SessionId: sessionId})
	require.Error(t, err)
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestCreateWorkflowDefaultsToDefinition(t *testing.T) {
	f := newFakeUow()
	svc := NewWorkflowService(f, newCapturingPublisher(), nil, testWorkflowCfg(), nopLogger{})

	userId := uuid.New()
	res, err := svc.Create(context.Background(), userId, &dto.CreateWorkflowRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(constant.StageDefinition), res.CurrentStage)
	assert.True(t, res.IsActive)
	assert.NotEqual(t, uuid.Nil, res.SessionId)
}
