package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auraflux-be/internal/constant"
	"auraflux-be/internal/dto"
	"auraflux-be/internal/entity"
	"auraflux-be/internal/websocket"
)

func newTestStabilityWorker(f *fakeUow) *stabilityWorker {
	return &stabilityWorker{
		uowFactory: f,
		hub:        websocket.NewHub(nil, nopLogger{}),
		logger:     nopLogger{},
	}
}

func stabilityEvent(sessionId, userId uuid.UUID) dto.TopicStabilityUpdated {
	return dto.TopicStabilityUpdated{
		SessionId:              sessionId,
		UserId:                 userId,
		StabilityScore:         7.0,
		FeasibilityStatus:      string(constant.FeasibilityMedium),
		ResearchQuestionDraft:  "How does X affect Y?",
		ConversationSummary:    "Summary so far.",
		AnalyzedSequenceNumber: 6,
	}
}

func TestStabilityWorkerPersistsAnalysisState(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)

	w := newTestStabilityWorker(f)
	event := stabilityEvent(sessionId, userId)

	snapshot, err := w.persist(context.Background(), &event)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	data := f.phaseData[sessionId]
	assert.InDelta(t, 7.0, data.StabilityScore, 1e-9)
	assert.Equal(t, constant.FeasibilityMedium, data.FeasibilityStatus)
	assert.Equal(t, "How does X affect Y?", data.FinalResearchQuestion)
	assert.Equal(t, int64(6), data.LastAnalysisSequenceNumber)
	// 7.0 > 6.5 default threshold.
	assert.True(t, data.IsTransitionReady)
	assert.True(t, snapshot.IsTransitionReady)
	assert.Equal(t, 1, f.committed)
}

func TestStabilityWorkerCheckpointOnlyMovesForward(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)
	f.phaseData[sessionId] = &entity.InitiationPhaseData{
		SessionId:                   sessionId,
		AnalysisActivationThreshold: 6.5,
		LastAnalysisSequenceNumber:  10,
	}

	w := newTestStabilityWorker(f)
	// A slow run over an older window lands after a newer one.
	event := stabilityEvent(sessionId, userId)
	event.AnalyzedSequenceNumber = 6

	_, err := w.persist(context.Background(), &event)
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.phaseData[sessionId].LastAnalysisSequenceNumber)
}

func TestStabilityWorkerDoesNotOverwriteDraftWithEmpty(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)
	f.phaseData[sessionId] = &entity.InitiationPhaseData{
		SessionId:                   sessionId,
		AnalysisActivationThreshold: 6.5,
		FinalResearchQuestion:       "Existing draft?",
	}

	w := newTestStabilityWorker(f)
	event := stabilityEvent(sessionId, userId)
	event.ResearchQuestionDraft = ""

	_, err := w.persist(context.Background(), &event)
	require.NoError(t, err)
	assert.Equal(t, "Existing draft?", f.phaseData[sessionId].FinalResearchQuestion)
}

func TestStabilityWorkerMergeSkipsLockedEntries(t *testing.T) {
	f := newFakeUow()
	userId := uuid.New()
	sessionId := seedWorkflow(f, userId, constant.StageDefinition, true)
	f.keywords = append(f.keywords, &entity.TopicKeyword{
		OwnerKind: constant.OwnerWorkflow,
		OwnerId:   sessionId,
		Label:     "protected term",
		Status:    constant.StatusLocked,
	})

	w := newTestStabilityWorker(f)
	event := stabilityEvent(sessionId, userId)
	event.RefinedKeywords = []dto.KeywordPayload{
		{Label: "protected term", ImportanceWeight: 0.1},
		{Label: "fresh term", ImportanceWeight: 0.8, IsCore: true},
	}

	_, err := w.persist(context.Background(), &event)
	require.NoError(t, err)

	// Only the new label was upserted; the locked one stayed untouched.
	require.Len(t, f.keywords, 2)
	assert.Equal(t, constant.StatusLocked, f.keywords[0].Status)
	assert.Equal(t, "fresh term", f.keywords[1].Label)
	assert.Equal(t, constant.StatusAIExtracted, f.keywords[1].Status)
}

func TestStabilityWorkerDropsResultForMissingWorkflow(t *testing.T) {
	f := newFakeUow()
	w := newTestStabilityWorker(f)

	event := stabilityEvent(uuid.New(), uuid.New())
	snapshot, err := w.persist(context.Background(), &event)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}
