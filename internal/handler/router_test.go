package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/complyhub/riskgate/internal/middleware"
	"github.com/complyhub/riskgate/internal/model"
	"github.com/complyhub/riskgate/internal/risk"
	"github.com/complyhub/riskgate/internal/service"
	"github.com/complyhub/riskgate/internal/signer"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	router *gin.Engine
	signer *signer.Signer
	audit  *service.AuditService
}

func newTestServer(t *testing.T, readOnly bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := risk.NewEngine(risk.DefaultPolicy(), risk.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sg, err := signer.NewSigner(hexutil.Encode(crypto.FromECDSA(key)), 137)
	require.NoError(t, err)

	audit, err := service.NewAuditService(t.TempDir(), 100, nil)
	require.NoError(t, err)
	t.Cleanup(audit.Close)

	registry := service.NewEntityRegistry()
	assessments := service.NewAssessmentService(engine, registry, service.NewAssessmentStore(0),
		service.WithAttestationSigner(sg))

	router := NewRouter(RouterDeps{
		Entities:    service.NewEntityService(registry),
		Assessments: assessments,
		Audit:       audit,
		Policy:      engine.Policy(),
		Idempotency: middleware.NewInMemIdempotencyStore(time.Hour),
		Limiters:    middleware.NewClientLimiters(1000, 1000),
		ReadOnly:    readOnly,
	})
	return &testServer{router: router, signer: sg, audit: audit}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// snapshotJSON scores 93.5 (Low) at fixedNow.
func snapshotJSON() map[string]interface{} {
	return map[string]interface{}{
		"kyc": map[string]interface{}{
			"verified_users":                    80,
			"non_verified_users":                20,
			"high_risk_jurisdiction_percentage": 10,
			"sanctions":                         map[string]bool{"ofac": true, "fatf": true, "eu": true},
		},
		"security": map[string]interface{}{
			"manipulation": map[string]bool{"bot_detection": true, "spoofing_detection": true},
			"insurance": map[string]interface{}{
				"has_insurance":         true,
				"last_penetration_test": fixedNow.AddDate(0, -2, 0).Format(time.RFC3339),
			},
		},
		"custody": map[string]interface{}{
			"cold_storage_percentage": 98,
			"fund_segregation":        true,
			"multi_sig_required":      true,
		},
		"trading": map[string]interface{}{
			"hft":      map[string]interface{}{"allowed": false},
			"leverage": map[string]interface{}{"max_leverage": 3},
			"analytics": map[string]interface{}{
				"real_time_analytics": true,
				"proof_of_reserves":   true,
				"monitoring_tools":    []string{"Chainalysis", "Elliptic", "TRM Labs"},
			},
		},
		"regulatory": map[string]interface{}{
			"holds_licenses": true,
			"headquarters":   "Singapore",
		},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"riskgate"`)
}

func TestEntityAssessmentFlow(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/v1/entities", map[string]interface{}{
		"name": "Acme Exchange",
		"type": "exchange",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entity := decode[model.Entity](t, rec)

	// no snapshot yet
	rec = s.do(t, http.MethodPost, "/v1/entities/"+entity.ID+"/assessments", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPut, "/v1/entities/"+entity.ID+"/snapshot", snapshotJSON())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/v1/entities/"+entity.ID+"/assessments", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assessed := decode[model.AssessmentRecord](t, rec)
	assert.Equal(t, 93.5, assessed.Assessment.OverallScore)
	assert.Equal(t, model.RiskLow, assessed.Assessment.RiskLevel)
	require.Len(t, assessed.Assessment.Categories, 5)
	require.NotNil(t, assessed.Attestation)
	assert.NoError(t, signer.Verify(assessed.Attestation))

	rec = s.do(t, http.MethodGet, "/v1/entities/"+entity.ID+"/assessments/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, assessed.ID, decode[model.AssessmentRecord](t, rec).ID)

	rec = s.do(t, http.MethodGet, "/v1/entities/"+entity.ID+"/assessments?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.AssessmentRecord](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/v1/entities/"+entity.ID+"/assessments?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, "/v1/entities/"+entity.ID, map[string]interface{}{"name": "Acme Global"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme Global", decode[model.Entity](t, rec).Name)

	rec = s.do(t, http.MethodGet, "/v1/entities", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Entity](t, rec), 1)

	rec = s.do(t, http.MethodDelete, "/v1/entities/"+entity.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/entities/"+entity.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"NOT_FOUND"`)
}

func TestCreateEntityValidation(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/v1/entities", map[string]interface{}{"name": "X", "type": "casino"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/entities", map[string]interface{}{"type": "fund"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	snap := snapshotJSON()
	snap["custody"].(map[string]interface{})["cold_storage_percentage"] = 101
	rec = s.do(t, http.MethodPost, "/v1/entities", map[string]interface{}{
		"name":     "X",
		"type":     "fund",
		"snapshot": snap,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode[struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"details"`
	}](t, rec)
	assert.Equal(t, "INVALID_SNAPSHOT", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "custody.cold_storage_percentage", body.Details[0].Field)
	assert.Equal(t, "lte", body.Details[0].Rule)
}

func TestAdHocAssessment(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/v1/assessments", map[string]interface{}{
		"custody": map[string]interface{}{"cold_storage_percentage": 50, "fund_segregation": false},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[struct {
		Assessment      model.RiskAssessment `json:"assessment"`
		Recommendations []string             `json:"recommendations"`
	}](t, rec)
	assert.Equal(t, model.RiskCritical, body.Assessment.RiskLevel)
	assert.NotEmpty(t, body.Recommendations)

	rec = s.do(t, http.MethodPost, "/v1/assessments", map[string]interface{}{
		"trading": map[string]interface{}{"leverage": map[string]interface{}{"max_leverage": -2}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPolicyAndJurisdiction(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/v1/policy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	policy := decode[risk.Policy](t, rec)
	assert.Equal(t, 0.25, policy.Weights[model.CategoryKYC])
	assert.Equal(t, risk.MissingDataPenalize, policy.MissingData)

	cases := map[string]string{
		"Singapore":           "low",
		"Hong Kong SAR":       "medium",
		"British Virgin Isl.": "high",
	}
	for hq, tier := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/jurisdictions/classify", nil)
		q := req.URL.Query()
		q.Set("hq", hq)
		req.URL.RawQuery = q.Encode()
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tier, decode[map[string]interface{}](t, rec)["tier"], hq)
	}

	rec = s.do(t, http.MethodGet, "/v1/jurisdictions/classify", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyAttestation(t *testing.T) {
	s := newTestServer(t, false)
	att := signer.NewAttestation("entity-1", &model.RiskAssessment{
		OverallScore: 72.25,
		RiskLevel:    model.RiskMedium,
		AssessedAt:   fixedNow,
	})
	require.NoError(t, s.signer.Sign(att))

	rec := s.do(t, http.MethodPost, "/v1/attestations/verify", att)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]interface{}](t, rec)["valid"])

	att.RiskLevel = model.RiskLow
	rec = s.do(t, http.MethodPost, "/v1/attestations/verify", att)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]interface{}](t, rec)["valid"])

	att.Signature = "0x1234"
	rec = s.do(t, http.MethodPost, "/v1/attestations/verify", att)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "SIGNATURE_INVALID")
}

func TestReadOnlyMode(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPost, "/v1/entities", map[string]interface{}{"name": "X", "type": "fund"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/assessments", snapshotJSON())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuditTrail(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/v1/entities", map[string]interface{}{"name": "Audited", "type": "fund"})
	require.Equal(t, http.StatusCreated, rec.Code)
	entity := decode[model.Entity](t, rec)

	rec = s.do(t, http.MethodGet, "/v1/audit?entity_id="+entity.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]model.AuditLog](t, rec)
	require.Len(t, logs, 1)
	assert.Equal(t, http.MethodPost, logs[0].Method)
	assert.Equal(t, http.StatusCreated, logs[0].StatusCode)
}
