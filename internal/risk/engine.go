package risk

import (
	"errors"
	"time"

	"github.com/complyhub/riskgate/internal/model"
	"github.com/shopspring/decimal"
)

var ErrNilSnapshot = errors.New("risk: nil compliance snapshot")

// Clock supplies the assessment time.
type Clock func() time.Time

type Option func(*Engine)

func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.now = clock
		}
	}
}

// Engine is a stateless scorer. It is safe for concurrent use.
type Engine struct {
	policy Policy
	now    Clock
}

func NewEngine(policy Policy, opts ...Option) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		policy: policy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// Assess validates the snapshot and scores it.
func (e *Engine) Assess(snapshot *model.EntityComplianceSnapshot) (*model.RiskAssessment, error) {
	if snapshot == nil {
		return nil, ErrNilSnapshot
	}
	if err := Validate(snapshot); err != nil {
		return nil, err
	}
	return e.Calculate(snapshot), nil
}

// Calculate scores the snapshot without validating it. The clock is read
// exactly once; the same instant stamps the result and ages the last
// penetration test.
func (e *Engine) Calculate(snapshot *model.EntityComplianceSnapshot) *model.RiskAssessment {
	if snapshot == nil {
		snapshot = &model.EntityComplianceSnapshot{}
	}
	now := e.now().UTC()

	scores := []model.RiskScore{
		e.category(model.CategoryKYC, assessKYC(snapshot)),
		e.category(model.CategorySecurity, assessSecurity(snapshot, now)),
		e.category(model.CategoryCustody, assessCustody(snapshot)),
		e.category(model.CategoryTrading, assessTrading(snapshot)),
		e.category(model.CategoryRegulatory, assessRegulatory(snapshot, e.policy.Jurisdictions)),
	}

	overall := Aggregate(scores, e.policy.Weights)
	return &model.RiskAssessment{
		OverallScore: overall,
		RiskLevel:    Classify(overall, e.policy.Thresholds),
		Categories:   scores,
		AssessedAt:   now,
	}
}

func (e *Engine) category(c model.Category, factors []model.RiskFactor) model.RiskScore {
	score := decimal.Zero
	evaluatedMax := decimal.Zero
	for _, f := range factors {
		score = score.Add(decimal.NewFromFloat(f.Score))
		evaluatedMax = evaluatedMax.Add(decimal.NewFromFloat(f.MaxScore))
	}
	maxScore := decimal.NewFromInt(categoryMaxScore)
	if e.policy.MissingData == MissingDataNeutral {
		maxScore = evaluatedMax
	}
	if factors == nil {
		factors = []model.RiskFactor{}
	}
	return model.RiskScore{
		Category: c,
		Label:    c.Label(),
		Score:    score.InexactFloat64(),
		MaxScore: maxScore.InexactFloat64(),
		Factors:  factors,
	}
}
