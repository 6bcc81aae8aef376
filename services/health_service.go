package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/repositories"
	"github.com/atlascrm/atlas_backend/utils"
)

// Client factor names
const (
	FactorProductUsage = "product_usage"
	FactorSupport      = "support"
	FactorContract     = "contract"
	FactorEngagement   = "engagement"
)

// DefaultClientWeights is the fallback weight map used when no
// client_health ScoringConfig record exists.
var DefaultClientWeights = map[string]float64{
	FactorProductUsage: 0.30,
	FactorSupport:      0.25,
	FactorContract:     0.25,
	FactorEngagement:   0.20,
}

const activityWindowDays = 30

// ClientFacts is everything one client scoring run aggregates. Factor
// scores are pure functions of these facts; only the trend step looks at
// the previously persisted score.
type ClientFacts struct {
	Client          models.Client
	ActiveContracts int
	RecentActivity  int // activities inside the trailing window
	OpenTickets     int // support items not completed
	Onboarding      *models.Onboarding
}

// HealthService runs the client churn-risk and client health pipelines.
type HealthService struct {
	db      *mongo.Database
	scores  *repositories.ScoreRepository
	configs *repositories.ScoringConfigRepository
	cache   *redis.Client
	insight *InsightService
	email   *EmailService
	audit   *utils.AuditLogger
}

func NewHealthService(db *mongo.Database, cache *redis.Client, insight *InsightService, email *EmailService, audit *utils.AuditLogger) *HealthService {
	return &HealthService{
		db:      db,
		scores:  repositories.NewScoreRepository(db),
		configs: repositories.NewScoringConfigRepository(db),
		cache:   cache,
		insight: insight,
		email:   email,
		audit:   audit,
	}
}

// Factor policies. Each is a pure function of the aggregated window.

func ProductUsageScore(recentActivity int) float64 {
	return Clamp(float64(recentActivity) / 10.0 * 100)
}

func SupportScore(openTickets int) float64 {
	return Clamp(100 - float64(openTickets)*15)
}

func ContractScore(clientStatus string, activeContracts int) float64 {
	if clientStatus == models.ClientStatusCancelled {
		return 0
	}
	score := 100.0
	if clientStatus == models.ClientStatusPaused {
		score -= 40
	}
	if activeContracts == 0 {
		score -= 30
	}
	return Clamp(score)
}

func EngagementScore(onboarding *models.Onboarding) float64 {
	if onboarding == nil {
		return 70
	}
	switch onboarding.Status {
	case models.OnboardingCompleted:
		return 100
	case models.OnboardingDelayed:
		return 40
	default:
		return Clamp(60 + onboarding.ProgressPercentage*0.4)
	}
}

// ComputeClientFactors turns aggregated facts into the four named
// sub-scores.
func ComputeClientFactors(facts ClientFacts) map[string]float64 {
	return map[string]float64{
		FactorProductUsage: ProductUsageScore(facts.RecentActivity),
		FactorSupport:      SupportScore(facts.OpenTickets),
		FactorContract:     ContractScore(facts.Client.Status, facts.ActiveContracts),
		FactorEngagement:   EngagementScore(facts.Onboarding),
	}
}

// aggregateClientFacts fetches the scoring window for one client. The
// client itself is the primary fetch; the secondary counts run in
// parallel and degrade to zero values on failure instead of aborting the
// run.
func (s *HealthService) aggregateClientFacts(ctx context.Context, clientID primitive.ObjectID) (*ClientFacts, error) {
	var client models.Client
	err := s.db.Collection("clients").FindOne(ctx, bson.M{"_id": clientID}).Decode(&client)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%w: client %s", ErrNotFound, clientID.Hex())
	}
	if err != nil {
		return nil, err
	}

	facts := &ClientFacts{Client: client}
	windowStart := time.Now().AddDate(0, 0, -activityWindowDays)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.db.Collection("contracts").CountDocuments(gctx, bson.M{
			"clientId": clientID,
			"status":   models.ContractStatusActive,
		})
		if err != nil {
			log.Printf("contract count failed for client %s: %v", clientID.Hex(), err)
			return nil
		}
		facts.ActiveContracts = int(n)
		return nil
	})

	g.Go(func() error {
		n, err := s.db.Collection("activities").CountDocuments(gctx, bson.M{
			"clientId":  clientID,
			"createdAt": bson.M{"$gte": windowStart},
		})
		if err != nil {
			log.Printf("activity count failed for client %s: %v", clientID.Hex(), err)
			return nil
		}
		facts.RecentActivity = int(n)
		return nil
	})

	g.Go(func() error {
		n, err := s.db.Collection("tickets").CountDocuments(gctx, bson.M{
			"clientId": clientID,
			"status":   bson.M{"$ne": models.TicketStatusCompleted},
		})
		if err != nil {
			log.Printf("ticket count failed for client %s: %v", clientID.Hex(), err)
			return nil
		}
		facts.OpenTickets = int(n)
		return nil
	})

	g.Go(func() error {
		var onboarding models.Onboarding
		err := s.db.Collection("onboardings").FindOne(gctx, bson.M{"clientId": clientID}).Decode(&onboarding)
		if err != nil {
			if err != mongo.ErrNoDocuments {
				log.Printf("onboarding fetch failed for client %s: %v", clientID.Hex(), err)
			}
			return nil
		}
		facts.Onboarding = &onboarding
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return facts, nil
}

func (s *HealthService) clientWeights(ctx context.Context) map[string]float64 {
	cfg, err := s.configs.FindByKind(ctx, models.ScoringKindClientHealth)
	if err != nil {
		log.Printf("scoring config fetch failed, using default client weights: %v", err)
		return DefaultClientWeights
	}
	if cfg == nil || len(cfg.Weights) == 0 {
		return DefaultClientWeights
	}
	return cfg.Weights
}

// buildRiskFactors translates low sub-scores into the free-text risk
// factors and recommendations the stored record carries.
func buildRiskFactors(facts ClientFacts, factors map[string]float64) ([]string, []string) {
	riskFactors := []string{}
	recommendations := []string{}

	if facts.Client.Status == models.ClientStatusCancelled {
		riskFactors = append(riskFactors, "client is cancelled")
	} else if facts.Client.Status == models.ClientStatusPaused {
		riskFactors = append(riskFactors, "client is paused")
		recommendations = append(recommendations, "schedule a reactivation call")
	}
	if facts.ActiveContracts == 0 {
		riskFactors = append(riskFactors, "no active contracts")
		recommendations = append(recommendations, "review contract renewal options")
	}
	if factors[FactorProductUsage] < 50 {
		riskFactors = append(riskFactors, "low product usage in the last 30 days")
		recommendations = append(recommendations, "offer a product walkthrough session")
	}
	if factors[FactorSupport] < 55 {
		riskFactors = append(riskFactors, "open support tickets accumulating")
		recommendations = append(recommendations, "prioritize pending support tickets")
	}
	if facts.Onboarding != nil && facts.Onboarding.Status == models.OnboardingDelayed {
		riskFactors = append(riskFactors, "onboarding is delayed")
		recommendations = append(recommendations, "unblock the onboarding plan")
	}

	return riskFactors, recommendations
}

// CalculateClientHealth runs the full client health pipeline: aggregate,
// score, combine, classify, trend, persist. Identical input facts yield
// an identical score and status on every run.
func (s *HealthService) CalculateClientHealth(ctx context.Context, actorID, clientID string) (*models.ClientHealthScore, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidArgument)
	}
	objID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid clientId format", ErrInvalidArgument)
	}

	facts, err := s.aggregateClientFacts(ctx, objID)
	if err != nil {
		return nil, err
	}

	factorScores := ComputeClientFactors(*facts)
	weights := s.clientWeights(ctx)

	overall, err := WeightedOverall(factorScores, weights)
	if err != nil {
		return nil, err
	}

	status := ClassifyBands(overall, []Band{
		{Below: 50, Status: models.HealthStatusCritical},
		{Below: 70, Status: models.HealthStatusAtRisk},
	}, models.HealthStatusHealthy)

	// Previous record is an optional fetch: its failure degrades the
	// trend to stable rather than aborting the run.
	var previous *float64
	prior, err := s.scores.FindClientHealth(ctx, objID)
	if err != nil {
		log.Printf("previous health score fetch failed for client %s: %v", clientID, err)
	} else if prior != nil {
		previous = &prior.OverallScore
	}

	riskFactors, recommendations := buildRiskFactors(*facts, factorScores)

	score := &models.ClientHealthScore{
		ClientID:        objID,
		OverallScore:    overall,
		HealthStatus:    status,
		FactorScores:    factorScores,
		Trend:           Trend(previous, overall),
		PreviousScore:   previous,
		RiskFactors:     riskFactors,
		Recommendations: recommendations,
		AIInsight:       s.generateInsight(ctx, facts.Client, overall, status, riskFactors),
		CalculatedAt:    time.Now(),
	}

	if err := s.scores.UpsertClientHealth(ctx, score); err != nil {
		return nil, err
	}

	s.cacheScore("client_health", clientID, overall)
	s.audit.Record("client_health.calculated", actorID, clientID, bson.M{
		"overallScore": overall,
		"healthStatus": status,
	})

	if status == models.HealthStatusCritical && s.email != nil {
		s.email.SendHealthAlert(facts.Client.Name, overall, riskFactors)
	}

	return score, nil
}

// CalculateChurnRisk runs the churn-risk instantiation over the same
// aggregated window. Higher score means higher risk.
func (s *HealthService) CalculateChurnRisk(ctx context.Context, actorID, clientID string) (*models.ChurnRiskScore, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidArgument)
	}
	objID, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid clientId format", ErrInvalidArgument)
	}

	facts, err := s.aggregateClientFacts(ctx, objID)
	if err != nil {
		return nil, err
	}

	factorScores := ComputeClientFactors(*facts)
	weights := s.clientWeights(ctx)

	overall, err := WeightedOverall(factorScores, weights)
	if err != nil {
		return nil, err
	}
	risk := Clamp(100 - overall)

	status := ClassifyBands(risk, []Band{
		{Below: 30, Status: models.ChurnRiskLow},
		{Below: 50, Status: models.ChurnRiskMedium},
	}, models.ChurnRiskHigh)

	var previous *float64
	prior, err := s.scores.FindChurnRisk(ctx, objID)
	if err != nil {
		log.Printf("previous churn risk fetch failed for client %s: %v", clientID, err)
	} else if prior != nil {
		previous = &prior.Score
	}

	riskFactors, _ := buildRiskFactors(*facts, factorScores)

	score := &models.ChurnRiskScore{
		ClientID:      objID,
		Score:         risk,
		Status:        status,
		Factors:       riskFactors,
		Trend:         RiskTrend(previous, risk),
		PreviousScore: previous,
		CalculatedAt:  time.Now(),
	}

	if err := s.scores.UpsertChurnRisk(ctx, score); err != nil {
		return nil, err
	}

	s.cacheScore("churn_risk", clientID, risk)
	s.audit.Record("churn_risk.calculated", actorID, clientID, bson.M{
		"score":  risk,
		"status": status,
	})

	return score, nil
}

// generateInsight asks the LLM for a short narrative. Any failure, or an
// unconfigured client, substitutes the placeholder text.
func (s *HealthService) generateInsight(ctx context.Context, client models.Client, overall float64, status string, riskFactors []string) string {
	if s.insight == nil {
		return InsightUnavailable
	}
	text, err := s.insight.GenerateClientInsight(ctx, client.Name, overall, status, riskFactors)
	if err != nil {
		log.Printf("AI insight generation failed for client %s: %v", client.ID.Hex(), err)
		return InsightUnavailable
	}
	return text
}

// cacheScore mirrors the latest overall score into Redis, best effort.
func (s *HealthService) cacheScore(kind, subjectID string, score float64) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	key := fmt.Sprintf("score:%s:%s", kind, subjectID)
	if err := s.cache.Set(ctx, key, score, time.Hour).Err(); err != nil {
		log.Printf("score cache write failed for %s: %v", key, err)
	}
}
